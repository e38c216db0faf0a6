package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ArrowsEnteredCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "archers_arrows_entered_total",
	Help: "Number of arrow tokens written to scorecards",
}, []string{"token"})

var ScorecardsStartedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "archers_scorecards_started_total",
	Help: "Number of scorecards started, by round kind",
}, []string{"kind"})

var ScorecardsVerifiedCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "archers_scorecards_verified_total",
		Help: "Number of scorecards verified",
	},
)

var VerifiedEventsPublishErrorCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "archers_verified_events_publish_error_total",
		Help: "Number of verified scorecard events that could not be published",
	},
)

var BalesGeneratedCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "archers_bales_generated_total",
		Help: "Number of bales produced by assignment generation",
	},
)

var ResultsRefreshCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "archers_results_refresh_total",
	Help: "Number of results recomputations by outcome",
}, []string{"outcome"})

var ProfileSnapshotSizeGauge = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "archers_profile_snapshot_size",
		Help: "Number of profiles in the last stored snapshot",
	},
)

var ProfileFallbackCounter = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "archers_profile_fallback_total",
		Help: "Number of times results used the cached profile snapshot",
	},
)

var LiveResultSubscribersGauge = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "archers_live_result_subscribers",
		Help: "Number of open live result websocket connections",
	},
)

var ResultsAggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "archers_results_aggregation_duration_seconds",
	Help: "Duration of competition results aggregation",
	Buckets: []float64{
		0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
	},
})
