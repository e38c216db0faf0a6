package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"archersedge/scoring"
	"archersedge/service"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ResultsRefreshing interface {
	RefreshResults(ctx context.Context, competitionId int) (*scoring.CompetitionResults, error)
	RefreshProfileSnapshot(ctx context.Context) (int, error)
}

const defaultSnapshotInterval = 5 * time.Minute

type ResultsListener func(competitionId int, results *scoring.CompetitionResults)

// ResultsRefresher recomputes a competition's results whenever one of its
// scorecards is verified, and keeps the profile snapshot warm.
type ResultsRefresher struct {
	results  ResultsRefreshing
	reader   MessageReader
	interval time.Duration
	listener ResultsListener
	logger   *slog.Logger
}

// NewResultsRefresher builds the worker. A nil reader only runs the snapshot loop.
func NewResultsRefresher(results ResultsRefreshing, reader MessageReader, interval time.Duration, listener ResultsListener, logger *slog.Logger) *ResultsRefresher {
	if interval <= 0 {
		interval = defaultSnapshotInterval
	}
	return &ResultsRefresher{
		results:  results,
		reader:   reader,
		interval: interval,
		listener: listener,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (r *ResultsRefresher) Run(ctx context.Context) {
	if r.reader != nil {
		go r.consume(ctx)
	}
	r.refreshSnapshot(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshSnapshot(ctx)
		}
	}
}

func (r *ResultsRefresher) refreshSnapshot(ctx context.Context) {
	count, err := r.results.RefreshProfileSnapshot(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "profile snapshot refresh failed", slog.Any("error", err))
		return
	}
	r.logger.DebugContext(ctx, "profile snapshot refreshed", slog.Int("profiles", count))
}

func (r *ResultsRefresher) consume(ctx context.Context) {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.ErrorContext(ctx, "failed to fetch verified scorecard event", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if err := r.HandleMessage(ctx, msg); err != nil {
			r.logger.WarnContext(ctx, "could not refresh results",
				slog.Int64("offset", msg.Offset),
				slog.Any("error", err),
			)
		}
		if err := r.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			r.logger.WarnContext(ctx, "failed to commit offset", slog.Any("error", err))
		}
	}
}

// HandleMessage refreshes the results of the competition named in msg.
// Practice rounds carry no competition and are ignored.
func (r *ResultsRefresher) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event service.VerifiedScorecardEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return err
	}
	if event.CompetitionID == nil {
		return nil
	}
	results, err := r.results.RefreshResults(ctx, *event.CompetitionID)
	if err != nil {
		return err
	}
	if results == nil {
		return errors.New("no results computed")
	}
	if r.listener != nil {
		r.listener(*event.CompetitionID, results)
	}
	return nil
}
