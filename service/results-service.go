package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"archersedge/cache"
	"archersedge/metrics"
	"archersedge/repository"
	"archersedge/scoring"
	"archersedge/utils"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompetitionOverview struct {
	Competition *repository.Competition
	Stats       scoring.CompetitionStats
}

type ResultsService struct {
	scorecardRepository   *repository.ScorecardRepository
	competitionRepository *repository.CompetitionRepository
	cachedDataRepository  *repository.CachedDataRepository
	profiles              scoring.ProfileSource
	snapshot              *cache.ProfileCache
	logger                *slog.Logger
}

// NewResultsService reads names from profiles and falls back to snapshot when
// the profile store fails.
func NewResultsService(db *gorm.DB, profiles scoring.ProfileSource, snapshot *cache.ProfileCache, logger *slog.Logger) *ResultsService {
	return &ResultsService{
		scorecardRepository:   repository.NewScorecardRepository(db),
		competitionRepository: repository.NewCompetitionRepository(db),
		cachedDataRepository:  repository.NewCachedDataRepository(db),
		profiles:              profiles,
		snapshot:              snapshot,
		logger:                logger,
	}
}

func (s *ResultsService) LoadScorecards(ctx context.Context, competitionId int) ([]scoring.ResultScorecard, error) {
	scorecards, err := s.scorecardRepository.GetForCompetition(competitionId)
	if err != nil {
		return nil, err
	}
	return utils.Map(scorecards, func(sc *repository.Scorecard) scoring.ResultScorecard {
		return sc.ToResult()
	}), nil
}

func (s *ResultsService) resolveProfiles(ctx context.Context) []scoring.Profile {
	var fallback scoring.ProfileSource
	if s.snapshot != nil {
		fallback = s.snapshot
	}
	return scoring.ResolveProfiles(ctx, countingSource{s.profiles}, fallback, s.logger)
}

// ComputeResults aggregates the competition from the stored scorecards.
func (s *ResultsService) ComputeResults(ctx context.Context, competitionId int) (*scoring.CompetitionResults, error) {
	if _, err := s.competitionRepository.GetById(competitionId); err != nil {
		return nil, err
	}
	scorecards, err := s.LoadScorecards(ctx, competitionId)
	if err != nil {
		return nil, err
	}
	profiles := s.resolveProfiles(ctx)
	timer := prometheus.NewTimer(metrics.ResultsAggregationDuration)
	results := scoring.AggregateResults(scorecards, profiles)
	timer.ObserveDuration()
	return &results, nil
}

// RefreshResults recomputes the competition and stores the snapshot.
func (s *ResultsService) RefreshResults(ctx context.Context, competitionId int) (*scoring.CompetitionResults, error) {
	results, err := s.ComputeResults(ctx, competitionId)
	if err != nil {
		metrics.ResultsRefreshCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	if err := s.cachedDataRepository.SaveResults(competitionId, results); err != nil {
		metrics.ResultsRefreshCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ResultsRefreshCounter.WithLabelValues("ok").Inc()
	return results, nil
}

// GetResults recomputes the competition from its scorecards and the current
// profiles on every load. The stored snapshot is only served when the
// recomputation fails for an existing competition.
func (s *ResultsService) GetResults(ctx context.Context, competitionId int) (*scoring.CompetitionResults, time.Time, error) {
	results, err := s.ComputeResults(ctx, competitionId)
	if err == nil {
		metrics.ResultsRefreshCounter.WithLabelValues("ok").Inc()
		if err := s.cachedDataRepository.SaveResults(competitionId, results); err != nil {
			s.logger.WarnContext(ctx, "could not store results snapshot",
				slog.Int("competition_id", competitionId),
				slog.Any("error", err),
			)
		}
		return results, time.Now(), nil
	}
	metrics.ResultsRefreshCounter.WithLabelValues("error").Inc()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, err
	}
	stored, timestamp, cacheErr := s.cachedDataRepository.GetLatestResults(competitionId)
	if cacheErr != nil {
		return nil, time.Time{}, err
	}
	s.logger.WarnContext(ctx, "serving stored results snapshot",
		slog.Int("competition_id", competitionId),
		slog.Time("stored_at", timestamp),
		slog.Any("error", err),
	)
	return stored, timestamp, nil
}

// Overview reports stats for every competition. One competition failing to
// load gets zeroed stats.
func (s *ResultsService) Overview(ctx context.Context) ([]CompetitionOverview, error) {
	competitions, err := s.competitionRepository.FindAll()
	if err != nil {
		return nil, err
	}
	ids := utils.Map(competitions, func(c *repository.Competition) int { return c.ID })
	stats := scoring.CollectCompetitionStats(ctx, ids, s, s.logger)
	return utils.Map(competitions, func(c *repository.Competition) CompetitionOverview {
		return CompetitionOverview{Competition: c, Stats: stats[c.ID]}
	}), nil
}

// RefreshProfileSnapshot copies the current profiles into the snapshot cache.
func (s *ResultsService) RefreshProfileSnapshot(ctx context.Context) (int, error) {
	if s.snapshot == nil {
		return 0, errors.New("no profile snapshot cache configured")
	}
	profiles, err := s.profiles.Profiles(ctx)
	if err != nil {
		return 0, err
	}
	metrics.ProfileSnapshotSizeGauge.Set(float64(len(profiles)))
	if err := s.snapshot.Store(ctx, profiles); err != nil {
		s.logger.WarnContext(ctx, "profile snapshot kept in memory only", slog.Any("error", err))
	}
	return len(profiles), nil
}

// countingSource counts the lookups that will fall back to the snapshot.
type countingSource struct {
	scoring.ProfileSource
}

func (c countingSource) Profiles(ctx context.Context) ([]scoring.Profile, error) {
	profiles, err := c.ProfileSource.Profiles(ctx)
	if err != nil {
		metrics.ProfileFallbackCounter.Inc()
	}
	return profiles, err
}
