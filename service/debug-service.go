package service

import (
	"time"

	"archersedge/cache"
	"archersedge/repository"
	"archersedge/scoring"

	"gorm.io/gorm"
)

type StorageReport struct {
	Profiles             int64
	Competitions         int64
	Scorecards           map[scoring.ScorecardStatus]int64
	CachedResults        int64
	ProfileSnapshotSize  int
	ProfileSnapshotTaken time.Time
}

type DebugService struct {
	profileRepository     *repository.ProfileRepository
	competitionRepository *repository.CompetitionRepository
	scorecardRepository   *repository.ScorecardRepository
	cachedDataRepository  *repository.CachedDataRepository
	snapshot              *cache.ProfileCache
}

func NewDebugService(db *gorm.DB, snapshot *cache.ProfileCache) *DebugService {
	return &DebugService{
		profileRepository:     repository.NewProfileRepository(db),
		competitionRepository: repository.NewCompetitionRepository(db),
		scorecardRepository:   repository.NewScorecardRepository(db),
		cachedDataRepository:  repository.NewCachedDataRepository(db),
		snapshot:              snapshot,
	}
}

func (s *DebugService) StorageReport() (*StorageReport, error) {
	report := &StorageReport{}
	var err error
	if report.Profiles, err = s.profileRepository.Count(); err != nil {
		return nil, err
	}
	if report.Competitions, err = s.competitionRepository.Count(); err != nil {
		return nil, err
	}
	if report.Scorecards, err = s.scorecardRepository.CountByStatus(); err != nil {
		return nil, err
	}
	if report.CachedResults, err = s.cachedDataRepository.Count(); err != nil {
		return nil, err
	}
	if s.snapshot != nil {
		report.ProfileSnapshotSize = s.snapshot.Size()
		report.ProfileSnapshotTaken = s.snapshot.StoredAt()
	}
	return report, nil
}
