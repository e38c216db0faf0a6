package repository

import (
	"time"

	"archersedge/scoring"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Scorecard struct {
	ID               int                           `gorm:"primaryKey"`
	ArcherID         int                           `gorm:"not null;index"`
	ArcherName       string                        `gorm:"not null"`
	Gender           string                        `gorm:"not null;default:''"`
	Division         string                        `gorm:"not null;default:''"`
	School           string                        `gorm:"not null;default:''"`
	CompetitionID    *int                          `gorm:"index"`
	CompetitionName  string                        `gorm:"not null;default:''"`
	BaleNumber       int                           `gorm:"not null;default:0"`
	TargetAssignment string                        `gorm:"not null;default:''"`
	RoundType        string                        `gorm:"not null"`
	TotalEnds        int                           `gorm:"not null"`
	ArrowsPerEnd     int                           `gorm:"not null"`
	Ends             []scoring.End                 `gorm:"serializer:json;type:jsonb;not null"`
	EndSummaries     map[string]scoring.EndSummary `gorm:"serializer:json;type:jsonb"`
	Totals           scoring.Totals                `gorm:"serializer:json;type:jsonb;not null"`
	TotalScore       int                           `gorm:"not null;default:0;index"`
	Status           scoring.ScorecardStatus       `gorm:"not null;index"`
	VerifiedAt       *time.Time                    `gorm:"null"`
	VerifiedBy       string                        `gorm:"not null;default:''"`
	CreatedAt        time.Time                     `gorm:"not null"`
	UpdatedAt        time.Time                     `gorm:"not null"`
}

func (s *Scorecard) ToDomain() *scoring.Scorecard {
	return &scoring.Scorecard{
		ID:               s.ID,
		ArcherID:         s.ArcherID,
		ArcherName:       s.ArcherName,
		Gender:           s.Gender,
		Division:         s.Division,
		School:           s.School,
		CompetitionID:    s.CompetitionID,
		CompetitionName:  s.CompetitionName,
		BaleNumber:       s.BaleNumber,
		TargetAssignment: s.TargetAssignment,
		RoundType:        s.RoundType,
		TotalEnds:        s.TotalEnds,
		ArrowsPerEnd:     s.ArrowsPerEnd,
		Ends:             s.Ends,
		Status:           s.Status,
		VerifiedAt:       s.VerifiedAt,
		VerifiedBy:       s.VerifiedBy,
	}
}

// ToResult is the row shape the results aggregation reads.
func (s *Scorecard) ToResult() scoring.ResultScorecard {
	return scoring.ResultScorecard{
		ScorecardID:      s.ID,
		ArcherID:         s.ArcherID,
		ArcherName:       s.ArcherName,
		School:           s.School,
		Division:         s.Division,
		Gender:           s.Gender,
		BaleNumber:       s.BaleNumber,
		TargetAssignment: s.TargetAssignment,
		Status:           string(s.Status),
		Totals:           s.Totals,
	}
}

// ScorecardFromDomain builds the row for card, recomputing the stored totals.
func ScorecardFromDomain(card *scoring.Scorecard) *Scorecard {
	totals := card.Totals()
	return &Scorecard{
		ID:               card.ID,
		ArcherID:         card.ArcherID,
		ArcherName:       card.ArcherName,
		Gender:           card.Gender,
		Division:         card.Division,
		School:           card.School,
		CompetitionID:    card.CompetitionID,
		CompetitionName:  card.CompetitionName,
		BaleNumber:       card.BaleNumber,
		TargetAssignment: card.TargetAssignment,
		RoundType:        card.RoundType,
		TotalEnds:        card.TotalEnds,
		ArrowsPerEnd:     card.ArrowsPerEnd,
		Ends:             card.Ends,
		EndSummaries:     scoring.EndSummaries(card.Ends),
		Totals:           totals,
		TotalScore:       totals.TotalScore,
		Status:           card.Status,
		VerifiedAt:       card.VerifiedAt,
		VerifiedBy:       card.VerifiedBy,
	}
}

type ScorecardRepository struct {
	DB *gorm.DB
}

func NewScorecardRepository(db *gorm.DB) *ScorecardRepository {
	return &ScorecardRepository{DB: db}
}

func (r *ScorecardRepository) GetById(scorecardId int) (*Scorecard, error) {
	var scorecard Scorecard
	result := r.DB.First(&scorecard, scorecardId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &scorecard, nil
}

func (r *ScorecardRepository) Save(scorecard *Scorecard) (*Scorecard, error) {
	result := r.DB.Save(scorecard)
	if result.Error != nil {
		return nil, result.Error
	}
	return scorecard, nil
}

func (r *ScorecardRepository) GetForCompetition(competitionId int) ([]*Scorecard, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetScorecardsForCompetition"))
	defer timer.ObserveDuration()
	scorecards := make([]*Scorecard, 0)
	result := r.DB.Where("competition_id = ?", competitionId).Order("id").Find(&scorecards)
	if result.Error != nil {
		return nil, result.Error
	}
	return scorecards, nil
}

func (r *ScorecardRepository) GetForArcherInCompetition(archerId int, competitionId int) (*Scorecard, error) {
	var scorecard Scorecard
	result := r.DB.First(&scorecard, "archer_id = ? AND competition_id = ?", archerId, competitionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &scorecard, nil
}

// GetVerifiedForArcher returns the archer's verified rounds, newest first.
func (r *ScorecardRepository) GetVerifiedForArcher(archerId int) ([]*Scorecard, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetVerifiedForArcher"))
	defer timer.ObserveDuration()
	scorecards := make([]*Scorecard, 0)
	result := r.DB.Where("archer_id = ? AND status = ?", archerId, scoring.StatusVerified).
		Order("verified_at DESC, id DESC").Find(&scorecards)
	if result.Error != nil {
		return nil, result.Error
	}
	return scorecards, nil
}

func (r *ScorecardRepository) CountByStatus() (map[scoring.ScorecardStatus]int64, error) {
	type row struct {
		Status scoring.ScorecardStatus
		Count  int64
	}
	rows := make([]row, 0)
	err := r.DB.Model(&Scorecard{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[scoring.ScorecardStatus]int64, len(rows))
	for _, c := range rows {
		counts[c.Status] = c.Count
	}
	return counts, nil
}
