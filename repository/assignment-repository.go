package repository

import (
	"time"

	"archersedge/scoring"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentStatus string

const (
	AssignmentDraft     AssignmentStatus = "draft"
	AssignmentPublished AssignmentStatus = "published"
)

type EventAssignment struct {
	ID                int                    `gorm:"primaryKey"`
	CompetitionID     int                    `gorm:"not null;uniqueIndex"`
	AssignmentType    scoring.AssignmentType `gorm:"not null"`
	ArcherIDs         pq.Int64Array          `gorm:"not null;type:integer[]"`
	NumberOfBales     int                    `gorm:"not null"`
	MaxArchersPerBale int                    `gorm:"not null"`
	Bales             []scoring.Bale         `gorm:"serializer:json;type:jsonb;not null"`
	Status            AssignmentStatus       `gorm:"not null;default:'draft'"`
	CreatedBy         int                    `gorm:"not null;default:0"`
	CreatedAt         time.Time              `gorm:"not null"`
	UpdatedAt         time.Time              `gorm:"not null"`
}

// SlotFor finds the bale and target of an archer in this assignment.
func (a *EventAssignment) SlotFor(archerId int) (baleNumber int, target string, ok bool) {
	for _, bale := range a.Bales {
		for _, slot := range bale.Archers {
			if slot.ArcherID == archerId {
				return bale.BaleNumber, slot.Target, true
			}
		}
	}
	return 0, "", false
}

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) GetByCompetitionId(competitionId int) (*EventAssignment, error) {
	var assignment EventAssignment
	result := r.DB.First(&assignment, "competition_id = ?", competitionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &assignment, nil
}

// Upsert replaces the assignment of the competition.
func (r *AssignmentRepository) Upsert(assignment *EventAssignment) (*EventAssignment, error) {
	result := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "competition_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"assignment_type", "archer_ids", "number_of_bales", "max_archers_per_bale", "bales", "status", "created_by", "updated_at",
		}),
	}).Create(assignment)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.GetByCompetitionId(assignment.CompetitionID)
}

func (r *AssignmentRepository) Delete(competitionId int) error {
	return r.DB.Delete(&EventAssignment{}, "competition_id = ?", competitionId).Error
}
