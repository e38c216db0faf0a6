package repository

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CompetitionStatus string

const (
	CompetitionUpcoming  CompetitionStatus = "upcoming"
	CompetitionActive    CompetitionStatus = "active"
	CompetitionCompleted CompetitionStatus = "completed"
)

type Competition struct {
	ID        int               `gorm:"primaryKey"`
	Name      string            `gorm:"not null"`
	Date      time.Time         `gorm:"not null;index"`
	Location  string            `gorm:"not null;default:''"`
	Type      string            `gorm:"not null;default:'OAS'"`
	Divisions pq.StringArray    `gorm:"not null;type:text[]"`
	Status    CompetitionStatus `gorm:"not null;default:'upcoming'"`
	CreatedBy int               `gorm:"not null;default:0"`
	CreatedAt time.Time         `gorm:"not null"`
	UpdatedAt time.Time         `gorm:"not null"`
}

type CompetitionRepository struct {
	DB *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *CompetitionRepository {
	return &CompetitionRepository{DB: db}
}

func (r *CompetitionRepository) FindAll() ([]*Competition, error) {
	competitions := make([]*Competition, 0)
	result := r.DB.Order("date DESC, id").Find(&competitions)
	if result.Error != nil {
		return nil, result.Error
	}
	return competitions, nil
}

func (r *CompetitionRepository) FindByStatus(statuses ...CompetitionStatus) ([]*Competition, error) {
	competitions := make([]*Competition, 0)
	result := r.DB.Where("status IN ?", statuses).Order("date DESC, id").Find(&competitions)
	if result.Error != nil {
		return nil, result.Error
	}
	return competitions, nil
}

func (r *CompetitionRepository) GetById(competitionId int) (*Competition, error) {
	var competition Competition
	result := r.DB.First(&competition, competitionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &competition, nil
}

func (r *CompetitionRepository) Save(competition *Competition) (*Competition, error) {
	result := r.DB.Save(competition)
	if result.Error != nil {
		return nil, result.Error
	}
	return competition, nil
}

func (r *CompetitionRepository) Update(competitionId int, update *Competition) (*Competition, error) {
	competition, err := r.GetById(competitionId)
	if err != nil {
		return nil, err
	}
	if update.Name != "" {
		competition.Name = update.Name
	}
	if !update.Date.IsZero() {
		competition.Date = update.Date
	}
	if update.Location != "" {
		competition.Location = update.Location
	}
	if update.Type != "" {
		competition.Type = update.Type
	}
	if update.Divisions != nil {
		competition.Divisions = update.Divisions
	}
	if update.Status != "" {
		competition.Status = update.Status
	}
	return r.Save(competition)
}

func (r *CompetitionRepository) Delete(competitionId int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&EventAssignment{}, "competition_id = ?", competitionId).Error; err != nil {
			return err
		}
		if err := tx.Delete(&CachedData{}, "competition_id = ?", competitionId).Error; err != nil {
			return err
		}
		result := tx.Delete(&Competition{}, competitionId)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *CompetitionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&Competition{}).Count(&count).Error
	return count, err
}
