package repository

import (
	"encoding/json"
	"time"

	"archersedge/scoring"

	"gorm.io/gorm"
)

type CacheKey int

const (
	Results CacheKey = 1
)

type CachedData struct {
	Key           CacheKey  `gorm:"primaryKey"`
	CompetitionID int       `gorm:"primaryKey"`
	Data          []byte    `gorm:"not null"`
	Timestamp     time.Time `gorm:"not null"`
}

type CachedDataRepository struct {
	DB *gorm.DB
}

func NewCachedDataRepository(db *gorm.DB) *CachedDataRepository {
	return &CachedDataRepository{DB: db}
}

func (r *CachedDataRepository) GetLatestResults(competitionId int) (*scoring.CompetitionResults, time.Time, error) {
	var data CachedData
	result := r.DB.First(&data, CachedData{Key: Results, CompetitionID: competitionId})
	if result.Error != nil {
		return nil, time.Time{}, result.Error
	}
	var results scoring.CompetitionResults
	if err := json.Unmarshal(data.Data, &results); err != nil {
		return nil, time.Time{}, err
	}
	return &results, data.Timestamp, nil
}

func (r *CachedDataRepository) SaveResults(competitionId int, results *scoring.CompetitionResults) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return r.DB.Save(&CachedData{
		Key:           Results,
		CompetitionID: competitionId,
		Data:          data,
		Timestamp:     time.Now(),
	}).Error
}

func (r *CachedDataRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&CachedData{}).Count(&count).Error
	return count, err
}
