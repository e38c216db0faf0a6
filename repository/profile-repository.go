package repository

import (
	"strings"
	"time"

	"archersedge/scoring"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Role string

const (
	RoleArcher Role = "archer"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

type Profile struct {
	ID                    int       `gorm:"primaryKey"`
	FirstName             string    `gorm:"not null"`
	LastName              string    `gorm:"not null"`
	Gender                string    `gorm:"not null;default:''"`
	School                string    `gorm:"not null;default:'';index"`
	DefaultClassification string    `gorm:"not null;default:''"`
	Role                  Role      `gorm:"not null;default:'archer'"`
	IsMe                  bool      `gorm:"not null;default:false"`
	IsFavorite            bool      `gorm:"not null;default:false"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Profile) Division() string {
	return scoring.DeriveDivision(p.Gender, p.DefaultClassification)
}

func (p *Profile) ToScoring() scoring.Profile {
	return scoring.Profile{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		School:    p.School,
	}
}

func (p *Profile) ToBaleArcher() scoring.BaleArcher {
	return scoring.BaleArcher{
		ID:             p.ID,
		Name:           p.FullName(),
		School:         p.School,
		Gender:         p.Gender,
		Classification: p.DefaultClassification,
	}
}

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindAll() ([]*Profile, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("FindAllProfiles"))
	defer timer.ObserveDuration()
	profiles := make([]*Profile, 0)
	result := r.DB.Order("last_name, first_name, id").Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (r *ProfileRepository) GetById(profileId int) (*Profile, error) {
	var profile Profile
	result := r.DB.First(&profile, profileId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &profile, nil
}

// GetByIds returns the profiles in the order of profileIds, skipping unknown ids.
func (r *ProfileRepository) GetByIds(profileIds []int) ([]*Profile, error) {
	profiles := make([]*Profile, 0)
	if len(profileIds) == 0 {
		return profiles, nil
	}
	result := r.DB.Find(&profiles, "id IN ?", profileIds)
	if result.Error != nil {
		return nil, result.Error
	}
	byId := make(map[int]*Profile, len(profiles))
	for _, p := range profiles {
		byId[p.ID] = p
	}
	ordered := make([]*Profile, 0, len(profiles))
	for _, id := range profileIds {
		if p, ok := byId[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (r *ProfileRepository) Save(profile *Profile) (*Profile, error) {
	result := r.DB.Save(profile)
	if result.Error != nil {
		return nil, result.Error
	}
	return profile, nil
}

// Import upserts profiles matched on name and school.
func (r *ProfileRepository) Import(profiles []*Profile) ([]*Profile, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, profile := range profiles {
			var existing Profile
			err := tx.Where("lower(first_name) = lower(?) AND lower(last_name) = lower(?) AND lower(school) = lower(?)",
				profile.FirstName, profile.LastName, profile.School).First(&existing).Error
			if err == nil {
				profile.ID = existing.ID
				profile.Role = existing.Role
				profile.IsMe = existing.IsMe
				profile.IsFavorite = existing.IsFavorite
				profile.CreatedAt = existing.CreatedAt
			} else if err != gorm.ErrRecordNotFound {
				return err
			}
			if err := tx.Save(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *ProfileRepository) SetFavorite(profileId int, favorite bool) error {
	result := r.DB.Model(&Profile{}).Where("id = ?", profileId).Update("is_favorite", favorite)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAsMe flags a single profile as the device owner's own.
func (r *ProfileRepository) MarkAsMe(profileId int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Profile{}).Where("is_me = ?", true).Update("is_me", false).Error; err != nil {
			return err
		}
		result := tx.Model(&Profile{}).Where("id = ?", profileId).Update("is_me", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ProfileRepository) Delete(profileId int) error {
	result := r.DB.Delete(&Profile{}, profileId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProfileRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&Profile{}).Count(&count).Error
	return count, err
}
