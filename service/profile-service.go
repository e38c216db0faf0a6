package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"archersedge/app_error"
	"archersedge/auth"
	"archersedge/parser"
	"archersedge/repository"
	"archersedge/scoring"
	"archersedge/utils"

	"gorm.io/gorm"
)

type ProfileService struct {
	profileRepository *repository.ProfileRepository
	logger            *slog.Logger
}

func NewProfileService(db *gorm.DB, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profileRepository: repository.NewProfileRepository(db),
		logger:            logger,
	}
}

func (s *ProfileService) GetProfiles() ([]*repository.Profile, error) {
	return s.profileRepository.FindAll()
}

func (s *ProfileService) GetProfile(profileId int) (*repository.Profile, error) {
	return s.profileRepository.GetById(profileId)
}

// Profiles serves the results aggregation.
func (s *ProfileService) Profiles(ctx context.Context) ([]scoring.Profile, error) {
	profiles, err := s.profileRepository.FindAll()
	if err != nil {
		return nil, err
	}
	return utils.Map(profiles, func(p *repository.Profile) scoring.Profile {
		return p.ToScoring()
	}), nil
}

func (s *ProfileService) SaveProfile(profile *repository.Profile) (*repository.Profile, error) {
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	if profile.FirstName == "" && profile.LastName == "" {
		return nil, app_error.New(400, errors.New("profile needs a name"))
	}
	profile.Gender = parser.NormalizeGender(profile.Gender)
	profile.DefaultClassification = parser.NormalizeClassification(profile.DefaultClassification)
	if profile.Role == "" {
		profile.Role = repository.RoleArcher
	}
	if !auth.Role(profile.Role).Valid() {
		return nil, app_error.New(400, errors.New("unknown role "+string(profile.Role)))
	}
	if profile.ID != 0 {
		existing, err := s.profileRepository.GetById(profile.ID)
		if err != nil {
			return nil, err
		}
		profile.CreatedAt = existing.CreatedAt
		profile.IsMe = existing.IsMe
	}
	return s.profileRepository.Save(profile)
}

// ImportRoster creates or updates a profile per roster row.
func (s *ProfileService) ImportRoster(r io.Reader) ([]*repository.Profile, error) {
	entries, err := parser.ParseRoster(r)
	if err != nil {
		return nil, app_error.New(400, err)
	}
	profiles := utils.Map(entries, func(e parser.RosterEntry) *repository.Profile {
		return &repository.Profile{
			FirstName:             e.FirstName,
			LastName:              e.LastName,
			Gender:                e.Gender,
			School:                e.School,
			DefaultClassification: e.Classification,
			Role:                  repository.RoleArcher,
		}
	})
	imported, err := s.profileRepository.Import(profiles)
	if err != nil {
		return nil, err
	}
	s.logger.Info("roster imported", slog.Int("profiles", len(imported)))
	return imported, nil
}

func (s *ProfileService) SetFavorite(profileId int, favorite bool) error {
	return s.profileRepository.SetFavorite(profileId, favorite)
}

func (s *ProfileService) DeleteProfile(profileId int) error {
	return s.profileRepository.Delete(profileId)
}

// SelectIdentity marks the profile as the caller's own and issues a token for it.
func (s *ProfileService) SelectIdentity(profileId int) (*repository.Profile, string, error) {
	profile, err := s.profileRepository.GetById(profileId)
	if err != nil {
		return nil, "", err
	}
	if err := s.profileRepository.MarkAsMe(profile.ID); err != nil {
		return nil, "", err
	}
	profile.IsMe = true
	token, err := auth.CreateToken(auth.Identity{ProfileID: profile.ID, Role: auth.Role(profile.Role)})
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}
