package service

import (
	"errors"
	"log/slog"
	"strings"

	"archersedge/app_error"
	"archersedge/repository"
	"archersedge/scoring"

	"gorm.io/gorm"
)

type CompetitionService struct {
	competitionRepository *repository.CompetitionRepository
	logger                *slog.Logger
}

func NewCompetitionService(db *gorm.DB, logger *slog.Logger) *CompetitionService {
	return &CompetitionService{
		competitionRepository: repository.NewCompetitionRepository(db),
		logger:                logger,
	}
}

func (s *CompetitionService) GetCompetitions() ([]*repository.Competition, error) {
	return s.competitionRepository.FindAll()
}

func (s *CompetitionService) GetCompetition(competitionId int) (*repository.Competition, error) {
	return s.competitionRepository.GetById(competitionId)
}

func (s *CompetitionService) CreateCompetition(competition *repository.Competition) (*repository.Competition, error) {
	competition.ID = 0
	competition.Name = strings.TrimSpace(competition.Name)
	if competition.Name == "" {
		return nil, app_error.New(400, errors.New("competition needs a name"))
	}
	if competition.Date.IsZero() {
		return nil, app_error.New(400, errors.New("competition needs a date"))
	}
	if competition.Type == "" {
		competition.Type = scoring.RoundTypeOAS
	}
	if competition.Status == "" {
		competition.Status = repository.CompetitionUpcoming
	}
	if competition.Divisions == nil {
		competition.Divisions = []string{}
	}
	if err := validateCompetitionStatus(competition.Status); err != nil {
		return nil, err
	}
	saved, err := s.competitionRepository.Save(competition)
	if err != nil {
		return nil, err
	}
	s.logger.Info("competition created", slog.Int("competition_id", saved.ID), slog.String("name", saved.Name))
	return saved, nil
}

func (s *CompetitionService) UpdateCompetition(competitionId int, update *repository.Competition) (*repository.Competition, error) {
	if update.Status != "" {
		if err := validateCompetitionStatus(update.Status); err != nil {
			return nil, err
		}
	}
	return s.competitionRepository.Update(competitionId, update)
}

func (s *CompetitionService) DeleteCompetition(competitionId int) error {
	return s.competitionRepository.Delete(competitionId)
}

func validateCompetitionStatus(status repository.CompetitionStatus) error {
	switch status {
	case repository.CompetitionUpcoming, repository.CompetitionActive, repository.CompetitionCompleted:
		return nil
	}
	return app_error.New(400, errors.New("unknown competition status "+string(status)))
}
