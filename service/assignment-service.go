package service

import (
	"fmt"
	"log/slog"

	"archersedge/app_error"
	"archersedge/metrics"
	"archersedge/repository"
	"archersedge/scoring"
	"archersedge/utils"

	"gorm.io/gorm"
)

type AssignmentRequest struct {
	AssignmentType    scoring.AssignmentType      `json:"assignmentType" binding:"required"`
	ArcherIDs         []int                       `json:"archerIds" binding:"required"`
	NumberOfBales     int                         `json:"numberOfBales" binding:"required"`
	MaxArchersPerBale int                         `json:"maxArchersPerBale" binding:"required"`
	Status            repository.AssignmentStatus `json:"status"`
}

type AssignmentService struct {
	assignmentRepository  *repository.AssignmentRepository
	profileRepository     *repository.ProfileRepository
	competitionRepository *repository.CompetitionRepository
	logger                *slog.Logger
}

func NewAssignmentService(db *gorm.DB, logger *slog.Logger) *AssignmentService {
	return &AssignmentService{
		assignmentRepository:  repository.NewAssignmentRepository(db),
		profileRepository:     repository.NewProfileRepository(db),
		competitionRepository: repository.NewCompetitionRepository(db),
		logger:                logger,
	}
}

func (s *AssignmentService) GetAssignment(competitionId int) (*repository.EventAssignment, error) {
	return s.assignmentRepository.GetByCompetitionId(competitionId)
}

// GenerateAssignment checks capacity, builds the bales from the selected
// profiles and replaces the competition's assignment.
func (s *AssignmentService) GenerateAssignment(competitionId int, request AssignmentRequest, createdBy int) (*repository.EventAssignment, error) {
	if _, err := s.competitionRepository.GetById(competitionId); err != nil {
		return nil, err
	}
	switch request.AssignmentType {
	case scoring.AssignmentSchool, scoring.AssignmentSchoolVsSchool, scoring.AssignmentMixed:
	default:
		return nil, app_error.New(400, fmt.Errorf("unknown assignment type %q", request.AssignmentType))
	}
	if request.Status == "" {
		request.Status = repository.AssignmentDraft
	}
	if request.Status != repository.AssignmentDraft && request.Status != repository.AssignmentPublished {
		return nil, app_error.New(400, fmt.Errorf("unknown assignment status %q", request.Status))
	}

	archerIds := utils.Uniques(request.ArcherIDs)
	if err := scoring.ValidateBaleCapacity(len(archerIds), request.NumberOfBales, request.MaxArchersPerBale); err != nil {
		return nil, err
	}
	profiles, err := s.profileRepository.GetByIds(archerIds)
	if err != nil {
		return nil, err
	}
	if len(profiles) != len(archerIds) {
		return nil, app_error.New(400, fmt.Errorf("%d of the selected archers do not exist", len(archerIds)-len(profiles)))
	}

	bales := scoring.GenerateBales(
		utils.Map(profiles, func(p *repository.Profile) scoring.BaleArcher { return p.ToBaleArcher() }),
		request.AssignmentType,
		request.NumberOfBales,
		request.MaxArchersPerBale,
	)
	metrics.BalesGeneratedCounter.Add(float64(len(bales)))

	ids := make([]int64, len(archerIds))
	for i, id := range archerIds {
		ids[i] = int64(id)
	}
	assignment, err := s.assignmentRepository.Upsert(&repository.EventAssignment{
		CompetitionID:     competitionId,
		AssignmentType:    request.AssignmentType,
		ArcherIDs:         ids,
		NumberOfBales:     request.NumberOfBales,
		MaxArchersPerBale: request.MaxArchersPerBale,
		Bales:             bales,
		Status:            request.Status,
		CreatedBy:         createdBy,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("bales generated",
		slog.Int("competition_id", competitionId),
		slog.Int("archers", len(archerIds)),
		slog.Int("bales", len(bales)),
	)
	return assignment, nil
}
