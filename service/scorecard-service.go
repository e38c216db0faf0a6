package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"archersedge/auth"
	"archersedge/metrics"
	"archersedge/repository"
	"archersedge/scoring"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

// VerifiedScorecardEvent is published on the verified scorecard topic.
type VerifiedScorecardEvent struct {
	ScorecardID   int       `json:"scorecardId"`
	ArcherID      int       `json:"archerId"`
	CompetitionID *int      `json:"competitionId"`
	TotalScore    int       `json:"totalScore"`
	VerifiedAt    time.Time `json:"verifiedAt"`
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ScoreChangeListener is called after a competition scorecard is written.
type ScoreChangeListener func(ctx context.Context, competitionId int)

// ScorecardView is a card together with its live totals.
type ScorecardView struct {
	*repository.Scorecard
	Complete       bool
	LiveTotals     scoring.Totals
	LiveSummaries  map[string]scoring.EndSummary
	RunningAverage string
}

type ScorecardService struct {
	scorecardRepository   *repository.ScorecardRepository
	profileRepository     *repository.ProfileRepository
	competitionRepository *repository.CompetitionRepository
	assignmentRepository  *repository.AssignmentRepository
	writer                MessageWriter
	listener              ScoreChangeListener
	logger                *slog.Logger
}

// NewScorecardService builds the service. A nil writer disables event publishing.
func NewScorecardService(db *gorm.DB, writer MessageWriter, logger *slog.Logger) *ScorecardService {
	return &ScorecardService{
		scorecardRepository:   repository.NewScorecardRepository(db),
		profileRepository:     repository.NewProfileRepository(db),
		competitionRepository: repository.NewCompetitionRepository(db),
		assignmentRepository:  repository.NewAssignmentRepository(db),
		writer:                writer,
		logger:                logger,
	}
}

// OnScoreChange registers the listener told about every started, scored or
// verified competition card. Practice rounds are not reported.
func (s *ScorecardService) OnScoreChange(listener ScoreChangeListener) *ScorecardService {
	s.listener = listener
	return s
}

func (s *ScorecardService) scoreChanged(ctx context.Context, scorecard *repository.Scorecard) {
	if s.listener != nil && scorecard.CompetitionID != nil {
		s.listener(ctx, *scorecard.CompetitionID)
	}
}

// StartScorecard opens a round for the archer. Starting a competition round a
// second time returns the existing card.
func (s *ScorecardService) StartScorecard(ctx context.Context, archerId int, competitionId *int) (*repository.Scorecard, error) {
	profile, err := s.profileRepository.GetById(archerId)
	if err != nil {
		return nil, err
	}
	competitionName := ""
	if competitionId != nil {
		existing, err := s.scorecardRepository.GetForArcherInCompetition(archerId, *competitionId)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		competition, err := s.competitionRepository.GetById(*competitionId)
		if err != nil {
			return nil, err
		}
		competitionName = competition.Name
	}

	card := scoring.NewScorecard(profile.ID, profile.FullName(), competitionId, competitionName)
	card.Gender = profile.Gender
	card.Division = profile.Division()
	card.School = profile.School
	if competitionId != nil {
		assignment, err := s.assignmentRepository.GetByCompetitionId(*competitionId)
		if err == nil {
			if bale, target, ok := assignment.SlotFor(archerId); ok {
				card.BaleNumber = bale
				card.TargetAssignment = target
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	saved, err := s.scorecardRepository.Save(repository.ScorecardFromDomain(card))
	if err != nil {
		return nil, err
	}
	kind := "competition"
	if card.IsPractice() {
		kind = "practice"
	}
	metrics.ScorecardsStartedCounter.WithLabelValues(kind).Inc()
	s.scoreChanged(ctx, saved)
	return saved, nil
}

func (s *ScorecardService) GetScorecard(scorecardId int) (*ScorecardView, error) {
	scorecard, err := s.scorecardRepository.GetById(scorecardId)
	if err != nil {
		return nil, err
	}
	return NewScorecardView(scorecard), nil
}

func NewScorecardView(scorecard *repository.Scorecard) *ScorecardView {
	card := scorecard.ToDomain()
	throughEnd := 0
	for _, end := range card.Ends {
		if end.ShotCount() > 0 && end.EndNumber > throughEnd {
			throughEnd = end.EndNumber
		}
	}
	return &ScorecardView{
		Scorecard:      scorecard,
		Complete:       card.IsComplete(),
		LiveTotals:     card.Totals(),
		LiveSummaries:  scoring.EndSummaries(card.Ends),
		RunningAverage: scoring.RunningAverage(card.Ends, throughEnd),
	}
}

// SetArrow writes one token. An empty token clears the slot.
func (s *ScorecardService) SetArrow(ctx context.Context, scorecardId int, endNumber int, slot int, rawToken string) (*ScorecardView, error) {
	token, err := scoring.ParseArrowToken(rawToken)
	if err != nil {
		return nil, err
	}
	scorecard, err := s.scorecardRepository.GetById(scorecardId)
	if err != nil {
		return nil, err
	}
	card := scorecard.ToDomain()
	if err := card.SetArrow(endNumber, slot, token); err != nil {
		return nil, err
	}
	row := repository.ScorecardFromDomain(card)
	row.CreatedAt = scorecard.CreatedAt
	saved, err := s.scorecardRepository.Save(row)
	if err != nil {
		return nil, err
	}
	metrics.ArrowsEnteredCounter.WithLabelValues(string(token)).Inc()
	s.scoreChanged(ctx, saved)
	return NewScorecardView(saved), nil
}

// VerifyScorecard freezes the card and announces it on the event stream. A
// failed publish is logged; the card stays verified.
func (s *ScorecardService) VerifyScorecard(ctx context.Context, scorecardId int, identity auth.Identity) (*ScorecardView, error) {
	scorecard, err := s.scorecardRepository.GetById(scorecardId)
	if err != nil {
		return nil, err
	}
	card := scorecard.ToDomain()
	if err := card.Verify(s.verifierName(identity), time.Now()); err != nil {
		return nil, err
	}
	row := repository.ScorecardFromDomain(card)
	row.CreatedAt = scorecard.CreatedAt
	saved, err := s.scorecardRepository.Save(row)
	if err != nil {
		return nil, err
	}
	metrics.ScorecardsVerifiedCounter.Inc()

	if err := s.publishVerified(ctx, saved); err != nil {
		metrics.VerifiedEventsPublishErrorCounter.Inc()
		s.logger.WarnContext(ctx, "could not publish verified scorecard",
			slog.Int("scorecard_id", saved.ID),
			slog.Any("error", err),
		)
	}
	s.scoreChanged(ctx, saved)
	return NewScorecardView(saved), nil
}

func (s *ScorecardService) verifierName(identity auth.Identity) string {
	if identity.ProfileID != 0 {
		if profile, err := s.profileRepository.GetById(identity.ProfileID); err == nil {
			return profile.FullName()
		}
	}
	return string(identity.Role)
}

func (s *ScorecardService) publishVerified(ctx context.Context, scorecard *repository.Scorecard) error {
	if s.writer == nil {
		return nil
	}
	event := VerifiedScorecardEvent{
		ScorecardID:   scorecard.ID,
		ArcherID:      scorecard.ArcherID,
		CompetitionID: scorecard.CompetitionID,
		TotalScore:    scorecard.TotalScore,
	}
	if scorecard.VerifiedAt != nil {
		event.VerifiedAt = *scorecard.VerifiedAt
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := "practice"
	if scorecard.CompetitionID != nil {
		key = strconv.Itoa(*scorecard.CompetitionID)
	}
	if err := s.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("error writing verified scorecard event: %w", err)
	}
	return nil
}

// GetHistory lists the archer's verified rounds, newest first.
func (s *ScorecardService) GetHistory(archerId int) ([]*repository.Scorecard, error) {
	if _, err := s.profileRepository.GetById(archerId); err != nil {
		return nil, err
	}
	return s.scorecardRepository.GetVerifiedForArcher(archerId)
}
