package scoring

import (
	"errors"
	"fmt"
	"time"
)

type ScorecardStatus string

const (
	StatusInProgress ScorecardStatus = "in_progress"
	StatusComplete   ScorecardStatus = "complete"
	StatusVerified   ScorecardStatus = "verified"
)

var (
	ErrScorecardVerified   = errors.New("scorecard is already verified")
	ErrScorecardIncomplete = errors.New("scorecard is not complete")
	ErrInvalidEnd          = errors.New("invalid end number")
	ErrInvalidSlot         = errors.New("invalid arrow slot")
)

// Scorecard is one archer's record for one round. A nil CompetitionID marks a
// practice round.
type Scorecard struct {
	ID               int
	ArcherID         int
	ArcherName       string
	Gender           string
	Division         string
	School           string
	CompetitionID    *int
	CompetitionName  string
	BaleNumber       int
	TargetAssignment string
	RoundType        string
	TotalEnds        int
	ArrowsPerEnd     int
	Ends             []End
	Status           ScorecardStatus
	VerifiedAt       *time.Time
	VerifiedBy       string
}

func NewScorecard(archerID int, archerName string, competitionID *int, competitionName string) *Scorecard {
	return &Scorecard{
		ArcherID:        archerID,
		ArcherName:      archerName,
		CompetitionID:   competitionID,
		CompetitionName: competitionName,
		RoundType:       RoundTypeOAS,
		TotalEnds:       EndsPerRound,
		ArrowsPerEnd:    ArrowsPerEnd,
		Ends:            EmptyEnds(),
		Status:          StatusInProgress,
	}
}

func (s *Scorecard) IsPractice() bool {
	return s.CompetitionID == nil
}

func (s *Scorecard) Totals() Totals {
	return FinalTotals(s.Ends)
}

func (s *Scorecard) IsComplete() bool {
	return IsComplete(s.Ends)
}

// SetArrow records a token in the given end (1-based) and slot (1-based).
// Passing Empty clears the slot.
func (s *Scorecard) SetArrow(endNumber int, slot int, token ArrowToken) error {
	if s.Status == StatusVerified {
		return ErrScorecardVerified
	}
	if endNumber < 1 || endNumber > EndsPerRound {
		return fmt.Errorf("%w: %d", ErrInvalidEnd, endNumber)
	}
	if slot < 1 || slot > ArrowsPerEnd {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s.ensureEnds()
	for i := range s.Ends {
		if s.Ends[i].EndNumber == endNumber {
			s.Ends[i].Arrows[slot-1] = token
			break
		}
	}
	s.refreshStatus()
	return nil
}

// Verify freezes a complete scorecard. There is no way back from verified.
func (s *Scorecard) Verify(verifiedBy string, now time.Time) error {
	if s.Status == StatusVerified {
		return ErrScorecardVerified
	}
	if !s.IsComplete() {
		return ErrScorecardIncomplete
	}
	s.Status = StatusVerified
	s.VerifiedAt = &now
	s.VerifiedBy = verifiedBy
	return nil
}

func (s *Scorecard) refreshStatus() {
	if s.IsComplete() {
		s.Status = StatusComplete
	} else {
		s.Status = StatusInProgress
	}
}

// ensureEnds fills in any end that is missing from a partially loaded card.
func (s *Scorecard) ensureEnds() {
	present := make(map[int]bool, len(s.Ends))
	for _, end := range s.Ends {
		present[end.EndNumber] = true
	}
	for n := 1; n <= EndsPerRound; n++ {
		if !present[n] {
			s.Ends = append(s.Ends, End{EndNumber: n})
		}
	}
}
