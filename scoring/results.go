package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
)

const (
	DisplayVerified   = "verified"
	DisplayInProgress = "in_progress"
	DisplayNotStarted = "not_started"
)

// Profile is the part of an archer profile the results need for display.
type Profile struct {
	ID        int
	FirstName string
	LastName  string
	School    string
}

type ResultScorecard struct {
	ScorecardID      int    `json:"scorecardId"`
	ArcherID         int    `json:"archerId"`
	ArcherName       string `json:"archerName"`
	School           string `json:"school"`
	Division         string `json:"division"`
	Gender           string `json:"gender"`
	BaleNumber       int    `json:"baleNumber"`
	TargetAssignment string `json:"targetAssignment"`
	Status           string `json:"status"`
	Totals           Totals `json:"totals"`
}

type DivisionEntry struct {
	ResultScorecard
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	TotalScore    int    `json:"totalScore"`
	DisplayStatus string `json:"displayStatus"`
	CompletedEnds int    `json:"completedEnds"`
	Average       string `json:"average"`
}

type CompetitionResults struct {
	Rankings      []ResultScorecard          `json:"rankings"`
	Divisions     map[string][]DivisionEntry `json:"divisions"`
	DivisionOrder []string                   `json:"divisionOrder"`
	Stats         CompetitionStats           `json:"stats"`
}

type CompetitionStats struct {
	TotalArchers int     `json:"totalArchers"`
	TotalScore   int     `json:"totalScore"`
	AverageScore float64 `json:"averageScore"`
	MaxScore     int     `json:"maxScore"`
	MinScore     int     `json:"minScore"`
	HasScores    bool    `json:"hasScores"`
}

type ProfileSource interface {
	Profiles(ctx context.Context) ([]Profile, error)
}

type ScoreLoader interface {
	LoadScorecards(ctx context.Context, competitionID int) ([]ResultScorecard, error)
}

type ScoreLoaderFunc func(ctx context.Context, competitionID int) ([]ResultScorecard, error)

func (f ScoreLoaderFunc) LoadScorecards(ctx context.Context, competitionID int) ([]ResultScorecard, error) {
	return f(ctx, competitionID)
}

// AggregateResults ranks scorecards overall and per division. Ties keep their
// input order.
func AggregateResults(scorecards []ResultScorecard, profiles []Profile) CompetitionResults {
	profileMap := make(map[int]Profile, len(profiles))
	for _, profile := range profiles {
		profileMap[profile.ID] = profile
	}

	results := CompetitionResults{
		Rankings:      make([]ResultScorecard, len(scorecards)),
		Divisions:     make(map[string][]DivisionEntry),
		DivisionOrder: make([]string, 0),
		Stats:         ComputeStats(scorecards),
	}
	copy(results.Rankings, scorecards)
	sort.SliceStable(results.Rankings, func(i, j int) bool {
		return results.Rankings[i].Totals.TotalScore > results.Rankings[j].Totals.TotalScore
	})

	for _, scorecard := range scorecards {
		entry := enrich(scorecard, profileMap)
		division := scorecard.Division
		if division == "" {
			division = DivisionUnknown
		}
		if _, ok := results.Divisions[division]; !ok {
			results.DivisionOrder = append(results.DivisionOrder, division)
		}
		results.Divisions[division] = append(results.Divisions[division], entry)
	}
	for _, entries := range results.Divisions {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TotalScore > entries[j].TotalScore
		})
	}
	return results
}

func enrich(scorecard ResultScorecard, profiles map[int]Profile) DivisionEntry {
	entry := DivisionEntry{
		ResultScorecard: scorecard,
		TotalScore:      scorecard.Totals.TotalScore,
		DisplayStatus:   DisplayStatus(scorecard.Status, scorecard.Totals.TotalScore),
		// rough estimate assuming 30 points per end
		CompletedEnds: scorecard.Totals.TotalScore / 30,
		Average:       fmt.Sprintf("%.1f", float64(scorecard.Totals.TotalScore)/float64(EndsPerRound*ArrowsPerEnd)),
	}
	if profile, ok := profiles[scorecard.ArcherID]; ok {
		entry.FirstName = profile.FirstName
		entry.LastName = profile.LastName
		entry.School = profile.School
		return entry
	}
	entry.FirstName, entry.LastName = ParseArcherName(scorecard.ArcherName)
	entry.School = scorecard.School
	return entry
}

// ParseArcherName splits "First Last" into the first token and the rest.
func ParseArcherName(name string) (first string, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func DisplayStatus(status string, totalScore int) string {
	switch {
	case status == string(StatusVerified):
		return DisplayVerified
	case totalScore > 0:
		return DisplayInProgress
	default:
		return DisplayNotStarted
	}
}

func ComputeStats(scorecards []ResultScorecard) CompetitionStats {
	if len(scorecards) == 0 {
		return CompetitionStats{}
	}
	stats := CompetitionStats{
		TotalArchers: len(scorecards),
		MaxScore:     math.MinInt,
		MinScore:     math.MaxInt,
		HasScores:    true,
	}
	for _, scorecard := range scorecards {
		score := scorecard.Totals.TotalScore
		stats.TotalScore += score
		stats.MaxScore = max(stats.MaxScore, score)
		stats.MinScore = min(stats.MinScore, score)
	}
	stats.AverageScore = roundTo(float64(stats.TotalScore)/float64(stats.TotalArchers), 2)
	return stats
}

// CollectCompetitionStats computes stats per competition. A competition whose
// scores cannot be loaded gets zeroed stats; the others are unaffected.
func CollectCompetitionStats(ctx context.Context, competitionIDs []int, loader ScoreLoader, logger *slog.Logger) map[int]CompetitionStats {
	stats := make(map[int]CompetitionStats, len(competitionIDs))
	for _, competitionID := range competitionIDs {
		scorecards, err := loader.LoadScorecards(ctx, competitionID)
		if err != nil {
			logger.WarnContext(ctx, "could not load scores for competition",
				slog.Int("competition_id", competitionID),
				slog.Any("error", err),
			)
			stats[competitionID] = CompetitionStats{}
			continue
		}
		stats[competitionID] = ComputeStats(scorecards)
	}
	return stats
}

// ResolveProfiles reads profiles from primary and falls back to the snapshot
// source when that fails. It never returns an error.
func ResolveProfiles(ctx context.Context, primary ProfileSource, fallback ProfileSource, logger *slog.Logger) []Profile {
	profiles, err := primary.Profiles(ctx)
	if err == nil {
		return profiles
	}
	logger.WarnContext(ctx, "profile lookup failed, using snapshot", slog.Any("error", err))
	if fallback == nil {
		return []Profile{}
	}
	profiles, err = fallback.Profiles(ctx)
	if err != nil {
		logger.WarnContext(ctx, "profile snapshot unavailable", slog.Any("error", err))
		return []Profile{}
	}
	return profiles
}
