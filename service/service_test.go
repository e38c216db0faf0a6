package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"archersedge/auth"
	"archersedge/cache"
	"archersedge/config"
	"archersedge/repository"
	"archersedge/scoring"

	"github.com/ory/dockertest/v3"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var db *gorm.DB

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("Skipping database tests, could not construct pool: %s", err)
		os.Exit(0)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Printf("Skipping database tests, could not connect to Docker: %s", err)
		os.Exit(0)
	}
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "POSTGRES_DB=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600)
	dsn := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err := pool.Retry(func() error {
		var err error
		db, err = config.InitDB(dsn, repository.Models()...)
		return err
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}
	}()
	m.Run()
}

func tearDown() {
	db.Exec("DELETE FROM archers.scorecards")
	db.Exec("DELETE FROM archers.event_assignments")
	db.Exec("DELETE FROM archers.cached_data")
	db.Exec("DELETE FROM archers.competitions")
	db.Exec("DELETE FROM archers.profiles")
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

type brokenProfiles struct{}

func (brokenProfiles) Profiles(ctx context.Context) ([]scoring.Profile, error) {
	return nil, errors.New("profile store offline")
}

func seedRoster(t *testing.T, profiles *ProfileService) []*repository.Profile {
	roster := "first name,last name,gender,school,class\n" +
		"Ava,Lee,F,North,V\n" +
		"Bea,Moss,F,North,V\n" +
		"Cal,Nunn,M,North,V\n" +
		"Dan,Odom,M,North,V\n" +
		"Eve,Park,F,North,JV\n"
	imported, err := profiles.ImportRoster(strings.NewReader(roster))
	require.NoError(t, err)
	require.Len(t, imported, 5)
	return imported
}

func seedCompetition(t *testing.T) *repository.Competition {
	competition, err := NewCompetitionService(db, testLogger).CreateCompetition(&repository.Competition{
		Name: "Spring Open",
		Date: time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return competition
}

func shootFullRound(t *testing.T, scorecards *ScorecardService, scorecardId int, token string) *ScorecardView {
	var view *ScorecardView
	var err error
	for end := 1; end <= scoring.EndsPerRound; end++ {
		for slot := 1; slot <= scoring.ArrowsPerEnd; slot++ {
			view, err = scorecards.SetArrow(context.Background(), scorecardId, end, slot, token)
			require.NoError(t, err)
		}
	}
	return view
}

func TestAssignmentGeneration(t *testing.T) {
	defer tearDown()
	profiles := seedRoster(t, NewProfileService(db, testLogger))
	competition := seedCompetition(t)
	assignments := NewAssignmentService(db, testLogger)

	ids := []int{profiles[0].ID, profiles[1].ID, profiles[2].ID, profiles[3].ID, profiles[4].ID}
	assignment, err := assignments.GenerateAssignment(competition.ID, AssignmentRequest{
		AssignmentType:    scoring.AssignmentSchool,
		ArcherIDs:         ids,
		NumberOfBales:     3,
		MaxArchersPerBale: 4,
	}, 0)
	require.NoError(t, err)

	// GV has 2, BV has 2, GJV has a single archer and is dropped
	require.Len(t, assignment.Bales, 2)
	assert.Equal(t, repository.AssignmentDraft, assignment.Status)
	assert.Equal(t, "GV", assignment.Bales[0].Division)
	assert.Equal(t, 1, assignment.Bales[0].BaleNumber)
	assert.Equal(t, 2, assignment.Bales[1].BaleNumber)

	_, err = assignments.GenerateAssignment(competition.ID, AssignmentRequest{
		AssignmentType:    scoring.AssignmentMixed,
		ArcherIDs:         ids,
		NumberOfBales:     1,
		MaxArchersPerBale: 4,
	}, 0)
	assert.ErrorIs(t, err, scoring.ErrTooManyArchers)

	_, err = assignments.GenerateAssignment(competition.ID, AssignmentRequest{
		AssignmentType:    scoring.AssignmentMixed,
		ArcherIDs:         []int{profiles[0].ID, 424242},
		NumberOfBales:     1,
		MaxArchersPerBale: 4,
	}, 0)
	assert.Error(t, err)
}

func TestScorecardLifecycleAndResults(t *testing.T) {
	defer tearDown()
	profileService := NewProfileService(db, testLogger)
	profiles := seedRoster(t, profileService)
	competition := seedCompetition(t)
	_, err := NewAssignmentService(db, testLogger).GenerateAssignment(competition.ID, AssignmentRequest{
		AssignmentType:    scoring.AssignmentMixed,
		ArcherIDs:         []int{profiles[0].ID, profiles[1].ID},
		NumberOfBales:     1,
		MaxArchersPerBale: 4,
	}, 0)
	require.NoError(t, err)

	writer := &recordingWriter{}
	scorecards := NewScorecardService(db, writer, testLogger)
	card, err := scorecards.StartScorecard(context.Background(), profiles[0].ID, &competition.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, card.BaleNumber)
	assert.Equal(t, "A", card.TargetAssignment)
	assert.Equal(t, "GV", card.Division)

	again, err := scorecards.StartScorecard(context.Background(), profiles[0].ID, &competition.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, again.ID)

	_, err = scorecards.VerifyScorecard(context.Background(), card.ID, auth.Identity{Role: auth.RoleCoach})
	assert.ErrorIs(t, err, scoring.ErrScorecardIncomplete)

	view := shootFullRound(t, scorecards, card.ID, "9")
	assert.True(t, view.Complete)
	assert.Equal(t, 324, view.LiveTotals.TotalScore)
	assert.Equal(t, "9.0", view.RunningAverage)

	verified, err := scorecards.VerifyScorecard(context.Background(), card.ID, auth.Identity{ProfileID: profiles[1].ID, Role: auth.RoleArcher})
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusVerified, verified.Status)
	assert.Equal(t, "Bea Moss", verified.VerifiedBy)

	_, err = scorecards.SetArrow(context.Background(), card.ID, 1, 1, "X")
	assert.ErrorIs(t, err, scoring.ErrScorecardVerified)

	require.Len(t, writer.messages, 1)
	var event VerifiedScorecardEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, card.ID, event.ScorecardID)
	assert.Equal(t, 324, event.TotalScore)

	history, err := scorecards.GetHistory(profiles[0].ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	results := NewResultsService(db, profileService, cache.NewProfileCache(nil, time.Minute), testLogger)
	loaded, _, err := results.GetResults(context.Background(), competition.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Rankings, 1)
	assert.Equal(t, "Ava", loaded.Divisions["GV"][0].FirstName)
	assert.Equal(t, scoring.DisplayVerified, loaded.Divisions["GV"][0].DisplayStatus)
	assert.Equal(t, 324, loaded.Stats.MaxScore)
}

func TestResultsRecomputedOnEveryLoad(t *testing.T) {
	defer tearDown()
	ctx := context.Background()
	profileService := NewProfileService(db, testLogger)
	profiles := seedRoster(t, profileService)
	competition := seedCompetition(t)
	scorecards := NewScorecardService(db, nil, testLogger)
	results := NewResultsService(db, profileService, nil, testLogger)

	card, err := scorecards.StartScorecard(ctx, profiles[2].ID, &competition.ID)
	require.NoError(t, err)

	first, _, err := results.GetResults(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, first.Rankings, 1)
	assert.Equal(t, 0, first.Rankings[0].Totals.TotalScore)
	assert.Equal(t, scoring.DisplayNotStarted, first.Divisions["BV"][0].DisplayStatus)

	_, err = scorecards.SetArrow(ctx, card.ID, 1, 1, "X")
	require.NoError(t, err)
	_, err = scorecards.SetArrow(ctx, card.ID, 1, 2, "9")
	require.NoError(t, err)

	second, _, err := results.GetResults(ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, 19, second.Rankings[0].Totals.TotalScore)
	assert.Equal(t, 19, second.Stats.TotalScore)
	assert.Equal(t, scoring.DisplayInProgress, second.Divisions["BV"][0].DisplayStatus)

	renamed := *profiles[2]
	renamed.FirstName = "Calvin"
	_, err = profileService.SaveProfile(&renamed)
	require.NoError(t, err)

	third, _, err := results.GetResults(ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calvin", third.Divisions["BV"][0].FirstName)
	assert.Equal(t, 19, third.Divisions["BV"][0].TotalScore)

	late, err := scorecards.StartScorecard(ctx, profiles[0].ID, &competition.ID)
	require.NoError(t, err)
	_, err = scorecards.SetArrow(ctx, late.ID, 1, 1, "X")
	require.NoError(t, err)

	fourth, _, err := results.GetResults(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, fourth.Rankings, 2)
	assert.Equal(t, card.ID, fourth.Rankings[0].ScorecardID)
	assert.Equal(t, 29, fourth.Stats.TotalScore)
}

func TestGetResultsUnknownCompetition(t *testing.T) {
	defer tearDown()
	results := NewResultsService(db, NewProfileService(db, testLogger), nil, testLogger)
	_, _, err := results.GetResults(context.Background(), 424242)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScoreChangeListenerHearsCompetitionWrites(t *testing.T) {
	defer tearDown()
	ctx := context.Background()
	profiles := seedRoster(t, NewProfileService(db, testLogger))
	competition := seedCompetition(t)

	var changed []int
	scorecards := NewScorecardService(db, nil, testLogger).OnScoreChange(func(ctx context.Context, competitionId int) {
		changed = append(changed, competitionId)
	})

	card, err := scorecards.StartScorecard(ctx, profiles[0].ID, &competition.ID)
	require.NoError(t, err)
	_, err = scorecards.StartScorecard(ctx, profiles[0].ID, &competition.ID)
	require.NoError(t, err)
	_, err = scorecards.SetArrow(ctx, card.ID, 1, 1, "8")
	require.NoError(t, err)
	assert.Equal(t, []int{competition.ID, competition.ID}, changed)

	practice, err := scorecards.StartScorecard(ctx, profiles[1].ID, nil)
	require.NoError(t, err)
	_, err = scorecards.SetArrow(ctx, practice.ID, 1, 1, "8")
	require.NoError(t, err)
	assert.Len(t, changed, 2)
}

func TestVerifyPublishFailureKeepsCardVerified(t *testing.T) {
	defer tearDown()
	profiles := seedRoster(t, NewProfileService(db, testLogger))
	scorecards := NewScorecardService(db, &recordingWriter{err: errors.New("broker down")}, testLogger)

	card, err := scorecards.StartScorecard(context.Background(), profiles[2].ID, nil)
	require.NoError(t, err)
	assert.Nil(t, card.CompetitionID)
	shootFullRound(t, scorecards, card.ID, "X")

	view, err := scorecards.VerifyScorecard(context.Background(), card.ID, auth.Identity{Role: auth.RoleCoach})
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusVerified, view.Status)
	assert.Equal(t, "coach", view.VerifiedBy)
}

func TestResultsFallBackToSnapshot(t *testing.T) {
	defer tearDown()
	profileService := NewProfileService(db, testLogger)
	profiles := seedRoster(t, profileService)
	competition := seedCompetition(t)
	scorecards := NewScorecardService(db, nil, testLogger)
	card, err := scorecards.StartScorecard(context.Background(), profiles[3].ID, &competition.ID)
	require.NoError(t, err)
	_, err = scorecards.SetArrow(context.Background(), card.ID, 1, 1, "10")
	require.NoError(t, err)

	snapshot := cache.NewProfileCache(nil, time.Minute)
	healthy := NewResultsService(db, profileService, snapshot, testLogger)
	count, err := healthy.RefreshProfileSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	degraded := NewResultsService(db, brokenProfiles{}, snapshot, testLogger)
	results, err := degraded.ComputeResults(context.Background(), competition.ID)
	require.NoError(t, err)
	require.Len(t, results.Rankings, 1)
	assert.Equal(t, "Dan", results.Divisions["BV"][0].FirstName)
	assert.Equal(t, scoring.DisplayInProgress, results.Divisions["BV"][0].DisplayStatus)

	noSnapshot := NewResultsService(db, brokenProfiles{}, nil, testLogger)
	results, err = noSnapshot.ComputeResults(context.Background(), competition.ID)
	require.NoError(t, err)
	assert.Len(t, results.Rankings, 1)
}

func TestOverviewAndStorageReport(t *testing.T) {
	defer tearDown()
	profileService := NewProfileService(db, testLogger)
	seedRoster(t, profileService)
	competition := seedCompetition(t)

	overview, err := NewResultsService(db, profileService, nil, testLogger).Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, competition.ID, overview[0].Competition.ID)
	assert.False(t, overview[0].Stats.HasScores)

	report, err := NewDebugService(db, nil).StorageReport()
	require.NoError(t, err)
	assert.Equal(t, int64(5), report.Profiles)
	assert.Equal(t, int64(1), report.Competitions)
}

func TestSelectIdentity(t *testing.T) {
	defer tearDown()
	profileService := NewProfileService(db, testLogger)
	profiles := seedRoster(t, profileService)

	profile, token, err := profileService.SelectIdentity(profiles[0].ID)
	require.NoError(t, err)
	assert.True(t, profile.IsMe)

	identity, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, profiles[0].ID, identity.ProfileID)
	assert.Equal(t, auth.RoleArcher, identity.Role)

	_, err = profileService.SaveProfile(&repository.Profile{FirstName: "Zed", Role: "referee"})
	assert.Error(t, err)
}
