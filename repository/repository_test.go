package repository

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"archersedge/config"
	"archersedge/scoring"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var db *gorm.DB

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
		db, err = config.InitDB(dsn, Models()...)
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

func TestProfileImportMatchesOnNameAndSchool(t *testing.T) {
	defer tearDown()
	repo := NewProfileRepository(db)

	first, err := repo.Import([]*Profile{
		{FirstName: "Ava", LastName: "Lee", School: "North", Gender: "F", DefaultClassification: "V"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetFavorite(first[0].ID, true))

	second, err := repo.Import([]*Profile{
		{FirstName: "ava", LastName: "LEE", School: "north", Gender: "F", DefaultClassification: "JV"},
		{FirstName: "Ben", LastName: "Ortiz", School: "North", Gender: "M", DefaultClassification: "V"},
	})
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lee", all[0].LastName)
	assert.Equal(t, "JV", all[0].DefaultClassification)
	assert.True(t, all[0].IsFavorite)
	assert.Equal(t, scoring.DivisionGirlsJV, all[0].Division())
}

func TestProfileGetByIdsKeepsRequestOrder(t *testing.T) {
	defer tearDown()
	repo := NewProfileRepository(db)
	a, _ := repo.Save(&Profile{FirstName: "A", LastName: "One"})
	b, _ := repo.Save(&Profile{FirstName: "B", LastName: "Two"})

	profiles, err := repo.GetByIds([]int{b.ID, 9999, a.ID})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, b.ID, profiles[0].ID)
	assert.Equal(t, a.ID, profiles[1].ID)
}

func TestProfileMarkAsMeIsExclusive(t *testing.T) {
	defer tearDown()
	repo := NewProfileRepository(db)
	a, _ := repo.Save(&Profile{FirstName: "A", LastName: "One"})
	b, _ := repo.Save(&Profile{FirstName: "B", LastName: "Two"})

	require.NoError(t, repo.MarkAsMe(a.ID))
	require.NoError(t, repo.MarkAsMe(b.ID))

	a, _ = repo.GetById(a.ID)
	b, _ = repo.GetById(b.ID)
	assert.False(t, a.IsMe)
	assert.True(t, b.IsMe)
	assert.ErrorIs(t, repo.MarkAsMe(12345), gorm.ErrRecordNotFound)
}

func TestScorecardRoundTrip(t *testing.T) {
	defer tearDown()
	competitions := NewCompetitionRepository(db)
	competition, err := competitions.Save(&Competition{Name: "Spring Open", Date: time.Now(), Divisions: []string{"BV", "GV"}})
	require.NoError(t, err)

	card := scoring.NewScorecard(3, "Ava Lee", &competition.ID, competition.Name)
	for end := 1; end <= scoring.EndsPerRound; end++ {
		for slot := 1; slot <= scoring.ArrowsPerEnd; slot++ {
			require.NoError(t, card.SetArrow(end, slot, scoring.Ten))
		}
	}
	require.NoError(t, card.Verify("coach", time.Now()))

	repo := NewScorecardRepository(db)
	saved, err := repo.Save(ScorecardFromDomain(card))
	require.NoError(t, err)

	loaded, err := repo.GetById(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 360, loaded.TotalScore)
	assert.Equal(t, 36, loaded.Totals.TotalTens)
	assert.Equal(t, 360, loaded.EndSummaries["end12"].RunningTotal)

	domain := loaded.ToDomain()
	assert.True(t, domain.IsComplete())
	assert.Equal(t, scoring.StatusVerified, domain.Status)

	verified, err := repo.GetVerifiedForArcher(3)
	require.NoError(t, err)
	assert.Len(t, verified, 1)

	forCompetition, err := repo.GetForCompetition(competition.ID)
	require.NoError(t, err)
	require.Len(t, forCompetition, 1)
	assert.Equal(t, "verified", forCompetition[0].ToResult().Status)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[scoring.StatusVerified])
}

func TestAssignmentUpsertReplacesExisting(t *testing.T) {
	defer tearDown()
	repo := NewAssignmentRepository(db)
	bales := []scoring.Bale{{BaleNumber: 1, Division: "BV", Archers: []scoring.BaleSlot{{ArcherID: 4, Target: "B"}}}}

	_, err := repo.Upsert(&EventAssignment{CompetitionID: 1, AssignmentType: scoring.AssignmentMixed, ArcherIDs: []int64{4}, NumberOfBales: 1, MaxArchersPerBale: 4, Bales: bales, Status: AssignmentDraft})
	require.NoError(t, err)
	updated, err := repo.Upsert(&EventAssignment{CompetitionID: 1, AssignmentType: scoring.AssignmentMixed, ArcherIDs: []int64{4}, NumberOfBales: 2, MaxArchersPerBale: 4, Bales: bales, Status: AssignmentPublished})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.NumberOfBales)
	assert.Equal(t, AssignmentPublished, updated.Status)
	bale, target, ok := updated.SlotFor(4)
	assert.True(t, ok)
	assert.Equal(t, 1, bale)
	assert.Equal(t, "B", target)
}

func TestCachedResults(t *testing.T) {
	defer tearDown()
	repo := NewCachedDataRepository(db)
	_, _, err := repo.GetLatestResults(5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	results := &scoring.CompetitionResults{DivisionOrder: []string{"BV"}, Stats: scoring.CompetitionStats{TotalArchers: 1, HasScores: true}}
	require.NoError(t, repo.SaveResults(5, results))
	require.NoError(t, repo.SaveResults(5, results))

	loaded, ts, err := repo.GetLatestResults(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"BV"}, loaded.DivisionOrder)
	assert.False(t, ts.IsZero())
	count, _ := repo.Count()
	assert.Equal(t, int64(1), count)
}

func TestCompetitionDeleteRemovesAssignment(t *testing.T) {
	defer tearDown()
	competitions := NewCompetitionRepository(db)
	competition, err := competitions.Save(&Competition{Name: "Fall Classic", Date: time.Now(), Divisions: []string{}})
	require.NoError(t, err)
	_, err = NewAssignmentRepository(db).Upsert(&EventAssignment{CompetitionID: competition.ID, AssignmentType: scoring.AssignmentMixed, ArcherIDs: []int64{}, Bales: []scoring.Bale{}, Status: AssignmentDraft})
	require.NoError(t, err)

	require.NoError(t, competitions.Delete(competition.ID))
	_, err = NewAssignmentRepository(db).GetByCompetitionId(competition.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, competitions.Delete(competition.ID), gorm.ErrRecordNotFound)
}
