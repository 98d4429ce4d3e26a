package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/hoopcast/internal/database"
	"github.com/yourusername/hoopcast/internal/models"
)

const skipIntegrationMsg = "Integration test - requires database setup"

func sampleReport() *models.BacktestReport {
	gameDate := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	return &models.BacktestReport{
		WindowStart:  gameDate,
		WindowEnd:    gameDate.AddDate(0, 0, 6),
		LookbackDays: 7,
		GameDays:     1,
		Matchups: []models.Matchup{
			{
				Date:      gameDate,
				HomeTeam:  "Boston Celtics",
				AwayTeam:  "Los Angeles Lakers",
				HomeScore: 134.5,
				AwayScore: 133.0,
				Predicted: models.PredictHome,
				Actual:    models.WinnerHome,
				Status:    models.StatusCorrect,
			},
		},
		Correct:     1,
		GeneratedAt: time.Now().UTC(),
	}
}

func sampleWeights() *models.ScoringWeights {
	return &models.ScoringWeights{
		StatWeights:         map[string]float64{"pts": 1.0, "reb": 0.5},
		HomeAdvantage:       2.0,
		PredictionThreshold: 1.0,
	}
}

// TestRunRepositoryCreateAndGet tests run persistence round trips
func TestRunRepositoryCreateAndGet(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	run, err := models.NewRunFromReport(sampleReport(), sampleWeights(), sampleWeights())
	if err != nil {
		t.Fatalf("failed to build run: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repos.Run.Create(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	retrieved, err := repos.Run.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to retrieve run: %v", err)
	}

	if retrieved.ID != run.ID {
		t.Errorf("expected run ID %v, got %v", run.ID, retrieved.ID)
	}

	if retrieved.Correct != 1 {
		t.Errorf("expected 1 correct prediction, got %d", retrieved.Correct)
	}
}

// TestRunRepositoryGetByIDNotFound tests the missing-run case
func TestRunRepositoryGetByIDNotFound(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repos.Run.GetByID(ctx, uuid.New()); err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestMatchupRepositoryBatch tests batch matchup persistence
func TestMatchupRepositoryBatch(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report := sampleReport()
	run, err := models.NewRunFromReport(report, sampleWeights(), sampleWeights())
	if err != nil {
		t.Fatalf("failed to build run: %v", err)
	}

	if err := repos.Run.Create(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := repos.Matchup.InsertBatch(ctx, run.ID, report.Matchups); err != nil {
		t.Fatalf("failed to batch insert matchups: %v", err)
	}

	retrieved, err := repos.Matchup.GetByRunID(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to retrieve matchups: %v", err)
	}

	if len(retrieved) != len(report.Matchups) {
		t.Errorf("expected %d matchups, got %d", len(report.Matchups), len(retrieved))
	}
}

// TestRunRepositoryDateRangeAndDelete tests window-overlap queries and cascade deletes
func TestRunRepositoryDateRangeAndDelete(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report := sampleReport()
	run, err := models.NewRunFromReport(report, sampleWeights(), sampleWeights())
	if err != nil {
		t.Fatalf("failed to build run: %v", err)
	}

	if err := repos.Run.Create(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if err := repos.Matchup.InsertBatch(ctx, run.ID, report.Matchups); err != nil {
		t.Fatalf("failed to batch insert matchups: %v", err)
	}

	// The query range overlaps the run window
	overlapping, err := repos.Run.GetByDateRange(ctx,
		report.WindowStart.AddDate(0, 0, 3),
		report.WindowEnd.AddDate(0, 0, 3),
	)
	if err != nil {
		t.Fatalf("failed to query by date range: %v", err)
	}
	if len(overlapping) != 1 {
		t.Fatalf("expected 1 overlapping run, got %d", len(overlapping))
	}

	// A range entirely after the window matches nothing
	outside, err := repos.Run.GetByDateRange(ctx,
		report.WindowEnd.AddDate(0, 1, 0),
		report.WindowEnd.AddDate(0, 2, 0),
	)
	if err != nil {
		t.Fatalf("failed to query by date range: %v", err)
	}
	if len(outside) != 0 {
		t.Errorf("expected no runs outside the window, got %d", len(outside))
	}

	if err := repos.Run.Delete(ctx, run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	// The cascade removes the run's matchups with it
	matchups, err := repos.Matchup.GetByRunID(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to query matchups after delete: %v", err)
	}
	if len(matchups) != 0 {
		t.Errorf("expected cascade to remove matchups, got %d", len(matchups))
	}

	if err := repos.Run.Delete(ctx, run.ID); err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

// TestPostgresWeightStoreLatestRowWins tests that the newest saved weights load
func TestPostgresWeightStoreLatestRowWins(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	store, err := NewPostgresWeightStore(db, sampleWeights())
	if err != nil {
		t.Fatalf("failed to create weight store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := sampleWeights()
	first.StatWeights["pts"] = 1.1
	if err := store.SaveWeights(ctx, first); err != nil {
		t.Fatalf("failed to save weights: %v", err)
	}

	second := sampleWeights()
	second.StatWeights["pts"] = 1.2
	if err := store.SaveWeights(ctx, second); err != nil {
		t.Fatalf("failed to save weights: %v", err)
	}

	loaded, err := store.LoadWeights(ctx)
	if err != nil {
		t.Fatalf("failed to load weights: %v", err)
	}

	if loaded.StatWeights["pts"] != 1.2 {
		t.Errorf("expected latest pts weight 1.2, got %v", loaded.StatWeights["pts"])
	}
}
