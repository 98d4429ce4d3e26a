package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hoopcast/internal/backtest"
	"github.com/yourusername/hoopcast/internal/logger"
	"github.com/yourusername/hoopcast/internal/models"
	"github.com/yourusername/hoopcast/internal/repository"
	"github.com/yourusername/hoopcast/internal/scoring"
)

type fakeResolver struct {
	days  []models.GameDay
	err   error
	start time.Time
	end   time.Time
}

func (f *fakeResolver) ResolveWindow(ctx context.Context, lookbackDays int) ([]models.GameDay, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.days, nil
}

func (f *fakeResolver) Window(lookbackDays int) (time.Time, time.Time) {
	return f.start, f.end
}

type fakeOutcomes struct {
	winner models.Winner
	err    error
}

func (f *fakeOutcomes) Outcome(ctx context.Context, date time.Time, homeTeam, awayTeam string) (models.Winner, error) {
	return f.winner, f.err
}

type fakeRunRepo struct {
	created   []*models.BacktestRun
	createErr error
	latest    []*models.BacktestRun
	latestErr error
}

func (f *fakeRunRepo) Create(ctx context.Context, run *models.BacktestRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, run)
	return nil
}

func (f *fakeRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error) {
	return nil, models.ErrNotFound
}

func (f *fakeRunRepo) GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeRunRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestRun, error) {
	return nil, nil
}

func (f *fakeRunRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeMatchupRepo struct {
	inserted  map[uuid.UUID][]models.Matchup
	insertErr error
}

func (f *fakeMatchupRepo) InsertBatch(ctx context.Context, runID uuid.UUID, matchups []models.Matchup) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.inserted == nil {
		f.inserted = make(map[uuid.UUID][]models.Matchup)
	}
	f.inserted[runID] = matchups
	return nil
}

func (f *fakeMatchupRepo) GetByRunID(ctx context.Context, runID uuid.UUID) ([]models.Matchup, error) {
	return f.inserted[runID], nil
}

func singleGameResolver(t *testing.T, date string) *fakeResolver {
	t.Helper()
	day := mustDate(t, date)
	return &fakeResolver{
		days: []models.GameDay{{
			Date:  day,
			Games: []models.ScheduledGame{{HomeTeam: "BOS", AwayTeam: "LAL"}},
		}},
		start: day.AddDate(0, 0, -2),
		end:   day,
	}
}

func newTestEngine(t *testing.T, resolver *fakeResolver, exportDir string, refine bool) *backtest.Engine {
	t.Helper()
	cfg := backtest.RunConfig{
		LookbackDays: 3,
		Refine:       refine,
		Refiner:      scoring.DefaultRefinerConfig(),
		ExportDir:    exportDir,
	}
	engine, err := backtest.NewEngine(cfg, resolver, testStats(), &fakeOutcomes{winner: models.WinnerHome}, testWeights(), logger.NewRunLogger(quietLogger()))
	require.NoError(t, err)
	return engine
}

func TestExecuteRendersConsole(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	svc, err := NewBacktestService(engine, nil, quietLogger())
	require.NoError(t, err)

	exec, err := svc.Execute(context.Background(), ExportOptions{})
	require.NoError(t, err)

	assert.Contains(t, exec.Console, "Backtest Report")
	assert.Contains(t, exec.Console, "BOS vs LAL")
	assert.Contains(t, exec.Console, "Accuracy: 100.00%")
	assert.Equal(t, uuid.Nil, exec.RunID, "no persistence without repositories")
	assert.Empty(t, exec.JSONPath)
	assert.Empty(t, exec.CSVPath)
	assert.Equal(t, 1, exec.Report.Correct)
}

func TestExecuteWritesExports(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), dir, false)
	svc, err := NewBacktestService(engine, nil, quietLogger())
	require.NoError(t, err)

	exec, err := svc.Execute(context.Background(), ExportOptions{WriteJSON: true, WriteCSV: true})
	require.NoError(t, err)

	require.NotEmpty(t, exec.JSONPath)
	require.NotEmpty(t, exec.CSVPath)
	_, err = os.Stat(exec.JSONPath)
	assert.NoError(t, err)
	_, err = os.Stat(exec.CSVPath)
	assert.NoError(t, err)
}

func TestExecutePersistsRun(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	runRepo := &fakeRunRepo{}
	matchupRepo := &fakeMatchupRepo{}
	repos := &repository.Repositories{Run: runRepo, Matchup: matchupRepo}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	exec, err := svc.Execute(context.Background(), ExportOptions{})
	require.NoError(t, err)

	require.Len(t, runRepo.created, 1)
	run := runRepo.created[0]
	assert.Equal(t, run.ID, exec.RunID)
	assert.Equal(t, 1, run.TotalMatchups)
	assert.Equal(t, 1, run.Correct)
	require.NotNil(t, run.Accuracy)
	assert.Equal(t, 1.0, *run.Accuracy)

	require.Len(t, matchupRepo.inserted[run.ID], 1)
	assert.Equal(t, "BOS", matchupRepo.inserted[run.ID][0].HomeTeam)
}

func TestExecuteEngineFailureStopsPass(t *testing.T) {
	resolver := &fakeResolver{err: models.ErrDataUnavailable}
	engine := newTestEngine(t, resolver, "results", false)
	runRepo := &fakeRunRepo{}
	repos := &repository.Repositories{Run: runRepo, Matchup: &fakeMatchupRepo{}}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	exec, err := svc.Execute(context.Background(), ExportOptions{})
	assert.Error(t, err)
	assert.Nil(t, exec)
	assert.Empty(t, runRepo.created, "nothing to persist when the run aborts")
}

func TestExecutePersistFailureSurfaces(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	repos := &repository.Repositories{
		Run:     &fakeRunRepo{createErr: errors.New("database offline")},
		Matchup: &fakeMatchupRepo{},
	}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), ExportOptions{})
	assert.ErrorContains(t, err, "failed to persist run")
}

func TestExportLatestRequiresPersistence(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	svc, err := NewBacktestService(engine, nil, quietLogger())
	require.NoError(t, err)

	_, err = svc.ExportLatest(context.Background(), ExportOptions{})
	assert.ErrorContains(t, err, "not configured")
}

func TestExportLatestNoRuns(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	repos := &repository.Repositories{Run: &fakeRunRepo{}, Matchup: &fakeMatchupRepo{}}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	_, err = svc.ExportLatest(context.Background(), ExportOptions{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExportLatestRendersStoredRun(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), dir, false)

	runID := uuid.New()
	stored := &models.BacktestRun{
		ID:           runID,
		WindowStart:  mustDate(t, "2024-03-04"),
		WindowEnd:    mustDate(t, "2024-03-10"),
		LookbackDays: 7,
		GameDays:     1,
		Correct:      1,
	}
	matchupRepo := &fakeMatchupRepo{inserted: map[uuid.UUID][]models.Matchup{
		runID: {{
			Date:      mustDate(t, "2024-03-08"),
			HomeTeam:  "BOS",
			AwayTeam:  "LAL",
			HomeScore: 134.5,
			AwayScore: 133,
			Predicted: models.PredictHome,
			Actual:    models.WinnerHome,
			Status:    models.StatusCorrect,
		}},
	}}
	repos := &repository.Repositories{
		Run:     &fakeRunRepo{latest: []*models.BacktestRun{stored}},
		Matchup: matchupRepo,
	}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	exec, err := svc.ExportLatest(context.Background(), ExportOptions{WriteJSON: true})
	require.NoError(t, err)

	assert.Equal(t, runID, exec.RunID)
	assert.Contains(t, exec.Console, "2024-03-04 to 2024-03-10")
	assert.Contains(t, exec.Console, "BOS vs LAL")
	require.NotEmpty(t, exec.JSONPath)
	_, err = os.Stat(exec.JSONPath)
	assert.NoError(t, err)
}

func TestHistoryRendersRecentRuns(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)

	accuracy := 0.75
	runRepo := &fakeRunRepo{latest: []*models.BacktestRun{
		{
			ID:            uuid.New(),
			WindowStart:   mustDate(t, "2024-03-04"),
			WindowEnd:     mustDate(t, "2024-03-10"),
			TotalMatchups: 4,
			Correct:       3,
			Incorrect:     1,
			Accuracy:      &accuracy,
			CreatedAt:     mustDate(t, "2024-03-11"),
		},
	}}
	repos := &repository.Repositories{Run: runRepo, Matchup: &fakeMatchupRepo{}}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	output, err := svc.History(context.Background(), 0)
	require.NoError(t, err)

	assert.Contains(t, output, "Runs: 1")
	assert.Contains(t, output, "2024-03-04 to 2024-03-10  4 matchups  accuracy 75.00%")
	assert.Contains(t, output, "Overall Accuracy: 75.00%")
}

func TestHistoryRequiresPersistence(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	svc, err := NewBacktestService(engine, nil, quietLogger())
	require.NoError(t, err)

	_, err = svc.History(context.Background(), 5)
	assert.ErrorContains(t, err, "not configured")
}

func TestHistoryNoRuns(t *testing.T) {
	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	repos := &repository.Repositories{Run: &fakeRunRepo{}, Matchup: &fakeMatchupRepo{}}

	svc, err := NewBacktestService(engine, repos, quietLogger())
	require.NoError(t, err)

	_, err = svc.History(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNewBacktestServiceValidation(t *testing.T) {
	_, err := NewBacktestService(nil, nil, quietLogger())
	assert.Error(t, err)

	engine := newTestEngine(t, singleGameResolver(t, "2024-03-08"), "results", false)
	svc, err := NewBacktestService(engine, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
