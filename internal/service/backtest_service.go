package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/backtest"
	"github.com/yourusername/hoopcast/internal/metrics"
	"github.com/yourusername/hoopcast/internal/models"
	"github.com/yourusername/hoopcast/internal/repository"
)

// ExportOptions selects which artifacts a pass writes besides the console
// rendering
type ExportOptions struct {
	WriteJSON bool
	WriteCSV  bool
}

// ExecuteResult bundles a finished run with its rendered and exported
// artifacts. RunID is zero when persistence is disabled.
type ExecuteResult struct {
	*backtest.Result
	Console  string
	JSONPath string
	CSVPath  string
	RunID    uuid.UUID
}

// BacktestService drives full backtest passes: it runs the engine, renders
// and exports the report, persists the run when a database is configured,
// and emits run metrics
type BacktestService struct {
	engine *backtest.Engine
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewBacktestService creates a backtest service. repos may be nil, which
// disables persistence; the pass itself works without a database.
func NewBacktestService(engine *backtest.Engine, repos *repository.Repositories, baseLogger *logrus.Logger) (*BacktestService, error) {
	if engine == nil {
		return nil, fmt.Errorf("backtest engine is required")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &BacktestService{
		engine: engine,
		repos:  repos,
		logger: baseLogger,
	}, nil
}

// Execute runs one backtest pass end to end. The engine result is settled
// first; exports and persistence happen after and their failures surface as
// errors without undoing the run metrics.
func (s *BacktestService) Execute(ctx context.Context, opts ExportOptions) (*ExecuteResult, error) {
	started := time.Now()

	result, err := s.engine.Run(ctx)
	if err != nil {
		metrics.RecordBacktestRun("backtest", "failure")
		return nil, err
	}
	report := result.Report

	metrics.RecordBacktestRun("backtest", "success")
	metrics.RecordBacktestDuration(time.Since(started).Seconds())
	metrics.UpdateGameDaysResolved(report.GameDays)
	metrics.UpdateBacktestAccuracy(report.Accuracy())
	for _, m := range report.Matchups {
		metrics.RecordMatchupResult(string(m.Status))
	}
	for name, weight := range result.WeightsAfter.StatWeights {
		metrics.UpdateStatWeight(name, weight)
	}
	if s.engine.Config().Refine {
		metrics.RecordWeightRefinement()
	}

	exec := &ExecuteResult{
		Result:  result,
		Console: backtest.GenerateConsoleReport(report),
	}
	if err := s.export(report, opts, exec); err != nil {
		return nil, err
	}

	if s.repos != nil {
		runID, err := s.persist(ctx, result)
		if err != nil {
			return nil, err
		}
		exec.RunID = runID
	}

	return exec, nil
}

// ExportLatest re-renders and re-exports the most recent persisted run
// without re-running it. Requires persistence to be configured.
func (s *BacktestService) ExportLatest(ctx context.Context, opts ExportOptions) (*ExecuteResult, error) {
	if s.repos == nil {
		return nil, fmt.Errorf("run persistence is not configured")
	}

	runs, err := s.repos.Run.GetLatest(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no persisted runs: %w", models.ErrNotFound)
	}
	run := runs[0]

	matchups, err := s.repos.Matchup.GetByRunID(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matchups for run %s: %w", run.ID, err)
	}

	report := models.ReportFromRun(run, matchups)
	exec := &ExecuteResult{
		Console: backtest.GenerateConsoleReport(report),
		RunID:   run.ID,
	}
	if err := s.export(report, opts, exec); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":   run.ID,
		"matchups": len(matchups),
	}).Info("Re-exported persisted run")

	return exec, nil
}

// DefaultHistoryLimit caps how many persisted runs History renders when the
// caller does not ask for a specific count
const DefaultHistoryLimit = 10

// History renders the most recent persisted runs with their pooled
// accuracy. Requires persistence to be configured.
func (s *BacktestService) History(ctx context.Context, limit int) (string, error) {
	if s.repos == nil {
		return "", fmt.Errorf("run persistence is not configured")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	runs, err := s.repos.Run.GetLatest(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("failed to load run history: %w", err)
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no persisted runs: %w", models.ErrNotFound)
	}

	return backtest.GenerateHistoryConsole(runs), nil
}

func (s *BacktestService) export(report *models.BacktestReport, opts ExportOptions, exec *ExecuteResult) error {
	if opts.WriteJSON {
		path, err := backtest.WriteJSONReport(report, s.engine.Config().ExportDir)
		if err != nil {
			return fmt.Errorf("failed to export JSON report: %w", err)
		}
		exec.JSONPath = path
		s.logger.WithField("path", path).Info("Wrote JSON report")
	}
	if opts.WriteCSV {
		path, err := backtest.WriteCSVReport(report, s.engine.Config().ExportDir)
		if err != nil {
			return fmt.Errorf("failed to export CSV report: %w", err)
		}
		exec.CSVPath = path
		s.logger.WithField("path", path).Info("Wrote CSV report")
	}
	return nil
}

// persist writes the run row and its matchups. The run row goes first so
// the matchup batch always references an existing run.
func (s *BacktestService) persist(ctx context.Context, result *backtest.Result) (uuid.UUID, error) {
	run, err := models.NewRunFromReport(result.Report, result.WeightsBefore, result.WeightsAfter)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build run row: %w", err)
	}

	if err := s.repos.Run.Create(ctx, run); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist run: %w", err)
	}
	if err := s.repos.Matchup.InsertBatch(ctx, run.ID, result.Report.Matchups); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist matchups: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":   run.ID,
		"matchups": len(result.Report.Matchups),
	}).Info("Persisted backtest run")

	return run.ID, nil
}
