package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hoopcast/internal/database"
	"github.com/yourusername/hoopcast/internal/models"
)

const errScanRun = "failed to scan backtest run: %w"

const runColumns = `
	id, window_start, window_end, lookback_days, game_days, total_matchups,
	correct, incorrect, no_prediction, unknown_outcome, skipped, accuracy,
	weights_before, weights_after, created_at
`

// PostgresRunRepository implements RunRepository for PostgreSQL
type PostgresRunRepository struct {
	db *database.DB
}

// NewPostgresRunRepository creates a new run repository
func NewPostgresRunRepository(db *database.DB) RunRepository {
	return &PostgresRunRepository{db: db}
}

// Create inserts a new backtest run
func (r *PostgresRunRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.ID, run.WindowStart, run.WindowEnd, run.LookbackDays, run.GameDays,
		run.TotalMatchups, run.Correct, run.Incorrect, run.NoPrediction,
		run.UnknownOutcome, run.Skipped, run.Accuracy,
		run.WeightsBefore, run.WeightsAfter, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create backtest run: %w", err)
	}

	return nil
}

// GetByID retrieves a backtest run by ID
func (r *PostgresRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs WHERE id = $1`

	run := &models.BacktestRun{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.WindowStart, &run.WindowEnd, &run.LookbackDays, &run.GameDays,
		&run.TotalMatchups, &run.Correct, &run.Incorrect, &run.NoPrediction,
		&run.UnknownOutcome, &run.Skipped, &run.Accuracy,
		&run.WeightsBefore, &run.WeightsAfter, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest run: %w", err)
	}

	return run, nil
}

// GetLatest retrieves the most recent backtest runs
func (r *PostgresRunRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM backtest_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetByDateRange retrieves runs whose window overlaps a date range
func (r *PostgresRunRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM backtest_runs
		WHERE window_end >= $1 AND window_start <= $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs by date range: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Delete deletes a backtest run and its matchups via cascade
func (r *PostgresRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM backtest_runs WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete backtest run: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// scanRuns collects backtest runs from an open result set
func scanRuns(rows pgx.Rows) ([]*models.BacktestRun, error) {
	var runs []*models.BacktestRun
	for rows.Next() {
		run := &models.BacktestRun{}
		err := rows.Scan(
			&run.ID, &run.WindowStart, &run.WindowEnd, &run.LookbackDays, &run.GameDays,
			&run.TotalMatchups, &run.Correct, &run.Incorrect, &run.NoPrediction,
			&run.UnknownOutcome, &run.Skipped, &run.Accuracy,
			&run.WeightsBefore, &run.WeightsAfter, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRun, err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
