package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hoopcast/internal/config"
)

// Schema statements executed at startup. CREATE IF NOT EXISTS keeps repeated
// initialization idempotent, so the daemon can restart without ceremony.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS backtest_runs (
		id UUID PRIMARY KEY,
		window_start DATE NOT NULL,
		window_end DATE NOT NULL,
		lookback_days INT NOT NULL,
		game_days INT NOT NULL,
		total_matchups INT NOT NULL,
		correct INT NOT NULL,
		incorrect INT NOT NULL,
		no_prediction INT NOT NULL,
		unknown_outcome INT NOT NULL,
		skipped INT NOT NULL,
		accuracy DOUBLE PRECISION,
		weights_before JSONB,
		weights_after JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS backtest_matchups (
		id BIGSERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES backtest_runs(id) ON DELETE CASCADE,
		game_date DATE NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		home_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		predicted TEXT NOT NULL,
		actual TEXT NOT NULL,
		status TEXT NOT NULL,
		skip_reason TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_backtest_matchups_run ON backtest_matchups (run_id)`,
	`CREATE TABLE IF NOT EXISTS scoring_weights (
		id BIGSERIAL PRIMARY KEY,
		weights JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// Bootstrap the schema
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the backtest tables when they do not exist yet. The
// statements run in one transaction so a failed bootstrap leaves no partial
// schema behind.
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to ensure schema: %w", err)
			}
		}
		return nil
	})
}
