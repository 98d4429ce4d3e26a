package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/hoopcast/internal/models"
)

// RunRepository defines the interface for backtest run persistence
type RunRepository interface {
	Create(ctx context.Context, run *models.BacktestRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error)
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestRun, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MatchupRepository defines the interface for per-matchup persistence
type MatchupRepository interface {
	InsertBatch(ctx context.Context, runID uuid.UUID, matchups []models.Matchup) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]models.Matchup, error)
}
