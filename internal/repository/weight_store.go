package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hoopcast/internal/database"
	"github.com/yourusername/hoopcast/internal/models"
)

// PostgresWeightStore persists scoring weights in the database. Each save
// appends a row and loads read the newest one, so the full weight history
// stays queryable.
type PostgresWeightStore struct {
	db       *database.DB
	defaults *models.ScoringWeights
}

// NewPostgresWeightStore creates a database-backed weight store. The defaults
// seed the very first load, before any run has saved refined weights.
func NewPostgresWeightStore(db *database.DB, defaults *models.ScoringWeights) (*PostgresWeightStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &PostgresWeightStore{
		db:       db,
		defaults: defaults,
	}, nil
}

// LoadWeights returns the most recently saved weights, or the configured
// defaults when none have been saved yet
func (s *PostgresWeightStore) LoadWeights(ctx context.Context) (*models.ScoringWeights, error) {
	query := `
		SELECT weights
		FROM scoring_weights
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var data []byte
	err := s.db.GetPool().QueryRow(ctx, query).Scan(&data)
	if err == pgx.ErrNoRows {
		if s.defaults == nil || len(s.defaults.StatWeights) == 0 {
			return nil, fmt.Errorf("no stored weights and no default weights configured")
		}
		return s.defaults.Clone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	weights := &models.ScoringWeights{}
	if err := json.Unmarshal(data, weights); err != nil {
		return nil, fmt.Errorf("failed to parse stored weights: %w", err)
	}
	if len(weights.StatWeights) == 0 {
		return nil, fmt.Errorf("stored weights contain no stat weights")
	}

	return weights, nil
}

// SaveWeights appends a new weights row
func (s *PostgresWeightStore) SaveWeights(ctx context.Context, weights *models.ScoringWeights) error {
	if weights == nil {
		return fmt.Errorf("weights cannot be nil")
	}

	data, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	query := "INSERT INTO scoring_weights (weights) VALUES ($1)"
	if _, err := s.db.GetPool().Exec(ctx, query, data); err != nil {
		return fmt.Errorf("failed to save weights: %w", err)
	}

	return nil
}

// History returns the stored weight rows, newest first
func (s *PostgresWeightStore) History(ctx context.Context, limit int) ([]*models.ScoringWeights, error) {
	query := `
		SELECT weights
		FROM scoring_weights
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query weight history: %w", err)
	}
	defer rows.Close()

	var history []*models.ScoringWeights
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan weights row: %w", err)
		}

		weights := &models.ScoringWeights{}
		if err := json.Unmarshal(data, weights); err != nil {
			return nil, fmt.Errorf("failed to parse stored weights: %w", err)
		}
		history = append(history, weights)
	}

	return history, rows.Err()
}
