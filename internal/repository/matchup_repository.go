package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hoopcast/internal/database"
	"github.com/yourusername/hoopcast/internal/models"
)

// PostgresMatchupRepository implements MatchupRepository for PostgreSQL
type PostgresMatchupRepository struct {
	db *database.DB
}

// NewPostgresMatchupRepository creates a new matchup repository
func NewPostgresMatchupRepository(db *database.DB) MatchupRepository {
	return &PostgresMatchupRepository{db: db}
}

// InsertBatch inserts all matchups of a run using a bulk copy
func (m *PostgresMatchupRepository) InsertBatch(ctx context.Context, runID uuid.UUID, matchups []models.Matchup) error {
	if len(matchups) == 0 {
		return nil
	}

	columns := []string{
		"run_id", "game_date", "home_team", "away_team", "home_score", "away_score",
		"predicted", "actual", "status", "skip_reason",
	}

	copyFromSource := make([][]interface{}, len(matchups))
	for i, matchup := range matchups {
		copyFromSource[i] = []interface{}{
			runID, matchup.Date, matchup.HomeTeam, matchup.AwayTeam,
			matchup.HomeScore, matchup.AwayScore,
			string(matchup.Predicted), string(matchup.Actual), string(matchup.Status),
			matchup.SkipReason,
		}
	}

	count, err := m.db.GetPool().CopyFrom(ctx, pgx.Identifier{"backtest_matchups"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert matchups: %w", err)
	}

	if count != int64(len(matchups)) {
		return fmt.Errorf("inserted %d matchups, expected %d", count, len(matchups))
	}

	return nil
}

// GetByRunID retrieves the matchups of a run in canonical report order
func (m *PostgresMatchupRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]models.Matchup, error) {
	query := `
		SELECT game_date, home_team, away_team, home_score, away_score,
		       predicted, actual, status, skip_reason
		FROM backtest_matchups
		WHERE run_id = $1
		ORDER BY game_date ASC, home_team ASC
	`

	rows, err := m.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups by run: %w", err)
	}
	defer rows.Close()

	var matchups []models.Matchup
	for rows.Next() {
		var matchup models.Matchup
		var predicted, actual, status string
		err := rows.Scan(
			&matchup.Date, &matchup.HomeTeam, &matchup.AwayTeam,
			&matchup.HomeScore, &matchup.AwayScore,
			&predicted, &actual, &status, &matchup.SkipReason,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matchup: %w", err)
		}
		matchup.Predicted = models.Prediction(predicted)
		matchup.Actual = models.Winner(actual)
		matchup.Status = models.MatchupStatus(status)
		matchups = append(matchups, matchup)
	}

	return matchups, rows.Err()
}
