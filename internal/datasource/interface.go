package datasource

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/hoopcast/internal/models"
)

// ScheduleSource answers which games happened on a date and how they ended
type ScheduleSource interface {
	// HasGamesOn reports whether at least one game is scheduled on the date.
	// An unreachable feed is an error, never a silent false.
	HasGamesOn(ctx context.Context, date time.Time) (bool, error)

	// GamesOn retrieves the games scheduled on the date
	GamesOn(ctx context.Context, date time.Time) ([]GameListing, error)

	// Outcome retrieves the recorded winner of a game. WinnerUnknown with a
	// nil error means the result is not or not yet available.
	Outcome(ctx context.Context, date time.Time, homeTeam, awayTeam string) (models.Winner, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// StatsSource retrieves per-team statistics from an external provider
type StatsSource interface {
	// FetchTeamStats retrieves a team's stats as of the given date
	FetchTeamStats(ctx context.Context, canonicalName string, asOf time.Time) (*TeamStats, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// GameListing represents one scheduled game exactly as the feed prints it
type GameListing struct {
	HomeTeam string `json:"home_team"` // Raw home identifier (may be an abbreviation)
	AwayTeam string `json:"away_team"` // Raw away identifier
}

// TeamStats represents the raw stat payload for one team before normalization
type TeamStats struct {
	Team      string                     `json:"team"`       // Canonical team name as queried
	AsOf      time.Time                  `json:"as_of"`      // Stats cutoff date
	Stats     map[string]decimal.Decimal `json:"stats"`      // Stat name -> raw decimal value
	FetchedAt time.Time                  `json:"fetched_at"` // When the payload was retrieved
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
