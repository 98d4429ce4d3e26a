package models

import "time"

// ScheduledGame is a single game on a game day, carrying the home and away
// team identifiers exactly as the schedule feed prints them
type ScheduledGame struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
}

// GameDay is a calendar date confirmed to host at least one scheduled game.
// Immutable once resolved.
type GameDay struct {
	Date  time.Time       `json:"date" validate:"required"`
	Games []ScheduledGame `json:"games" validate:"min=1"`
}

// DateKey returns the day formatted as YYYY-MM-DD, the key used by the
// schedule feed and the report ordering
func (d *GameDay) DateKey() string {
	return d.Date.Format("2006-01-02")
}
