package models

import "time"

// ProjectedGame is one upcoming game scored with the current weights.
// Projection is prediction without comparison: no outcome, no accuracy.
type ProjectedGame struct {
	Date       time.Time  `json:"date"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	HomeScore  float64    `json:"home_score"`
	AwayScore  float64    `json:"away_score"`
	Predicted  Prediction `json:"predicted"`
	Skipped    bool       `json:"skipped,omitempty"`
	SkipReason string     `json:"skip_reason,omitempty"`
}

// ProjectionReport lists the projected games for an upcoming horizon
type ProjectionReport struct {
	HorizonStart time.Time       `json:"horizon_start"`
	HorizonEnd   time.Time       `json:"horizon_end"`
	Games        []ProjectedGame `json:"games"`
	GeneratedAt  time.Time       `json:"generated_at"`
}
