package models

import "time"

// Prediction is the predictor's call for a matchup
type Prediction string

const (
	PredictHome           Prediction = "home"
	PredictAway           Prediction = "away"
	NoConfidentPrediction Prediction = "none"
)

// Winner is the recorded outcome of a game
type Winner string

const (
	WinnerHome    Winner = "home"
	WinnerAway    Winner = "away"
	WinnerUnknown Winner = "unknown"
)

// MatchupStatus classifies how a matchup counted toward the report
type MatchupStatus string

const (
	// StatusCorrect: confident prediction matched the recorded outcome
	StatusCorrect MatchupStatus = "correct"
	// StatusIncorrect: confident prediction contradicted the recorded outcome
	StatusIncorrect MatchupStatus = "incorrect"
	// StatusNoPrediction: score gap below threshold, no call made
	StatusNoPrediction MatchupStatus = "no_prediction"
	// StatusUnknownOutcome: prediction made but no recorded outcome to compare
	StatusUnknownOutcome MatchupStatus = "unknown_outcome"
	// StatusSkipped: stats could not be assembled for one or both teams
	StatusSkipped MatchupStatus = "skipped"
)

// Matchup is one evaluated game: the derived scores, the prediction, the
// actual outcome and the resulting status. Immutable once the status is set.
type Matchup struct {
	Date       time.Time          `json:"date"`
	HomeTeam   string             `json:"home_team"`
	AwayTeam   string             `json:"away_team"`
	HomeScore  float64            `json:"home_score"`
	AwayScore  float64            `json:"away_score"`
	HomeStats  map[string]float64 `json:"home_stats,omitempty"`
	AwayStats  map[string]float64 `json:"away_stats,omitempty"`
	Predicted  Prediction         `json:"predicted"`
	Actual     Winner             `json:"actual"`
	Status     MatchupStatus      `json:"status"`
	SkipReason string             `json:"skip_reason,omitempty"`
}

// CountsForAccuracy reports whether the matchup lands in the accuracy
// denominator. Skipped, no-call and unknown-outcome matchups never do.
func (m *Matchup) CountsForAccuracy() bool {
	return m.Status == StatusCorrect || m.Status == StatusIncorrect
}

// IsSkipped reports whether stats assembly failed for this matchup
func (m *Matchup) IsSkipped() bool {
	return m.Status == StatusSkipped
}
