package models

import (
	"math"
	"time"
)

// BacktestReport is the immutable result of one backtest pass: every
// matchup of the window in canonical order plus the aggregate counts.
type BacktestReport struct {
	WindowStart    time.Time `json:"window_start"`
	WindowEnd      time.Time `json:"window_end"`
	LookbackDays   int       `json:"lookback_days"`
	GameDays       int       `json:"game_days"`
	Matchups       []Matchup `json:"matchups"`
	Correct        int       `json:"correct"`
	Incorrect      int       `json:"incorrect"`
	NoPrediction   int       `json:"no_prediction"`
	UnknownOutcome int       `json:"unknown_outcome"`
	Skipped        int       `json:"skipped"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// TotalMatchups returns the number of matchups in the report, skipped ones
// included
func (r *BacktestReport) TotalMatchups() int {
	return len(r.Matchups)
}

// Accuracy returns correct / (correct + incorrect). A report with zero
// confident-and-resolved matchups has no defined accuracy and returns NaN,
// never 0.
func (r *BacktestReport) Accuracy() float64 {
	resolved := r.Correct + r.Incorrect
	if resolved == 0 {
		return math.NaN()
	}
	return float64(r.Correct) / float64(resolved)
}

// AccuracyValue returns the accuracy as a nullable value for serialization.
// JSON has no encoding for NaN, so an undefined accuracy becomes nil.
func (r *BacktestReport) AccuracyValue() *float64 {
	acc := r.Accuracy()
	if math.IsNaN(acc) {
		return nil
	}
	return &acc
}
