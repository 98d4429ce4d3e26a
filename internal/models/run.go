package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BacktestRun represents a persisted backtest run
type BacktestRun struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	WindowStart    time.Time       `db:"window_start" json:"window_start"`
	WindowEnd      time.Time       `db:"window_end" json:"window_end"`
	LookbackDays   int             `db:"lookback_days" json:"lookback_days"`
	GameDays       int             `db:"game_days" json:"game_days"`
	TotalMatchups  int             `db:"total_matchups" json:"total_matchups"`
	Correct        int             `db:"correct" json:"correct"`
	Incorrect      int             `db:"incorrect" json:"incorrect"`
	NoPrediction   int             `db:"no_prediction" json:"no_prediction"`
	UnknownOutcome int             `db:"unknown_outcome" json:"unknown_outcome"`
	Skipped        int             `db:"skipped" json:"skipped"`
	Accuracy       *float64        `db:"accuracy" json:"accuracy"`
	WeightsBefore  json.RawMessage `db:"weights_before" json:"weights_before"`
	WeightsAfter   json.RawMessage `db:"weights_after" json:"weights_after"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// NewRunFromReport builds the persistence row for a completed run. The
// accuracy column is NULL when the report had nothing to resolve, so NaN
// never reaches the database driver.
func NewRunFromReport(report *BacktestReport, weightsBefore, weightsAfter *ScoringWeights) (*BacktestRun, error) {
	before, err := json.Marshal(weightsBefore)
	if err != nil {
		return nil, err
	}
	after, err := json.Marshal(weightsAfter)
	if err != nil {
		return nil, err
	}

	return &BacktestRun{
		ID:             uuid.New(),
		WindowStart:    report.WindowStart,
		WindowEnd:      report.WindowEnd,
		LookbackDays:   report.LookbackDays,
		GameDays:       report.GameDays,
		TotalMatchups:  report.TotalMatchups(),
		Correct:        report.Correct,
		Incorrect:      report.Incorrect,
		NoPrediction:   report.NoPrediction,
		UnknownOutcome: report.UnknownOutcome,
		Skipped:        report.Skipped,
		Accuracy:       report.AccuracyValue(),
		WeightsBefore:  before,
		WeightsAfter:   after,
		CreatedAt:      report.GeneratedAt,
	}, nil
}

// ReportFromRun rebuilds the report a persisted run was frozen from, so a
// stored run can be re-rendered and re-exported without re-running it
func ReportFromRun(run *BacktestRun, matchups []Matchup) *BacktestReport {
	return &BacktestReport{
		WindowStart:    run.WindowStart,
		WindowEnd:      run.WindowEnd,
		LookbackDays:   run.LookbackDays,
		GameDays:       run.GameDays,
		Matchups:       matchups,
		Correct:        run.Correct,
		Incorrect:      run.Incorrect,
		NoPrediction:   run.NoPrediction,
		UnknownOutcome: run.UnknownOutcome,
		Skipped:        run.Skipped,
		GeneratedAt:    run.CreatedAt,
	}
}
