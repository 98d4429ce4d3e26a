// Package logger provides backtest-run-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/models"
)

// RunLogger provides dedicated logging for backtest run lifecycle events.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// NewProjectionLogger creates a run logger tagged for projection passes.
func NewProjectionLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "projection"),
	}
}

// LogRunStarted logs the start of a backtest run.
func (rl *RunLogger) LogRunStarted(windowStart, windowEnd time.Time, lookbackDays int, refine bool) {
	rl.WithFields(logrus.Fields{
		"window_start":  windowStart.Format("2006-01-02"),
		"window_end":    windowEnd.Format("2006-01-02"),
		"lookback_days": lookbackDays,
		"refine":        refine,
	}).Info("Backtest run started")
}

// LogWindowResolved logs the outcome of schedule resolution.
func (rl *RunLogger) LogWindowResolved(gameDays, totalGames int) {
	rl.WithFields(logrus.Fields{
		"game_days":   gameDays,
		"total_games": totalGames,
	}).Info("Backtest window resolved")
}

// LogMatchupEvaluated logs one settled matchup.
func (rl *RunLogger) LogMatchupEvaluated(matchup *models.Matchup) {
	rl.WithFields(logrus.Fields{
		"date":       matchup.Date.Format("2006-01-02"),
		"home_team":  matchup.HomeTeam,
		"away_team":  matchup.AwayTeam,
		"home_score": matchup.HomeScore,
		"away_score": matchup.AwayScore,
		"predicted":  matchup.Predicted,
		"actual":     matchup.Actual,
		"status":     matchup.Status,
	}).Debug("Matchup evaluated")
}

// LogMatchupSkipped logs a matchup whose stats could not be assembled.
func (rl *RunLogger) LogMatchupSkipped(matchup *models.Matchup) {
	rl.WithFields(logrus.Fields{
		"date":      matchup.Date.Format("2006-01-02"),
		"home_team": matchup.HomeTeam,
		"away_team": matchup.AwayTeam,
		"reason":    matchup.SkipReason,
	}).Warn("Matchup skipped")
}

// LogRunCompleted logs the final report summary.
func (rl *RunLogger) LogRunCompleted(report *models.BacktestReport, duration time.Duration) {
	fields := logrus.Fields{
		"game_days":       report.GameDays,
		"matchups":        report.TotalMatchups(),
		"correct":         report.Correct,
		"incorrect":       report.Incorrect,
		"no_prediction":   report.NoPrediction,
		"unknown_outcome": report.UnknownOutcome,
		"skipped":         report.Skipped,
		"duration_ms":     duration.Milliseconds(),
	}
	if acc := report.AccuracyValue(); acc != nil {
		fields["accuracy"] = *acc
	}
	rl.WithFields(fields).Info("Backtest run completed")
}

// LogRunFailed logs a run that could not produce a report.
func (rl *RunLogger) LogRunFailed(err error) {
	rl.WithError(err).Error("Backtest run failed")
}

// LogWeightsRefined logs the per-stat deltas applied after a run.
func (rl *RunLogger) LogWeightsRefined(before, after *models.ScoringWeights) {
	deltas := make(map[string]float64, len(after.StatWeights))
	for name, weight := range after.StatWeights {
		deltas[name] = weight - before.StatWeights[name]
	}
	rl.WithFields(logrus.Fields{
		"stats":  len(after.StatWeights),
		"deltas": deltas,
	}).Info("Scoring weights refined")
}

// LogProjectionCompleted logs a finished projection pass.
func (rl *RunLogger) LogProjectionCompleted(gameDays, games, skipped int, duration time.Duration) {
	rl.WithFields(logrus.Fields{
		"game_days":   gameDays,
		"games":       games,
		"skipped":     skipped,
		"duration_ms": duration.Milliseconds(),
	}).Info("Projection completed")
}
