// Package metrics defines backtest run metrics.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// Run counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "backtest_runs_total",
		Help:      "Total number of runs by mode and status",
	}, []string{"mode", "status"})
	MatchupResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "matchup_results_total",
		Help:      "Total number of evaluated matchups by outcome status",
	}, []string{"status"})
	WeightRefinementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "weight_refinements_total",
		Help:      "Total number of completed weight refinements",
	})
)

// Run histogram metrics
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hoopcast",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// Run gauge metrics
var (
	BacktestAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hoopcast",
		Name:      "backtest_accuracy",
		Help:      "Prediction accuracy of the most recent run",
	})
	LastRunGameDays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "hoopcast",
		Name:      "last_run_game_days",
		Help:      "Number of game days covered by the most recent run",
	})
	StatWeightValue = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hoopcast",
		Name:      "stat_weight",
		Help:      "Current scoring weight for each stat",
	}, []string{"stat"})
)

// RecordBacktestRun records a run completion event.
// mode should be one of: "backtest", "projection"
// status should be one of: "success", "failure"
func RecordBacktestRun(mode, status string) {
	BacktestRunsTotal.WithLabelValues(mode, status).Inc()
}

// RecordMatchupResult records the outcome status of an evaluated matchup.
func RecordMatchupResult(status string) {
	MatchupResultsTotal.WithLabelValues(status).Inc()
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}

// UpdateBacktestAccuracy updates the accuracy gauge. Accuracy is undefined
// until at least one prediction resolves, so NaN leaves the gauge untouched.
func UpdateBacktestAccuracy(accuracy float64) {
	if math.IsNaN(accuracy) {
		return
	}
	BacktestAccuracy.Set(accuracy)
}

// UpdateGameDaysResolved updates the game day count for the most recent run.
func UpdateGameDaysResolved(count int) {
	LastRunGameDays.Set(float64(count))
}

// UpdateStatWeight updates the current weight gauge for a stat.
func UpdateStatWeight(stat string, weight float64) {
	StatWeightValue.WithLabelValues(stat).Set(weight)
}

// RecordWeightRefinement records a completed weight refinement.
func RecordWeightRefinement() {
	WeightRefinementsTotal.Inc()
}
