// Package backtest replays a recent window of games through the scoring
// engine and measures how its predictions would have fared against the
// recorded outcomes.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/logger"
	"github.com/yourusername/hoopcast/internal/models"
	"github.com/yourusername/hoopcast/internal/schedule"
	"github.com/yourusername/hoopcast/internal/scoring"
)

// ScheduleResolver resolves the lookback window into its game days
type ScheduleResolver interface {
	ResolveWindow(ctx context.Context, lookbackDays int) ([]models.GameDay, error)
	Window(lookbackDays int) (time.Time, time.Time)
}

// StatsFetcher assembles the canonical stat record for one team
type StatsFetcher interface {
	FetchRecord(ctx context.Context, rawTeam string, asOf time.Time, required []string) (*models.TeamStatRecord, error)
}

// OutcomeSource reports the recorded winner of a finished game. The raw
// schedule identifiers are passed through untranslated: outcomes live in
// the same feed the schedule came from.
type OutcomeSource interface {
	Outcome(ctx context.Context, date time.Time, homeTeam, awayTeam string) (models.Winner, error)
}

// Engine orchestrates backtest runs
type Engine struct {
	config   RunConfig
	resolver ScheduleResolver
	stats    StatsFetcher
	outcomes OutcomeSource
	weights  scoring.WeightStore
	log      *logger.RunLogger
}

// Result bundles everything one run produced. WeightsAfter equals
// WeightsBefore when refinement is disabled.
type Result struct {
	Report        *models.BacktestReport
	State         *RunState
	WeightsBefore *models.ScoringWeights
	WeightsAfter  *models.ScoringWeights
}

// NewEngine creates a backtest engine over the given collaborators
func NewEngine(cfg RunConfig, resolver ScheduleResolver, stats StatsFetcher, outcomes OutcomeSource, weights scoring.WeightStore, runLog *logger.RunLogger) (*Engine, error) {
	if resolver == nil {
		return nil, fmt.Errorf("schedule resolver is required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats fetcher is required")
	}
	if outcomes == nil {
		return nil, fmt.Errorf("outcome source is required")
	}
	if weights == nil {
		return nil, fmt.Errorf("weight store is required")
	}
	if runLog == nil {
		runLog = logger.NewRunLogger(logrus.New())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	return &Engine{
		config:   cfg,
		resolver: resolver,
		stats:    stats,
		outcomes: outcomes,
		weights:  weights,
		log:      runLog,
	}, nil
}

// Config returns the run configuration
func (e *Engine) Config() RunConfig {
	return e.config
}

// Logger returns the underlying logger
func (e *Engine) Logger() *logrus.Logger {
	return e.log.Logger
}

// Run executes one full backtest pass: resolve the window, evaluate every
// scheduled game in it, freeze the report and, when enabled, refine and
// persist the scoring weights. Per-matchup failures are settled as skipped
// and never abort the pass; only a failed window resolution or weight
// load/save is fatal.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	state := NewRunState()

	weights, err := e.weights.LoadWeights(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load scoring weights: %w", err)
		e.log.LogRunFailed(err)
		return nil, err
	}

	lookback := e.config.LookbackDays
	if lookback <= 0 {
		lookback = schedule.DefaultLookbackDays
	}
	windowStart, windowEnd := e.resolver.Window(lookback)
	e.log.LogRunStarted(windowStart, windowEnd, lookback, e.config.Refine)

	state.Transition(PhaseResolving)
	days, err := e.resolver.ResolveWindow(ctx, e.config.LookbackDays)
	if err != nil {
		err = fmt.Errorf("failed to resolve backtest window: %w", err)
		e.log.LogRunFailed(err)
		return nil, err
	}

	totalGames := 0
	for _, day := range days {
		totalGames += len(day.Games)
	}
	e.log.LogWindowResolved(len(days), totalGames)

	required := weights.StatNames()
	for _, day := range days {
		state.BeginDay(day.Date)
		for _, game := range day.Games {
			matchup := e.evaluateMatchup(ctx, state, day.Date, game, weights, required)
			state.RecordMatchup(matchup)
		}
	}

	state.Transition(PhaseReporting)
	report := buildReport(state, windowStart, windowEnd, lookback)

	result := &Result{
		Report:        report,
		State:         state,
		WeightsBefore: weights,
		WeightsAfter:  weights,
	}

	if e.config.Refine {
		refined := scoring.Refine(weights, report, e.config.Refiner)
		if err := e.weights.SaveWeights(ctx, refined); err != nil {
			err = fmt.Errorf("failed to save refined weights: %w", err)
			e.log.LogRunFailed(err)
			return nil, err
		}
		result.WeightsAfter = refined
		e.log.LogWeightsRefined(weights, refined)
	}

	state.Transition(PhaseDone)
	e.log.LogRunCompleted(report, state.Elapsed())

	return result, nil
}

// evaluateMatchup moves one scheduled game through the fetch, score,
// predict and compare phases. Failures here settle the matchup as skipped
// with a reason and the pass moves on; nothing is retried.
func (e *Engine) evaluateMatchup(ctx context.Context, state *RunState, date time.Time, game models.ScheduledGame, weights *models.ScoringWeights, required []string) models.Matchup {
	matchup := models.Matchup{
		Date:     date,
		HomeTeam: game.HomeTeam,
		AwayTeam: game.AwayTeam,
	}

	state.Transition(PhaseFetching)
	homeRecord, err := e.stats.FetchRecord(ctx, game.HomeTeam, date, required)
	if err != nil {
		matchup.Status = models.StatusSkipped
		matchup.SkipReason = err.Error()
		e.log.LogMatchupSkipped(&matchup)
		return matchup
	}
	awayRecord, err := e.stats.FetchRecord(ctx, game.AwayTeam, date, required)
	if err != nil {
		matchup.Status = models.StatusSkipped
		matchup.SkipReason = err.Error()
		e.log.LogMatchupSkipped(&matchup)
		return matchup
	}
	matchup.HomeStats = homeRecord.Stats
	matchup.AwayStats = awayRecord.Stats

	state.Transition(PhaseScoring)
	matchup.HomeScore = scoring.Score(homeRecord, weights, true)
	matchup.AwayScore = scoring.Score(awayRecord, weights, false)

	state.Transition(PhasePredicting)
	matchup.Predicted = scoring.Predict(matchup.HomeScore, matchup.AwayScore, weights.PredictionThreshold)

	state.Transition(PhaseComparing)
	actual, err := e.outcomes.Outcome(ctx, date, game.HomeTeam, game.AwayTeam)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"date": date.Format("2006-01-02"),
			"home": game.HomeTeam,
			"away": game.AwayTeam,
		}).Warn("outcome unavailable, matchup excluded from accuracy")
		actual = models.WinnerUnknown
	}
	matchup.Actual = actual
	matchup.Status = classify(matchup.Predicted, actual)

	e.log.LogMatchupEvaluated(&matchup)

	return matchup
}

// classify settles a matchup's status from its prediction and the recorded
// outcome. A no-call stays a no-call even when the outcome is known; an
// unknown outcome keeps the matchup out of accuracy no matter what was
// predicted.
func classify(predicted models.Prediction, actual models.Winner) models.MatchupStatus {
	if predicted == models.NoConfidentPrediction {
		return models.StatusNoPrediction
	}
	if actual == models.WinnerUnknown {
		return models.StatusUnknownOutcome
	}
	if (predicted == models.PredictHome && actual == models.WinnerHome) ||
		(predicted == models.PredictAway && actual == models.WinnerAway) {
		return models.StatusCorrect
	}
	return models.StatusIncorrect
}

// buildReport freezes the run state into an immutable report, matchups in
// canonical order: by date, then by home team identifier
func buildReport(state *RunState, windowStart, windowEnd time.Time, lookbackDays int) *models.BacktestReport {
	matchups := make([]models.Matchup, len(state.Matchups))
	copy(matchups, state.Matchups)
	sort.SliceStable(matchups, func(i, j int) bool {
		if !matchups[i].Date.Equal(matchups[j].Date) {
			return matchups[i].Date.Before(matchups[j].Date)
		}
		return matchups[i].HomeTeam < matchups[j].HomeTeam
	})

	report := &models.BacktestReport{
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		LookbackDays: lookbackDays,
		GameDays:     state.GameDays,
		Matchups:     matchups,
		GeneratedAt:  time.Now().UTC(),
	}
	for _, m := range matchups {
		switch m.Status {
		case models.StatusCorrect:
			report.Correct++
		case models.StatusIncorrect:
			report.Incorrect++
		case models.StatusNoPrediction:
			report.NoPrediction++
		case models.StatusUnknownOutcome:
			report.UnknownOutcome++
		case models.StatusSkipped:
			report.Skipped++
		}
	}
	return report
}
