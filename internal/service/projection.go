// Package service wires the backtest and projection passes to their
// reporting, persistence and metrics side effects.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/backtest"
	"github.com/yourusername/hoopcast/internal/datasource"
	"github.com/yourusername/hoopcast/internal/logger"
	"github.com/yourusername/hoopcast/internal/metrics"
	"github.com/yourusername/hoopcast/internal/models"
	"github.com/yourusername/hoopcast/internal/scoring"
)

// DefaultHorizonDays is the projection window used when the requested
// horizon is absent or not a positive number
const DefaultHorizonDays = 7

// GameLister lists the games scheduled on a date
type GameLister interface {
	GamesOn(ctx context.Context, date time.Time) ([]datasource.GameListing, error)
}

// ProjectionService scores upcoming games with the current weights. It is
// the forward-looking counterpart of a backtest run: same fetch, score and
// predict steps, but no outcome to compare against, so the report carries
// predictions and nothing else.
type ProjectionService struct {
	games   GameLister
	stats   backtest.StatsFetcher
	weights scoring.WeightStore
	log     *logger.RunLogger

	// now is swappable so the horizon is testable
	now func() time.Time
}

// NewProjectionService creates a projection service over the given collaborators
func NewProjectionService(games GameLister, stats backtest.StatsFetcher, weights scoring.WeightStore, baseLogger *logrus.Logger) (*ProjectionService, error) {
	if games == nil {
		return nil, fmt.Errorf("game lister is required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats fetcher is required")
	}
	if weights == nil {
		return nil, fmt.Errorf("weight store is required")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &ProjectionService{
		games:   games,
		stats:   stats,
		weights: weights,
		log:     logger.NewProjectionLogger(baseLogger),
		now:     time.Now,
	}, nil
}

// Project scores every game scheduled in [today, today+horizonDays-1]. An
// unreachable schedule feed fails the whole pass; a game whose stats cannot
// be assembled is kept in the report as skipped with a reason, same as a
// backtest matchup. Stats are fetched as of today for every game in the
// horizon: future games have no later cutoff to ask for.
func (s *ProjectionService) Project(ctx context.Context, horizonDays int) (*models.ProjectionReport, error) {
	if horizonDays <= 0 {
		s.log.WithField("requested", horizonDays).
			Warnf("invalid projection horizon, falling back to %d days", DefaultHorizonDays)
		horizonDays = DefaultHorizonDays
	}

	started := time.Now()

	weights, err := s.weights.LoadWeights(ctx)
	if err != nil {
		metrics.RecordBacktestRun("projection", "failure")
		return nil, fmt.Errorf("failed to load scoring weights: %w", err)
	}
	required := weights.StatNames()

	today := s.now().UTC().Truncate(24 * time.Hour)
	horizonEnd := today.AddDate(0, 0, horizonDays-1)

	s.log.WithFields(logrus.Fields{
		"horizon_start": today.Format("2006-01-02"),
		"horizon_end":   horizonEnd.Format("2006-01-02"),
		"horizon_days":  horizonDays,
	}).Info("Projection started")

	games := make([]models.ProjectedGame, 0)
	gameDays := 0
	for date := today; !date.After(horizonEnd); date = date.AddDate(0, 0, 1) {
		listings, err := s.games.GamesOn(ctx, date)
		if err != nil {
			metrics.RecordBacktestRun("projection", "failure")
			return nil, fmt.Errorf("failed to fetch schedule for %s: %w", date.Format("2006-01-02"), err)
		}
		if len(listings) == 0 {
			continue
		}
		gameDays++
		for _, listing := range listings {
			games = append(games, s.projectGame(ctx, date, today, listing, weights, required))
		}
	}

	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].Date.Equal(games[j].Date) {
			return games[i].Date.Before(games[j].Date)
		}
		return games[i].HomeTeam < games[j].HomeTeam
	})

	skipped := 0
	for _, game := range games {
		if game.Skipped {
			skipped++
		}
	}

	report := &models.ProjectionReport{
		HorizonStart: today,
		HorizonEnd:   horizonEnd,
		Games:        games,
		GeneratedAt:  time.Now().UTC(),
	}

	metrics.RecordBacktestRun("projection", "success")
	s.log.LogProjectionCompleted(gameDays, len(games), skipped, time.Since(started))

	return report, nil
}

// projectGame scores one scheduled game. Stat failures settle the game as
// skipped with a reason; nothing is retried.
func (s *ProjectionService) projectGame(ctx context.Context, date, asOf time.Time, listing datasource.GameListing, weights *models.ScoringWeights, required []string) models.ProjectedGame {
	game := models.ProjectedGame{
		Date:     date,
		HomeTeam: listing.HomeTeam,
		AwayTeam: listing.AwayTeam,
	}

	homeRecord, err := s.stats.FetchRecord(ctx, listing.HomeTeam, asOf, required)
	if err != nil {
		game.Skipped = true
		game.SkipReason = err.Error()
		s.log.WithFields(logrus.Fields{
			"date":      date.Format("2006-01-02"),
			"home_team": listing.HomeTeam,
			"away_team": listing.AwayTeam,
			"reason":    game.SkipReason,
		}).Warn("Projection skipped")
		return game
	}
	awayRecord, err := s.stats.FetchRecord(ctx, listing.AwayTeam, asOf, required)
	if err != nil {
		game.Skipped = true
		game.SkipReason = err.Error()
		s.log.WithFields(logrus.Fields{
			"date":      date.Format("2006-01-02"),
			"home_team": listing.HomeTeam,
			"away_team": listing.AwayTeam,
			"reason":    game.SkipReason,
		}).Warn("Projection skipped")
		return game
	}

	game.HomeScore = scoring.Score(homeRecord, weights, true)
	game.AwayScore = scoring.Score(awayRecord, weights, false)
	game.Predicted = scoring.Predict(game.HomeScore, game.AwayScore, weights.PredictionThreshold)

	s.log.WithFields(logrus.Fields{
		"date":       date.Format("2006-01-02"),
		"home_team":  game.HomeTeam,
		"away_team":  game.AwayTeam,
		"home_score": game.HomeScore,
		"away_score": game.AwayScore,
		"predicted":  game.Predicted,
	}).Debug("Game projected")

	return game
}
