// Package schedule resolves which calendar days in a lookback window held
// real games. Off-days are filtered out by asking the schedule source about
// every candidate date; no calendar day is ever assumed to be a game day.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/datasource"
	"github.com/yourusername/hoopcast/internal/models"
)

// DefaultLookbackDays is the window used when the requested lookback is
// absent or not a positive number
const DefaultLookbackDays = 7

// Resolver turns a lookback window into the ordered game days it contains
type Resolver struct {
	source datasource.ScheduleSource
	logger *logrus.Logger

	// now is swappable so the window is testable
	now func() time.Time
}

// NewResolver creates a schedule resolver backed by the given source
func NewResolver(source datasource.ScheduleSource, logger *logrus.Logger) (*Resolver, error) {
	if source == nil {
		return nil, fmt.Errorf("schedule source is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Resolver{
		source: source,
		logger: logger,
		now:    time.Now,
	}, nil
}

// ResolveWindow returns the game days in [today-lookbackDays, today-1],
// earliest first, excluding dates with zero scheduled games. An empty
// result is valid: it means the window genuinely held no games. A source
// that cannot be reached fails the whole resolution with
// models.ErrDataUnavailable instead, so "no games" is never conflated with
// "couldn't check".
func (r *Resolver) ResolveWindow(ctx context.Context, lookbackDays int) ([]models.GameDay, error) {
	if lookbackDays <= 0 {
		r.logger.WithField("requested", lookbackDays).
			Warnf("invalid lookback window, falling back to %d days", DefaultLookbackDays)
		lookbackDays = DefaultLookbackDays
	}

	today := r.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -lookbackDays)

	days := make([]models.GameDay, 0, lookbackDays)
	for date := start; date.Before(today); date = date.AddDate(0, 0, 1) {
		key := date.Format("2006-01-02")

		hasGames, err := r.source.HasGamesOn(ctx, date)
		if err != nil {
			r.logger.WithError(err).WithField("date", key).Error("schedule source unreachable")
			return nil, fmt.Errorf("failed to check schedule for %s: %w", key, models.ErrDataUnavailable)
		}
		if !hasGames {
			r.logger.WithField("date", key).Debug("no games scheduled, skipping")
			continue
		}

		listings, err := r.source.GamesOn(ctx, date)
		if err != nil {
			r.logger.WithError(err).WithField("date", key).Error("schedule source unreachable")
			return nil, fmt.Errorf("failed to fetch schedule for %s: %w", key, models.ErrDataUnavailable)
		}
		if len(listings) == 0 {
			continue
		}

		games := make([]models.ScheduledGame, 0, len(listings))
		for _, listing := range listings {
			games = append(games, models.ScheduledGame{
				HomeTeam: listing.HomeTeam,
				AwayTeam: listing.AwayTeam,
			})
		}
		days = append(days, models.GameDay{Date: date, Games: games})
	}

	r.logger.WithFields(logrus.Fields{
		"lookback_days": lookbackDays,
		"game_days":     len(days),
	}).Info("resolved backtest window")

	return days, nil
}

// Window returns the [start, end] dates a lookback of the given size covers,
// defaulting exactly as ResolveWindow does. End is yesterday: today's games
// have no settled outcome to compare against.
func (r *Resolver) Window(lookbackDays int) (time.Time, time.Time) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	today := r.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -lookbackDays), today.AddDate(0, 0, -1)
}
