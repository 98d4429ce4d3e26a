// Package stats assembles the fixed-shape stat records the scoring engine
// consumes, resolving raw team identifiers against the configured mapping.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/datasource"
	"github.com/yourusername/hoopcast/internal/models"
)

// TeamNameMap resolves raw team identifiers, as the schedule feed prints
// them, to canonical full names the stats source understands
type TeamNameMap map[string]string

// Resolve looks up the raw identifier, first verbatim, then case
// insensitively. An identifier without an entry is models.ErrUnknownTeam:
// the mapping is the single source of truth and nothing is ever guessed.
func (m TeamNameMap) Resolve(raw string) (string, error) {
	if canonical, ok := m[raw]; ok {
		return canonical, nil
	}
	for key, canonical := range m {
		if strings.EqualFold(key, raw) {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("failed to resolve %q: %w", raw, models.ErrUnknownTeam)
}

// Normalizer turns a raw team identifier and a date into a complete
// TeamStatRecord
type Normalizer struct {
	teams  TeamNameMap
	source datasource.StatsSource
	logger *logrus.Logger
}

// NewNormalizer creates a stats normalizer over the configured team mapping
// and stats source
func NewNormalizer(teams TeamNameMap, source datasource.StatsSource, logger *logrus.Logger) (*Normalizer, error) {
	if len(teams) == 0 {
		return nil, fmt.Errorf("team name mapping is required")
	}
	if source == nil {
		return nil, fmt.Errorf("stats source is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Normalizer{
		teams:  teams,
		source: source,
		logger: logger,
	}, nil
}

// FetchRecord resolves the raw team identifier and fetches the team's stats
// as of the given date. Every stat named in required must be present in the
// payload; a missing one is models.ErrIncompleteStats, never a zero fill.
// Raw feed decimals are converted to float64 here, at the boundary.
func (n *Normalizer) FetchRecord(ctx context.Context, rawTeam string, asOf time.Time, required []string) (*models.TeamStatRecord, error) {
	canonical, err := n.teams.Resolve(rawTeam)
	if err != nil {
		return nil, err
	}

	payload, err := n.source.FetchTeamStats(ctx, canonical, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats for %s: %w", canonical, err)
	}

	record := &models.TeamStatRecord{
		Team:  canonical,
		AsOf:  asOf,
		Stats: make(map[string]float64, len(payload.Stats)),
	}
	for name, value := range payload.Stats {
		record.Stats[name], _ = value.Float64()
	}

	for _, name := range required {
		if !record.Has(name) {
			n.logger.WithFields(logrus.Fields{
				"team": canonical,
				"stat": name,
				"date": asOf.Format("2006-01-02"),
			}).Warn("required stat missing from feed payload")
			return nil, fmt.Errorf("stat %q missing for %s: %w", name, canonical, models.ErrIncompleteStats)
		}
	}

	return record, nil
}
