// Package scoring holds the pure arithmetic of the prediction engine:
// turning a stat record into a scalar score, calling a winner from two
// scores, and nudging the weights from a finished report.
package scoring

import "github.com/yourusername/hoopcast/internal/models"

// Score converts a team's stat record into a single comparable number: the
// weighted sum of its stats, plus the home advantage bonus when the team
// plays at home. Stats present in the record but absent from the weights
// are ignored. Stats are summed in sorted name order so repeated runs
// accumulate identically.
func Score(record *models.TeamStatRecord, weights *models.ScoringWeights, isHome bool) float64 {
	total := 0.0
	for _, name := range weights.StatNames() {
		total += record.Stats[name] * weights.StatWeights[name]
	}
	if isHome {
		total += weights.HomeAdvantage
	}
	return total
}
