package scoring

import "github.com/yourusername/hoopcast/internal/models"

// RefinerConfig bounds the per-run weight adjustment
type RefinerConfig struct {
	// LearningRate scales each stat's correlation into a weight delta
	LearningRate float64
	// MaxStepPerRun caps the absolute change of any single weight in one run
	MaxStepPerRun float64
}

// DefaultRefinerConfig returns the stock refinement bounds
func DefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{
		LearningRate:  0.05,
		MaxStepPerRun: 0.25,
	}
}

// Refine nudges each stat weight in proportion to how often that stat's
// edge between the two teams agreed with predictions that turned out
// correct. Only matchups with a confident prediction and a recorded outcome
// participate; with none of those the input weights come back unchanged.
// Home advantage and the prediction threshold are never refined. The result
// is deterministic for a given report and starting weights, and every
// per-stat change is clamped to MaxStepPerRun.
func Refine(weights *models.ScoringWeights, report *models.BacktestReport, cfg RefinerConfig) *models.ScoringWeights {
	out := weights.Clone()

	eligible := make([]*models.Matchup, 0, len(report.Matchups))
	for i := range report.Matchups {
		if report.Matchups[i].CountsForAccuracy() {
			eligible = append(eligible, &report.Matchups[i])
		}
	}
	if len(eligible) == 0 {
		return out
	}

	for _, name := range weights.StatNames() {
		votes := 0
		for _, m := range eligible {
			diff := m.HomeStats[name] - m.AwayStats[name]
			if diff == 0 {
				continue
			}

			// A negative weight inverts which side a raw edge favors. A zero
			// weight keeps the raw orientation so benched stats can still
			// earn their way back in.
			signal := diff
			if weights.StatWeights[name] < 0 {
				signal = -diff
			}

			supported := (signal > 0) == (m.Predicted == models.PredictHome)
			if supported == (m.Status == models.StatusCorrect) {
				votes++
			} else {
				votes--
			}
		}

		correlation := float64(votes) / float64(len(eligible))
		out.StatWeights[name] += clamp(cfg.LearningRate*correlation, cfg.MaxStepPerRun)
	}

	return out
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
