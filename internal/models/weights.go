package models

import "sort"

// ScoringWeights maps stat names to their weights and carries the two
// scalar tuning knobs of the predictor. Read throughout a run; replaced,
// never mutated in place, by the weight refiner after a run completes.
type ScoringWeights struct {
	StatWeights         map[string]float64 `json:"stat_weights" validate:"required,min=1"`
	HomeAdvantage       float64            `json:"home_advantage"`
	PredictionThreshold float64            `json:"prediction_threshold" validate:"gte=0"`
}

// Clone returns a deep copy so a refinement pass never aliases the weights
// the run was scored with
func (w *ScoringWeights) Clone() *ScoringWeights {
	out := &ScoringWeights{
		StatWeights:         make(map[string]float64, len(w.StatWeights)),
		HomeAdvantage:       w.HomeAdvantage,
		PredictionThreshold: w.PredictionThreshold,
	}
	for name, weight := range w.StatWeights {
		out.StatWeights[name] = weight
	}
	return out
}

// StatNames returns the configured stat names in sorted order for
// deterministic iteration
func (w *ScoringWeights) StatNames() []string {
	names := make([]string, 0, len(w.StatWeights))
	for name := range w.StatWeights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
