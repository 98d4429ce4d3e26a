package backtest

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/hoopcast/internal/models"
)

// ResampleConfig configures the accuracy resampling pass
type ResampleConfig struct {
	Iterations      int
	ConfidenceLevel float64
	Seed            int64
}

// ResampleResult bounds the run accuracy by drawing bootstrap samples
// from the decided matchups
type ResampleResult struct {
	Iterations      int
	ConfidenceLevel float64
	MeanAccuracy    float64
	StdAccuracy     float64
	Lower           float64
	Upper           float64
}

// ResampleAccuracy estimates how much of the headline accuracy is sample
// noise. It resamples the decided matchups with replacement Iterations
// times and reports the spread of the resulting accuracies. Returns false
// when fewer than two matchups resolved, which is too few to resample.
func ResampleAccuracy(matchups []models.Matchup, cfg ResampleConfig) (ResampleResult, bool) {
	outcomes := decidedOutcomes(matchups)
	if len(outcomes) < 2 {
		return ResampleResult{}, false
	}

	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.ConfidenceLevel <= 0 || cfg.ConfidenceLevel >= 1 {
		cfg.ConfidenceLevel = 0.95
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		correct := 0
		for range outcomes {
			if outcomes[rng.Intn(len(outcomes))] {
				correct++
			}
		}
		distribution[i] = float64(correct) / float64(len(outcomes))
	}

	mean, std := meanStd(distribution)
	tail := (1.0 - cfg.ConfidenceLevel) / 2.0

	return ResampleResult{
		Iterations:      cfg.Iterations,
		ConfidenceLevel: cfg.ConfidenceLevel,
		MeanAccuracy:    mean,
		StdAccuracy:     std,
		Lower:           percentile(distribution, tail),
		Upper:           percentile(distribution, 1.0-tail),
	}, true
}

func decidedOutcomes(matchups []models.Matchup) []bool {
	outcomes := make([]bool, 0, len(matchups))
	for _, m := range matchups {
		if !m.CountsForAccuracy() {
			continue
		}
		outcomes = append(outcomes, m.Status == models.StatusCorrect)
	}
	return outcomes
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
