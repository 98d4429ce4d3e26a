package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yourusername/hoopcast/internal/models"
)

// defaultMarginEdges split decided matchups into calibration buckets by
// predicted margin magnitude. The last bucket is open ended.
var defaultMarginEdges = []float64{3, 6, 10}

// Breakdown slices a finished run beyond the headline accuracy: how each
// side of the call performed, whether larger predicted margins were more
// often right, and how accuracy moved across the window. Only decided
// matchups contribute; skipped and unresolved games stay out, matching the
// headline accuracy denominator.
type Breakdown struct {
	HomeCalls       int
	AwayCalls       int
	HomeCallCorrect int
	AwayCallCorrect int

	AvgMarginCorrect   float64
	AvgMarginIncorrect float64
	LargestMiss        float64

	Buckets []MarginBucket
	Days    []DayAccuracy
}

// Decided counts the matchups in the breakdown. Every decided matchup
// carries a confident call on one side or the other.
func (b Breakdown) Decided() int {
	return b.HomeCalls + b.AwayCalls
}

// Correct counts decided matchups whose call matched the outcome
func (b Breakdown) Correct() int {
	return b.HomeCallCorrect + b.AwayCallCorrect
}

// HomeCallAccuracy returns nil when no home call resolved
func (b Breakdown) HomeCallAccuracy() *float64 {
	return ratio(b.HomeCallCorrect, b.HomeCalls)
}

// AwayCallAccuracy returns nil when no away call resolved
func (b Breakdown) AwayCallAccuracy() *float64 {
	return ratio(b.AwayCallCorrect, b.AwayCalls)
}

// MarginBucket groups decided matchups by the magnitude of the predicted
// margin. High is +Inf for the open ended last bucket.
type MarginBucket struct {
	Low     float64
	High    float64
	Decided int
	Correct int
}

// Contains reports whether a margin falls in [Low, High)
func (b MarginBucket) Contains(margin float64) bool {
	return margin >= b.Low && margin < b.High
}

// Accuracy returns nil when the bucket is empty
func (b MarginBucket) Accuracy() *float64 {
	return ratio(b.Correct, b.Decided)
}

// Label formats the bucket range for display
func (b MarginBucket) Label() string {
	if math.IsInf(b.High, 1) {
		return fmt.Sprintf("%.1f+", b.Low)
	}
	return fmt.Sprintf("%.1f-%.1f", b.Low, b.High)
}

// DayAccuracy tracks how the predictor did on a single game day
type DayAccuracy struct {
	Date    time.Time
	Games   int
	Decided int
	Correct int
}

// Accuracy returns nil when no game that day resolved a prediction
func (d DayAccuracy) Accuracy() *float64 {
	return ratio(d.Correct, d.Decided)
}

// ComputeBreakdown derives the per-side, per-margin and per-day splits
// from an evaluated matchup list
func ComputeBreakdown(matchups []models.Matchup) Breakdown {
	breakdown := Breakdown{Buckets: newMarginBuckets(defaultMarginEdges)}
	var correctMargins, incorrectMargins []float64
	days := make(map[time.Time]*DayAccuracy)

	for _, m := range matchups {
		date := m.Date.Truncate(24 * time.Hour)
		day := days[date]
		if day == nil {
			day = &DayAccuracy{Date: date}
			days[date] = day
		}
		day.Games++

		if !m.CountsForAccuracy() {
			continue
		}
		day.Decided++

		margin := math.Abs(m.HomeScore - m.AwayScore)
		correct := m.Status == models.StatusCorrect
		if correct {
			day.Correct++
			correctMargins = append(correctMargins, margin)
		} else {
			incorrectMargins = append(incorrectMargins, margin)
			if margin > breakdown.LargestMiss {
				breakdown.LargestMiss = margin
			}
		}

		switch m.Predicted {
		case models.PredictHome:
			breakdown.HomeCalls++
			if correct {
				breakdown.HomeCallCorrect++
			}
		case models.PredictAway:
			breakdown.AwayCalls++
			if correct {
				breakdown.AwayCallCorrect++
			}
		}

		for i := range breakdown.Buckets {
			if breakdown.Buckets[i].Contains(margin) {
				breakdown.Buckets[i].Decided++
				if correct {
					breakdown.Buckets[i].Correct++
				}
				break
			}
		}
	}

	breakdown.AvgMarginCorrect = average(correctMargins)
	breakdown.AvgMarginIncorrect = average(incorrectMargins)

	breakdown.Days = make([]DayAccuracy, 0, len(days))
	for _, day := range days {
		breakdown.Days = append(breakdown.Days, *day)
	}
	sort.Slice(breakdown.Days, func(i, j int) bool {
		return breakdown.Days[i].Date.Before(breakdown.Days[j].Date)
	})

	return breakdown
}

func newMarginBuckets(edges []float64) []MarginBucket {
	buckets := make([]MarginBucket, 0, len(edges)+1)
	low := 0.0
	for _, edge := range edges {
		buckets = append(buckets, MarginBucket{Low: low, High: edge})
		low = edge
	}
	return append(buckets, MarginBucket{Low: low, High: math.Inf(1)})
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	value := float64(num) / float64(den)
	return &value
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
