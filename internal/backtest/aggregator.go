package backtest

import (
	"fmt"
	"strings"

	"github.com/yourusername/hoopcast/internal/models"
)

// RunAggregate combines a set of persisted runs into one view of how the
// weights have been performing across windows
type RunAggregate struct {
	Runs           int
	TotalMatchups  int
	Correct        int
	Incorrect      int
	NoPrediction   int
	UnknownOutcome int
	Skipped        int
	Best           *models.BacktestRun
	Worst          *models.BacktestRun
}

// OverallAccuracy pools every decided matchup across the aggregated runs.
// Nil when no run resolved a prediction.
func (a RunAggregate) OverallAccuracy() *float64 {
	return ratio(a.Correct, a.Correct+a.Incorrect)
}

// AggregateRuns sums matchup counts across runs and tracks the best and
// worst windows among those that resolved an accuracy
func AggregateRuns(runs []*models.BacktestRun) RunAggregate {
	agg := RunAggregate{Runs: len(runs)}
	for _, run := range runs {
		agg.TotalMatchups += run.TotalMatchups
		agg.Correct += run.Correct
		agg.Incorrect += run.Incorrect
		agg.NoPrediction += run.NoPrediction
		agg.UnknownOutcome += run.UnknownOutcome
		agg.Skipped += run.Skipped

		if run.Accuracy == nil {
			continue
		}
		if agg.Best == nil || *run.Accuracy > *agg.Best.Accuracy {
			agg.Best = run
		}
		if agg.Worst == nil || *run.Accuracy < *agg.Worst.Accuracy {
			agg.Worst = run
		}
	}
	return agg
}

// GenerateHistoryConsole formats persisted runs for terminal output,
// newest first as the repository returns them
func GenerateHistoryConsole(runs []*models.BacktestRun) string {
	agg := AggregateRuns(runs)

	var builder strings.Builder
	builder.WriteString("Run History\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Runs: %d\n", agg.Runs))
	builder.WriteString(fmt.Sprintf("Matchups: %d\n", agg.TotalMatchups))
	if acc := agg.OverallAccuracy(); acc != nil {
		builder.WriteString(fmt.Sprintf("Overall Accuracy: %.2f%%\n", *acc*100))
	} else {
		builder.WriteString("Overall Accuracy: n/a (no resolved predictions)\n")
	}

	if len(runs) > 0 {
		builder.WriteString("\nRuns\n")
		builder.WriteString("----------------\n")
		for _, run := range runs {
			builder.WriteString(fmt.Sprintf("%s  %s to %s  %d matchups  %s\n",
				run.CreatedAt.Format("2006-01-02 15:04"),
				run.WindowStart.Format("2006-01-02"),
				run.WindowEnd.Format("2006-01-02"),
				run.TotalMatchups,
				formatRunAccuracy(run.Accuracy)))
		}
	}

	if agg.Best != nil && agg.Worst != nil && agg.Best != agg.Worst {
		builder.WriteString(fmt.Sprintf("\nBest:  %s to %s (%.2f%%)\n",
			agg.Best.WindowStart.Format("2006-01-02"),
			agg.Best.WindowEnd.Format("2006-01-02"),
			*agg.Best.Accuracy*100))
		builder.WriteString(fmt.Sprintf("Worst: %s to %s (%.2f%%)\n",
			agg.Worst.WindowStart.Format("2006-01-02"),
			agg.Worst.WindowEnd.Format("2006-01-02"),
			*agg.Worst.Accuracy*100))
	}

	return builder.String()
}

func formatRunAccuracy(accuracy *float64) string {
	if accuracy == nil {
		return "accuracy n/a"
	}
	return fmt.Sprintf("accuracy %.2f%%", *accuracy*100)
}
