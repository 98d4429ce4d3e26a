package backtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/hoopcast/internal/models"
)

// GenerateConsoleReport formats a run report for terminal output
func GenerateConsoleReport(report *models.BacktestReport) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Window: %s to %s (%d day lookback)\n",
		report.WindowStart.Format("2006-01-02"),
		report.WindowEnd.Format("2006-01-02"),
		report.LookbackDays))
	builder.WriteString(fmt.Sprintf("Game Days: %d\n", report.GameDays))
	builder.WriteString(fmt.Sprintf("Matchups: %d\n", report.TotalMatchups()))
	builder.WriteString(fmt.Sprintf("Correct: %d\n", report.Correct))
	builder.WriteString(fmt.Sprintf("Incorrect: %d\n", report.Incorrect))
	builder.WriteString(fmt.Sprintf("No Prediction: %d\n", report.NoPrediction))
	builder.WriteString(fmt.Sprintf("Unknown Outcome: %d\n", report.UnknownOutcome))
	builder.WriteString(fmt.Sprintf("Skipped: %d\n", report.Skipped))
	if acc := report.AccuracyValue(); acc != nil {
		builder.WriteString(fmt.Sprintf("Accuracy: %.2f%%\n", *acc*100))
	} else {
		builder.WriteString("Accuracy: n/a (no resolved predictions)\n")
	}

	if len(report.Matchups) > 0 {
		builder.WriteString("\nMatchups\n")
		builder.WriteString("----------------\n")
		for _, m := range report.Matchups {
			if m.IsSkipped() {
				builder.WriteString(fmt.Sprintf("%s  %s vs %s  skipped (%s)\n",
					m.Date.Format("2006-01-02"), m.HomeTeam, m.AwayTeam, m.SkipReason))
				continue
			}
			builder.WriteString(fmt.Sprintf("%s  %s vs %s  %.1f-%.1f  predicted %s, actual %s  [%s]\n",
				m.Date.Format("2006-01-02"), m.HomeTeam, m.AwayTeam,
				m.HomeScore, m.AwayScore, m.Predicted, m.Actual, m.Status))
		}
	}

	writeBreakdown(&builder, report)
	return builder.String()
}

// consoleResampleSeed keeps the confidence interval stable across renders
// of the same report
const consoleResampleSeed = 1

// resampleDisplayMin is the fewest decided matchups worth bounding. Below
// this the interval spans most of [0, 1] and says nothing.
const resampleDisplayMin = 10

func writeBreakdown(builder *strings.Builder, report *models.BacktestReport) {
	breakdown := ComputeBreakdown(report.Matchups)
	if breakdown.Decided() == 0 {
		return
	}

	builder.WriteString("\nBreakdown\n")
	builder.WriteString("----------------\n")
	builder.WriteString(fmt.Sprintf("Home calls: %s\n", formatCallLine(breakdown.HomeCalls, breakdown.HomeCallCorrect)))
	builder.WriteString(fmt.Sprintf("Away calls: %s\n", formatCallLine(breakdown.AwayCalls, breakdown.AwayCallCorrect)))

	if breakdown.Correct() > 0 {
		builder.WriteString(fmt.Sprintf("Avg margin when correct: %.1f\n", breakdown.AvgMarginCorrect))
	}
	if breakdown.Decided() > breakdown.Correct() {
		builder.WriteString(fmt.Sprintf("Avg margin when incorrect: %.1f\n", breakdown.AvgMarginIncorrect))
		builder.WriteString(fmt.Sprintf("Largest miss: %.1f\n", breakdown.LargestMiss))
	}

	for _, bucket := range breakdown.Buckets {
		if bucket.Decided == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("Margin %s: %d/%d correct (%.2f%%)\n",
			bucket.Label(), bucket.Correct, bucket.Decided, *bucket.Accuracy()*100))
	}

	if len(breakdown.Days) > 1 {
		builder.WriteString("Per day:\n")
		for _, day := range breakdown.Days {
			if day.Decided == 0 {
				builder.WriteString(fmt.Sprintf("  %s  %d games, none decided\n",
					day.Date.Format("2006-01-02"), day.Games))
				continue
			}
			builder.WriteString(fmt.Sprintf("  %s  %d games, %d/%d correct\n",
				day.Date.Format("2006-01-02"), day.Games, day.Correct, day.Decided))
		}
	}

	if breakdown.Decided() >= resampleDisplayMin {
		if ci, ok := ResampleAccuracy(report.Matchups, ResampleConfig{Seed: consoleResampleSeed}); ok {
			builder.WriteString(fmt.Sprintf("Accuracy %.0f%% CI: %.2f%%-%.2f%% (%d resamples)\n",
				ci.ConfidenceLevel*100, ci.Lower*100, ci.Upper*100, ci.Iterations))
		}
	}
}

func formatCallLine(calls, correct int) string {
	if calls == 0 {
		return "0"
	}
	return fmt.Sprintf("%d (%d correct, %.2f%%)", calls, correct, float64(correct)/float64(calls)*100)
}

// reportExport mirrors the report with the accuracy materialized as a
// nullable field. JSON has no encoding for NaN, so an undefined accuracy
// serializes as null.
type reportExport struct {
	*models.BacktestReport
	Accuracy *float64 `json:"accuracy"`
}

// WriteJSONReport writes the report to <dir>/backtest_<start>_<end>.json
// and returns the written path
func WriteJSONReport(report *models.BacktestReport, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(reportExport{
		BacktestReport: report,
		Accuracy:       report.AccuracyValue(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(outputDir, exportFileName(report, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// WriteCSVReport writes one row per matchup to
// <dir>/backtest_<start>_<end>.csv and returns the written path
func WriteCSVReport(report *models.BacktestReport, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, exportFileName(report, "csv"))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"date", "home_team", "away_team", "home_score", "away_score", "predicted", "actual", "status", "skip_reason"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, m := range report.Matchups {
		row := []string{
			m.Date.Format("2006-01-02"),
			m.HomeTeam,
			m.AwayTeam,
			strconv.FormatFloat(m.HomeScore, 'f', -1, 64),
			strconv.FormatFloat(m.AwayScore, 'f', -1, 64),
			string(m.Predicted),
			string(m.Actual),
			string(m.Status),
			m.SkipReason,
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return path, nil
}

// exportFileName is deterministic per window, so re-running the same
// window overwrites the stale export instead of piling up files
func exportFileName(report *models.BacktestReport, ext string) string {
	return fmt.Sprintf("backtest_%s_%s.%s",
		report.WindowStart.Format("2006-01-02"),
		report.WindowEnd.Format("2006-01-02"),
		ext)
}
