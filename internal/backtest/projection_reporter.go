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

// GenerateProjectionConsole formats a projection report for terminal output
func GenerateProjectionConsole(report *models.ProjectionReport) string {
	var builder strings.Builder
	builder.WriteString("Projection Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Horizon: %s to %s\n",
		report.HorizonStart.Format("2006-01-02"),
		report.HorizonEnd.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Games: %d\n", len(report.Games)))

	skipped := 0
	for _, g := range report.Games {
		if g.Skipped {
			skipped++
		}
	}
	builder.WriteString(fmt.Sprintf("Skipped: %d\n", skipped))

	if len(report.Games) > 0 {
		builder.WriteString("\nGames\n")
		builder.WriteString("----------------\n")
		for _, g := range report.Games {
			if g.Skipped {
				builder.WriteString(fmt.Sprintf("%s  %s vs %s  skipped (%s)\n",
					g.Date.Format("2006-01-02"), g.HomeTeam, g.AwayTeam, g.SkipReason))
				continue
			}
			builder.WriteString(fmt.Sprintf("%s  %s vs %s  %.1f-%.1f  predicted %s\n",
				g.Date.Format("2006-01-02"), g.HomeTeam, g.AwayTeam,
				g.HomeScore, g.AwayScore, g.Predicted))
		}
	}
	return builder.String()
}

// WriteProjectionJSON writes the projection to
// <dir>/projection_<start>_<end>.json and returns the written path
func WriteProjectionJSON(report *models.ProjectionReport, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal projection: %w", err)
	}

	path := filepath.Join(outputDir, projectionFileName(report, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write projection: %w", err)
	}
	return path, nil
}

// WriteProjectionCSV writes one row per projected game to
// <dir>/projection_<start>_<end>.csv and returns the written path
func WriteProjectionCSV(report *models.ProjectionReport, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, projectionFileName(report, "csv"))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create projection file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"date", "home_team", "away_team", "home_score", "away_score", "predicted", "skip_reason"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, g := range report.Games {
		row := []string{
			g.Date.Format("2006-01-02"),
			g.HomeTeam,
			g.AwayTeam,
			strconv.FormatFloat(g.HomeScore, 'f', -1, 64),
			strconv.FormatFloat(g.AwayScore, 'f', -1, 64),
			string(g.Predicted),
			g.SkipReason,
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

func projectionFileName(report *models.ProjectionReport, ext string) string {
	return fmt.Sprintf("projection_%s_%s.%s",
		report.HorizonStart.Format("2006-01-02"),
		report.HorizonEnd.Format("2006-01-02"),
		ext)
}
