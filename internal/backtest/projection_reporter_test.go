package backtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourusername/hoopcast/internal/models"
)

func sampleProjection(t *testing.T) *models.ProjectionReport {
	t.Helper()
	return &models.ProjectionReport{
		HorizonStart: mustDate(t, "2024-03-08"),
		HorizonEnd:   mustDate(t, "2024-03-09"),
		Games: []models.ProjectedGame{
			{
				Date:      mustDate(t, "2024-03-08"),
				HomeTeam:  "BOS",
				AwayTeam:  "LAL",
				HomeScore: 134.5,
				AwayScore: 133.0,
				Predicted: models.PredictHome,
			},
			{
				Date:       mustDate(t, "2024-03-09"),
				HomeTeam:   "UTA",
				AwayTeam:   "DEN",
				Skipped:    true,
				SkipReason: "unknown team identifier",
			},
		},
	}
}

func TestGenerateProjectionConsole(t *testing.T) {
	output := GenerateProjectionConsole(sampleProjection(t))

	if !strings.Contains(output, "Horizon: 2024-03-08 to 2024-03-09") {
		t.Errorf("missing horizon line in:\n%s", output)
	}
	if !strings.Contains(output, "Games: 2") {
		t.Errorf("missing game count in:\n%s", output)
	}
	if !strings.Contains(output, "Skipped: 1") {
		t.Errorf("missing skipped count in:\n%s", output)
	}
	if !strings.Contains(output, "2024-03-08  BOS vs LAL  134.5-133.0  predicted home") {
		t.Errorf("missing game line in:\n%s", output)
	}
	if !strings.Contains(output, "UTA vs DEN  skipped (unknown team identifier)") {
		t.Errorf("missing skipped line in:\n%s", output)
	}
}

func TestWriteProjectionJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteProjectionJSON(sampleProjection(t), dir)
	if err != nil {
		t.Fatalf("WriteProjectionJSON failed: %v", err)
	}
	if filepath.Base(path) != "projection_2024-03-08_2024-03-09.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read projection back: %v", err)
	}

	var decoded models.ProjectionReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported projection is not valid JSON: %v", err)
	}
	if len(decoded.Games) != 2 {
		t.Errorf("expected 2 games, got %d", len(decoded.Games))
	}
	if decoded.Games[0].Predicted != models.PredictHome {
		t.Errorf("expected home prediction, got %s", decoded.Games[0].Predicted)
	}
}

func TestWriteProjectionCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteProjectionCSV(sampleProjection(t), dir)
	if err != nil {
		t.Fatalf("WriteProjectionCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export back: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "date,home_team,away_team") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-08,BOS,LAL,134.5,133") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "unknown team identifier") {
		t.Errorf("skip reason should survive the csv round trip, got %q", lines[2])
	}
}
