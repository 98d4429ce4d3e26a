package backtest

import (
	"testing"

	"github.com/yourusername/hoopcast/internal/models"
)

func decidedMatchups(correct, incorrect int) []models.Matchup {
	matchups := make([]models.Matchup, 0, correct+incorrect)
	for i := 0; i < correct; i++ {
		matchups = append(matchups, models.Matchup{
			Predicted: models.PredictHome,
			Actual:    models.WinnerHome,
			Status:    models.StatusCorrect,
		})
	}
	for i := 0; i < incorrect; i++ {
		matchups = append(matchups, models.Matchup{
			Predicted: models.PredictHome,
			Actual:    models.WinnerAway,
			Status:    models.StatusIncorrect,
		})
	}
	return matchups
}

func TestResampleAccuracyAllCorrect(t *testing.T) {
	result, ok := ResampleAccuracy(decidedMatchups(20, 0), ResampleConfig{Seed: 7})
	if !ok {
		t.Fatal("expected resample to run")
	}

	if result.MeanAccuracy != 1.0 {
		t.Errorf("all correct sample should resample to 1.0, got %v", result.MeanAccuracy)
	}
	if result.Lower != 1.0 || result.Upper != 1.0 {
		t.Errorf("expected degenerate interval [1,1], got [%v,%v]", result.Lower, result.Upper)
	}
	if result.StdAccuracy != 0 {
		t.Errorf("expected zero spread, got %v", result.StdAccuracy)
	}
}

func TestResampleAccuracyMixed(t *testing.T) {
	result, ok := ResampleAccuracy(decidedMatchups(10, 10), ResampleConfig{Seed: 7})
	if !ok {
		t.Fatal("expected resample to run")
	}

	if result.Lower > result.MeanAccuracy || result.MeanAccuracy > result.Upper {
		t.Errorf("interval [%v,%v] should bracket mean %v", result.Lower, result.Upper, result.MeanAccuracy)
	}
	if result.Lower >= result.Upper {
		t.Errorf("mixed outcomes should spread the interval, got [%v,%v]", result.Lower, result.Upper)
	}
	if result.MeanAccuracy < 0.3 || result.MeanAccuracy > 0.7 {
		t.Errorf("bootstrap mean should sit near the sample accuracy, got %v", result.MeanAccuracy)
	}
	if result.StdAccuracy <= 0 {
		t.Errorf("expected positive spread, got %v", result.StdAccuracy)
	}
}

func TestResampleAccuracyDefaults(t *testing.T) {
	result, ok := ResampleAccuracy(decidedMatchups(5, 5), ResampleConfig{Seed: 7})
	if !ok {
		t.Fatal("expected resample to run")
	}

	if result.Iterations != 1000 {
		t.Errorf("expected default 1000 iterations, got %d", result.Iterations)
	}
	if result.ConfidenceLevel != 0.95 {
		t.Errorf("expected default 0.95 confidence, got %v", result.ConfidenceLevel)
	}
}

func TestResampleAccuracyTooFewDecided(t *testing.T) {
	if _, ok := ResampleAccuracy(decidedMatchups(1, 0), ResampleConfig{Seed: 7}); ok {
		t.Error("a single decided matchup should not resample")
	}

	undecided := []models.Matchup{
		{Status: models.StatusSkipped},
		{Status: models.StatusNoPrediction},
		{Status: models.StatusUnknownOutcome},
	}
	if _, ok := ResampleAccuracy(undecided, ResampleConfig{Seed: 7}); ok {
		t.Error("undecided matchups should not resample")
	}
}
