// Package config provides configuration management for the Hoopcast application.
package config

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func defaultTestWeights() *models.ScoringWeights {
	return &models.ScoringWeights{
		StatWeights:         map[string]float64{"pts": 1.0, "reb": 0.5},
		HomeAdvantage:       2.0,
		PredictionThreshold: 3.0,
	}
}

// TestFileWeightStoreSeedsFromDefaults tests loading when no file exists yet
func TestFileWeightStoreSeedsFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	store, err := NewFileWeightStore(path, defaultTestWeights(), quietLogger())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	weights, err := store.LoadWeights(context.Background())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if weights.StatWeights["pts"] != 1.0 {
		t.Errorf("expected seeded pts weight 1.0, got %v", weights.StatWeights["pts"])
	}

	// Seeded weights must be a copy of the defaults
	weights.StatWeights["pts"] = 42.0
	again, err := store.LoadWeights(context.Background())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if again.StatWeights["pts"] != 1.0 {
		t.Error("expected defaults to be unaffected by mutating a loaded copy")
	}
}

// TestFileWeightStoreRoundTrip tests that saved weights load back identically
func TestFileWeightStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weights.json")
	store, err := NewFileWeightStore(path, nil, quietLogger())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	saved := &models.ScoringWeights{
		StatWeights:         map[string]float64{"pts": 1.1, "reb": 0.4, "ast": 0.2},
		HomeAdvantage:       1.5,
		PredictionThreshold: 2.0,
	}
	if err := store.SaveWeights(context.Background(), saved); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	loaded, err := store.LoadWeights(context.Background())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if len(loaded.StatWeights) != 3 {
		t.Fatalf("expected 3 stat weights, got %d", len(loaded.StatWeights))
	}
	if loaded.StatWeights["ast"] != 0.2 {
		t.Errorf("expected ast weight 0.2, got %v", loaded.StatWeights["ast"])
	}
	if loaded.HomeAdvantage != 1.5 {
		t.Errorf("expected home advantage 1.5, got %v", loaded.HomeAdvantage)
	}
	if loaded.PredictionThreshold != 2.0 {
		t.Errorf("expected prediction threshold 2.0, got %v", loaded.PredictionThreshold)
	}
}

// TestFileWeightStoreSaveLeavesNoTempFile tests that the temp file is renamed away
func TestFileWeightStoreSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")
	store, err := NewFileWeightStore(path, nil, quietLogger())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if err := store.SaveWeights(context.Background(), defaultTestWeights()); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected temp file to be renamed away after save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected weights file to exist, got %v", err)
	}

	parsed := &models.ScoringWeights{}
	if err := json.Unmarshal(data, parsed); err != nil {
		t.Fatalf("expected valid JSON weights file, got %v", err)
	}
}

// TestFileWeightStoreRejectsEmptyFile tests that a weights file with no stats is an error
func TestFileWeightStoreRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	store, err := NewFileWeightStore(path, defaultTestWeights(), quietLogger())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if _, err := store.LoadWeights(context.Background()); err == nil {
		t.Fatal("expected error for weights file with no stat weights")
	}
}

// TestFileWeightStoreNoDefaultsNoFile tests the unseeded missing-file case
func TestFileWeightStoreNoDefaultsNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	store, err := NewFileWeightStore(path, nil, quietLogger())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if _, err := store.LoadWeights(context.Background()); err == nil {
		t.Fatal("expected error when no file and no defaults exist")
	}
}

// TestFileWeightStoreRequiresPath tests constructor validation
func TestFileWeightStoreRequiresPath(t *testing.T) {
	if _, err := NewFileWeightStore("", nil, quietLogger()); err == nil {
		t.Fatal("expected error for empty weights path")
	}
}

// TestFileWeightStoreRejectsNilWeights tests save validation
func TestFileWeightStoreRejectsNilWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	store, err := NewFileWeightStore(path, nil, quietLogger())
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if err := store.SaveWeights(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil weights")
	}
}
