// Package config provides configuration management for the Hoopcast application.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/models"
)

// FileWeightStore persists scoring weights as a JSON file on disk. It seeds
// from the configured defaults when the file does not exist yet, so a fresh
// checkout works without any prior run.
type FileWeightStore struct {
	path     string
	defaults *models.ScoringWeights
	logger   *logrus.Logger
	mu       sync.Mutex
}

// NewFileWeightStore creates a file-backed weight store
func NewFileWeightStore(path string, defaults *models.ScoringWeights, logger *logrus.Logger) (*FileWeightStore, error) {
	if path == "" {
		return nil, fmt.Errorf("weights file path cannot be empty")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &FileWeightStore{
		path:     path,
		defaults: defaults,
		logger:   logger,
	}, nil
}

// LoadWeights reads the current weights from disk, falling back to the
// configured defaults when no file exists yet
func (s *FileWeightStore) LoadWeights(ctx context.Context) (*models.ScoringWeights, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if s.defaults == nil || len(s.defaults.StatWeights) == 0 {
			return nil, fmt.Errorf("weights file not found at %s and no default weights configured", s.path)
		}
		s.logger.WithField("path", s.path).Info("Weights file not found, seeding from configured defaults")
		return s.defaults.Clone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}

	weights := &models.ScoringWeights{}
	if err := json.Unmarshal(data, weights); err != nil {
		return nil, fmt.Errorf("failed to parse weights file: %w", err)
	}
	if len(weights.StatWeights) == 0 {
		return nil, fmt.Errorf("weights file %s contains no stat weights", s.path)
	}

	return weights, nil
}

// SaveWeights writes the weights to disk. The write goes through a temp file
// and a rename so a crash mid-write never leaves a truncated weights file.
func (s *FileWeightStore) SaveWeights(ctx context.Context, weights *models.ScoringWeights) error {
	if weights == nil {
		return fmt.Errorf("weights cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create weights directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write weights file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace weights file: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":  s.path,
		"stats": len(weights.StatWeights),
	}).Info("Saved scoring weights")

	return nil
}

// Path returns the location of the weights file
func (s *FileWeightStore) Path() string {
	return s.path
}
