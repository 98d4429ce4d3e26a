package backtest

import (
	"fmt"

	"github.com/yourusername/hoopcast/internal/config"
	"github.com/yourusername/hoopcast/internal/scoring"
)

// RunConfig carries the per-run settings the engine needs
type RunConfig struct {
	LookbackDays int
	Refine       bool
	Refiner      scoring.RefinerConfig
	ExportDir    string
}

// FromConfig builds a RunConfig from the application configuration,
// filling refiner settings from defaults where the config leaves them zero
func FromConfig(cfg *config.Config) (RunConfig, error) {
	if cfg == nil {
		return RunConfig{}, fmt.Errorf("config is required")
	}

	rc := RunConfig{
		LookbackDays: cfg.Backtest.LookbackDays,
		Refine:       cfg.Refiner.Enabled,
		Refiner:      scoring.DefaultRefinerConfig(),
		ExportDir:    cfg.Backtest.ExportDir,
	}
	if cfg.Refiner.LearningRate > 0 {
		rc.Refiner.LearningRate = cfg.Refiner.LearningRate
	}
	if cfg.Refiner.MaxStepPerRun > 0 {
		rc.Refiner.MaxStepPerRun = cfg.Refiner.MaxStepPerRun
	}
	if rc.ExportDir == "" {
		rc.ExportDir = "results"
	}

	return rc, rc.Validate()
}

// Validate checks the run configuration for settings the engine cannot
// recover from. An out-of-range lookback is not checked here: the schedule
// resolver falls back to its default window and logs the correction.
func (c RunConfig) Validate() error {
	if c.ExportDir == "" {
		return fmt.Errorf("export directory is required")
	}
	if c.Refine {
		if c.Refiner.LearningRate <= 0 {
			return fmt.Errorf("refiner learning rate must be positive")
		}
		if c.Refiner.MaxStepPerRun <= 0 {
			return fmt.Errorf("refiner max step per run must be positive")
		}
	}
	return nil
}
