// Package config provides configuration management for the Hoopcast application.
package config

import (
	"fmt"

	"github.com/yourusername/hoopcast/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig         `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Source     SourceConfig      `mapstructure:"source" validate:"required"`
	Stream     StreamConfig      `mapstructure:"stream"`
	Teams      map[string]string `mapstructure:"teams" validate:"required,min=1"`
	Scoring    ScoringConfig     `mapstructure:"scoring" validate:"required"`
	Backtest   BacktestConfig    `mapstructure:"backtest"`
	Refiner    RefinerConfig     `mapstructure:"refiner"`
	Projection ProjectionConfig  `mapstructure:"projection"`
	Scheduler  SchedulerConfig   `mapstructure:"scheduler"`
	Health     HealthConfig      `mapstructure:"health"`
	AWS        AWSConfig         `mapstructure:"aws"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFormat   string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"omitempty,gte=0"`
}

// SourceConfig represents the stats feed configuration
type SourceConfig struct {
	Name               string  `mapstructure:"name" validate:"required"`
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key"`
	Enabled            bool    `mapstructure:"enabled"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RetryMax           int     `mapstructure:"retry_max" validate:"omitempty,gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"omitempty,gt=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	CacheMaxEntries    int     `mapstructure:"cache_max_entries" validate:"omitempty,gt=0"`
}

// StreamConfig represents the live score stream configuration
type StreamConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	URL                 string `mapstructure:"url"`
	APIKey              string `mapstructure:"api_key"`
	ReconnectMaxRetries int    `mapstructure:"reconnect_max_retries" validate:"omitempty,gt=0"`
}

// ScoringConfig represents scoring weights and prediction settings
type ScoringConfig struct {
	WeightsFile         string             `mapstructure:"weights_file"`
	Weights             map[string]float64 `mapstructure:"weights" validate:"required,min=1"`
	HomeAdvantage       float64            `mapstructure:"home_advantage"`
	PredictionThreshold float64            `mapstructure:"prediction_threshold" validate:"gte=0"`
}

// BacktestConfig represents backtest run configuration
type BacktestConfig struct {
	LookbackDays int    `mapstructure:"lookback_days" validate:"omitempty,gt=0"`
	ExportDir    string `mapstructure:"export_dir"`
}

// RefinerConfig represents weight refinement configuration
type RefinerConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	LearningRate  float64 `mapstructure:"learning_rate" validate:"omitempty,gt=0,lte=1"`
	MaxStepPerRun float64 `mapstructure:"max_step_per_run" validate:"omitempty,gt=0"`
}

// ProjectionConfig represents forward projection configuration
type ProjectionConfig struct {
	HorizonDays int `mapstructure:"horizon_days" validate:"omitempty,gt=0,lte=31"`
}

// SchedulerConfig represents the daemon scheduling configuration
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron" validate:"omitempty,cronspec"`
}

// HealthConfig represents the health and metrics endpoint configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// AWSConfig represents AWS Secrets Manager integration settings
type AWSConfig struct {
	SecretsEnabled bool   `mapstructure:"secrets_enabled"`
	Region         string `mapstructure:"region"`
	SecretName     string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DefaultWeights builds the configured scoring weights. The returned value is a
// copy, so callers can refine it without touching the config.
func (c *Config) DefaultWeights() *models.ScoringWeights {
	weights := &models.ScoringWeights{
		StatWeights:         make(map[string]float64, len(c.Scoring.Weights)),
		HomeAdvantage:       c.Scoring.HomeAdvantage,
		PredictionThreshold: c.Scoring.PredictionThreshold,
	}
	for name, weight := range c.Scoring.Weights {
		weights.StatWeights[name] = weight
	}
	return weights
}

// RequiredStats returns the stat names the scoring weights reference. A matchup
// can only be scored when both teams report every one of these.
func (c *Config) RequiredStats() []string {
	return c.DefaultWeights().StatNames()
}
