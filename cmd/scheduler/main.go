// Package main provides the entry point for the hoopcast scheduler daemon.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hoopcast/internal/backtest"
	"github.com/yourusername/hoopcast/internal/config"
	"github.com/yourusername/hoopcast/internal/database"
	"github.com/yourusername/hoopcast/internal/datasource"
	"github.com/yourusername/hoopcast/internal/health"
	applog "github.com/yourusername/hoopcast/internal/logger"
	"github.com/yourusername/hoopcast/internal/metrics"
	"github.com/yourusername/hoopcast/internal/repository"
	"github.com/yourusername/hoopcast/internal/schedule"
	"github.com/yourusername/hoopcast/internal/scheduler"
	"github.com/yourusername/hoopcast/internal/service"
	"github.com/yourusername/hoopcast/internal/stats"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// defaultCron runs the backtest every morning after the previous night's
// games have settled
const defaultCron = "0 6 * * *"

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AWS.SecretsEnabled || os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := cfg.AWS.Region
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		secretName := cfg.AWS.SecretName
		if secretName == "" {
			secretName = os.Getenv("AWS_SECRET_NAME")
		}
		if region == "" || secretName == "" {
			log.Fatalf("AWS region and secret name must be set when secrets are enabled")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := applog.NewLogger(&cfg.App)
	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Hoopcast scheduler starting")

	if !cfg.Database.Enabled {
		logger.Fatal("The scheduler daemon requires a database; enable it in configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.InitRegistry()

	// Database and repositories
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize repositories")
	}
	weightStore, err := repository.NewPostgresWeightStore(db, cfg.DefaultWeights())
	if err != nil {
		logger.WithError(err).Fatal("Failed to create weight store")
	}

	// Data source stack
	factory, err := datasource.NewFactory(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create data source factory")
	}
	feed, err := factory.NewFeedClient()
	if err != nil {
		logger.WithError(err).Fatal("Failed to create data source")
	}
	defer func() {
		if err := feed.Close(); err != nil {
			logger.WithError(err).Error("Failed to close data source")
		}
	}()

	// Backtest service
	resolver, err := schedule.NewResolver(feed, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create schedule resolver")
	}
	normalizer, err := stats.NewNormalizer(stats.TeamNameMap(cfg.Teams), feed, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create stats normalizer")
	}
	runCfg, err := backtest.FromConfig(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Invalid backtest config")
	}
	engine, err := backtest.NewEngine(runCfg, resolver, normalizer, feed, weightStore, applog.NewRunLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create engine")
	}
	svc, err := service.NewBacktestService(engine, repos, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create backtest service")
	}

	// Health and metrics endpoints
	var healthServer *health.Server
	if cfg.Health.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Health.Port,
			Logger:      logger,
			DB:          db,
			WeightStore: weightStore,
		})
		if err := healthServer.Start(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to start health server")
		}
	}

	// Live score stream. The stream is informational: a failed connection
	// degrades to log noise, never a dead daemon.
	var stream *datasource.ScoreStreamClient
	if cfg.Stream.Enabled {
		stream, err = factory.NewStreamClient()
		if err != nil {
			logger.WithError(err).Fatal("Failed to create score stream client")
		}
		stream.AddHandler(func(event datasource.ScoreEvent) error {
			if !event.Final() {
				return nil
			}
			logger.WithFields(logrus.Fields{
				"date":       event.Date,
				"home_team":  event.HomeTeam,
				"away_team":  event.AwayTeam,
				"home_score": event.HomeScore,
				"away_score": event.AwayScore,
			}).Info("Game finalized")
			return nil
		})
		if err := stream.ConnectWithRetry(ctx); err != nil {
			logger.WithError(err).Warn("Score stream unavailable, continuing without it")
			stream = nil
		} else {
			if err := stream.Authenticate(ctx); err != nil {
				logger.WithError(err).Warn("Score stream authentication failed")
			}
			if err := stream.Subscribe(ctx); err != nil {
				logger.WithError(err).Warn("Score stream subscription failed")
			}
		}
	}

	// Cron schedule
	sched := scheduler.NewScheduler(logger)
	cronExpr := cfg.Scheduler.Cron
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if err := sched.ScheduleBacktest(cronExpr, func(ctx context.Context) error {
		_, err := svc.Execute(ctx, service.ExportOptions{})
		return err
	}); err != nil {
		logger.WithError(err).Fatal("Failed to schedule backtest job")
	}
	if err := sched.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}

	if healthServer != nil {
		healthServer.SetReady(true)
	}

	logger.WithFields(logrus.Fields{
		"cron":     cronExpr,
		"next_run": sched.GetNextRun().Format(time.RFC3339),
		"refine":   runCfg.Refine,
	}).Info("Scheduler started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.WithField("signal", sig).Info("Shutdown signal received")

	if healthServer != nil {
		healthServer.SetReady(false)
	}

	// Cancel context to stop all goroutines
	cancel()

	if err := sched.Stop(); err != nil {
		logger.WithError(err).Error("Error stopping scheduler")
	}
	if stream != nil {
		if err := stream.Close(); err != nil {
			logger.WithError(err).Error("Error closing score stream")
		}
	}
	if healthServer != nil {
		if err := healthServer.Shutdown(); err != nil {
			logger.WithError(err).Error("Error stopping health server")
		}
	}

	logger.Info("Hoopcast scheduler shut down successfully")
}
