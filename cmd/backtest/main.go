// Package main provides the entry point for the hoopcast CLI.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/hoopcast/internal/backtest"
	"github.com/yourusername/hoopcast/internal/config"
	"github.com/yourusername/hoopcast/internal/database"
	"github.com/yourusername/hoopcast/internal/datasource"
	applog "github.com/yourusername/hoopcast/internal/logger"
	"github.com/yourusername/hoopcast/internal/repository"
	"github.com/yourusername/hoopcast/internal/schedule"
	"github.com/yourusername/hoopcast/internal/scoring"
	"github.com/yourusername/hoopcast/internal/service"
	"github.com/yourusername/hoopcast/internal/stats"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	lookback   int
	refine     bool
	outputDir  string
	format     string
	horizon    int
	last       int

	logger       *logrus.Logger
	cfg          *config.Config
	db           *database.DB
	repos        *repository.Repositories
	feed         *datasource.SportsfeedClient
	weightStore  scoring.WeightStore
	weightSource string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")

	runCmd.Flags().IntVar(&lookback, "lookback", 0, "Days to look back (defaults to the configured window)")
	runCmd.Flags().BoolVar(&refine, "refine", false, "Refine and persist scoring weights after the run")
	runCmd.Flags().StringVar(&outputDir, "output", "", "Directory for exported reports")
	runCmd.Flags().StringVar(&format, "format", "", "Export format: json, csv or both")

	projectCmd.Flags().IntVar(&horizon, "horizon", 0, "Days ahead to project (defaults to the configured horizon)")
	projectCmd.Flags().StringVar(&outputDir, "output", "", "Directory for exported projections")
	projectCmd.Flags().StringVar(&format, "format", "", "Export format: json, csv or both")

	exportCmd.Flags().StringVar(&outputDir, "output", "", "Directory for exported reports")
	exportCmd.Flags().StringVar(&format, "format", "json", "Export format: json, csv or both")

	runsCmd.Flags().IntVar(&last, "last", 0, "How many runs to show (defaults to 10)")

	rootCmd.AddCommand(runCmd, projectCmd, weightsCmd, exportCmd, runsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "hoopcast",
	Short: "Backtest and project game predictions",
	Long:  `Replays recent games through the scoring engine to measure prediction accuracy, projects upcoming games, and manages the scoring weights.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfiguration() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
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
			return fmt.Errorf("aws region and secret name are required when secrets are enabled")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(cmd *cobra.Command) error {
	logger = applog.NewLogger(&cfg.App)

	factory, err := datasource.NewFactory(cfg, logger)
	if err != nil {
		return err
	}
	feed, err = factory.NewFeedClient()
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	// The CLI works without a database; persistence and the Postgres weight
	// store only come into play when one is configured.
	if cfg.Database.Enabled {
		db, err = database.Initialize(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
		weightStore, err = repository.NewPostgresWeightStore(db, cfg.DefaultWeights())
		if err != nil {
			return fmt.Errorf("failed to create weight store: %w", err)
		}
		weightSource = "postgres"
		return nil
	}

	path := cfg.Scoring.WeightsFile
	if path == "" {
		path = "config/weights.json"
	}
	weightStore, err = config.NewFileWeightStore(path, cfg.DefaultWeights(), logger)
	if err != nil {
		return fmt.Errorf("failed to create weight store: %w", err)
	}
	weightSource = fmt.Sprintf("file:%s", path)
	return nil
}

func teardown() {
	if feed != nil {
		if err := feed.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close data source")
		}
	}
	if db != nil {
		db.Close()
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over the recent game window",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := exportOptions()
		if err != nil {
			return err
		}

		svc, err := buildBacktestService(cmd)
		if err != nil {
			return err
		}

		exec, err := svc.Execute(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Print(exec.Console)
		return nil
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project upcoming games with the current weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := exportOptions()
		if err != nil {
			return err
		}

		normalizer, err := stats.NewNormalizer(stats.TeamNameMap(cfg.Teams), feed, logger)
		if err != nil {
			return err
		}
		svc, err := service.NewProjectionService(feed, normalizer, weightStore, logger)
		if err != nil {
			return err
		}

		horizonDays := cfg.Projection.HorizonDays
		if horizon > 0 {
			horizonDays = horizon
		}
		report, err := svc.Project(cmd.Context(), horizonDays)
		if err != nil {
			return err
		}

		fmt.Print(backtest.GenerateProjectionConsole(report))

		dir := exportDir()
		if opts.WriteJSON {
			path, err := backtest.WriteProjectionJSON(report, dir)
			if err != nil {
				return err
			}
			logger.WithField("path", path).Info("Wrote JSON projection")
		}
		if opts.WriteCSV {
			path, err := backtest.WriteProjectionCSV(report, dir)
			if err != nil {
				return err
			}
			logger.WithField("path", path).Info("Wrote CSV projection")
		}
		return nil
	},
}

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the active scoring weights and their source",
	RunE: func(cmd *cobra.Command, args []string) error {
		weights, err := weightStore.LoadWeights(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load scoring weights: %w", err)
		}

		fmt.Printf("Source: %s\n\n", weightSource)

		names := weights.StatNames()
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-20s %v\n", name, weights.StatWeights[name])
		}
		fmt.Printf("\nHome Advantage: %v\n", weights.HomeAdvantage)
		fmt.Printf("Prediction Threshold: %v\n", weights.PredictionThreshold)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export the most recent persisted run",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := exportOptions()
		if err != nil {
			return err
		}

		svc, err := buildBacktestService(cmd)
		if err != nil {
			return err
		}

		exec, err := svc.ExportLatest(cmd.Context(), opts)
		if err != nil {
			return err
		}

		fmt.Print(exec.Console)
		if exec.JSONPath != "" {
			fmt.Printf("\nWrote %s\n", exec.JSONPath)
		}
		if exec.CSVPath != "" {
			fmt.Printf("Wrote %s\n", exec.CSVPath)
		}
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent persisted runs and their pooled accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildBacktestService(cmd)
		if err != nil {
			return err
		}

		output, err := svc.History(cmd.Context(), last)
		if err != nil {
			return err
		}

		fmt.Print(output)
		return nil
	},
}

func buildBacktestService(cmd *cobra.Command) (*service.BacktestService, error) {
	runCfg, err := backtest.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}
	if lookback > 0 {
		runCfg.LookbackDays = lookback
	}
	if cmd.Flags().Changed("refine") {
		runCfg.Refine = refine
	}
	if outputDir != "" {
		runCfg.ExportDir = outputDir
	}
	if err := runCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}

	resolver, err := schedule.NewResolver(feed, logger)
	if err != nil {
		return nil, err
	}
	normalizer, err := stats.NewNormalizer(stats.TeamNameMap(cfg.Teams), feed, logger)
	if err != nil {
		return nil, err
	}
	engine, err := backtest.NewEngine(runCfg, resolver, normalizer, feed, weightStore, applog.NewRunLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return service.NewBacktestService(engine, repos, logger)
}

func exportOptions() (service.ExportOptions, error) {
	switch format {
	case "", "none":
		return service.ExportOptions{}, nil
	case "json":
		return service.ExportOptions{WriteJSON: true}, nil
	case "csv":
		return service.ExportOptions{WriteCSV: true}, nil
	case "both":
		return service.ExportOptions{WriteJSON: true, WriteCSV: true}, nil
	default:
		return service.ExportOptions{}, fmt.Errorf("unsupported format: %s", format)
	}
}

func exportDir() string {
	if outputDir != "" {
		return outputDir
	}
	if cfg.Backtest.ExportDir != "" {
		return cfg.Backtest.ExportDir
	}
	return "results"
}
