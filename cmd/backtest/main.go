// Package main provides the entry point for the SMA backtesting CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sma-backtester/internal/backtest"
	"github.com/yourusername/sma-backtester/internal/config"
	"github.com/yourusername/sma-backtester/internal/database"
	"github.com/yourusername/sma-backtester/internal/datasource"
	"github.com/yourusername/sma-backtester/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app holds the dependencies shared by every subcommand
type app struct {
	configFile string
	dataDir    string

	cfg      *config.Config
	logger   *logrus.Logger
	db       *database.DB
	provider datasource.Provider
	engine   *backtest.Engine
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sma-backtest",
		Short: "Backtest a moving-average trend filter against buy-and-hold",
		Long: `Runs a single-asset moving-average trend-following backtest on a daily
price series and compares it with buying and holding the same asset.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if err := a.setup(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return fmt.Errorf("failed to setup dependencies: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Override the CSV data directory")

	rootCmd.AddCommand(newSymbolsCmd(a), newRunCmd(a), newServeCmd(a), newVersionCmd())
	return rootCmd
}

func (a *app) setup(ctx context.Context, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfigWithSecrets(ctx, a.configFile)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	// Logs go to stderr so reports on stdout stay clean
	a.logger = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.LogFormat, logOut)

	var querier datasource.Querier
	if datasource.SourceType(cfg.Data.Source) == datasource.PostgresSourceType {
		a.db, err = database.Initialize(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		querier = a.db
	}

	a.provider, err = datasource.NewFactory(cfg, querier, a.logger).NewProvider()
	if err != nil {
		return fmt.Errorf("failed to create price provider: %w", err)
	}

	engineCfg, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		return fmt.Errorf("invalid backtest config: %w", err)
	}
	a.engine, err = backtest.NewEngine(engineCfg, a.provider, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func loadConfigWithSecrets(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sma-backtest %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
