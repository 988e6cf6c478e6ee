package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sma-backtester/internal/api"
	"github.com/yourusername/sma-backtester/internal/datasource"
	"github.com/yourusername/sma-backtester/internal/health"
	"github.com/yourusername/sma-backtester/internal/metrics"
	"github.com/yourusername/sma-backtester/internal/scheduler"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the backtest API with health and metrics endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.InitRegistry()

	checks := map[string]health.Checker{
		"provider": health.CheckFunc(func(ctx context.Context) error {
			_, err := a.provider.ListAvailableSymbols(ctx)
			return err
		}),
	}
	if a.db != nil {
		checks["database"] = health.CheckFunc(a.db.HealthCheck)
	}

	healthServer := health.NewServer(health.Config{
		ServiceName:    a.cfg.App.Name,
		Version:        Version,
		Commit:         GitCommit,
		Port:           a.cfg.Server.HealthPort,
		MetricsPath:    a.cfg.Metrics.Path,
		DisableMetrics: !a.cfg.Metrics.Enabled,
		Logger:         a.logger,
		Checks:         checks,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if invalidator, ok := a.provider.(datasource.Invalidator); ok && a.cfg.Data.RefreshCron != "" {
		sched := scheduler.NewScheduler(invalidator, a.logger)
		if err := sched.ScheduleCacheRefresh(a.cfg.Data.RefreshCron); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				a.logger.WithError(err).Warn("Scheduler stop failed")
			}
		}()
	}

	apiServer := api.NewServer(a.engine, a.cfg.Server.APIPort, a.logger)
	if err := apiServer.Start(ctx); err != nil {
		return err
	}

	healthServer.SetReady(true)
	a.logger.WithFields(logrus.Fields{
		"api_port":    a.cfg.Server.APIPort,
		"health_port": a.cfg.Server.HealthPort,
		"source":      a.cfg.Data.Source,
	}).Info("Backtest service ready")

	<-ctx.Done()
	healthServer.SetReady(false)
	a.logger.Info("Shutting down")
	return nil
}
