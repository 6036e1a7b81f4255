package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/api"
	"github.com/jmagar/bookingcurve/internal/bookings"
	"github.com/jmagar/bookingcurve/internal/config"
	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/scheduler"
	"github.com/jmagar/bookingcurve/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard page and the JSON API",
	Long: `Load the booking table, precompute every frame and serve the dashboard.

The server refuses to start when the table cannot be loaded. When
source.reload_cron is set the table is reloaded on that schedule; a failed
reload keeps the previous data.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newDashboard builds the dashboard service for cfg without loading it.
func newDashboard(cfg *config.Config, log *zap.Logger) (*services.DashboardService, error) {
	loader, err := bookings.NewLoader(cfg.Source)
	if err != nil {
		return nil, err
	}

	return services.NewDashboardService(loader, services.DashboardOptions{
		Range: models.ThresholdRange{
			Min: cfg.Dashboard.MinThreshold,
			Max: cfg.Dashboard.MaxThreshold,
		},
		YHeadroom:  cfg.Dashboard.YHeadroom,
		MarkerSize: cfg.Dashboard.MarkerSize,
	}, log), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dashboard, err := newDashboard(cfg, log)
	if err != nil {
		return err
	}
	if _, err := dashboard.Reload(cmd.Context()); err != nil {
		log.Error("Initial load failed", zap.Error(err))
		return err
	}

	reloads := services.NewReloadRunner(dashboard, models.NewJobManager(), log)

	sched, err := scheduler.New(log)
	if err != nil {
		return err
	}
	if err := sched.RegisterReload(reloads, cfg.Source.ReloadCron); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("Scheduler shutdown error", zap.Error(err))
		}
	}()

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty, admin routes are unauthenticated")
	}

	router := api.NewRouter(api.RouterConfig{
		Production:      cfg.IsProduction(),
		JWTSecret:       cfg.Auth.JWTSecret,
		ExportRateLimit: cfg.Server.ExportRateLimit,
	}, dashboard, reloads, services.NewExporter(cfg.Dashboard.MarkerSize), log)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("source", cfg.Source.Path),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server startup failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
		return err
	}
	log.Info("Server exited")
	return nil
}
