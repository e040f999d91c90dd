// Command scheduler is the long-running daemon: cron-driven harvest runs,
// API backup collection, and an HTTP surface for health and metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/uae-weather-etl/internal/adapter/httpserver"
	"github.com/couchcryptid/uae-weather-etl/internal/adapter/openweather"
	"github.com/couchcryptid/uae-weather-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/uae-weather-etl/internal/adapter/wikipedia"
	"github.com/couchcryptid/uae-weather-etl/internal/config"
	"github.com/couchcryptid/uae-weather-etl/internal/observability"
	"github.com/couchcryptid/uae-weather-etl/internal/pipeline"
	"github.com/couchcryptid/uae-weather-etl/internal/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	repo, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repo.InitSchema(ctx); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	fetcher := wikipedia.NewClient(wikipedia.Options{
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
		Attempts:  cfg.FetchRetries + 1,
		Backoff:   cfg.FetchBackoff,
	}, logger)
	pacer := wikipedia.NewPacer(cfg.RequestInterval, nil)

	var api pipeline.WeatherAPI
	if cfg.OpenWeatherEnabled {
		api = openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherTimeout, logger)
		logger.Info("openweathermap backup source enabled")
	} else {
		logger.Info("openweathermap backup source disabled")
	}

	harvester := pipeline.New(fetcher, pacer, repo, api, logger, metrics)

	sched, err := scheduler.New(harvester, cfg.OpenWeatherEnabled, logger)
	if err != nil {
		logger.Error("failed to build scheduler", "error", err)
		os.Exit(1)
	}

	srv := httpserver.NewServer(cfg.HTTPAddr, harvester, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched.Start(ctx, cfg.OpenWeatherEnabled)
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := repo.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("shutdown complete")
}
