// Command harvester executes a single harvest run and exits: the manual
// counterpart to the scheduler daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/uae-weather-etl/internal/adapter/openweather"
	"github.com/couchcryptid/uae-weather-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/uae-weather-etl/internal/adapter/wikipedia"
	"github.com/couchcryptid/uae-weather-etl/internal/config"
	"github.com/couchcryptid/uae-weather-etl/internal/observability"
	"github.com/couchcryptid/uae-weather-etl/internal/pipeline"
)

func main() {
	collectAPI := flag.Bool("collect-api", false, "also collect current-conditions readings from the API backup source")
	flag.Parse()

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
	defer repo.Close()

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
	}

	harvester := pipeline.New(fetcher, pacer, repo, api, logger, metrics)

	summary := harvester.RunOnce(ctx)
	for _, outcome := range summary.Outcomes {
		if outcome.Persisted {
			logger.Info("city harvested", "city", outcome.City)
		} else {
			logger.Warn("city skipped", "city", outcome.City, "reason", outcome.Reason)
		}
	}

	if *collectAPI {
		if !cfg.OpenWeatherEnabled {
			logger.Warn("api collection requested but OPENWEATHER_API_KEY is not set")
		} else if stored, err := harvester.CollectReadings(ctx); err != nil {
			logger.Error("api collection finished with failures", "stored", stored, "error", err)
		}
	}

	if summary.Persisted == 0 {
		os.Exit(1)
	}
}
