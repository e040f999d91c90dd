// Package pipeline orchestrates one harvest run: for each configured city,
// fetch the article, run the extractors, assemble and validate a record, and
// persist it. Cities are processed strictly sequentially; the politeness
// contract allows exactly one request in flight.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
	"github.com/couchcryptid/uae-weather-etl/internal/extract"
	"github.com/couchcryptid/uae-weather-etl/internal/observability"
)

// Skip reasons recorded in run summaries. These are the values operators
// grep for, so they are part of the observable contract.
const (
	ReasonFetchFailed = "fetch_failed"
	ReasonParseFailed = "parse_failed"
	ReasonNoSignal    = "no_signal"
	ReasonUnknownCity = "unknown_city"
	ReasonStoreFailed = "store_failed"
	ReasonCancelled   = "cancelled"
)

// Fetcher retrieves raw article markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*domain.RawPage, error)
}

// Pacer blocks until the next outbound request is allowed.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Store persists validated records and API readings.
type Store interface {
	Upsert(ctx context.Context, rec domain.ClimateRecord) error
	UpsertReading(ctx context.Context, rec domain.ApiWeatherRecord) error
}

// WeatherAPI supplies current-conditions readings for the backup path.
type WeatherAPI interface {
	CurrentWeather(ctx context.Context, city domain.CityTarget) (domain.ApiWeatherRecord, error)
}

// CityOutcome is the terminal state of one city within a run.
type CityOutcome struct {
	City      string
	Persisted bool
	Reason    string // set when not persisted
	Err       error  // underlying cause, when any
}

// RunSummary is the aggregate result of one harvest run. RunOnce always
// returns one, even when every city failed.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Persisted int
	Skipped   int
	Outcomes  []CityOutcome
	Err       error // combined store failures, nil otherwise
}

// Harvester drives the fetch-extract-assemble-validate-persist loop.
type Harvester struct {
	cities  []domain.CityTarget
	fetcher Fetcher
	pacer   Pacer
	store   Store
	api     WeatherAPI // nil when the backup source is disabled
	logger  *slog.Logger
	metrics *observability.Metrics

	lastRun atomic.Pointer[RunSummary]
}

// New creates a Harvester over the configured city set. Pass a nil api to
// disable the backup collection path.
func New(fetcher Fetcher, pacer Pacer, store Store, api WeatherAPI, logger *slog.Logger, metrics *observability.Metrics) *Harvester {
	return &Harvester{
		cities:  domain.Cities(),
		fetcher: fetcher,
		pacer:   pacer,
		store:   store,
		api:     api,
		logger:  logger,
		metrics: metrics,
	}
}

// RunOnce executes one full harvest over all cities and returns the summary.
// A failure in one city is recorded and the run moves on; no error escapes.
// Cancellation is coarse: it is honored between cities, never mid-fetch.
func (h *Harvester) RunOnce(ctx context.Context) RunSummary {
	summary := RunSummary{RunID: uuid.NewString(), StartedAt: time.Now()}
	logger := h.logger.With("run_id", summary.RunID)
	logger.Info("harvest run started", "cities", len(h.cities))

	h.metrics.RunInProgress.Set(1)
	defer h.metrics.RunInProgress.Set(0)

	var errs *multierror.Error
	for _, city := range h.cities {
		if ctx.Err() != nil {
			logger.Warn("run cancelled, skipping remaining city", "city", city.Name)
			summary.Outcomes = append(summary.Outcomes, CityOutcome{City: city.Name, Reason: ReasonCancelled, Err: ctx.Err()})
			summary.Skipped++
			h.metrics.CitiesSkipped.WithLabelValues(ReasonCancelled).Inc()
			continue
		}

		outcome := h.harvestCity(ctx, logger, city)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Persisted {
			summary.Persisted++
			h.metrics.CitiesPersisted.Inc()
			continue
		}
		summary.Skipped++
		h.metrics.CitiesSkipped.WithLabelValues(outcome.Reason).Inc()
		if outcome.Reason == ReasonStoreFailed {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", city.Name, outcome.Err))
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	summary.Err = errs.ErrorOrNil()
	h.metrics.RunDuration.Observe(summary.Duration.Seconds())
	h.metrics.LastRunUnix.SetToCurrentTime()
	h.lastRun.Store(&summary)

	logger.Info("harvest run completed",
		"persisted", summary.Persisted,
		"skipped", summary.Skipped,
		"duration", summary.Duration,
	)
	return summary
}

func (h *Harvester) harvestCity(ctx context.Context, logger *slog.Logger, city domain.CityTarget) CityOutcome {
	clog := logger.With("city", city.Name)

	if err := h.pacer.Wait(ctx); err != nil {
		return CityOutcome{City: city.Name, Reason: ReasonCancelled, Err: err}
	}

	fetchStart := time.Now()
	clog.Info("fetching page", "url", city.PageURL)
	page, err := h.fetcher.Fetch(ctx, city.PageURL)
	if err != nil {
		h.metrics.PagesFetched.WithLabelValues("error").Inc()
		clog.Error("fetch failed", "url", city.PageURL, "error", err)
		return CityOutcome{City: city.Name, Reason: ReasonFetchFailed, Err: err}
	}
	h.metrics.PagesFetched.WithLabelValues("success").Inc()
	h.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		clog.Error("markup parse failed", "error", err)
		return CityOutcome{City: city.Name, Reason: ReasonParseFailed, Err: err}
	}

	var partials domain.Partials
	if coords, ok := extract.Coordinates(doc); ok {
		partials.Coords = &coords
	} else {
		clog.Warn("extraction skipped field", "field", "coordinates", "reason", "not found in markup")
	}
	if table, ok := extract.ClimateTable(doc); ok {
		partials.Table = table
	} else {
		clog.Warn("extraction skipped field", "field", "climate_table", "reason", "not found in markup")
	}
	if infobox, ok := extract.InfoboxAndDescription(doc); ok {
		partials.Infobox = infobox
	} else {
		clog.Warn("extraction skipped field", "field", "infobox_description", "reason", "not found in markup")
	}

	rec := domain.Assemble(city.Name, partials)
	valid, dropped, err := domain.Validate(rec)
	for _, field := range dropped {
		clog.Warn("validation dropped out-of-range field", "field", field)
	}
	if err != nil {
		clog.Error("validation rejected record", "error", err)
		reason := ReasonNoSignal
		if errors.Is(err, domain.ErrUnknownCity) {
			reason = ReasonUnknownCity
		}
		return CityOutcome{City: city.Name, Reason: reason, Err: err}
	}

	if err := h.store.Upsert(ctx, valid); err != nil {
		clog.Error("store write failed", "error", err)
		return CityOutcome{City: city.Name, Reason: ReasonStoreFailed, Err: err}
	}

	clog.Info("record persisted",
		"has_coordinates", valid.Latitude != nil,
		"has_climate_table", valid.AvgTemperatureC != nil,
		"has_description", valid.WeatherDescription != nil,
	)
	return CityOutcome{City: city.Name, Persisted: true}
}

// CollectReadings drives the API backup path: one reading per city, persisted
// as a time-series row. The readings arrive already structured, so this path
// performs no parsing. Per-city failures are aggregated, not fatal.
func (h *Harvester) CollectReadings(ctx context.Context) (int, error) {
	if h.api == nil {
		return 0, errors.New("api backup source not configured")
	}

	stored := 0
	var errs *multierror.Error
	for _, city := range h.cities {
		rec, err := h.api.CurrentWeather(ctx, city)
		if err != nil {
			h.logger.Error("api reading failed", "city", city.Name, "error", err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", city.Name, err))
			continue
		}
		if err := h.store.UpsertReading(ctx, rec); err != nil {
			h.logger.Error("api reading store failed", "city", city.Name, "error", err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", city.Name, err))
			continue
		}
		h.metrics.ReadingsStored.Inc()
		stored++
	}

	h.logger.Info("api collection completed", "stored", stored, "cities", len(h.cities))
	return stored, errs.ErrorOrNil()
}

// CheckReadiness returns nil once at least one harvest run has completed.
func (h *Harvester) CheckReadiness(_ context.Context) error {
	if h.lastRun.Load() == nil {
		return errors.New("no harvest run has completed yet")
	}
	return nil
}

// LastSummary returns the most recent run summary, or nil before the first run.
func (h *Harvester) LastSummary() *RunSummary {
	return h.lastRun.Load()
}
