package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// harvest pipeline.
type Metrics struct {
	PagesFetched    *prometheus.CounterVec // labels: outcome={success,error}
	CitiesPersisted prometheus.Counter
	CitiesSkipped   *prometheus.CounterVec // labels: reason (pipeline skip reasons)
	ReadingsStored  prometheus.Counter

	FetchDuration prometheus.Histogram
	RunDuration   prometheus.Histogram
	RunInProgress prometheus.Gauge
	LastRunUnix   prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uae_weather",
			Name:      "pages_fetched_total",
			Help:      "Wikipedia page fetches by outcome.",
		}, []string{"outcome"}),
		CitiesPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uae_weather",
			Name:      "cities_persisted_total",
			Help:      "City records successfully written to the reference table.",
		}),
		CitiesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uae_weather",
			Name:      "cities_skipped_total",
			Help:      "Cities skipped during a run, by reason.",
		}, []string{"reason"}),
		ReadingsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uae_weather",
			Name:      "api_readings_stored_total",
			Help:      "Current-conditions readings stored from the API backup source.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uae_weather",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single page fetch including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "uae_weather",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete harvest run over all cities.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		RunInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uae_weather",
			Name:      "run_in_progress",
			Help:      "1 while a harvest run is active, 0 otherwise.",
		}),
		LastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uae_weather",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed harvest run.",
		}),
	}

	prometheus.MustRegister(
		m.PagesFetched,
		m.CitiesPersisted,
		m.CitiesSkipped,
		m.ReadingsStored,
		m.FetchDuration,
		m.RunDuration,
		m.RunInProgress,
		m.LastRunUnix,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PagesFetched:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uae_weather", Name: "pages_fetched_total"}, []string{"outcome"}),
		CitiesPersisted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uae_weather", Name: "cities_persisted_total"}),
		CitiesSkipped:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "uae_weather", Name: "cities_skipped_total"}, []string{"reason"}),
		ReadingsStored:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "uae_weather", Name: "api_readings_stored_total"}),
		FetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uae_weather", Name: "fetch_duration_seconds"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "uae_weather", Name: "run_duration_seconds"}),
		RunInProgress:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "uae_weather", Name: "run_in_progress"}),
		LastRunUnix:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "uae_weather", Name: "last_run_timestamp_seconds"}),
	}
}
