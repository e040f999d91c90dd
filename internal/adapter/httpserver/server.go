// Package httpserver exposes the daemon's health, readiness, metrics, and
// last-run endpoints.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/uae-weather-etl/internal/pipeline"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SummarySource exposes the most recent harvest run.
type SummarySource interface {
	LastSummary() *pipeline.RunSummary
}

// Server exposes health, readiness, metrics, and run-status HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /api/last-run routes.
func NewServer(addr string, harvester interface {
	ReadinessChecker
	SummarySource
}, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(harvester))
	mux.HandleFunc("GET /api/last-run", handleLastRun(harvester))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// lastRunResponse is the wire shape of a run summary; errors flatten to
// strings for JSON.
type lastRunResponse struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  string           `json:"duration"`
	Persisted int              `json:"persisted"`
	Skipped   int              `json:"skipped"`
	Outcomes  []lastRunOutcome `json:"outcomes"`
}

type lastRunOutcome struct {
	City      string `json:"city"`
	Persisted bool   `json:"persisted"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

func handleLastRun(source SummarySource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		summary := source.LastSummary()
		if summary == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run has completed yet"})
			return
		}

		resp := lastRunResponse{
			RunID:     summary.RunID,
			StartedAt: summary.StartedAt,
			Duration:  summary.Duration.String(),
			Persisted: summary.Persisted,
			Skipped:   summary.Skipped,
		}
		for _, o := range summary.Outcomes {
			out := lastRunOutcome{City: o.City, Persisted: o.Persisted, Reason: o.Reason}
			if o.Err != nil {
				out.Error = o.Err.Error()
			}
			resp.Outcomes = append(resp.Outcomes, out)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
