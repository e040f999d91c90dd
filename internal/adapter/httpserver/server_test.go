package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uae-weather-etl/internal/adapter/httpserver"
	"github.com/couchcryptid/uae-weather-etl/internal/pipeline"
)

type mockHarvester struct {
	readyErr error
	summary  *pipeline.RunSummary
}

func (m *mockHarvester) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockHarvester) LastSummary() *pipeline.RunSummary { return m.summary }

func newTestServer(h *mockHarvester) *httpserver.Server {
	return httpserver.NewServer(":0", h, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockHarvester{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockHarvester{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockHarvester{readyErr: fmt.Errorf("no harvest run has completed yet")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no harvest run has completed yet", body["error"])
}

func TestLastRunReturns404BeforeFirstRun(t *testing.T) {
	srv := newTestServer(&mockHarvester{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/last-run", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLastRunReturnsSummary(t *testing.T) {
	summary := &pipeline.RunSummary{
		RunID:     "run-123",
		StartedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Duration:  21 * time.Second,
		Persisted: 6,
		Skipped:   1,
		Outcomes: []pipeline.CityOutcome{
			{City: "Dubai", Persisted: true},
			{City: "Fujairah", Reason: pipeline.ReasonFetchFailed, Err: errors.New("connection reset")},
		},
	}
	srv := newTestServer(&mockHarvester{summary: summary})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/last-run", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RunID     string `json:"run_id"`
		Duration  string `json:"duration"`
		Persisted int    `json:"persisted"`
		Skipped   int    `json:"skipped"`
		Outcomes  []struct {
			City      string `json:"city"`
			Persisted bool   `json:"persisted"`
			Reason    string `json:"reason"`
			Error     string `json:"error"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-123", body.RunID)
	assert.Equal(t, "21s", body.Duration)
	assert.Equal(t, 6, body.Persisted)
	assert.Equal(t, 1, body.Skipped)
	require.Len(t, body.Outcomes, 2)
	assert.True(t, body.Outcomes[0].Persisted)
	assert.Equal(t, "fetch_failed", body.Outcomes[1].Reason)
	assert.Equal(t, "connection reset", body.Outcomes[1].Error)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockHarvester{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
