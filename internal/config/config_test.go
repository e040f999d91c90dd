package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "uae_weather.db", cfg.DatabasePath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Contains(t, cfg.UserAgent, "UAEWeatherBot")
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.Equal(t, 2*time.Second, cfg.FetchBackoff)
	assert.Equal(t, 3*time.Second, cfg.RequestInterval)
	assert.False(t, cfg.OpenWeatherEnabled)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, 10*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/var/lib/weather/uae.db")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("USER_AGENT", "CustomBot/2.0")
	t.Setenv("FETCH_TIMEOUT", "15s")
	t.Setenv("FETCH_RETRIES", "4")
	t.Setenv("FETCH_BACKOFF", "500ms")
	t.Setenv("REQUEST_INTERVAL", "2s")
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	t.Setenv("OPENWEATHER_TIMEOUT", "5s")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/weather/uae.db", cfg.DatabasePath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "CustomBot/2.0", cfg.UserAgent)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.FetchRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchBackoff)
	assert.Equal(t, 2*time.Second, cfg.RequestInterval)
	assert.True(t, cfg.OpenWeatherEnabled)
	assert.Equal(t, "abc123", cfg.OpenWeatherAPIKey)
	assert.Equal(t, 5*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_APIKeyEnablesBackup(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.OpenWeatherEnabled)
}

func TestLoad_ExplicitDisableWinsOverKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	t.Setenv("OPENWEATHER_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.OpenWeatherEnabled)
}

func TestLoad_EnabledWithoutKeyFails(t *testing.T) {
	t.Setenv("OPENWEATHER_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_InvalidRetries(t *testing.T) {
	t.Setenv("FETCH_RETRIES", "-1")
	_, err := Load()
	require.Error(t, err)
}
