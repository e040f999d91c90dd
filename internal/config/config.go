package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabasePath string
	HTTPAddr     string
	LogLevel     string
	LogFormat    string

	// Fetcher policy.
	UserAgent    string
	FetchTimeout time.Duration
	FetchRetries int // extra attempts after the first
	FetchBackoff time.Duration

	// Politeness: minimum spacing between outbound requests.
	RequestInterval time.Duration

	// OpenWeatherMap backup source (enabled iff an API key is present,
	// overridable via OPENWEATHER_ENABLED).
	OpenWeatherAPIKey  string
	OpenWeatherEnabled bool
	OpenWeatherTimeout time.Duration

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	fetchBackoff, err := durationEnv("FETCH_BACKOFF", 2*time.Second)
	if err != nil {
		return nil, err
	}
	requestInterval, err := durationEnv("REQUEST_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, err
	}
	openWeatherTimeout, err := durationEnv("OPENWEATHER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchRetries, err := intEnv("FETCH_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	apiEnabled := apiKey != ""
	if v := os.Getenv("OPENWEATHER_ENABLED"); v != "" {
		apiEnabled = v == "true"
	}

	cfg := &Config{
		DatabasePath: envOrDefault("DATABASE_PATH", "uae_weather.db"),
		HTTPAddr:     envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),

		UserAgent:    envOrDefault("USER_AGENT", "UAEWeatherBot/1.0 (+https://github.com/couchcryptid/uae-weather-etl; educational)"),
		FetchTimeout: fetchTimeout,
		FetchRetries: fetchRetries,
		FetchBackoff: fetchBackoff,

		RequestInterval: requestInterval,

		OpenWeatherAPIKey:  apiKey,
		OpenWeatherEnabled: apiEnabled,
		OpenWeatherTimeout: openWeatherTimeout,

		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DatabasePath == "" {
		return nil, errors.New("DATABASE_PATH is required")
	}
	if cfg.RequestInterval <= 0 {
		return nil, errors.New("REQUEST_INTERVAL must be positive")
	}
	if cfg.FetchRetries < 0 {
		return nil, errors.New("FETCH_RETRIES must not be negative")
	}
	if cfg.OpenWeatherEnabled && cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
