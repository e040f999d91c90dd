// Package openweather is the backup current-conditions source. It is a plain
// typed HTTP client: the API returns structured JSON, so unlike the Wikipedia
// path there is no parsing ambiguity to absorb.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

// Client fetches current weather readings from the OpenWeatherMap API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		clock:   clockwork.NewRealClock(),
		logger:  logger,
	}
}

// CurrentWeather fetches the current reading for a city using its reference
// coordinates. The reading's timestamp is collection time, not API time.
func (c *Client) CurrentWeather(ctx context.Context, city domain.CityTarget) (domain.ApiWeatherRecord, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(city.Lat, 'f', 4, 64)},
		"lon":   {strconv.FormatFloat(city.Lon, 'f', 4, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.ApiWeatherRecord{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ApiWeatherRecord{}, fmt.Errorf("current weather request for %s: %w", city.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.ApiWeatherRecord{}, fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	var owmResp response
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return domain.ApiWeatherRecord{}, fmt.Errorf("decode response: %w", err)
	}

	rec := domain.ApiWeatherRecord{
		CityName:     city.Name,
		TemperatureC: owmResp.Main.Temp,
		HumidityPct:  owmResp.Main.Humidity,
		PressureHPa:  owmResp.Main.Pressure,
		WindSpeedMS:  owmResp.Wind.Speed,
		VisibilityM:  owmResp.Visibility,
		DataSource:   domain.SourceOpenWeather,
		Timestamp:    c.clock.Now().UTC().Truncate(time.Second),
	}
	if len(owmResp.Weather) > 0 {
		rec.Condition = owmResp.Weather[0].Description
	}
	return rec, nil
}

// OpenWeatherMap API response types (the subset we store).

type response struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility float64 `json:"visibility"`
}
