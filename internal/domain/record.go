package domain

import "time"

// Data source tags stamped onto persisted rows.
const (
	SourceWikipedia   = "wikipedia"
	SourceOpenWeather = "openweathermap"
)

// CityTarget identifies one of the seven configured cities: the display name
// used as the storage key, the Wikipedia article to harvest, and reference
// coordinates for the OpenWeatherMap backup client.
type CityTarget struct {
	Name    string
	PageURL string
	Lat     float64
	Lon     float64
}

// cities is the fixed harvest set. Immutable for a run; Cities returns a copy.
var cities = []CityTarget{
	{Name: "Abu Dhabi", PageURL: "https://en.wikipedia.org/wiki/Abu_Dhabi", Lat: 24.2992, Lon: 54.6969},
	{Name: "Dubai", PageURL: "https://en.wikipedia.org/wiki/Dubai", Lat: 25.2048, Lon: 55.2708},
	{Name: "Sharjah", PageURL: "https://en.wikipedia.org/wiki/Sharjah", Lat: 25.3373, Lon: 55.4120},
	{Name: "Ajman", PageURL: "https://en.wikipedia.org/wiki/Ajman", Lat: 25.4052, Lon: 55.5136},
	{Name: "Ras Al Khaimah", PageURL: "https://en.wikipedia.org/wiki/Ras_Al_Khaimah", Lat: 25.7889, Lon: 55.9598},
	{Name: "Fujairah", PageURL: "https://en.wikipedia.org/wiki/Fujairah", Lat: 25.1164, Lon: 56.3265},
	{Name: "Umm Al Quwain", PageURL: "https://en.wikipedia.org/wiki/Umm_Al_Quwain", Lat: 25.5641, Lon: 55.6552},
}

// Cities returns the configured city targets in harvest order.
func Cities() []CityTarget {
	out := make([]CityTarget, len(cities))
	copy(out, cities)
	return out
}

// KnownCity reports whether name is one of the configured cities.
func KnownCity(name string) bool {
	for _, c := range cities {
		if c.Name == name {
			return true
		}
	}
	return false
}

// RawPage is the fetched article markup. It lives only for the duration of
// one extraction attempt and is discarded afterwards.
type RawPage struct {
	Body      []byte
	URL       string
	FetchedAt time.Time
}

// Coords is a WGS-84 latitude/longitude pair from the geo microformat.
type Coords struct {
	Lat float64
	Lon float64
}

// ClimateTableFields are the partial fields the climate-table extractor can
// populate from one monthly climate table. Nil means absent.
type ClimateTableFields struct {
	AvgTemperatureC  *float64
	AvgHumidityPct   *float64
	AnnualRainfallMM *float64
	HottestMonth     *string
	ColdestMonth     *string
}

// InfoboxFields are the partial fields the infobox/description extractor can
// populate. Nil means absent.
type InfoboxFields struct {
	ClimateType *string
	Description *string
}

// Partials collects the three extractors' independent outputs for one page.
// A nil Coords or nil member field means that extractor reported absence.
type Partials struct {
	Coords  *Coords
	Table   ClimateTableFields
	Infobox InfoboxFields
}

// ClimateRecord is the canonical per-city reference row. CityName,
// DataSource, and ExtractedAt are always set; every other field is nil when
// its extractor could not find it.
type ClimateRecord struct {
	CityName           string    `db:"city_name"`
	Latitude           *float64  `db:"latitude"`
	Longitude          *float64  `db:"longitude"`
	ClimateType        *string   `db:"climate_type"`
	AvgTemperatureC    *float64  `db:"avg_temperature_celsius"`
	AvgHumidityPct     *float64  `db:"avg_humidity_percent"`
	AnnualRainfallMM   *float64  `db:"annual_rainfall_mm"`
	HottestMonth       *string   `db:"hottest_month"`
	ColdestMonth       *string   `db:"coldest_month"`
	WeatherDescription *string   `db:"weather_description"`
	DataSource         string    `db:"data_source"`
	ExtractedAt        time.Time `db:"extracted_at"`
}

// ApiWeatherRecord is one current-conditions reading from the API backup
// source. Readings form a time series keyed by (city_name, timestamp).
type ApiWeatherRecord struct {
	CityName     string    `db:"city_name"`
	TemperatureC float64   `db:"temperature_celsius"`
	HumidityPct  float64   `db:"humidity_percent"`
	PressureHPa  float64   `db:"pressure_hpa"`
	Condition    string    `db:"weather_condition"`
	WindSpeedMS  float64   `db:"wind_speed_ms"`
	VisibilityM  float64   `db:"visibility_m"`
	DataSource   string    `db:"data_source"`
	Timestamp    time.Time `db:"timestamp"`
}
