// Package sqlite persists climate records and API readings in a local
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

// ErrNotFound is returned by read paths when no row exists for the city.
var ErrNotFound = errors.New("climate record not found")

// Repository is the single store handle for a run. It is accessed by one
// caller at a time by construction (the pipeline is strictly sequential).
type Repository struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating the file if needed.
func Open(path string) (*Repository, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}
	return &Repository{db: db}, nil
}

// New wraps an existing database handle, used by tests with ":memory:".
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// InitSchema creates both tables if they do not exist.
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the reference row for rec's city. The UNIQUE
// constraint on city_name makes this the duplicate-suppression point: a new
// extraction replaces the previous record, no history is kept.
func (r *Repository) Upsert(ctx context.Context, rec domain.ClimateRecord) error {
	const query = `
		INSERT OR REPLACE INTO climate_records
			(city_name, latitude, longitude, climate_type, avg_temperature_celsius,
			 avg_humidity_percent, annual_rainfall_mm, hottest_month, coldest_month,
			 weather_description, data_source, extracted_at)
		VALUES
			(:city_name, :latitude, :longitude, :climate_type, :avg_temperature_celsius,
			 :avg_humidity_percent, :annual_rainfall_mm, :hottest_month, :coldest_month,
			 :weather_description, :data_source, :extracted_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("upsert climate record for %s: %w", rec.CityName, err)
	}
	return nil
}

// UpsertReading appends an API reading. A reading with the same
// (city_name, timestamp) as an existing row is silently ignored, so a
// duplicate collection tick is a no-op instead of an error.
func (r *Repository) UpsertReading(ctx context.Context, rec domain.ApiWeatherRecord) error {
	const query = `
		INSERT OR IGNORE INTO api_weather_readings
			(city_name, temperature_celsius, humidity_percent, pressure_hpa,
			 weather_condition, wind_speed_ms, visibility_m, data_source, timestamp)
		VALUES
			(:city_name, :temperature_celsius, :humidity_percent, :pressure_hpa,
			 :weather_condition, :wind_speed_ms, :visibility_m, :data_source, :timestamp)
	`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("insert api reading for %s: %w", rec.CityName, err)
	}
	return nil
}

// Latest returns the current reference row for a city, or ErrNotFound.
func (r *Repository) Latest(ctx context.Context, cityName string) (domain.ClimateRecord, error) {
	const query = `
		SELECT city_name, latitude, longitude, climate_type, avg_temperature_celsius,
		       avg_humidity_percent, annual_rainfall_mm, hottest_month, coldest_month,
		       weather_description, data_source, extracted_at
		FROM climate_records
		WHERE city_name = ?
		ORDER BY extracted_at DESC
		LIMIT 1
	`
	var rec domain.ClimateRecord
	if err := r.db.GetContext(ctx, &rec, query, cityName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ClimateRecord{}, fmt.Errorf("%w: %s", ErrNotFound, cityName)
		}
		return domain.ClimateRecord{}, fmt.Errorf("get climate record for %s: %w", cityName, err)
	}
	return rec, nil
}

// All returns every stored reference row ordered by city name.
func (r *Repository) All(ctx context.Context) ([]domain.ClimateRecord, error) {
	const query = `
		SELECT city_name, latitude, longitude, climate_type, avg_temperature_celsius,
		       avg_humidity_percent, annual_rainfall_mm, hottest_month, coldest_month,
		       weather_description, data_source, extracted_at
		FROM climate_records
		ORDER BY city_name
	`
	var recs []domain.ClimateRecord
	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("list climate records: %w", err)
	}
	return recs, nil
}

// CountReadings returns the number of stored API readings for a city.
func (r *Repository) CountReadings(ctx context.Context, cityName string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM api_weather_readings WHERE city_name = ?`, cityName); err != nil {
		return 0, fmt.Errorf("count api readings for %s: %w", cityName, err)
	}
	return n, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}
