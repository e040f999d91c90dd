package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	repo := New(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func dubaiRecord(extractedAt time.Time) domain.ClimateRecord {
	return domain.ClimateRecord{
		CityName:           "Dubai",
		Latitude:           fptr(25.2048),
		Longitude:          fptr(55.2708),
		ClimateType:        sptr("Desert"),
		AvgTemperatureC:    fptr(28.5),
		HottestMonth:       sptr("July"),
		WeatherDescription: sptr("Hot desert climate."),
		DataSource:         domain.SourceWikipedia,
		ExtractedAt:        extractedAt,
	}
}

func TestRepository_UpsertReplacesExistingRow(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	first := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, dubaiRecord(first)))

	// Second extraction for the same city replaces, not duplicates.
	updated := dubaiRecord(first.Add(24 * time.Hour))
	updated.AvgTemperatureC = fptr(29.1)
	require.NoError(t, repo.Upsert(ctx, updated))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Dubai", all[0].CityName)
	assert.Equal(t, 29.1, *all[0].AvgTemperatureC)
	assert.Equal(t, first.Add(24*time.Hour), all[0].ExtractedAt.UTC())
}

func TestRepository_UpsertPreservesNilFields(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	rec := domain.ClimateRecord{
		CityName:        "Ajman",
		AvgTemperatureC: fptr(27.0),
		DataSource:      domain.SourceWikipedia,
		ExtractedAt:     time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(ctx, rec))

	got, err := repo.Latest(ctx, "Ajman")
	require.NoError(t, err)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.ClimateType)
	assert.Nil(t, got.HottestMonth)
	require.NotNil(t, got.AvgTemperatureC)
	assert.Equal(t, 27.0, *got.AvgTemperatureC)
}

func TestRepository_LatestNotFound(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.Latest(context.Background(), "Fujairah")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ReadingsTimeSeries(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	reading := domain.ApiWeatherRecord{
		CityName:     "Sharjah",
		TemperatureC: 39.0,
		HumidityPct:  40,
		PressureHPa:  999,
		Condition:    "clear sky",
		DataSource:   domain.SourceOpenWeather,
		Timestamp:    at,
	}

	t.Run("distinct timestamps both persist", func(t *testing.T) {
		require.NoError(t, repo.UpsertReading(ctx, reading))
		later := reading
		later.Timestamp = at.Add(6 * time.Hour)
		require.NoError(t, repo.UpsertReading(ctx, later))

		n, err := repo.CountReadings(ctx, "Sharjah")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("duplicate (city, timestamp) collapses to one row", func(t *testing.T) {
		require.NoError(t, repo.UpsertReading(ctx, reading))

		n, err := repo.CountReadings(ctx, "Sharjah")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestRepository_AllOrdersByCity(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	for _, name := range []string{"Sharjah", "Ajman", "Dubai"} {
		rec := dubaiRecord(at)
		rec.CityName = name
		require.NoError(t, repo.Upsert(ctx, rec))
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ajman", all[0].CityName)
	assert.Equal(t, "Dubai", all[1].CityName)
	assert.Equal(t, "Sharjah", all[2].CityName)
}
