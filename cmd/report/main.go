// Command report prints the stored reference records, one block per city.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/uae-weather-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/uae-weather-etl/internal/config"
	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	records, err := repo.All(context.Background())
	if err != nil {
		slog.Error("failed to read records", "error", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No climate records stored yet. Run the harvester first.")
		return
	}

	fmt.Println("UAE CITIES CLIMATE REFERENCE DATA")
	fmt.Println("=================================")
	for _, rec := range records {
		printRecord(rec)
	}
}

func printRecord(rec domain.ClimateRecord) {
	fmt.Printf("\nCity:            %s\n", rec.CityName)
	if rec.Latitude != nil && rec.Longitude != nil {
		fmt.Printf("Coordinates:     %.4f, %.4f\n", *rec.Latitude, *rec.Longitude)
	}
	fmt.Printf("Climate type:    %s\n", strOr(rec.ClimateType, "n/a"))
	fmt.Printf("Avg temperature: %s\n", floatOr(rec.AvgTemperatureC, "°C"))
	fmt.Printf("Avg humidity:    %s\n", floatOr(rec.AvgHumidityPct, "%"))
	fmt.Printf("Annual rainfall: %s\n", floatOr(rec.AnnualRainfallMM, " mm"))
	fmt.Printf("Hottest month:   %s\n", strOr(rec.HottestMonth, "n/a"))
	fmt.Printf("Coldest month:   %s\n", strOr(rec.ColdestMonth, "n/a"))
	if rec.WeatherDescription != nil {
		desc := *rec.WeatherDescription
		if len(desc) > 100 {
			desc = desc[:100]
		}
		fmt.Printf("Description:     %s\n", desc)
	}
	fmt.Printf("Extracted at:    %s (%s)\n", rec.ExtractedAt.Format("2006-01-02 15:04:05 MST"), rec.DataSource)
}

func strOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func floatOr(f *float64, unit string) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%s", *f, unit)
}
