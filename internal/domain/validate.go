package domain

import "errors"

// Validation sentinel errors.
var (
	// ErrUnknownCity means the record's city is not one of the configured targets.
	ErrUnknownCity = errors.New("unknown city")

	// ErrNoSignal means no informative field survived extraction; storing the
	// record would add nothing over the city list itself.
	ErrNoSignal = errors.New("record carries no extracted signal")
)

// Plausibility bounds for extracted numeric fields. Values outside these are
// parse artifacts (wrong table row, imperial units), not real observations.
const (
	minPlausibleTempC = -50
	maxPlausibleTempC = 60
)

// Validate checks a candidate record and normalizes its numeric fields.
// Out-of-range values are dropped to nil rather than failing the record,
// so one bad field cannot discard otherwise-good data; the names of dropped
// fields are returned for logging. The record is rejected outright only when
// the city is unknown or no signal field remains.
func Validate(rec ClimateRecord) (ClimateRecord, []string, error) {
	if !KnownCity(rec.CityName) {
		return ClimateRecord{}, nil, ErrUnknownCity
	}

	var dropped []string

	if rec.Latitude != nil && rec.Longitude != nil {
		if *rec.Latitude < -90 || *rec.Latitude > 90 || *rec.Longitude < -180 || *rec.Longitude > 180 {
			rec.Latitude = nil
			rec.Longitude = nil
			dropped = append(dropped, "coordinates")
		}
	} else if rec.Latitude != nil || rec.Longitude != nil {
		// Half a coordinate pair is meaningless.
		rec.Latitude = nil
		rec.Longitude = nil
		dropped = append(dropped, "coordinates")
	}

	if rec.AvgTemperatureC != nil && (*rec.AvgTemperatureC < minPlausibleTempC || *rec.AvgTemperatureC > maxPlausibleTempC) {
		rec.AvgTemperatureC = nil
		dropped = append(dropped, "avg_temperature_celsius")
	}
	if rec.AvgHumidityPct != nil && (*rec.AvgHumidityPct < 0 || *rec.AvgHumidityPct > 100) {
		rec.AvgHumidityPct = nil
		dropped = append(dropped, "avg_humidity_percent")
	}
	if rec.AnnualRainfallMM != nil && *rec.AnnualRainfallMM < 0 {
		rec.AnnualRainfallMM = nil
		dropped = append(dropped, "annual_rainfall_mm")
	}

	if rec.Latitude == nil && rec.ClimateType == nil && rec.AvgTemperatureC == nil && rec.WeatherDescription == nil {
		return ClimateRecord{}, dropped, ErrNoSignal
	}

	return rec, dropped, nil
}
