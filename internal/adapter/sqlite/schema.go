package sqlite

// Two tables: the single-current-row-per-city reference table and the
// append-only API reading time series. The reference table's uniqueness
// constraint on city_name is what makes Upsert a replace; the reading
// table's (city_name, timestamp) constraint is what lets duplicate
// collection ticks collapse silently.
const schema = `
CREATE TABLE IF NOT EXISTS climate_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city_name TEXT NOT NULL UNIQUE,
	latitude REAL,
	longitude REAL,
	climate_type TEXT,
	avg_temperature_celsius REAL,
	avg_humidity_percent REAL,
	annual_rainfall_mm REAL,
	hottest_month TEXT,
	coldest_month TEXT,
	weather_description TEXT,
	data_source TEXT NOT NULL DEFAULT 'wikipedia',
	extracted_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS api_weather_readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	city_name TEXT NOT NULL,
	temperature_celsius REAL,
	humidity_percent REAL,
	pressure_hpa REAL,
	weather_condition TEXT,
	wind_speed_ms REAL,
	visibility_m REAL,
	data_source TEXT NOT NULL DEFAULT 'openweathermap',
	timestamp TIMESTAMP NOT NULL,
	UNIQUE(city_name, timestamp)
);
`
