package domain

// Assemble merges the extractors' partial fields into one candidate record
// for the given city. Fields no extractor found stay nil; a wrong number is
// worse than an absent one, so nothing is defaulted. DataSource and
// ExtractedAt are set unconditionally.
func Assemble(city string, p Partials) ClimateRecord {
	rec := ClimateRecord{
		CityName:    city,
		DataSource:  SourceWikipedia,
		ExtractedAt: clock.Now(),

		ClimateType:        p.Infobox.ClimateType,
		WeatherDescription: p.Infobox.Description,

		AvgTemperatureC:  p.Table.AvgTemperatureC,
		AvgHumidityPct:   p.Table.AvgHumidityPct,
		AnnualRainfallMM: p.Table.AnnualRainfallMM,
		HottestMonth:     p.Table.HottestMonth,
		ColdestMonth:     p.Table.ColdestMonth,
	}
	if p.Coords != nil {
		lat, lon := p.Coords.Lat, p.Coords.Lon
		rec.Latitude = &lat
		rec.Longitude = &lon
	}
	return rec
}
