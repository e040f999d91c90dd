// Package domain models UAE city climate reference data harvested from Wikipedia.
//
// # Data Source
//
// Reference records come from the English Wikipedia article of each of the
// seven UAE cities (Abu Dhabi, Dubai, Sharjah, Ajman, Ras Al Khaimah,
// Fujairah, Umm Al Quwain). Wikipedia article structure drifts over time and
// differs between cities, so every extracted field is optional: extractors
// report presence or absence and never fail a whole page over one bad value.
//
// # Wikipedia Markup Conventions
//
// Coordinates:
//
//	The geo microformat carries a decimal pair inside a span with class "geo":
//	  <span class="geo">25.2048; 55.2708</span>
//	The separator is a semicolon or whitespace, values may be signed. Articles
//	can contain several geo spans (infobox, mapframes, nearby places); the
//	first one in document order is the article subject's own coordinate by
//	front-matter convention.
//
// Climate tables:
//
//	Monthly climate data lives in a "wikitable" whose caption mentions climate
//	or weather ("Climate data for Dubai"). Rows are keyed by their first cell:
//	"Daily mean °C", "Average high °C", "Average relative humidity (%)",
//	"Average rainfall mm", and so on. Cells mix the metric value with a
//	parenthesized imperial conversion ("35.5 (95.9)") and may carry unit
//	markers or thousands separators; the first numeric token is the metric one.
//
// Infobox and prose:
//
//	climate_type comes from an infobox row whose header mentions "Climate",
//	falling back to keyword classification of the climate section prose
//	(desert, arid, subtropical). weather_description is the paragraph text
//	under the "Climate" or "Weather" heading, with citation markers like [12]
//	stripped and whitespace collapsed.
//
// # Record Semantics
//
// A ClimateRecord is the single current reference row per city: a fresh
// extraction replaces the previous row (uniqueness on city_name, no history).
// Absent fields stay nil rather than being defaulted, because a fabricated
// number is worse than a missing one. A record whose only populated field is
// the city name carries no information and is rejected by Validate.
//
// ApiWeatherRecord is a separate time-series entity fed by the OpenWeatherMap
// backup client; multiple readings per city are meaningful, so its uniqueness
// key is (city_name, timestamp).
package domain
