// Package extract pulls partial climate fields out of parsed Wikipedia
// markup. Each extractor takes a goquery document and reports its fields as
// present or absent; malformed values degrade to absent and never become
// errors, so one broken section cannot fail a whole page.
package extract

import (
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

// geoPairRe matches the geo microformat payload: a decimal pair, optionally
// signed, separated by a semicolon, comma, or whitespace.
var geoPairRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*[;,\s]\s*(-?\d+(?:\.\d+)?)\s*$`)

// Coordinates extracts the article subject's latitude/longitude from the
// first well-formed geo microformat span in document order. Spans with
// non-numeric or out-of-range content are skipped rather than reported.
func Coordinates(doc *goquery.Document) (domain.Coords, bool) {
	var coords domain.Coords
	found := false

	doc.Find("span.geo").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := geoPairRe.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lon, errLon := strconv.ParseFloat(m[2], 64)
		if errLat != nil || errLon != nil {
			return true
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return true
		}
		coords = domain.Coords{Lat: lat, Lon: lon}
		found = true
		return false
	})

	return coords, found
}
