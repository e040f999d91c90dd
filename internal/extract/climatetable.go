package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

// numberRe grabs the first numeric token in a table cell. Wiki climate cells
// pair the metric value with a parenthesized imperial conversion, e.g.
// "35.5 (95.9)"; the metric value comes first.
var numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

var calendarMonths = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// monthsByPrefix resolves abbreviated header cells ("Jan", "Feb") to full
// month names.
var monthsByPrefix = func() map[string]string {
	m := make(map[string]string, 12)
	for _, name := range calendarMonths {
		m[strings.ToLower(name[:3])] = name
	}
	return m
}()

// Temperature row labels in preference order. The daily mean is the value
// avg_temperature_celsius actually promises; the high-temperature rows are
// fallbacks for articles that only publish those.
var tempRowLabels = []string{"daily mean", "average high", "mean maximum"}

// ClimateTable extracts monthly climate aggregates from the first wikitable
// that looks like climate data and yields at least one field. Absence of a
// usable table is a normal outcome, not an error.
func ClimateTable(doc *goquery.Document) (domain.ClimateTableFields, bool) {
	var fields domain.ClimateTableFields
	found := false

	doc.Find("table.wikitable, table.climate-table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if !isClimateTable(table) {
			return true
		}
		fields = parseClimateTable(table)
		found = fields.AvgTemperatureC != nil || fields.AvgHumidityPct != nil || fields.AnnualRainfallMM != nil
		return !found
	})

	return fields, found
}

// isClimateTable recognizes a climate table by its caption, or by the
// presence of both temperature and precipitation vocabulary in its text.
func isClimateTable(table *goquery.Selection) bool {
	caption := strings.ToLower(table.Find("caption").First().Text())
	if strings.Contains(caption, "climate") || strings.Contains(caption, "weather") {
		return true
	}
	text := strings.ToLower(table.Text())
	return strings.Contains(text, "temperature") &&
		(strings.Contains(text, "rainfall") || strings.Contains(text, "precipitation") || strings.Contains(text, "humidity"))
}

type monthValue struct {
	month int // 0-based month index, by column position
	value float64
}

func parseClimateTable(table *goquery.Selection) domain.ClimateTableFields {
	months := headerMonths(table)
	var fields domain.ClimateTableFields
	bestTempRank := len(tempRowLabels)

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(collapseWhitespace(cells.First().Text()))

		switch {
		case strings.Contains(label, "humidity"):
			if fields.AvgHumidityPct != nil {
				return
			}
			if vals := monthlyValues(cells); len(vals) > 0 {
				mean := round1(sum(vals) / float64(len(vals)))
				fields.AvgHumidityPct = &mean
			}

		case strings.Contains(label, "rainfall") || strings.Contains(label, "precipitation"):
			// "Average rainy days" rows count days, not millimetres.
			if fields.AnnualRainfallMM != nil || strings.Contains(label, "days") {
				return
			}
			if vals := monthlyValues(cells); len(vals) > 0 {
				total := round1(sum(vals))
				fields.AnnualRainfallMM = &total
			}

		default:
			rank, ok := tempRowRank(label)
			if !ok || rank >= bestTempRank {
				return
			}
			vals := monthlyValues(cells)
			if len(vals) == 0 {
				return
			}
			bestTempRank = rank
			mean := round1(sum(vals) / float64(len(vals)))
			fields.AvgTemperatureC = &mean
			hottest, coldest := extremeMonths(vals, months)
			fields.HottestMonth = &hottest
			fields.ColdestMonth = &coldest
		}
	})

	return fields
}

// tempRowRank matches a row label against the temperature rows we accept,
// in preference order. Fahrenheit-primary rows are rejected outright.
func tempRowRank(label string) (int, bool) {
	if strings.Contains(label, "°f") && !strings.Contains(label, "°c") {
		return 0, false
	}
	for rank, want := range tempRowLabels {
		if strings.Contains(label, want) {
			return rank, true
		}
	}
	return 0, false
}

// headerMonths reads the table's header row and maps column positions to
// month names. Falls back to calendar order when the header is missing or
// unrecognizable, which matches the overwhelmingly common table layout.
func headerMonths(table *goquery.Selection) [12]string {
	months := calendarMonths
	header := table.Find("tr").First().Find("th, td")
	if header.Length() < 13 {
		return months
	}

	idx := 0
	header.Each(func(i int, cell *goquery.Selection) {
		if i == 0 || idx >= 12 {
			return
		}
		key := strings.ToLower(collapseWhitespace(cell.Text()))
		if len(key) < 3 {
			return
		}
		if name, ok := monthsByPrefix[key[:3]]; ok {
			months[idx] = name
			idx++
		}
	})
	return months
}

// monthlyValues parses up to 12 monthly data cells following the row label.
// Unparseable cells are skipped, preserving the column index of the ones that
// do parse; a trailing annual-summary column is ignored.
func monthlyValues(cells *goquery.Selection) []monthValue {
	var vals []monthValue
	cells.Each(func(i int, cell *goquery.Selection) {
		if i == 0 || i > 12 {
			return
		}
		if v, ok := parseCellNumber(cell.Text()); ok {
			vals = append(vals, monthValue{month: i - 1, value: v})
		}
	})
	return vals
}

// parseCellNumber extracts the first numeric token from cell text, tolerating
// unit markers (°C, %, mm), thousands separators, Unicode minus signs, and
// parenthesized unit conversions.
func parseCellNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "−", "-")
	text = strings.ReplaceAll(text, ",", "")

	m := numberRe.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extremeMonths finds the hottest and coldest month by value. Ties break to
// the first column in table order via strict comparison.
func extremeMonths(vals []monthValue, months [12]string) (hottest, coldest string) {
	maxIdx, minIdx := vals[0].month, vals[0].month
	maxV, minV := vals[0].value, vals[0].value
	for _, mv := range vals[1:] {
		if mv.value > maxV {
			maxV, maxIdx = mv.value, mv.month
		}
		if mv.value < minV {
			minV, minIdx = mv.value, mv.month
		}
	}
	return months[maxIdx], months[minIdx]
}

func sum(vals []monthValue) float64 {
	var total float64
	for _, mv := range vals {
		total += mv.value
	}
	return total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
