package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/uae-weather-etl/internal/domain"
)

const (
	// maxDescriptionLen bounds the captured prose so a renamed heading or a
	// runaway section cannot pull megabytes of article text into the record.
	maxDescriptionLen = 500
	maxClimateTypeLen = 50
)

var (
	// citationRe strips bracketed reference markers: [12], [a], [note 3].
	citationRe = regexp.MustCompile(`\[(?:\d+|[a-z]|note \d+)\]`)
	wsRe       = regexp.MustCompile(`\s+`)

	climateHeadingRe = regexp.MustCompile(`(?i)\b(climate|weather)\b`)
)

// climateKeywords classify prose into a coarse climate type when the infobox
// carries no explicit climate row. Order matters: first hit wins.
var climateKeywords = []struct {
	keyword string
	label   string
}{
	{"desert", "Desert"},
	{"arid", "Arid"},
	{"subtropical", "Subtropical"},
}

// InfoboxAndDescription extracts the climate type and the cleaned weather
// description. The climate type comes from an infobox "Climate" row when one
// exists, otherwise from keyword classification of the description prose.
func InfoboxAndDescription(doc *goquery.Document) (domain.InfoboxFields, bool) {
	var fields domain.InfoboxFields

	if v := infoboxClimateRow(doc); v != "" {
		fields.ClimateType = &v
	}
	if d := climateSectionProse(doc); d != "" {
		fields.Description = &d
	}
	if fields.ClimateType == nil && fields.Description != nil {
		if label := classifyClimate(*fields.Description); label != "" {
			fields.ClimateType = &label
		}
	}

	return fields, fields.ClimateType != nil || fields.Description != nil
}

func infoboxClimateRow(doc *goquery.Document) string {
	var value string
	doc.Find("table.infobox tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return true
		}
		if !strings.Contains(strings.ToLower(th.Text()), "climate") {
			return true
		}
		value = truncate(cleanText(td.Text()), maxClimateTypeLen)
		return value == ""
	})
	return value
}

// climateSectionProse collects the paragraphs between the first
// climate/weather heading and the next heading of any level.
func climateSectionProse(doc *goquery.Document) string {
	var prose string
	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !climateHeadingRe.MatchString(heading.Text()) {
			return true
		}

		// Modern Wikipedia wraps headings in <div class="mw-heading">; the
		// section paragraphs are siblings of the wrapper, not the heading.
		scope := heading
		if parent := heading.Parent(); parent.HasClass("mw-heading") {
			scope = parent
		}

		var parts []string
		scope.NextUntil("h1, h2, h3, h4, .mw-heading").Each(func(_ int, sib *goquery.Selection) {
			if goquery.NodeName(sib) == "p" {
				parts = append(parts, sib.Text())
			}
		})

		text := cleanText(strings.Join(parts, " "))
		if text == "" {
			return true
		}
		prose = truncate(text, maxDescriptionLen)
		return false
	})
	return prose
}

func classifyClimate(description string) string {
	lower := strings.ToLower(description)
	for _, ck := range climateKeywords {
		if strings.Contains(lower, ck.keyword) {
			return ck.label
		}
	}
	return ""
}

// cleanText strips citation markers and collapses whitespace runs, including
// newlines, to single spaces.
func cleanText(s string) string {
	s = citationRe.ReplaceAllString(s, "")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// truncate bounds s to max runes, cutting back to the previous word boundary
// so the stored text never ends mid-word or with a dangling ellipsis.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := string([]rune(s)[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:")
}
