package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestCoordinates(t *testing.T) {
	t.Run("semicolon-separated pair", func(t *testing.T) {
		doc := parseDoc(t, `<span class="geo">25.2048; 55.2708</span>`)
		c, ok := Coordinates(doc)
		require.True(t, ok)
		assert.Equal(t, 25.2048, c.Lat)
		assert.Equal(t, 55.2708, c.Lon)
	})

	t.Run("whitespace-separated signed pair", func(t *testing.T) {
		doc := parseDoc(t, `<span class="geo">-33.8688 151.2093</span>`)
		c, ok := Coordinates(doc)
		require.True(t, ok)
		assert.Equal(t, -33.8688, c.Lat)
		assert.Equal(t, 151.2093, c.Lon)
	})

	t.Run("first span in document order wins", func(t *testing.T) {
		doc := parseDoc(t, `
			<div class="infobox"><span class="geo">25.1164; 56.3265</span></div>
			<div class="nearby"><span class="geo">24.0; 54.0</span></div>`)
		c, ok := Coordinates(doc)
		require.True(t, ok)
		assert.Equal(t, 25.1164, c.Lat)
	})

	t.Run("malformed span skipped in favor of later valid one", func(t *testing.T) {
		doc := parseDoc(t, `
			<span class="geo">twenty-five; fifty-five</span>
			<span class="geo">25.3373; 55.4120</span>`)
		c, ok := Coordinates(doc)
		require.True(t, ok)
		assert.Equal(t, 25.3373, c.Lat)
	})

	t.Run("out-of-range pair treated as absent", func(t *testing.T) {
		doc := parseDoc(t, `<span class="geo">95.0; 55.27</span>`)
		_, ok := Coordinates(doc)
		assert.False(t, ok)
	})

	t.Run("longitude out of range treated as absent", func(t *testing.T) {
		doc := parseDoc(t, `<span class="geo">25.2; 185.0</span>`)
		_, ok := Coordinates(doc)
		assert.False(t, ok)
	})

	t.Run("no geo span", func(t *testing.T) {
		doc := parseDoc(t, `<p>No coordinates here.</p>`)
		_, ok := Coordinates(doc)
		assert.False(t, ok)
	})
}
