package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/locus/intern"
)

func TestBuildKeyAndParseKey(t *testing.T) {
	key := BuildKey(EncodingCountry, "gb")
	assert.Equal(t, "ISO-3166-1-gb", key)

	enc, id, err := ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, EncodingCountry, enc)
	assert.Equal(t, "gb", id)
}

func TestParseKeyRejectsUnknownForm(t *testing.T) {
	_, _, err := ParseKey("gb#country")
	assert.Error(t, err)
}

func TestParseKeyMatchesHyphenatedEncoding(t *testing.T) {
	enc, id, err := ParseKey(BuildKey(EncodingSubdivision, "gb:lnd"))
	require.NoError(t, err)
	assert.Equal(t, EncodingSubdivision, enc)
	assert.Equal(t, "gb:lnd", id)
}

func TestCountryGetNames(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	// short differs and is long enough: both names returned.
	e := NewCountry("united kingdom", "britain", "gb", "gbr", "europe")
	assert.Equal(t, []string{"united kingdom", "britain"}, e.GetNames())

	// short too close to name length rule: identical to name, collapses to one.
	e2 := NewCountry("france", "france", "fr", "fra", "europe")
	assert.Equal(t, []string{"france"}, e2.GetNames())

	// short shorter than 4 chars is excluded from names but included in codes.
	e3 := NewCountry("chad", "td", "td", "tcd", "africa")
	assert.Equal(t, []string{"chad"}, e3.GetNames())
	assert.Contains(t, e3.GetCodes(), "td")
}

func TestCountryGetCodes(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	e := NewCountry("chad", "td", "td", "tcd", "africa")
	assert.ElementsMatch(t, []string{"td", "tcd", "td"}, e.GetCodes())

	e2 := NewCountry("united kingdom", "britain", "gb", "gbr", "europe")
	assert.ElementsMatch(t, []string{"gb", "gbr"}, e2.GetCodes())
}

func TestCodeMatch(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	e := NewCountry("united kingdom", "britain", "gb", "gbr", "europe")
	assert.True(t, e.CodeMatch("GB"))
	assert.True(t, e.CodeMatch("gbr"))
	assert.False(t, e.CodeMatch("fr"))
}

func TestGetParentsSubdivisionResolvesOnlyIfCountryExists(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	sub := NewSubdivision("london", "gb", "lnd", "city")
	ck, hasCountry, _, hasSubdiv := sub.GetParents()
	assert.False(t, hasCountry, "country not yet interned, must not resolve")
	assert.False(t, hasSubdiv)
	assert.Empty(t, ck)

	country := NewCountry("united kingdom", "britain", "gb", "gbr", "europe")
	ck2, hasCountry2, _, _ := sub.GetParents()
	require.True(t, hasCountry2)
	assert.Equal(t, country.Key, ck2)
}

func TestGetParentsLocode(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	country := NewCountry("united kingdom", "britain", "gb", "gbr", "europe")
	subdiv := NewSubdivision("london", "gb", "lnd", "city")
	loc := NewLocode("london", "gb", "lon", "london", "lnd", "1")

	ck, hasCountry, sk, hasSubdiv := loc.GetParents()
	require.True(t, hasCountry)
	require.True(t, hasSubdiv)
	assert.Equal(t, country.Key, ck)
	assert.Equal(t, subdiv.Key, sk)
}

func TestGetParentsAirportSplitsRegion(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	country := NewCountry("united states", "usa", "us", "usa", "north america")
	subdiv := NewSubdivision("california", "us", "ca", "state")
	airport := NewAirport("san francisco international", "sfo", "large_airport", "san francisco", "us", "US-CA", -122.375, 37.619, nil)

	ck, hasCountry, sk, hasSubdiv := airport.GetParents()
	require.True(t, hasCountry)
	require.True(t, hasSubdiv)
	assert.Equal(t, country.Key, ck)
	assert.Equal(t, subdiv.Key, sk)
}

func TestParentBoostDivisors(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	country := NewCountry("france", "france", "fr", "fra", "europe")
	subdiv := NewSubdivision("paris", "fr", "75", "region")
	loc := NewLocode("paris", "fr", "par", "", "", "1")
	airport := NewAirport("charles de gaulle", "cdg", "large_airport", "paris", "fr", "fr-idf", 2.55, 49.0, nil)

	assert.Equal(t, 500, country.ParentBoost(1000))
	assert.Equal(t, 333, subdiv.ParentBoost(1000))
	assert.Equal(t, 250, loc.ParentBoost(1000))
	assert.Equal(t, 0, airport.ParentBoost(1000))
}

func TestComputeWordsDropsShortTokens(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	e := NewLocode("new york ny", "us", "nyc", "", "", "1")
	assert.Contains(t, e.Words, "york")
	assert.NotContains(t, e.Words, "new") // length 3, excluded
	assert.NotContains(t, e.Words, "ny")
}

func TestParseCoordinates(t *testing.T) {
	c, err := ParseCoordinates("5130N 00008E")
	require.NoError(t, err)
	assert.InDelta(t, 51.5, c.Lat, 0.01)
	assert.InDelta(t, 0.133, c.Lon, 0.01)

	c2, err := ParseCoordinates("3352S 15113E")
	require.NoError(t, err)
	assert.Less(t, c2.Lat, 0.0)
	assert.Greater(t, c2.Lon, 0.0)

	_, err = ParseCoordinates("not-a-coordinate")
	assert.Error(t, err)
}

func TestSetCoordinatesOnlyAppliesToLocode(t *testing.T) {
	intern.Reset()
	defer intern.Reset()

	loc := NewLocode("rotterdam", "nl", "rtm", "", "", "1")
	c, err := ParseCoordinates("5155N 00430E")
	require.NoError(t, err)
	loc.SetCoordinates(c)
	require.NotNil(t, loc.Locode.Coordinates)
	assert.InDelta(t, 51.9, loc.Locode.Coordinates.Lat, 0.1)
}
