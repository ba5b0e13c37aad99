package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/index"
	"github.com/gilby125/locus/intern"
	"github.com/gilby125/locus/parser"
)

func buildFixture(t *testing.T) *index.Index {
	t.Helper()
	intern.Reset()
	t.Cleanup(intern.Reset)

	idx := index.New()
	idx.Insert(entity.NewCountry("united kingdom", "britain", "gb", "gbr", "europe"))
	idx.Insert(entity.NewSubdivision("london", "gb", "lnd", "city"))
	idx.Insert(entity.NewLocode("london", "gb", "lon", "london", "lnd", "1"))
	idx.Insert(entity.NewLocode("london", "ca", "lon", "", "", "1"))
	idx.Insert(entity.NewLocode("paris", "fr", "par", "", "", "1"))
	idx.Insert(entity.NewAirport("john f kennedy international airport", "jfk", "large_airport", "new york", "us", "us-ny", -73.7, 40.6, nil))
	idx.Insert(entity.NewCountry("united states", "united states", "us", "usa", "north america"))
	require.NoError(t, idx.Finalize())
	return idx
}

func TestSearchLondonReturnsGBLon(t *testing.T) {
	idx := buildFixture(t)
	q := parser.Parse("london", "", 5, 2)

	results, err := Search(context.Background(), idx, q)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, entity.BuildKey(entity.EncodingLocode, "gblon"), results[0].Key)
}

func TestSearchLondonEnglandBoostsGBOverCA(t *testing.T) {
	idx := buildFixture(t)
	q := parser.Parse("london united kingdom", "", 5, 2)

	results, err := Search(context.Background(), idx, q)
	require.NoError(t, err)

	gbLonRank, caLonRank := -1, -1
	for i, r := range results {
		switch r.Key {
		case entity.BuildKey(entity.EncodingLocode, "gblon"):
			gbLonRank = i
		case entity.BuildKey(entity.EncodingLocode, "calon"):
			caLonRank = i
		}
	}
	require.GreaterOrEqual(t, gbLonRank, 0)
	if caLonRank >= 0 {
		assert.Less(t, gbLonRank, caLonRank)
	}
}

func TestSearchCodeQueryMatchesBoth(t *testing.T) {
	idx := buildFixture(t)
	q := parser.Parse("GB-LON", "", 5, 2)

	results, err := Search(context.Background(), idx, q)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, entity.BuildKey(entity.EncodingLocode, "gblon"), results[0].Key)
}

func TestSearchJFK(t *testing.T) {
	idx := buildFixture(t)
	q := parser.Parse("new york jfk", "", 5, 2)

	results, err := Search(context.Background(), idx, q)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, entity.BuildKey(entity.EncodingAirport, "jfk"), results[0].Key)
}

func TestSearchAllStopWordsReturnsEmpty(t *testing.T) {
	idx := buildFixture(t)
	q := parser.Parse("the of by", "", 5, 2)

	results, err := Search(context.Background(), idx, q)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchFuzzyTypo(t *testing.T) {
	idx := buildFixture(t)
	q := parser.Parse("pariss", "", 5, 1)

	results, err := Search(context.Background(), idx, q)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, entity.BuildKey(entity.EncodingLocode, "frpar"), results[0].Key)
}
