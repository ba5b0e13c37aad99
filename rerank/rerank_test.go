package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/index"
	"github.com/gilby125/locus/intern"
	"github.com/gilby125/locus/score"
)

func buildFixture(t *testing.T) *index.Index {
	t.Helper()
	intern.Reset()
	t.Cleanup(intern.Reset)

	idx := index.New()
	idx.Insert(entity.NewCountry("united kingdom", "britain", "gb", "gbr", "europe"))
	idx.Insert(entity.NewLocode("london", "gb", "lon", "", "", "1"))
	idx.Insert(entity.NewLocode("london", "ca", "lon", "", "", "1"))
	require.NoError(t, idx.Finalize())
	return idx
}

func TestRerankBoostsChildFromParent(t *testing.T) {
	idx := buildFixture(t)

	gbKey := entity.BuildKey(entity.EncodingCountry, "gb")
	gbLon := entity.BuildKey(entity.EncodingLocode, "gblon")
	caLon := entity.BuildKey(entity.EncodingLocode, "calon")

	candidates := map[string]score.Score{
		gbKey: {Value: 900},
		gbLon: {Value: 700},
		caLon: {Value: 750},
	}

	out := Rerank(idx, candidates)

	// GB-LON should pick up a country boost and overtake CA-LON.
	assert.Greater(t, out[gbLon].Value, candidates[gbLon].Value)
	assert.Greater(t, out[gbLon].Value, out[caLon].Value)
	// CA-LON has no candidate parent in this set, so it's untouched.
	assert.Equal(t, candidates[caLon].Value, out[caLon].Value)
}

func TestRerankNoEdgeBelowThreshold(t *testing.T) {
	idx := buildFixture(t)

	gbKey := entity.BuildKey(entity.EncodingCountry, "gb")
	gbLon := entity.BuildKey(entity.EncodingLocode, "gblon")

	candidates := map[string]score.Score{
		gbKey: {Value: 500}, // below GraphEdgeThreshold (600)
		gbLon: {Value: 700},
	}

	out := Rerank(idx, candidates)
	assert.Equal(t, candidates[gbLon].Value, out[gbLon].Value)
}
