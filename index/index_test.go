package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/intern"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	intern.Reset()
	t.Cleanup(intern.Reset)

	idx := New()
	idx.Insert(entity.NewCountry("united kingdom", "britain", "gb", "gbr", "europe"))
	idx.Insert(entity.NewSubdivision("london", "gb", "lnd", "city"))
	idx.Insert(entity.NewLocode("london", "gb", "lon", "london", "lnd", "1"))
	idx.Insert(entity.NewLocode("paris", "fr", "par", "", "", "1"))
	require.NoError(t, idx.Finalize())
	return idx
}

func TestInsertAndGet(t *testing.T) {
	idx := buildTestIndex(t)
	e, ok := idx.Get(entity.BuildKey(entity.EncodingLocode, "gblon"))
	require.True(t, ok)
	assert.Equal(t, entity.KindLocode, e.Kind)
}

func TestReadyAndEntityCount(t *testing.T) {
	idx := New()
	assert.False(t, idx.Ready())
	idx.Insert(entity.NewCountry("france", "france", "fr", "fra", "europe"))
	assert.Equal(t, 1, idx.EntityCount())
	require.NoError(t, idx.Finalize())
	assert.True(t, idx.Ready())
}

func TestExactCandidatesReturnsEntitiesContainingWord(t *testing.T) {
	idx := buildTestIndex(t)
	keys := idx.ExactCandidates("london")
	assert.Contains(t, keys, entity.BuildKey(entity.EncodingLocode, "gblon"))
	assert.Contains(t, keys, entity.BuildKey(entity.EncodingSubdivision, "gb:lnd"))
	assert.NotContains(t, keys, entity.BuildKey(entity.EncodingLocode, "frpar"))
}

func TestExactCandidatesMissingWord(t *testing.T) {
	idx := buildTestIndex(t)
	assert.Empty(t, idx.ExactCandidates("nonexistentword"))
}

// Codes are always 2-3 characters, shorter than the length>3 filter that
// applies to name-derived tokens; they must still be indexed verbatim so a
// bare code query like "gb" or "lon" can recall anything at all (spec.md
// §4.6 example: "GB-LON" normalizes to "gb lon").
func TestExactCandidatesFindsShortCodes(t *testing.T) {
	idx := buildTestIndex(t)
	assert.Contains(t, idx.ExactCandidates("gb"), entity.BuildKey(entity.EncodingCountry, "gb"))
	assert.Contains(t, idx.ExactCandidates("lon"), entity.BuildKey(entity.EncodingLocode, "gblon"))
	assert.Contains(t, idx.ExactCandidates("lnd"), entity.BuildKey(entity.EncodingSubdivision, "gb:lnd"))
}

func TestPrefixCandidatesMatchesCompletions(t *testing.T) {
	idx := buildTestIndex(t)
	keys, err := idx.PrefixCandidates("lond")
	require.NoError(t, err)
	assert.Contains(t, keys, entity.BuildKey(entity.EncodingLocode, "gblon"))
}

func TestFuzzyCandidatesToleratesTypo(t *testing.T) {
	idx := buildTestIndex(t)
	keys, err := idx.FuzzyCandidates("pariss", 1)
	require.NoError(t, err)
	assert.Contains(t, keys, entity.BuildKey(entity.EncodingLocode, "frpar"))
}

func TestFindByNameExactLookup(t *testing.T) {
	idx := buildTestIndex(t)
	matches, ok := idx.FindByName("paris")
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Equal(t, entity.BuildKey(entity.EncodingLocode, "frpar"), matches[0].Key)

	_, ok = idx.FindByName("nowhere at all")
	assert.False(t, ok)
}

func TestFindByNamesUnionsAndDedupes(t *testing.T) {
	idx := buildTestIndex(t)
	matches := idx.FindByNames([]string{"paris", "london", "paris"})
	// "london" names both the subdivision and the locode: 3 distinct keys.
	assert.Len(t, matches, 3)
}

func TestStateAndSubdivisionNameLookup(t *testing.T) {
	idx := buildTestIndex(t)
	name, ok := idx.StateName("gb")
	require.True(t, ok)
	assert.Equal(t, "united kingdom", name)

	subName, ok := idx.SubdivisionName("gb:lnd")
	require.True(t, ok)
	assert.Equal(t, "london", subName)
}

func TestUpdateLocodeCoordinates(t *testing.T) {
	idx := buildTestIndex(t)
	key := entity.BuildKey(entity.EncodingLocode, "frpar")
	c, err := entity.ParseCoordinates("4852N 00220E")
	require.NoError(t, err)
	idx.UpdateLocodeCoordinates(key, c)

	e, ok := idx.Get(key)
	require.True(t, ok)
	require.NotNil(t, e.Locode.Coordinates)
	assert.InDelta(t, 48.87, e.Locode.Coordinates.Lat, 0.1)
}
