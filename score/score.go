// Package score implements the per-entity scorer (spec.md §4.5): exact,
// prefix and Levenshtein-similarity matching against an entity's names and
// codes, combined with the code-boost and single-word-match penalty rules.
package score

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/parser"
)

// Scoring constants (spec.md §4.5).
const (
	SoftMax                  = 1000
	StateCodeBoost           = 32
	SubdivCodeBoost          = 16
	SingleWordMatchPenalty   = 100
	SearchInclusionThreshold = 400
	GraphEdgeThreshold       = 600
)

// Offset is re-exported so callers that only import score don't also need
// the parser package just to name an offset type.
type Offset = parser.Offset

// Score is the (score, offset) pair spec.md §4.5 defines, totally ordered by
// score descending then by offset (earlier start, then shorter span).
type Score struct {
	Value  int
	Offset Offset
}

// Less reports whether a sorts before b under the Score ordering.
func Less(a, b Score) bool {
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	if a.Offset.Start != b.Offset.Start {
		return a.Offset.Start < b.Offset.Start
	}
	return (a.Offset.End - a.Offset.Start) < (b.Offset.End - b.Offset.Start)
}

// matchStr implements match_str(subject) -> Score? (spec.md §4.5): exact
// terms win outright at SoftMax+|subject|; otherwise a long not-exact term
// that subject starts with scores as a prefix match, a similarly-sized term
// scores by normalized Levenshtein similarity, and anything else scores 0.
func matchStr(q *parser.Query, subject string) (Score, bool) {
	best := Score{}
	found := false

	for _, m := range q.ExactMatches {
		if m.Term == subject {
			v := SoftMax + len(subject)
			if !found || v > best.Value {
				best = Score{Value: v, Offset: m.Offset}
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	for _, m := range q.NotExactMatches {
		t := m.Term
		var v int
		switch {
		case len(t) > 3 && hasPrefix(subject, t):
			v = SoftMax + 2*len(t)
		case withinOne(len(t), len(subject)):
			v = int(normalizedLevenshtein(subject, t) * SoftMax)
		default:
			v = 0
		}
		if v <= 0 {
			continue
		}
		if !found || v > best.Value {
			best = Score{Value: v, Offset: m.Offset}
			found = true
		}
	}
	return best, found
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func withinOne(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1
}

func normalizedLevenshtein(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	sim := 1 - float64(dist)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// codesMatch implements codes_match(subject_codes, boosted_score) -> Score?
// (spec.md §4.5): for every (subject code, query code) pair that's equal,
// yield (boostedScore, query code's offset); return the max.
func codesMatch(q *parser.Query, subjectCodes []string, boostedScore int) (Score, bool) {
	best := Score{}
	found := false
	for _, sc := range subjectCodes {
		for _, qc := range q.Codes {
			if sc != qc.Term {
				continue
			}
			cand := Score{Value: boostedScore, Offset: qc.Offset}
			if !found || Less(cand, best) {
				best = cand
				found = true
			}
		}
	}
	return best, found
}

func maxScore(a, b Score, aOK, bOK bool) (Score, bool) {
	switch {
	case aOK && bOK:
		if Less(b, a) {
			return b, true
		}
		return a, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return Score{}, false
	}
}

// Search implements Entity.search(query) -> Score? (spec.md §4.5): the
// state filter gate, the words-score (with its single-word penalty), the
// shape-specific score, and the max of the two.
func Search(q *parser.Query, e *entity.Entity) (Score, bool) {
	if q.HasStateFilter && e.GetState() != q.StateFilter {
		return Score{}, false
	}

	wordsScore, wordsOK := Score{}, false
	for _, w := range e.Words {
		s, ok := matchStr(q, w)
		if !ok {
			continue
		}
		s.Value -= SingleWordMatchPenalty
		if !wordsOK || Less(s, wordsScore) {
			wordsScore, wordsOK = s, true
		}
	}

	var shapeScore Score
	var shapeOK bool
	switch e.Kind {
	case entity.KindCountry:
		shapeScore, shapeOK = codesMatch(q, e.GetCodes(), SoftMax+StateCodeBoost)
		if !shapeOK {
			shapeScore, shapeOK = matchStr(q, e.Country.Name)
		}
	case entity.KindSubdivision:
		shapeScore, shapeOK = codesMatch(q, []string{e.Subdivision.Subcode}, SoftMax+SubdivCodeBoost)
		if !shapeOK {
			shapeScore, shapeOK = matchStr(q, e.Subdivision.Name)
		}
	case entity.KindLocode:
		nameScore, nameOK := matchStr(q, e.Locode.Name)
		codeScore, codeOK := matchStr(q, e.Locode.Subcode)
		shapeScore, shapeOK = maxScore(nameScore, codeScore, nameOK, codeOK)
	case entity.KindAirport:
		nameScore, nameOK := matchStr(q, e.Airport.Name)
		codeScore, codeOK := matchStr(q, e.Airport.IATA)
		shapeScore, shapeOK = maxScore(nameScore, codeScore, nameOK, codeOK)
	}

	return maxScore(wordsScore, shapeScore, wordsOK, shapeOK)
}

// SortKeys stable-sorts candidate keys by their Score using the Score
// ordering (spec.md §4.5, §8 invariant 6: "results are sorted by Score
// descending; no key appears twice").
func SortKeys(keys []string, scores map[string]Score) {
	sort.SliceStable(keys, func(i, j int) bool {
		return Less(scores[keys[i]], scores[keys[j]])
	})
}
