// Package parser implements the query parser: it turns a raw free-text
// query into exact/not-exact match terms, extracted codes, and a stop-word
// list, each carrying the character offset it occupies in the normalized
// query (spec.md §4.3).
package parser

import (
	"strings"

	"github.com/gilby125/locus/intern"
	"github.com/gilby125/locus/normalize"
)

// stopWords is the fixed English stop-word set (spec.md §4.3 step 3).
var stopWords = map[string]struct{}{
	"at": {}, "to": {}, "in": {}, "on": {}, "of": {}, "for": {},
	"by": {}, "and": {}, "was": {}, "did": {}, "the": {},
}

// Offset is a half-open [Start, End) byte range into a normalized query.
type Offset struct {
	Start int
	End   int
}

// Match is one term the scorer will try against an entity's names/codes.
type Match struct {
	Term   string
	Offset Offset
}

// Query is the parsed form of a raw search request.
type Query struct {
	Raw        string
	Normalized string

	StopWords []string

	ExactMatches    []Match // deduplicated, sorted by descending term length
	NotExactMatches []Match
	Codes           []Match

	StateFilter   string
	HasStateFilter bool
	Limit         int
	LevDistance   int
}

// Parse implements the parse(raw, state_filter?, limit, lev_distance)
// operation (spec.md §4.3). limit and levDistance are the caller-supplied
// defaults/overrides already resolved from the query interface (spec.md
// §6): levDistance is clamped here to [0, 2] regardless of what's passed in.
func Parse(raw, stateFilter string, limit, levDistance int) Query {
	normalized := normalize.Normalize(raw)
	q := Query{
		Raw:         raw,
		Normalized:  normalized,
		Limit:       limit,
		LevDistance: clamp(levDistance, 0, 2),
	}

	if stateFilter != "" {
		if resolved, ok := intern.Lookup(normalize.Normalize(stateFilter)); ok {
			q.StateFilter = resolved
			q.HasStateFilter = true
		}
		// An unresolvable state filter is silently ignored (spec.md §7,
		// §9 open question): no filter is applied, not an error.
	}

	tokens, offsets := tokenizeWithOffsets(normalized)

	exactSeen := make(map[string]struct{})
	for i, tok := range tokens {
		if len(tok) <= 1 {
			continue
		}
		if isStopWord(tok) {
			q.StopWords = append(q.StopWords, tok)
			continue
		}

		for n := 1; n <= 3 && i+n-1 < len(tokens); n++ {
			if n >= 2 && containsStopWord(tokens[i:i+n]) {
				continue
			}
			term := joinTokens(tokens[i : i+n])
			off := Offset{Start: offsets[i].Start, End: offsets[i+n-1].End}

			if resolved, ok := intern.Lookup(term); ok {
				if _, dup := exactSeen[resolved]; !dup {
					exactSeen[resolved] = struct{}{}
					q.ExactMatches = append(q.ExactMatches, Match{Term: resolved, Offset: off})
				}
				if n == 1 && (len(tok) == 2 || len(tok) == 3) {
					q.Codes = append(q.Codes, Match{Term: resolved, Offset: off})
				}
				continue
			}
			if n <= 2 {
				q.NotExactMatches = append(q.NotExactMatches, Match{Term: term, Offset: off})
			}
		}
	}

	sortExactMatchesByDescendingLength(q.ExactMatches)
	return q
}

func isStopWord(tok string) bool {
	if _, ok := stopWords[tok]; !ok {
		return false
	}
	_, interned := intern.Lookup(tok)
	return interned
}

func containsStopWord(tokens []string) bool {
	for _, t := range tokens {
		if isStopWord(t) {
			return true
		}
	}
	return false
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

// tokenizeWithOffsets splits normalized on Unicode word boundaries the same
// way normalize.Words does, but also returns each token's byte offset
// within normalized so matches can carry a position (spec.md §4.3 "Offsets
// are [start,end) byte indices into normalized").
func tokenizeWithOffsets(normalized string) (tokens []string, offsets []Offset) {
	start := -1
	for i := 0; i <= len(normalized); i++ {
		var r byte
		if i < len(normalized) {
			r = normalized[i]
		}
		isWord := i < len(normalized) && isWordByte(r)
		switch {
		case isWord && start == -1:
			start = i
		case !isWord && start != -1:
			tokens = append(tokens, normalized[start:i])
			offsets = append(offsets, Offset{Start: start, End: i})
			start = -1
		}
	}
	return tokens, offsets
}

// isWordByte treats ASCII letters and digits as word bytes. normalize.Words
// operates over arbitrary Unicode, but everything reaching this function has
// already passed through normalize.Normalize, which is ASCII-only output, so
// a byte-level scan here stays consistent with it without re-decoding runes.
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z')
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sortExactMatchesByDescendingLength sorts in place by descending term
// length (spec.md §4.3 step 7), stable so equal-length matches keep their
// discovery order.
func sortExactMatchesByDescendingLength(matches []Match) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && len(matches[j-1].Term) < len(matches[j].Term); j-- {
			matches[j-1], matches[j] = matches[j], matches[j-1]
		}
	}
}
