package index

import (
	"errors"
	"fmt"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"
)

// FuzzyCandidates returns the entity keys for every FST word within
// distance edits of term, via a Levenshtein automaton intersected against
// the FST (spec.md §4.6 step 2, the edit-distance half of the union
// automaton).
func (idx *Index) FuzzyCandidates(term string, distance uint8) ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.fst == nil {
		return nil, nil
	}

	lb, err := idx.levenshteinBuilderLocked(distance)
	if err != nil {
		return nil, err
	}
	dfa, err := lb.BuildDfa(term, distance)
	if err != nil {
		return nil, fmt.Errorf("index: building levenshtein automaton for %q: %w", term, err)
	}

	var out []string
	itr, err := idx.fst.Search(dfa, nil, nil)
	for err == nil {
		_, val := itr.Current()
		out = append(out, idx.candidatesForWordIndexLocked(int(val))...)
		err = itr.Next()
	}
	if err != nil && !errors.Is(err, vellum.ErrIteratorDone) {
		return nil, fmt.Errorf("index: iterating fuzzy candidates for %q: %w", term, err)
	}
	return out, nil
}

func (idx *Index) levenshteinBuilderLocked(distance uint8) (*levenshtein.LevenshteinAutomatonBuilder, error) {
	idx.levMu.Lock()
	defer idx.levMu.Unlock()
	if lb, ok := idx.levBuilders[distance]; ok {
		return lb, nil
	}
	lb, err := levenshtein.NewLevenshteinAutomatonBuilder(distance, false)
	if err != nil {
		return nil, fmt.Errorf("index: building levenshtein automaton builder for distance %d: %w", distance, err)
	}
	idx.levBuilders[distance] = lb
	return lb, nil
}

// PrefixCandidates returns the entity keys for every FST word that starts
// with term, via a lexicographic range scan [term, term+0xff) over the
// sorted FST keyspace — the prefix half of the union automaton (spec.md
// §4.6 step 2, §9 "FST with union automaton").
func (idx *Index) PrefixCandidates(term string) ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.fst == nil {
		return nil, nil
	}

	start := []byte(term)
	end := make([]byte, len(start))
	copy(end, start)
	end = append(end, 0xff)

	var out []string
	itr, err := idx.fst.Iterator(start, end)
	for err == nil {
		key, val := itr.Current()
		if !hasPrefix(key, start) {
			break
		}
		out = append(out, idx.candidatesForWordIndexLocked(int(val))...)
		err = itr.Next()
	}
	if err != nil && !errors.Is(err, vellum.ErrIteratorDone) {
		return nil, fmt.Errorf("index: iterating prefix candidates for %q: %w", term, err)
	}
	return out, nil
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
