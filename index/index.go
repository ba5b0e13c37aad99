// Package index builds and serves the finalized, read-only search index
// over the entity corpus: forward maps, the lexicographically sorted word
// vector, and the FST used for fuzzy/prefix candidate recall (spec.md §4.4).
package index

import (
	"fmt"
	"sort"
	"sync"

	"github.com/blevesearch/vellum"
	"github.com/blevesearch/vellum/levenshtein"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/normalize"
)

// wordEntry is one row of words_vec: a word and the sorted, deduplicated set
// of entity keys containing it.
type wordEntry struct {
	word string
	keys []string
}

// Index is the finalized, read-only search index. Insert and the coordinate
// pass's UpdateLocodeCoordinates are the only mutations and must complete
// (followed by Finalize) before any query-time method is called; this
// mirrors the corpus's ingest/query phase split
// (spec.md §5 "Shared-resource policy").
type Index struct {
	mu sync.RWMutex

	all          map[string]*entity.Entity
	stateByCode  map[string]string // country alpha-2 -> name
	subdivByCode map[string]string // "country:subcode" -> name
	namesByWord  map[string]map[string]struct{} // normalized full name -> entity keys (supplemented exact path)

	wordsMapBuild map[string]map[string]struct{} // word -> entity keys, ingest-time only
	wordsVec      []wordEntry
	wordIndex     map[string]int // word -> position in wordsVec, built at Finalize
	fst           *vellum.FST
	levBuilders   map[uint8]*levenshtein.LevenshteinAutomatonBuilder
	levMu         sync.Mutex // guards levBuilders, filled lazily by concurrent readers

	finalized bool
}

// New returns an empty Index ready to receive Insert calls.
func New() *Index {
	return &Index{
		all:           make(map[string]*entity.Entity),
		stateByCode:   make(map[string]string),
		subdivByCode:  make(map[string]string),
		namesByWord:   make(map[string]map[string]struct{}),
		wordsMapBuild: make(map[string]map[string]struct{}),
	}
}

// Insert adds or replaces an entity by key (spec.md §3 "Invariants": keys
// are unique, re-inserting replaces the prior value). Safe for concurrent
// use during the parallel-decode/serialized-insert ingest phase.
func (idx *Index) Insert(e *entity.Entity) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.all[e.Key] = e
	if e.Kind == entity.KindCountry {
		idx.stateByCode[e.Country.Alpha2] = e.Country.Name
	}
	if e.Kind == entity.KindSubdivision {
		idx.subdivByCode[e.ID] = e.Subdivision.Name
	}

	for _, tok := range tokensFor(e) {
		set, ok := idx.wordsMapBuild[tok]
		if !ok {
			set = make(map[string]struct{})
			idx.wordsMapBuild[tok] = set
		}
		set[e.Key] = struct{}{}
	}
	for _, name := range e.GetNames() {
		set, ok := idx.namesByWord[name]
		if !ok {
			set = make(map[string]struct{})
			idx.namesByWord[name] = set
		}
		set[e.Key] = struct{}{}
	}
}

// UpdateLocodeCoordinates implements ingest.LocodeCoordinateUpdater.
func (idx *Index) UpdateLocodeCoordinates(key string, c entity.Coordinates) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if e, ok := idx.all[key]; ok {
		e.SetCoordinates(c)
	}
}

// tokensFor returns every token the word-index should map to e's key: its
// precomputed words, its names re-tokenized (spec.md §4.4 "iterate over its
// words ∪ codes ∪ names"), and its codes verbatim. The length>3 filter
// applies to name-derived tokens only (spec.md §3's word-index invariant
// describes the words/names side of that union); codes are always 2-3
// characters and must still be indexed as-is, or recall could never find an
// entity from a bare code query like "gb" or "GB-LON" (spec.md §4.6
// example, §6 key format example).
func tokensFor(e *entity.Entity) []string {
	seen := make(map[string]struct{}, len(e.Words))
	var out []string
	addFiltered := func(s string) {
		for _, w := range normalize.Words(s) {
			if len(w) < 4 {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	addVerbatim := func(w string) {
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, w := range e.Words {
		addFiltered(w)
	}
	for _, n := range e.GetNames() {
		addFiltered(n)
	}
	for _, c := range e.GetCodes() {
		addVerbatim(c)
	}
	return out
}

// Finalize builds words_vec and the FST in a single pass over the
// accumulated word map (spec.md §3 "Lifecycle"). After Finalize the Index is
// immutable; Insert must not be called again.
func (idx *Index) Finalize() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	words := make([]string, 0, len(idx.wordsMapBuild))
	for w := range idx.wordsMapBuild {
		words = append(words, w)
	}
	sort.Strings(words)

	idx.wordsVec = make([]wordEntry, len(words))
	idx.wordIndex = make(map[string]int, len(words))
	for i, w := range words {
		set := idx.wordsMapBuild[w]
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		idx.wordsVec[i] = wordEntry{word: w, keys: keys}
		idx.wordIndex[w] = i
	}

	var buf fstBuffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return fmt.Errorf("index: creating fst builder: %w", err)
	}
	for i, w := range words {
		if err := builder.Insert([]byte(w), uint64(i)); err != nil {
			return fmt.Errorf("index: inserting %q into fst: %w", w, err)
		}
	}
	if err := builder.Close(); err != nil {
		return fmt.Errorf("index: closing fst builder: %w", err)
	}
	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return fmt.Errorf("index: loading fst: %w", err)
	}
	idx.fst = fst
	idx.levBuilders = make(map[uint8]*levenshtein.LevenshteinAutomatonBuilder)
	idx.wordsMapBuild = nil
	idx.finalized = true
	return nil
}

// Ready reports whether Finalize has completed, satisfying
// pkg/health.IndexReadiness.
func (idx *Index) Ready() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.finalized
}

// EntityCount reports the number of entities currently held, satisfying
// pkg/health.IndexReadiness.
func (idx *Index) EntityCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.all)
}

// Get returns the entity stored under key, the Index equivalent of the
// spec's retrieve(key) operation (spec.md §7 "Index lookup errors").
func (idx *Index) Get(key string) (*entity.Entity, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	e, ok := idx.all[key]
	return e, ok
}

// StateName returns the display name registered for a country alpha-2 code.
func (idx *Index) StateName(alpha2 string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.stateByCode[alpha2]
	return n, ok
}

// SubdivisionName returns the display name registered for a "country:subcode" id.
func (idx *Index) SubdivisionName(id string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.subdivByCode[id]
	return n, ok
}

// FindByName performs the exact full-name lookup path supplemented from
// original_source/berlin-core's names_registry (see SPEC_FULL.md
// "supplemented features"): it bypasses scoring entirely for a query that
// exactly equals one of an entity's display names.
func (idx *Index) FindByName(name string) ([]*entity.Entity, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set, ok := idx.namesByWord[name]
	if !ok {
		return nil, false
	}
	out := make([]*entity.Entity, 0, len(set))
	for k := range set {
		if e, ok := idx.all[k]; ok {
			out = append(out, e)
		}
	}
	return out, len(out) > 0
}

// FindByNames looks up every name in names and returns the union of their
// exact matches, deduplicated by key.
func (idx *Index) FindByNames(names []string) []*entity.Entity {
	seen := make(map[string]struct{})
	var out []*entity.Entity
	for _, name := range names {
		matches, ok := idx.FindByName(name)
		if !ok {
			continue
		}
		for _, e := range matches {
			if _, dup := seen[e.Key]; dup {
				continue
			}
			seen[e.Key] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// ExactCandidates returns the entity keys registered for an exact word in
// words_map, for recall's exact-match union step (spec.md §4.6 step 1).
func (idx *Index) ExactCandidates(word string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.candidatesForWordIndexLocked(idx.wordIndexLocked(word))
}

func (idx *Index) wordIndexLocked(word string) int {
	if i, ok := idx.wordIndex[word]; ok {
		return i
	}
	return -1
}

func (idx *Index) candidatesForWordIndexLocked(i int) []string {
	if i < 0 || i >= len(idx.wordsVec) {
		return nil
	}
	return idx.wordsVec[i].keys
}

// candidatesForIndex returns the keys at a words_vec position, used by the
// recall package after resolving an FST hit to an index.
func (idx *Index) candidatesForIndex(i int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.candidatesForWordIndexLocked(i)
}

// fstBuffer is a minimal growable byte buffer implementing io.Writer, used
// to build the FST in memory (no on-disk intermediate file is needed at
// this corpus size).
type fstBuffer struct {
	b []byte
}

func (w *fstBuffer) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *fstBuffer) Bytes() []byte { return w.b }
