// Package intern provides a process-wide string interning pool.
//
// The reference implementation this module is grounded on used Rust's Ustr,
// where interning buys pointer-equality comparisons and compact hash-map
// keys. Go strings already compare cheaply by value and the reference
// corpus tops out around 10^5 entities, so a full arena allocator would be
// over-engineering; this pool exists purely to preserve the ingest/query
// contract spec.md §3 and §5 describe: a single growing table, written only
// during ingest, read without locking contention on the hot path via
// Lookup, which never creates a new entry.
package intern

import "sync"

var (
	mu   sync.RWMutex
	pool = make(map[string]string)
)

// Intern adds s to the pool if it is not already present and returns the
// pooled copy. Safe for concurrent use; used only during ingestion.
func Intern(s string) string {
	mu.RLock()
	if v, ok := pool[s]; ok {
		mu.RUnlock()
		return v
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if v, ok := pool[s]; ok {
		return v
	}
	pool[s] = s
	return s
}

// Lookup returns the pooled copy of s and whether it exists, without
// interning s if it is absent. This is the only operation permitted on the
// query hot path and for parent-key resolution: a parent reference is only
// followed if it resolves to something that was actually interned during
// ingestion, never to a newly-fabricated string.
func Lookup(s string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := pool[s]
	return v, ok
}

// Reset empties the pool. Exported for tests that build independent
// entity/index fixtures and don't want interning bleed across test cases.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	pool = make(map[string]string)
}

// Len reports the number of interned strings, mainly for diagnostics/tests.
func Len() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(pool)
}
