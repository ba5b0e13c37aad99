// Package entity implements the tagged-union geographic entity model
// described in spec.md §3–§4.2: Country, Subdivision, Locode and Airport
// records sharing a canonical key, an interned encoding/id pair, a
// deduplicated word set, and a handful of polymorphic accessors the scorer
// and graph reranker depend on.
package entity

import (
	"fmt"
	"strings"

	"github.com/gilby125/locus/intern"
	"github.com/gilby125/locus/normalize"
)

// Encoding identifies which ISO/UN/IATA schema an entity was decoded from.
type Encoding string

const (
	EncodingCountry     Encoding = "ISO-3166-1"
	EncodingSubdivision Encoding = "ISO-3166-2"
	EncodingLocode      Encoding = "UN-LOCODE"
	EncodingAirport     Encoding = "IATA"
)

// Kind is the tag selecting which of Entity's shape pointers
// (Country/Subdivision/Locode/Airport) is set.
type Kind int

const (
	KindCountry Kind = iota
	KindSubdivision
	KindLocode
	KindAirport
)

// Entity is the tagged union over the four reference-data shapes. Exactly
// one of Country/Subdivision/Locode/Airport is non-nil, selected by Kind.
type Entity struct {
	Key      string // interned: "<encoding>-<normalized-id>"
	Encoding string // interned
	ID       string // interned
	Kind     Kind
	Words    []string // deduplicated, length > 3, drawn from all display names

	Country     *Country
	Subdivision *Subdivision
	Locode      *Locode
	Airport     *Airport
}

// BuildKey formats the canonical key for an entity with the given encoding
// and normalized id, per spec.md §3: "<encoding>-<normalized-id>".
func BuildKey(encoding Encoding, normalizedID string) string {
	return string(encoding) + "-" + normalizedID
}

// SubdivisionID formats the compound id a Subdivision (and a Locode's
// subdivision reference) uses: "<country>:<subcode>".
func SubdivisionID(countryAlpha2, subcode string) string {
	return countryAlpha2 + ":" + subcode
}

// ParseKey splits a canonical key back into (encoding, id), rejecting any
// key that isn't built from one of the four known encodings. Older variants
// of the source data used "#" or bare concatenation as the separator; those
// are intentionally rejected here rather than guessed at (spec.md §9 open
// question, resolved: only the current "-" form is authoritative).
func ParseKey(key string) (encoding Encoding, id string, err error) {
	for _, enc := range []Encoding{EncodingCountry, EncodingSubdivision, EncodingLocode, EncodingAirport} {
		prefix := string(enc) + "-"
		if strings.HasPrefix(key, prefix) {
			return enc, key[len(prefix):], nil
		}
	}
	return "", "", fmt.Errorf("entity: key %q does not match any known <encoding>-<id> form", key)
}

// countryKey returns the key a country with the given alpha-2 code would
// have, and whether that country actually exists in the interned pool.
// Parent resolution must always go through this kind of lookup-by-existence
// rather than fabricating a new key (spec.md §3 invariants).
func countryKey(alpha2 string) (string, bool) {
	if alpha2 == "" {
		return "", false
	}
	return intern.Lookup(BuildKey(EncodingCountry, alpha2))
}

func subdivisionKey(countryAlpha2, subcode string) (string, bool) {
	if countryAlpha2 == "" || subcode == "" {
		return "", false
	}
	return intern.Lookup(BuildKey(EncodingSubdivision, SubdivisionID(countryAlpha2, subcode)))
}

// GetNames returns the display names used for fuzzy name matching
// (spec.md §4.2 selection rules, one set of rules per shape).
func (e *Entity) GetNames() []string {
	switch e.Kind {
	case KindCountry:
		return e.Country.getNames()
	case KindSubdivision:
		return e.Subdivision.getNames()
	case KindLocode:
		return e.Locode.getNames()
	case KindAirport:
		return e.Airport.getNames()
	}
	return nil
}

// GetCodes returns the short codes used for code matching.
func (e *Entity) GetCodes() []string {
	switch e.Kind {
	case KindCountry:
		return e.Country.getCodes()
	case KindSubdivision:
		return e.Subdivision.getCodes()
	case KindLocode:
		return e.Locode.getCodes()
	case KindAirport:
		return e.Airport.getCodes()
	}
	return nil
}

// CodeMatch reports whether code matches any of this entity's codes,
// supplementing the code-list accessor from original_source/berlin-core's
// Location::code_match (see SPEC_FULL.md "supplemented features").
func (e *Entity) CodeMatch(code string) bool {
	switch e.Kind {
	case KindCountry:
		return e.Country.codeMatch(code)
	case KindSubdivision:
		return e.Subdivision.codeMatch(code)
	case KindLocode:
		return e.Locode.codeMatch(code)
	case KindAirport:
		return e.Airport.codeMatch(code)
	}
	return false
}

// GetParents returns the keys of this entity's country and subdivision
// parent, each only present when the referenced key actually resolved in
// the interned pool (spec.md §3 "Parent relation").
func (e *Entity) GetParents() (countryKey string, hasCountry bool, subdivKey string, hasSubdiv bool) {
	switch e.Kind {
	case KindCountry:
		return "", false, "", false
	case KindSubdivision:
		ck, ok := countryKey(e.Subdivision.Supercode)
		return ck, ok, "", false
	case KindLocode:
		ck, ckOK := countryKey(e.Locode.Supercode)
		if e.Locode.SubdivisionCode == "" {
			return ck, ckOK, "", false
		}
		sk, skOK := subdivisionKey(e.Locode.Supercode, e.Locode.SubdivisionCode)
		return ck, ckOK, sk, skOK
	case KindAirport:
		ck, ckOK := countryKey(e.Airport.Country)
		parts := strings.SplitN(e.Airport.Region, "-", 2)
		if len(parts) == 2 {
			sk, skOK := subdivisionKey(parts[0], parts[1])
			return ck, ckOK, sk, skOK
		}
		return ck, ckOK, "", false
	}
	return "", false, "", false
}

// GetState returns the ISO-3166-1 alpha-2 country code this entity belongs
// to (itself, for a Country).
func (e *Entity) GetState() string {
	switch e.Kind {
	case KindCountry:
		return e.Country.Alpha2
	case KindSubdivision:
		return e.Subdivision.Supercode
	case KindLocode:
		return e.Locode.Supercode
	case KindAirport:
		return e.Airport.Country
	}
	return ""
}

// GetSubdiv returns the subdivision code this entity belongs to, if any.
func (e *Entity) GetSubdiv() (string, bool) {
	switch e.Kind {
	case KindSubdivision:
		return e.Subdivision.Subcode, true
	case KindLocode:
		if e.Locode.SubdivisionCode != "" {
			return e.Locode.SubdivisionCode, true
		}
	}
	return "", false
}

// ParentBoost returns the fraction of parentScore this entity's shape folds
// in during graph reranking: Country 1/2, Subdivision 1/3, Locode 1/4,
// Airport 0 (spec.md §4.2, §4.7).
func (e *Entity) ParentBoost(parentScore int) int {
	switch e.Kind {
	case KindCountry:
		return parentScore / 2
	case KindSubdivision:
		return parentScore / 3
	case KindLocode:
		return parentScore / 4
	case KindAirport:
		return 0
	}
	return 0
}

// computeWords derives the deduplicated, length > 3 word set from a list of
// display names, splitting each on whitespace (ingestion's additional
// splitting pass, spec.md §4.1). Each word is interned individually: the
// query parser's exact-match test is a pool lookup, so every token an
// entity could be matched on must have passed through Intern at ingest
// time, not just the entity's key/encoding/id.
func computeWords(names []string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, n := range names {
		for _, w := range normalize.WhitespaceWords(n) {
			if len(w) <= 3 {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			words = append(words, intern.Intern(w))
		}
	}
	return words
}

func internEntity(e *Entity) *Entity {
	e.Encoding = intern.Intern(e.Encoding)
	e.ID = intern.Intern(e.ID)
	e.Key = intern.Intern(e.Key)
	// Every code a shape exposes (alpha2/alpha3/short, subcode, iata) must
	// be in the interned pool too, not just the entity's key/id: the query
	// parser's length-2/3 code test and exact-match test are both pool
	// lookups (spec.md §4.3 steps 4-5), and a code that's never interned
	// could never be matched even though get_codes() advertises it.
	for _, c := range e.GetCodes() {
		intern.Intern(c)
	}
	return e
}
