package entity

import (
	"github.com/gilby125/locus/normalize"
)

// Country is the ISO-3166-1 shape (spec.md §3).
type Country struct {
	Name      string
	Short     string
	Alpha2    string
	Alpha3    string
	Continent string
}

// NewCountry constructs and interns a Country entity from raw, normalized
// field values. Re-inserting a country with the same Alpha2 replaces the
// prior entry at the Index level (spec.md §3 "Invariants").
func NewCountry(name, short, alpha2, alpha3, continent string) *Entity {
	c := &Country{
		Name:      normalize.Normalize(name),
		Short:     normalize.Normalize(short),
		Alpha2:    normalize.Normalize(alpha2),
		Alpha3:    normalize.Normalize(alpha3),
		Continent: normalize.Normalize(continent),
	}
	e := &Entity{
		Encoding: string(EncodingCountry),
		ID:       c.Alpha2,
		Kind:     KindCountry,
		Country:  c,
	}
	e.Key = BuildKey(EncodingCountry, c.Alpha2)
	e.Words = computeWords(c.getNames())
	return internEntity(e)
}

// getNames implements the Country name-selection rule (spec.md §4.2):
// [name, short] only when short differs from name and is longer than 3
// characters; otherwise [name].
func (c *Country) getNames() []string {
	if c.Short != "" && c.Short != c.Name && len(c.Short) > 3 {
		return []string{c.Name, c.Short}
	}
	return []string{c.Name}
}

// getCodes implements the Country code-selection rule: [alpha2, alpha3],
// plus short when |short| < 4.
func (c *Country) getCodes() []string {
	codes := []string{c.Alpha2, c.Alpha3}
	if c.Short != "" && len(c.Short) < 4 {
		codes = append(codes, c.Short)
	}
	return codes
}

func (c *Country) codeMatch(code string) bool {
	code = normalize.Normalize(code)
	for _, own := range c.getCodes() {
		if own == code {
			return true
		}
	}
	return false
}
