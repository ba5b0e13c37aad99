package entity

import "github.com/gilby125/locus/normalize"

// Subdivision is the ISO-3166-2 shape (spec.md §3).
type Subdivision struct {
	Name      string
	Supercode string // parent country alpha-2
	Subcode   string
	Level     string
}

// NewSubdivision constructs and interns a Subdivision entity. The id is the
// compound "<country>:<subcode>" form that Locode and Airport parent
// resolution also build to find it (spec.md §6 key format).
func NewSubdivision(name, supercode, subcode, level string) *Entity {
	s := &Subdivision{
		Name:      normalize.Normalize(name),
		Supercode: normalize.Normalize(supercode),
		Subcode:   normalize.Normalize(subcode),
		Level:     normalize.Normalize(level),
	}
	e := &Entity{
		Encoding:    string(EncodingSubdivision),
		ID:          SubdivisionID(s.Supercode, s.Subcode),
		Kind:        KindSubdivision,
		Subdivision: s,
	}
	e.Key = BuildKey(EncodingSubdivision, e.ID)
	e.Words = computeWords(s.getNames())
	return internEntity(e)
}

func (s *Subdivision) getNames() []string { return []string{s.Name} }
func (s *Subdivision) getCodes() []string { return []string{s.Subcode} }

func (s *Subdivision) codeMatch(code string) bool {
	return normalize.Normalize(code) == s.Subcode
}
