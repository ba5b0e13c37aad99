package entity

import "github.com/gilby125/locus/normalize"

// Locode is the UN/LOCODE city-port shape (spec.md §3).
type Locode struct {
	Name             string
	Supercode        string // parent country alpha-2
	Subcode          string // 3-letter locode
	SubdivisionName  string
	SubdivisionCode  string
	FunctionCode     string
	Coordinates      *Coordinates
}

// NewLocode constructs and interns a Locode entity.
func NewLocode(name, supercode, subcode, subdivisionName, subdivisionCode, functionCode string) *Entity {
	l := &Locode{
		Name:            normalize.Normalize(name),
		Supercode:       normalize.Normalize(supercode),
		Subcode:         normalize.Normalize(subcode),
		SubdivisionName: normalize.Normalize(subdivisionName),
		SubdivisionCode: normalize.Normalize(subdivisionCode),
		FunctionCode:    functionCode,
	}
	e := &Entity{
		Encoding: string(EncodingLocode),
		ID:       l.Supercode + l.Subcode,
		Kind:     KindLocode,
		Locode:   l,
	}
	e.Key = BuildKey(EncodingLocode, e.ID)
	e.Words = computeWords(l.getNames())
	return internEntity(e)
}

// SetCoordinates attaches parsed coordinates to an already-inserted Locode,
// mirroring the spec's second ingest pass over the TSV file (spec.md §6).
func (e *Entity) SetCoordinates(c Coordinates) {
	if e.Kind == KindLocode {
		e.Locode.Coordinates = &c
	}
}

func (l *Locode) getNames() []string { return []string{l.Name} }
func (l *Locode) getCodes() []string { return []string{l.Subcode} }

func (l *Locode) codeMatch(code string) bool {
	return normalize.Normalize(code) == l.Subcode
}
