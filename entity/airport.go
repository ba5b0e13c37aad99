package entity

import "github.com/gilby125/locus/normalize"

// Airport is the IATA shape (spec.md §3).
type Airport struct {
	Name      string
	IATA      string // 3-letter
	Type      string
	City      string
	Country   string // alpha-2
	Region    string // e.g. "us-ca"
	X         float64
	Y         float64
	Elevation *int
}

// NewAirport constructs and interns an Airport entity.
func NewAirport(name, iata, typ, city, country, region string, x, y float64, elevation *int) *Entity {
	a := &Airport{
		Name:      normalize.Normalize(name),
		IATA:      normalize.Normalize(iata),
		Type:      normalize.Normalize(typ),
		City:      normalize.Normalize(city),
		Country:   normalize.Normalize(country),
		Region:    normalize.Normalize(region),
		X:         x,
		Y:         y,
		Elevation: elevation,
	}
	e := &Entity{
		Encoding: string(EncodingAirport),
		ID:       a.IATA,
		Kind:     KindAirport,
		Airport:  a,
	}
	e.Key = BuildKey(EncodingAirport, a.IATA)
	e.Words = computeWords(a.getNames())
	return internEntity(e)
}

func (a *Airport) getNames() []string { return []string{a.Name} }
func (a *Airport) getCodes() []string { return []string{a.IATA} }

func (a *Airport) codeMatch(code string) bool {
	return normalize.Normalize(code) == a.IATA
}
