package entity

import (
	"fmt"
	"regexp"
	"strconv"
)

// Coordinates is a parsed latitude/longitude pair, attached to a Locode by
// the second ingest pass over the optional UN/LOCODE TSV file (spec.md §6).
type Coordinates struct {
	Lat float64
	Lon float64
}

// coordinatePattern matches the compact degrees+minutes+hemisphere literal
// the LOCODE TSV's Coordinates column uses, e.g. "5130N 00008E": 2 digits +
// 1-3 digits + N/S, a space, then 3 digits + 1-3 digits + E/W.
var coordinatePattern = regexp.MustCompile(`^(\d{2})(\d{1,3})([NS]) (\d{3})(\d{1,3})([EW])$`)

// ParseCoordinates decodes the compact literal into degrees + minutes/60,
// negating for S/W hemispheres. Grounded on original_source/berlin-core's
// coordinates.rs nom parser, reimplemented with a single regular expression
// since Go's ecosystem doesn't carry a parser-combinator library in this
// pack (see DESIGN.md). A non-matching literal is a parse error, not a
// panic: the caller logs it and leaves the Locode's coordinates null
// (spec.md §6, §7 "coordinate parse failure").
func ParseCoordinates(raw string) (Coordinates, error) {
	m := coordinatePattern.FindStringSubmatch(raw)
	if m == nil {
		return Coordinates{}, fmt.Errorf("entity: %q is not a valid DDMM(.MMM)H coordinate literal", raw)
	}
	latDeg, _ := strconv.ParseFloat(m[1], 64)
	latMin, _ := strconv.ParseFloat(m[2], 64)
	lonDeg, _ := strconv.ParseFloat(m[4], 64)
	lonMin, _ := strconv.ParseFloat(m[5], 64)

	lat := latDeg + latMin/60
	if m[3] == "S" {
		lat = -lat
	}
	lon := lonDeg + lonMin/60
	if m[6] == "W" {
		lon = -lon
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}
