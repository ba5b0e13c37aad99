// Package ingest decodes the on-disk reference corpus (per-schema JSON
// record files plus an optional UN/LOCODE coordinates TSV) into entity.Entity
// values and inserts them into an index.Index. Decoding runs data-parallel
// across files; insertion is serialized under a single writer lock, matching
// the corpus's "parallel decode, serialized mutation" concurrency contract.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/normalize"
	"github.com/gilby125/locus/pkg/logger"
)

// rawRecord is the on-disk shape every reference record is decoded from
// first: {"c": schema_tag, "i": id, "d": payload}.
type rawRecord struct {
	Schema  string          `json:"c"`
	ID      string          `json:"i"`
	Payload json.RawMessage `json:"d"`
}

type countryPayload struct {
	Name      string `json:"name"`
	Short     string `json:"short"`
	Alpha2    string `json:"alpha2"`
	Alpha3    string `json:"alpha3"`
	Continent string `json:"continent"`
}

type subdivisionPayload struct {
	Name      string `json:"name"`
	Supercode string `json:"supercode"`
	Subcode   string `json:"subcode"`
	Level     string `json:"level"`
}

type locodePayload struct {
	Name             string `json:"name"`
	Supercode        string `json:"supercode"`
	Subcode          string `json:"subcode"`
	SubdivisionName  string `json:"subdivision_name"`
	SubdivisionCode  string `json:"subdivision_code"`
	FunctionCode     string `json:"function_code"`
}

type airportPayload struct {
	Name      string  `json:"name"`
	IATA      string  `json:"iata"`
	Type      string  `json:"type"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Elevation *int    `json:"elevation"`
}

// Inserter is the subset of index.Index ingestion depends on; kept as an
// interface so tests can insert into a bare map-backed stub without pulling
// in the full FST finalization machinery.
type Inserter interface {
	Insert(e *entity.Entity)
}

// RecordError describes a single skipped or fatal record, aggregated so one
// bad row doesn't poison a whole ingest run (spec.md §7 propagation policy).
type RecordError struct {
	File string
	Line int
	Err  error
}

func (r RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %v", r.File, r.Line, r.Err)
}

// Report aggregates recoverable per-record ingest errors.
type Report struct {
	Inserted int
	Errors   []RecordError
}

// Dir decodes every record file in dir in parallel, then inserts the
// resulting entities into idx under a single writer lock. Each file is
// assumed to hold one JSON record per line. An unknown schema tag anywhere
// in any file is fatal to the whole call: Dir returns the error and inserts
// nothing from any file (spec.md §4.2, §7); a malformed payload for a known
// schema is recoverable and reported in Report.Errors.
func Dir(ctx context.Context, dir string, idx Inserter) (Report, error) {
	files, err := recordFiles(dir)
	if err != nil {
		return Report{}, err
	}

	type fileResult struct {
		entities []*entity.Entity
		errs     []RecordError
	}
	results := make([]fileResult, len(files))

	g, _ := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			entities, errs, err := decodeFile(f)
			if err != nil {
				return fmt.Errorf("ingest: %s: %w", f, err)
			}
			results[i] = fileResult{entities: entities, errs: errs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var report Report
	for _, r := range results {
		for _, e := range r.entities {
			idx.Insert(e)
			report.Inserted++
		}
		report.Errors = append(report.Errors, r.errs...)
	}
	for _, re := range report.Errors {
		logger.Warn("skipping malformed ingest record", "file", re.File, "line", re.Line, "error", re.Err)
	}
	return report, nil
}

func recordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// decodeFile decodes one newline-delimited JSON record file. A malformed
// line is recoverable (logged, skipped); an unknown schema tag aborts the
// whole file.
func decodeFile(path string) ([]*entity.Entity, []RecordError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var entities []*entity.Entity
	var errs []RecordError

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			errs = append(errs, RecordError{File: path, Line: line, Err: err})
			continue
		}
		e, err := decodeRecord(rec)
		if err != nil {
			if IsUnknownSchema(err) {
				return nil, nil, err
			}
			errs = append(errs, RecordError{File: path, Line: line, Err: err})
			continue
		}
		entities = append(entities, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return entities, errs, nil
}

type unknownSchemaError struct{ schema string }

func (e unknownSchemaError) Error() string { return fmt.Sprintf("unknown schema tag %q", e.schema) }

// IsUnknownSchema reports whether err is the fatal "unknown schema tag"
// error decodeRecord raises (spec.md §4.2, §7).
func IsUnknownSchema(err error) bool {
	_, ok := err.(unknownSchemaError)
	return ok
}

func decodeRecord(rec rawRecord) (*entity.Entity, error) {
	switch entity.Encoding(rec.Schema) {
	case entity.EncodingCountry:
		var p countryPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("country payload: %w", err)
		}
		return entity.NewCountry(p.Name, p.Short, p.Alpha2, p.Alpha3, p.Continent), nil
	case entity.EncodingSubdivision:
		var p subdivisionPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("subdivision payload: %w", err)
		}
		return entity.NewSubdivision(p.Name, p.Supercode, p.Subcode, p.Level), nil
	case entity.EncodingLocode:
		var p locodePayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("locode payload: %w", err)
		}
		return entity.NewLocode(p.Name, p.Supercode, p.Subcode, p.SubdivisionName, p.SubdivisionCode, p.FunctionCode), nil
	case entity.EncodingAirport:
		var p airportPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("airport payload: %w", err)
		}
		return entity.NewAirport(p.Name, p.IATA, p.Type, p.City, p.Country, p.Region, p.X, p.Y, p.Elevation), nil
	default:
		return nil, unknownSchemaError{schema: rec.Schema}
	}
}

// LocodeCoordinateUpdater is implemented by an index that can attach parsed
// coordinates to an already-inserted Locode by key.
type LocodeCoordinateUpdater interface {
	UpdateLocodeCoordinates(key string, c entity.Coordinates)
}

// LocodeTSV parses the optional UN/LOCODE coordinates table (spec.md §6) and
// applies a second, in-place update pass over idx. Columns: Country,
// Location, Name, NameWoDiacritics, Subdivision, Status, Function, Date,
// IATA, Coordinates. A row with an unparseable Coordinates column is logged
// and skipped, not fatal (spec.md §7).
func LocodeTSV(path string, idx LocodeCoordinateUpdater) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("ingest: opening locode tsv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var report Report
	line := 0
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return report, fmt.Errorf("ingest: reading locode tsv: %w", err)
		}
		line++
		if line == 1 || len(row) < 10 {
			continue // header or short row
		}
		country, location, coords := row[0], row[1], row[9]
		if coords == "" {
			continue
		}
		c, err := entity.ParseCoordinates(coords)
		if err != nil {
			report.Errors = append(report.Errors, RecordError{File: path, Line: line, Err: err})
			logger.Warn("skipping unparseable locode coordinate", "country", country, "location", location, "coordinates", coords, "error", err)
			continue
		}
		key := entity.BuildKey(entity.EncodingLocode, normalize.Normalize(country)+normalize.Normalize(location))
		idx.UpdateLocodeCoordinates(key, c)
		report.Inserted++
	}
	return report, nil
}
