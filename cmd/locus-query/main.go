// Command locus-query builds an index from the configured reference-data
// directory and runs a single query against it, printing ranked results,
// modeled on the teacher's examples/example1 one-shot tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gilby125/locus/config"
	"github.com/gilby125/locus/ingest"
	"github.com/gilby125/locus/index"
	"github.com/gilby125/locus/parser"
	"github.com/gilby125/locus/pipeline"
)

func main() {
	var (
		query = flag.String("q", "", "query string")
		state = flag.String("state", "", "optional country alpha-2 filter")
		limit = flag.Int("limit", 10, "maximum number of results")
		ld    = flag.Int("ld", 2, "levenshtein distance, 0-2")
	)
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: locus-query -q \"new york jfk\"")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	idx := index.New()
	if _, err := ingest.Dir(context.Background(), cfg.ReferenceData.RecordsDir, idx); err != nil {
		log.Fatal(err)
	}
	if cfg.ReferenceData.LocodeTSVPath != "" {
		if _, err := ingest.LocodeTSV(cfg.ReferenceData.LocodeTSVPath, idx); err != nil {
			log.Fatal(err)
		}
	}
	if err := idx.Finalize(); err != nil {
		log.Fatal(err)
	}

	parsed := parser.Parse(*query, *state, *limit, *ld)
	results, err := pipeline.Search(context.Background(), idx, parsed)
	if err != nil {
		log.Fatal(err)
	}

	type row struct {
		Key   string `json:"key"`
		Score int    `json:"score"`
		Start int    `json:"start"`
		End   int    `json:"end"`
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, row{Key: r.Key, Score: r.Score.Value, Start: r.Score.Offset.Start, End: r.Score.Offset.End})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		log.Fatal(err)
	}
}
