// Package pipeline orchestrates the end-to-end search operation (spec.md
// §4.8): parse, recall, parallel score, graph rerank, sort and truncate to
// the requested limit.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/parser"
	"github.com/gilby125/locus/rerank"
	"github.com/gilby125/locus/score"
)

// Recaller is the subset of index.Index the pipeline depends on for
// candidate-set construction, scoring and parent lookup.
type Recaller interface {
	Get(key string) (*entity.Entity, bool)
	ExactCandidates(word string) []string
	FuzzyCandidates(term string, distance uint8) ([]string, error)
	PrefixCandidates(term string) ([]string, error)
}

// Result is one ranked hit: the entity key and the Score it earned.
type Result struct {
	Key   string
	Score score.Score
}

// Search implements the pipeline's search(query) -> ranked list of
// (key, Score) operation. ctx is handed to the errgroup of the parallel
// scoring phase, but no step checks it: a cancelled ctx does not stop a
// search, and the core implements no query cancellation.
func Search(ctx context.Context, idx Recaller, q parser.Query) ([]Result, error) {
	keys, err := recall(idx, q)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	scored, err := scoreCandidates(ctx, idx, q, keys)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	reranked := rerank.Rerank(idx, scored)

	results := make([]Result, 0, len(reranked))
	for k, s := range reranked {
		results = append(results, Result{Key: k, Score: s})
	}
	sortResults(results)

	limit := q.Limit
	if limit <= 0 {
		limit = 1
	}
	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// recall builds the candidate key set (spec.md §4.6 steps 1-2): exact terms
// union directly against the word index; not-exact terms longer than 3 go
// through the FST via the union of a Levenshtein automaton and a prefix
// automaton.
func recall(idx Recaller, q parser.Query) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	add := func(ks []string) {
		for _, k := range ks {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}

	for _, m := range q.ExactMatches {
		add(idx.ExactCandidates(m.Term))
	}

	for _, m := range q.NotExactMatches {
		if len(m.Term) <= 3 {
			continue
		}
		fuzzy, err := idx.FuzzyCandidates(m.Term, uint8(q.LevDistance))
		if err != nil {
			return nil, err
		}
		add(fuzzy)
		prefix, err := idx.PrefixCandidates(m.Term)
		if err != nil {
			return nil, err
		}
		add(prefix)
	}

	return keys, nil
}

// scoreCandidates scores every candidate key in parallel (spec.md §4.6 step
// 3, §5 "two bounded compute phases"), dropping None and below-threshold
// results into a map keyed so no candidate is scored twice (spec.md §4.6
// step 4).
func scoreCandidates(ctx context.Context, idx Recaller, q parser.Query, keys []string) (map[string]score.Score, error) {
	var mu sync.Mutex
	out := make(map[string]score.Score, len(keys))

	g, _ := errgroup.WithContext(ctx)
	for _, k := range keys {
		k := k
		g.Go(func() error {
			e, ok := idx.Get(k)
			if !ok {
				return nil
			}
			s, ok := score.Search(&q, e)
			if !ok || s.Value <= score.SearchInclusionThreshold {
				return nil
			}
			mu.Lock()
			out[k] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortResults orders results by Score descending with the offset tie-break
// (spec.md §4.5, §8 invariant 6). The sort is stable, but results is filled
// by ranging over a map, so results whose Scores compare equal come out in
// no defined order.
func sortResults(results []Result) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && score.Less(results[j].Score, results[j-1].Score); j-- {
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
}
