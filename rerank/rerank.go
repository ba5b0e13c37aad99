// Package rerank implements the graph-based re-ranking pass (spec.md §4.7):
// a parent->child edge graph over the candidate set, folded in decreasing
// edge-weight order so the strongest parent evidence wins.
package rerank

import (
	"sort"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/score"
)

// Lookup resolves an entity by key, satisfying the subset of index.Index
// the reranker needs without importing it directly.
type Lookup interface {
	Get(key string) (*entity.Entity, bool)
}

type edge struct {
	parent, child string
	parentScore   int
	childScore    int
}

// Rerank implements GraphReranker (spec.md §4.7): build parent->child edges
// over the candidate set where both ends clear GraphEdgeThreshold, fold them
// in descending weight order via parent.ParentBoost(parentScore)+childScore,
// and return the updated scores map. Input scores is not mutated; the
// returned map is a fresh copy carrying any boosted values.
func Rerank(idx Lookup, candidates map[string]score.Score) map[string]score.Score {
	out := make(map[string]score.Score, len(candidates))
	for k, v := range candidates {
		out[k] = v
	}

	var edges []edge
	for childKey, childScore := range candidates {
		child, ok := idx.Get(childKey)
		if !ok {
			continue
		}
		countryKey, hasCountry, subdivKey, hasSubdiv := child.GetParents()
		if hasCountry {
			if ps, ok := candidates[countryKey]; ok {
				if min(ps.Value, childScore.Value) > score.GraphEdgeThreshold {
					edges = append(edges, edge{parent: countryKey, child: childKey, parentScore: ps.Value, childScore: childScore.Value})
				}
			}
		}
		if hasSubdiv {
			if ps, ok := candidates[subdivKey]; ok {
				if min(ps.Value, childScore.Value) > score.GraphEdgeThreshold {
					edges = append(edges, edge{parent: subdivKey, child: childKey, parentScore: ps.Value, childScore: childScore.Value})
				}
			}
		}
	}

	// Sort by weight descending: (parentScore, childScore) as the spec's
	// weight, higher first, stable so ties keep discovery order (spec.md
	// §5 "Ordering": edge iteration is a stable sort over
	// (parent_score, child_score)).
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].parentScore != edges[j].parentScore {
			return edges[i].parentScore > edges[j].parentScore
		}
		return edges[i].childScore > edges[j].childScore
	})

	for _, e := range edges {
		parent, ok := idx.Get(e.parent)
		if !ok {
			continue
		}
		total := parent.ParentBoost(e.parentScore) + e.childScore
		cur := out[e.child]
		if total > cur.Value {
			out[e.child] = score.Score{Value: total, Offset: cur.Offset}
		}
	}

	return out
}
