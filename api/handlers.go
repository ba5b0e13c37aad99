package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/locus/entity"
	"github.com/gilby125/locus/parser"
	"github.com/gilby125/locus/pipeline"
)

// Searcher is the subset of a finalized index the HTTP layer depends on:
// enough to parse a query and run the pipeline against it.
type Searcher interface {
	pipeline.Recaller
}

// EntityView is the wire shape of one matched entity (spec.md §6 "Output
// per result"): key, encoding, id, names, codes, state, subdivision.
type EntityView struct {
	Key         string   `json:"key"`
	Encoding    string   `json:"encoding"`
	ID          string   `json:"id"`
	Names       []string `json:"names"`
	Codes       []string `json:"codes"`
	State       string   `json:"state"`
	Subdivision string   `json:"subdivision,omitempty"`
}

// OffsetView is the wire shape of a match's character offset.
type OffsetView struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ResultView is one ranked search hit as returned by GET /search.
type ResultView struct {
	Entity EntityView `json:"entity"`
	Score  int        `json:"score"`
	Offset OffsetView `json:"offset"`
}

// SearchResponse is the GET /search response body.
type SearchResponse struct {
	Query   string       `json:"query"`
	Results []ResultView `json:"results"`
}

// SearchHandler implements GET /search (spec.md §6 query interface):
// q (required), state, limit (default 1), ld (0-2, default 2, clamped).
func SearchHandler(s Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}

		state := c.Query("state")
		limit := queryInt(c, "limit", 1)
		if limit < 1 {
			limit = 1
		}
		ld := queryInt(c, "ld", 2)

		parsed := parser.Parse(q, state, limit, ld)
		results, err := pipeline.Search(c.Request.Context(), s, parsed)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := SearchResponse{Query: parsed.Normalized, Results: make([]ResultView, 0, len(results))}
		for _, r := range results {
			e, ok := s.Get(r.Key)
			if !ok {
				continue
			}
			resp.Results = append(resp.Results, toResultView(e, r.Score.Value, r.Score.Offset))
		}
		c.JSON(http.StatusOK, resp)
	}
}

func toResultView(e *entity.Entity, scoreValue int, offset parser.Offset) ResultView {
	subdiv, _ := e.GetSubdiv()
	return ResultView{
		Entity: EntityView{
			Key:         e.Key,
			Encoding:    e.Encoding,
			ID:          e.ID,
			Names:       e.GetNames(),
			Codes:       e.GetCodes(),
			State:       e.GetState(),
			Subdivision: subdiv,
		},
		Score:  scoreValue,
		Offset: OffsetView{Start: offset.Start, End: offset.End},
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
