package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/coloredin/coloredin-server/internal/normalize"
)

// Sort orders.
const (
	SortRelevance = "relevance"
	SortRecent    = "recent"
	SortName      = "name"
)

// Params configures a search.
type Params struct {
	Query   string   // Free text matched against palette names
	OwnerID string   // Restrict to one owner's palettes
	Tags    []string // Every tag must be present
	Hues    []string // Any hue family may match

	Limit  int
	Offset int
	SortBy string // relevance (default), recent, name

	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		SortBy:        SortRelevance,
		IncludeFacets: true,
	}
}

// Result is one page of search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitzero"`
}

// Hit is a matched palette with its stored fields.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	Colors     []string          `json:"colors"`
	Tags       []string          `json:"tags"`
	OwnerID    string            `json:"owner_id"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Facets holds term counts across the whole match set.
type Facets struct {
	Tags []FacetCount `json:"tags,omitempty"`
	Hues []FacetCount `json:"hues,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, max(params.Offset, 0), false)
	addSorting(req, params.SortBy)

	if params.IncludeFacets {
		req.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
		req.AddFacet("hues", bleve.NewFacetRequest("hues", 7))
	}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
	}
	req.Fields = []string{"name", "colors", "tags", "owner_id"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := Hit{
			ID:      hit.ID,
			Score:   hit.Score,
			Colors:  stringList(hit.Fields["colors"]),
			Tags:    stringList(hit.Fields["tags"]),
			OwnerID: stringField(hit.Fields["owner_id"]),
			Name:    stringField(hit.Fields["name"]),
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = Facets{
			Tags: facetCounts(res, "tags"),
			Hues: facetCounts(res, "hues"),
		}
	}

	return result, nil
}

// buildQuery ANDs the text query with the owner, tag and hue filters.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if q := normalize.Query(params.Query); q != "" {
		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		// A query that is itself a tag should find tagged palettes too.
		tagMatch := bleve.NewTermQuery(normalize.Tag(q))
		tagMatch.SetField("tags")
		tagMatch.SetBoost(2.0)

		fuzzy := bleve.NewFuzzyQuery(q)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{nameMatch, tagMatch, fuzzy}

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(q)
			prefix.SetField("folded")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.OwnerID != "" {
		owner := bleve.NewTermQuery(params.OwnerID)
		owner.SetField("owner_id")
		queries = append(queries, owner)
	}

	for _, tag := range params.Tags {
		if tag = normalize.Tag(tag); tag == "" {
			continue
		}
		tq := bleve.NewTermQuery(tag)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	if len(params.Hues) > 0 {
		hueQueries := make([]query.Query, len(params.Hues))
		for i, hue := range params.Hues {
			hq := bleve.NewTermQuery(normalize.Tag(hue))
			hq.SetField("hues")
			hueQueries[i] = hq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(hueQueries...))
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

func addSorting(req *bleve.SearchRequest, sortBy string) {
	switch sortBy {
	case SortRecent:
		req.SortBy([]string{"-created_at", "_id"})
	case SortName:
		req.SortBy([]string{"name", "_id"})
	default:
		req.SortBy([]string{"-_score", "-created_at"})
	}
}

func facetCounts(res *bleve.SearchResult, name string) []FacetCount {
	facet, ok := res.Facets[name]
	if !ok || facet.Terms == nil {
		return nil
	}
	var out []FacetCount
	for _, term := range facet.Terms.Terms() {
		out = append(out, FacetCount{Value: term.Term, Count: term.Count})
	}
	return out
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// stringList reads a stored multi-value field. Bleve returns a bare string
// when the field held a single value.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
