package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/secretmenu/secretmenu-server/internal/normalize"
)

// Sort orders.
const (
	SortRelevance = "relevance"
	SortRecent    = "recent"
	SortName      = "name"
)

// DefaultLimit applies when SearchParams.Limit is not positive.
const DefaultLimit = 20

// SearchParams configures a search.
type SearchParams struct {
	Query   string
	Types   []DocType // empty means all
	PlaceID string    // restrict to one place and its orders
	Tags    []string  // orders carrying any of these tags

	Limit  int
	Offset int
	SortBy string // relevance (default), recent, name

	Highlight bool
}

// SearchResult holds one page of hits.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a single match.
type SearchHit struct {
	ID         string            `json:"id"`
	Type       DocType           `json:"type"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	PlaceID    string            `json:"place_id,omitempty"`
	PlaceName  string            `json:"place_name,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search runs params against the index.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params)

	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
		req.Highlight.AddField("details")
		req.Highlight.AddField("place_name")
	}
	req.Fields = []string{"type", "name", "place_id", "place_name", "tags"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}

		if t, ok := hit.Fields["type"].(string); ok {
			h.Type = DocType(t)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			h.Name = n
		}
		if p, ok := hit.Fields["place_id"].(string); ok {
			h.PlaceID = p
		}
		if p, ok := hit.Fields["place_name"].(string); ok {
			h.PlaceName = p
		}
		h.Tags = stringSlice(hit.Fields["tags"])

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

	return result, nil
}

// stringSlice normalises a stored field that Bleve returns as a string for a
// single value and as []any for several.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// buildSearchQuery combines the text query with filters using AND.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		var text []query.Query

		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		text = append(text, nameMatch)

		placeMatch := bleve.NewMatchQuery(q)
		placeMatch.SetField("place_name")
		placeMatch.SetBoost(2.0)
		text = append(text, placeMatch)

		tagMatch := bleve.NewMatchQuery(q)
		tagMatch.SetField("tag_text")
		tagMatch.SetBoost(1.5)
		text = append(text, tagMatch)

		detailsMatch := bleve.NewMatchQuery(q)
		detailsMatch.SetField("details")
		text = append(text, detailsMatch)

		// Typo tolerance on titles: "frapuccino" still finds "Frappuccino".
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)
		text = append(text, fuzzy)

		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(text...))
	}

	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(string(t))
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	if params.PlaceID != "" {
		pq := bleve.NewTermQuery(params.PlaceID)
		pq.SetField("place_id")
		queries = append(queries, pq)
	}

	if len(params.Tags) > 0 {
		tagQueries := make([]query.Query, 0, len(params.Tags))
		for _, tag := range params.Tags {
			tq := bleve.NewTermQuery(normalize.NameKey(tag))
			tq.SetField("tags")
			tagQueries = append(tagQueries, tq)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(tagQueries...))
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

func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case SortRecent:
		req.SortBy([]string{"-created_at"})
	case SortName:
		req.SortBy([]string{"name", "-created_at"})
	default:
		req.SortBy([]string{"-_score", "-created_at"})
	}
}
