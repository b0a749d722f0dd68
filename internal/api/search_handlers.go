package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search",
		Description: "Full-text search over places and orders",
		Tags:        []string{"Search"},
		Security:    bearerSecurity,
	}, s.handleSearch)
}

// SearchInput holds search parameters.
type SearchInput struct {
	Query   string   `query:"q" maxLength:"200" doc:"Search text; empty matches everything"`
	Types   []string `query:"types" enum:"place,order" doc:"Restrict to document types (comma separated)"`
	PlaceID string   `query:"place_id" doc:"Restrict to one place and its orders"`
	Tags    []string `query:"tags" doc:"Orders carrying any of these tags (comma separated)"`
	Limit   int      `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
	Offset  int      `query:"offset" minimum:"0" default:"0" doc:"Hits to skip"`
	Sort    string   `query:"sort" enum:"relevance,recent,name" default:"relevance" doc:"Ordering"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}
	if s.services.Search == nil {
		return nil, domainerrors.Unavailable("search is not available")
	}

	types := make([]search.DocType, len(input.Types))
	for i, t := range input.Types {
		types[i] = search.DocType(t)
	}

	res, err := s.services.Search.Search(ctx, search.SearchParams{
		Query:     input.Query,
		Types:     types,
		PlaceID:   input.PlaceID,
		Tags:      input.Tags,
		Limit:     input.Limit,
		Offset:    input.Offset,
		SortBy:    input.Sort,
		Highlight: input.Query != "",
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *res}, nil
}
