package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/popular"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

func (s *Server) registerPlaceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPlaces",
		Method:      http.MethodGet,
		Path:        "/api/v1/places",
		Summary:     "List places",
		Description: "Returns all places sorted by name",
		Tags:        []string{"Places"},
		Security:    bearerSecurity,
	}, s.handleListPlaces)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPlace",
		Method:        http.MethodPost,
		Path:          "/api/v1/places",
		Summary:       "Create place",
		Description:   "Adds a place. Free accounts are limited; over the limit returns 402 LIMIT_REACHED",
		Tags:          []string{"Places"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePlace)

	huma.Register(s.api, huma.Operation{
		OperationID: "suggestPlaces",
		Method:      http.MethodGet,
		Path:        "/api/v1/places/suggestions",
		Summary:     "Suggest places",
		Description: "Searches the built-in catalog of popular chains",
		Tags:        []string{"Places"},
		Security:    bearerSecurity,
	}, s.handleSuggestPlaces)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlace",
		Method:      http.MethodGet,
		Path:        "/api/v1/places/{id}",
		Summary:     "Get place",
		Tags:        []string{"Places"},
		Security:    bearerSecurity,
	}, s.handleGetPlace)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlace",
		Method:      http.MethodDelete,
		Path:        "/api/v1/places/{id}",
		Summary:     "Delete place",
		Description: "Deletes a place together with all of its orders and their photos",
		Tags:        []string{"Places"},
		Security:    bearerSecurity,
	}, s.handleDeletePlace)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPlaceOrders",
		Method:      http.MethodGet,
		Path:        "/api/v1/places/{id}/orders",
		Summary:     "List place orders",
		Description: "Returns the orders of one place, newest first",
		Tags:        []string{"Places"},
		Security:    bearerSecurity,
	}, s.handleListPlaceOrders)
}

// PlaceResponse contains place data in API responses.
type PlaceResponse struct {
	ID        string    `json:"id" doc:"Place ID"`
	Name      string    `json:"name" doc:"Place name"`
	BrandKey  string    `json:"brand_key,omitempty" doc:"Logo asset key for well-known chains"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListPlacesResponse contains a list of places.
type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}

// ListPlacesOutput wraps the list places response for Huma.
type ListPlacesOutput struct {
	Body ListPlacesResponse
}

// CreatePlaceRequest is the request body for creating a place.
type CreatePlaceRequest struct {
	Name string `json:"name" minLength:"1" maxLength:"100" doc:"Place name"`
}

// CreatePlaceInput wraps the create place request for Huma.
type CreatePlaceInput struct {
	Body CreatePlaceRequest
}

// PlaceOutput wraps the place response for Huma.
type PlaceOutput struct {
	Body PlaceResponse
}

// PlaceIDInput identifies a place.
type PlaceIDInput struct {
	ID string `path:"id" doc:"Place ID"`
}

// SuggestPlacesInput holds the suggestion query.
type SuggestPlacesInput struct {
	Query string `query:"q" maxLength:"100" doc:"Name or keyword; empty returns the top suggestions"`
}

// SuggestPlacesResponse lists catalog matches.
type SuggestPlacesResponse struct {
	Places []popular.Place `json:"places"`
}

// SuggestPlacesOutput wraps suggestions for Huma.
type SuggestPlacesOutput struct {
	Body SuggestPlacesResponse
}

func toPlaceResponse(p *domain.Place) PlaceResponse {
	resp := PlaceResponse{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
	if known, ok := popular.Lookup(p.Name); ok {
		resp.BrandKey = known.BrandKey
	}
	return resp
}

func (s *Server) handleListPlaces(ctx context.Context, _ *struct{}) (*ListPlacesOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	places, err := s.services.Data.FetchPlaces(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]PlaceResponse, len(places))
	for i, p := range places {
		resp[i] = toPlaceResponse(p)
	}
	return &ListPlacesOutput{Body: ListPlacesResponse{Places: resp}}, nil
}

func (s *Server) handleCreatePlace(ctx context.Context, input *CreatePlaceInput) (*PlaceOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	res := s.services.Data.CreatePlace(ctx, input.Body.Name)
	if res.Kind != service.ResultSuccess {
		return nil, res.AsError()
	}
	return &PlaceOutput{Body: toPlaceResponse(res.Place)}, nil
}

func (s *Server) handleSuggestPlaces(ctx context.Context, input *SuggestPlacesInput) (*SuggestPlacesOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}
	matches := popular.Search(input.Query)
	if matches == nil {
		matches = []popular.Place{}
	}
	return &SuggestPlacesOutput{Body: SuggestPlacesResponse{Places: matches}}, nil
}

func (s *Server) handleGetPlace(ctx context.Context, input *PlaceIDInput) (*PlaceOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	p, err := s.services.Data.GetPlace(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PlaceOutput{Body: toPlaceResponse(p)}, nil
}

func (s *Server) handleDeletePlace(ctx context.Context, input *PlaceIDInput) (*MessageOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Data.DeletePlace(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("Place deleted"), nil
}

func (s *Server) handleListPlaceOrders(ctx context.Context, input *PlaceIDInput) (*ListOrdersOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	if _, err := s.services.Data.GetPlace(ctx, input.ID); err != nil {
		return nil, err
	}
	orders, err := s.services.Data.FetchOrders(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListOrdersOutput{Body: ListOrdersResponse{Orders: toOrderResponses(orders)}}, nil
}
