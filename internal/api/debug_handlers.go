package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/service"
)

// registerDebugRoutes wires developer tooling. Only registered outside
// production.
func (s *Server) registerDebugRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "debugStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/debug/status",
		Summary:     "Debug status",
		Description: "Entity counts and premium state",
		Tags:        []string{"Debug"},
		Security:    bearerSecurity,
	}, s.handleDebugStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "debugReset",
		Method:      http.MethodPost,
		Path:        "/api/v1/debug/reset",
		Summary:     "Reset all data",
		Description: "Deletes every place, order, tag, photo and preference. Paired devices are kept",
		Tags:        []string{"Debug"},
		Security:    bearerSecurity,
	}, s.handleDebugReset)

	huma.Register(s.api, huma.Operation{
		OperationID: "debugSeed",
		Method:      http.MethodPost,
		Path:        "/api/v1/debug/seed",
		Summary:     "Seed test data",
		Tags:        []string{"Debug"},
		Security:    bearerSecurity,
	}, s.handleDebugSeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "debugTogglePremium",
		Method:      http.MethodPost,
		Path:        "/api/v1/debug/toggle-premium",
		Summary:     "Toggle premium",
		Tags:        []string{"Debug"},
		Security:    bearerSecurity,
	}, s.handleDebugTogglePremium)
}

// DebugStatusOutput wraps the debug snapshot for Huma.
type DebugStatusOutput struct {
	Body service.DebugStatus
}

// SeedOutput wraps seeded entities for Huma.
type SeedOutput struct {
	Body SeedResponse
}

// SeedResponse lists the seeded places and orders.
type SeedResponse struct {
	Places []PlaceResponse `json:"places"`
	Orders []OrderResponse `json:"orders"`
}

// TogglePremiumOutput wraps the new premium flag for Huma.
type TogglePremiumOutput struct {
	Body struct {
		IsPremium bool `json:"is_premium"`
	}
}

func (s *Server) handleDebugStatus(ctx context.Context, _ *struct{}) (*DebugStatusOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	st, err := s.services.Debug.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugStatusOutput{Body: *st}, nil
}

func (s *Server) handleDebugReset(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Debug.ResetAllData(ctx); err != nil {
		return nil, err
	}
	return message("all data reset"), nil
}

func (s *Server) handleDebugSeed(ctx context.Context, _ *struct{}) (*SeedOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	res, err := s.services.Debug.SeedTestData(ctx)
	if err != nil {
		return nil, err
	}

	out := &SeedOutput{Body: SeedResponse{
		Places: make([]PlaceResponse, 0, len(res.Places)),
		Orders: toOrderResponses(res.Orders),
	}}
	for _, p := range res.Places {
		out.Body.Places = append(out.Body.Places, toPlaceResponse(p))
	}
	return out, nil
}

func (s *Server) handleDebugTogglePremium(ctx context.Context, _ *struct{}) (*TogglePremiumOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	next, err := s.services.Debug.TogglePremium(ctx)
	if err != nil {
		return nil, err
	}
	out := &TogglePremiumOutput{}
	out.Body.IsPremium = next
	return out, nil
}
