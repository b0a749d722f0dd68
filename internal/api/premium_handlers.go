package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/secretmenu/secretmenu-server/internal/service"
)

func (s *Server) registerPremiumRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPremiumStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/premium",
		Summary:     "Premium status",
		Description: "Returns the entitlement state, limits and capabilities",
		Tags:        []string{"Premium"},
		Security:    bearerSecurity,
	}, s.handleGetPremiumStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "purchasePremium",
		Method:      http.MethodPost,
		Path:        "/api/v1/premium/purchase",
		Summary:     "Purchase premium",
		Description: "Runs the purchase flow. A cancelled purchase returns purchased=false",
		Tags:        []string{"Premium"},
		Security:    bearerSecurity,
	}, s.handlePurchasePremium)

	huma.Register(s.api, huma.Operation{
		OperationID: "restorePurchases",
		Method:      http.MethodPost,
		Path:        "/api/v1/premium/restore",
		Summary:     "Restore purchases",
		Tags:        []string{"Premium"},
		Security:    bearerSecurity,
	}, s.handleRestorePurchases)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUnlockStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/premium/unlock",
		Summary:     "Daily unlock status",
		Description: "Reports whether a rewarded ad can grant today's bonus order slot",
		Tags:        []string{"Premium"},
		Security:    bearerSecurity,
	}, s.handleGetUnlockStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "watchAdAndUnlock",
		Method:      http.MethodPost,
		Path:        "/api/v1/premium/unlock",
		Summary:     "Watch ad and unlock",
		Description: "Shows a rewarded ad and grants one bonus order slot once it completes",
		Tags:        []string{"Premium"},
		Security:    bearerSecurity,
	}, s.handleWatchAdAndUnlock)
}

// PremiumStatusOutput wraps the premium status for Huma.
type PremiumStatusOutput struct {
	Body service.PremiumStatus
}

// PurchaseResponse reports a purchase or restore outcome.
type PurchaseResponse struct {
	Purchased bool                  `json:"purchased" doc:"Whether the account is premium afterwards"`
	Status    service.PremiumStatus `json:"status"`
}

// PurchaseOutput wraps the purchase response for Huma.
type PurchaseOutput struct {
	Body PurchaseResponse
}

// UnlockStatusOutput wraps the unlock status for Huma.
type UnlockStatusOutput struct {
	Body service.UnlockStatus
}

// UnlockResponse reports one unlock attempt.
type UnlockResponse struct {
	Outcome service.UnlockOutcome `json:"outcome" enum:"granted,not_eligible,ad_incomplete" doc:"What happened"`
	Status  service.UnlockStatus  `json:"status"`
}

// UnlockOutput wraps the unlock response for Huma.
type UnlockOutput struct {
	Body UnlockResponse
}

func (s *Server) handleGetPremiumStatus(ctx context.Context, _ *struct{}) (*PremiumStatusOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}
	return &PremiumStatusOutput{Body: s.services.Purchase.Status()}, nil
}

func (s *Server) handlePurchasePremium(ctx context.Context, _ *struct{}) (*PurchaseOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	ok, err := s.services.Purchase.PurchasePremium(ctx)
	if err != nil {
		return nil, err
	}
	return &PurchaseOutput{Body: PurchaseResponse{Purchased: ok, Status: s.services.Purchase.Status()}}, nil
}

func (s *Server) handleRestorePurchases(ctx context.Context, _ *struct{}) (*PurchaseOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	ok, err := s.services.Purchase.RestorePurchases(ctx)
	if err != nil {
		return nil, err
	}
	return &PurchaseOutput{Body: PurchaseResponse{Purchased: ok, Status: s.services.Purchase.Status()}}, nil
}

func (s *Server) handleGetUnlockStatus(ctx context.Context, _ *struct{}) (*UnlockStatusOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}
	return &UnlockStatusOutput{Body: s.services.Unlock.Status()}, nil
}

func (s *Server) handleWatchAdAndUnlock(ctx context.Context, _ *struct{}) (*UnlockOutput, error) {
	if _, err := requireDevice(ctx); err != nil {
		return nil, err
	}

	outcome, err := s.services.Unlock.WatchAdAndUnlock(ctx)
	if err != nil {
		return nil, err
	}
	return &UnlockOutput{Body: UnlockResponse{Outcome: outcome, Status: s.services.Unlock.Status()}}, nil
}
