package service

import (
	"context"
	"log/slog"

	"github.com/secretmenu/secretmenu-server/internal/billing"
	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/premium"
)

// PremiumStatus is everything a client needs to render the paywall.
type PremiumStatus struct {
	State           domain.PremiumState `json:"state"`
	TotalOrderLimit int                 `json:"total_order_limit"`
	FreePhotoLimit  int                 `json:"free_photo_limit"`
	Capabilities    domain.Capabilities `json:"capabilities"`
	Unlock          domain.UnlockState  `json:"unlock"`
}

// PurchaseService runs the premium purchase and restore flows.
type PurchaseService struct {
	premium   *premium.Manager
	purchaser billing.Purchaser
	logger    *slog.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(pm *premium.Manager, purchaser billing.Purchaser, logger *slog.Logger) *PurchaseService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PurchaseService{premium: pm, purchaser: purchaser, logger: logger}
}

// Status returns the premium snapshot with derived values.
func (s *PurchaseService) Status() PremiumStatus {
	return premiumStatus(s.premium)
}

func premiumStatus(pm *premium.Manager) PremiumStatus {
	return PremiumStatus{
		State:           pm.Snapshot(),
		TotalOrderLimit: pm.TotalOrderLimit(),
		FreePhotoLimit:  pm.FreePhotoLimit(),
		Capabilities:    pm.Capabilities(),
		Unlock:          pm.UnlockState(),
	}
}

// PurchasePremium buys premium. It returns false with a nil error when the
// user cancels. Already-premium accounts return true without a purchase.
func (s *PurchaseService) PurchasePremium(ctx context.Context) (bool, error) {
	if s.premium.IsPremium() {
		return true, nil
	}

	ok, err := s.purchaser.Purchase(ctx)
	if err != nil {
		s.logger.Warn("premium purchase failed", "error", err)
		return false, providerError(err, "purchase failed")
	}
	if !ok {
		s.logger.Info("premium purchase cancelled")
		return false, nil
	}

	if err := s.premium.SetPremium(ctx, true); err != nil {
		// Memory is premium; the next launch re-reads storage.
		return true, err
	}
	return true, nil
}

// RestorePurchases asks the store for a previous purchase. When none is found
// the persisted state is reloaded so a stale in-memory flag cannot linger.
func (s *PurchaseService) RestorePurchases(ctx context.Context) (bool, error) {
	ok, err := s.purchaser.Restore(ctx)
	if err != nil {
		s.logger.Warn("restore purchases failed", "error", err)
		return false, providerError(err, "restore failed")
	}
	if ok {
		if err := s.premium.SetPremium(ctx, true); err != nil {
			return true, err
		}
		s.logger.Info("premium restored")
		return true, nil
	}

	if err := s.premium.Load(ctx); err != nil {
		return false, err
	}
	return s.premium.IsPremium(), nil
}
