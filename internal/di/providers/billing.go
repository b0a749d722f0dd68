package providers

import (
	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/billing"
	"github.com/secretmenu/secretmenu-server/internal/config"
	"github.com/secretmenu/secretmenu-server/internal/logger"
)

// ProvidePurchaser provides the store purchase provider behind a timeout and
// circuit breaker.
func ProvidePurchaser(i do.Injector) (billing.Purchaser, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return billing.NewGuardedPurchaser(
		billing.NewSimulatedPurchaser(),
		cfg.Billing.PurchaseTimeout,
		log.Component("billing"),
	), nil
}

// ProvideAdProvider provides the rewarded-ad provider behind a timeout and
// circuit breaker.
func ProvideAdProvider(i do.Injector) (billing.AdProvider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	log.Info("Rewarded ads simulated", "completes", cfg.Billing.SimulateAdCompletion)
	return billing.NewGuardedAds(
		billing.NewSimulatedAds(cfg.Billing.SimulateAdCompletion),
		cfg.Billing.AdTimeout,
		log.Component("billing"),
	), nil
}
