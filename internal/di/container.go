// Package di provides dependency injection configuration for the SecretMenu server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/auth"
	"github.com/secretmenu/secretmenu-server/internal/config"
	"github.com/secretmenu/secretmenu-server/internal/di/providers"
	"github.com/secretmenu/secretmenu-server/internal/logger"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideEntityStore)
	do.Provide(injector, providers.ProvidePreferenceStore)
	do.Provide(injector, providers.ProvidePhotoStorage)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Entitlement layer
	do.Provide(injector, providers.ProvidePremiumManager)
	do.Provide(injector, providers.ProvidePurchaser)
	do.Provide(injector, providers.ProvideAdProvider)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePairingCode)

	// Business services
	do.Provide(injector, providers.ProvideDataService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvidePurchaseService)
	do.Provide(injector, providers.ProvideUnlockService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideExportService)
	do.Provide(injector, providers.ProvideDebugService)
	do.Provide(injector, providers.ProvideDeviceService)
	do.Provide(injector, providers.ProvidePhotoSweeper)

	// Workers
	do.Provide(injector, providers.ProvidePhotoSweepJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services so configuration and storage errors
// surface before the server starts listening.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	log := do.MustInvoke[*logger.Logger](injector)

	for _, invoke := range []func() error{
		invokeErr[providers.AuthKey](injector),
		invokeErr[*providers.EntityStoreHandle](injector),
		invokeErr[*providers.PreferenceStoreHandle](injector),
		invokeErr[*premium.Manager](injector),
		invokeErr[*providers.SearchIndexHandle](injector),
		invokeErr[*service.SearchService](injector),
		invokeErr[*auth.TokenService](injector),
		invokeErr[*service.DataService](injector),
		invokeErr[*service.TagService](injector),
		invokeErr[*service.PurchaseService](injector),
		invokeErr[*service.UnlockService](injector),
		invokeErr[*service.SettingsService](injector),
		invokeErr[*service.ExportService](injector),
		invokeErr[*service.DebugService](injector),
		invokeErr[*service.DeviceService](injector),
		invokeErr[*providers.PhotoSweepJob](injector),
		invokeErr[*providers.HTTPServerHandle](injector),
	} {
		if err := invoke(); err != nil {
			return err
		}
	}

	// Trigger search reindex if needed
	providers.TriggerSearchReindexIfNeeded(injector)

	code := do.MustInvoke[*auth.PairingCode](injector)
	log.Info("Device pairing code", "code", code.Current())

	return nil
}

func invokeErr[T any](injector *do.RootScope) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
