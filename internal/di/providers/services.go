package providers

import (
	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/auth"
	"github.com/secretmenu/secretmenu-server/internal/backup"
	"github.com/secretmenu/secretmenu-server/internal/billing"
	"github.com/secretmenu/secretmenu-server/internal/config"
	"github.com/secretmenu/secretmenu-server/internal/logger"
	"github.com/secretmenu/secretmenu-server/internal/media/images"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/service"
	"github.com/secretmenu/secretmenu-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideDataService provides the entitlement-checked data facade.
func ProvideDataService(i do.Injector) (*service.DataService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	entities := do.MustInvoke[*EntityStoreHandle](i)
	pm := do.MustInvoke[*premium.Manager](i)
	photos := do.MustInvoke[*images.Processor](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDataService(entities.Store, pm, service.DataOptions{
		DuplicatePlacePolicy: service.DuplicatePolicy(cfg.Entitlement.DuplicatePlacePolicy),
		Photos:               photos,
		Index:                searchService,
		Tags:                 service.NewNameTagReferences(entities.Store),
		Validator:            v,
		Logger:               log.Component("data"),
	}), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	entities := do.MustInvoke[*EntityStoreHandle](i)
	pm := do.MustInvoke[*premium.Manager](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(entities.Store, pm, v, log.Logger), nil
}

// ProvidePurchaseService provides the premium purchase service.
func ProvidePurchaseService(i do.Injector) (*service.PurchaseService, error) {
	pm := do.MustInvoke[*premium.Manager](i)
	purchaser := do.MustInvoke[billing.Purchaser](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPurchaseService(pm, purchaser, log.Component("purchase")), nil
}

// ProvideUnlockService provides the rewarded-ad bonus service.
func ProvideUnlockService(i do.Injector) (*service.UnlockService, error) {
	pm := do.MustInvoke[*premium.Manager](i)
	ads := do.MustInvoke[billing.AdProvider](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUnlockService(pm, ads, log.Component("unlock")), nil
}

// ProvideSettingsService provides the theme and onboarding service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	prefs := do.MustInvoke[*PreferenceStoreHandle](i)
	pm := do.MustInvoke[*premium.Manager](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(prefs.Store, pm, log.Logger), nil
}

// ProvideExportService provides archive export and import.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	entities := do.MustInvoke[*EntityStoreHandle](i)
	photos := do.MustInvoke[*images.Storage](i)
	pm := do.MustInvoke[*premium.Manager](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	backupLog := log.Component("backup")
	return service.NewExportService(pm,
		backup.NewExporter(entities.Store, photos, Version, backupLog),
		backup.NewRestorer(entities.Store, photos, backupLog),
		searchService,
		backupLog,
	), nil
}

// ProvideDebugService provides the developer tooling service.
func ProvideDebugService(i do.Injector) (*service.DebugService, error) {
	entities := do.MustInvoke[*EntityStoreHandle](i)
	prefs := do.MustInvoke[*PreferenceStoreHandle](i)
	photos := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDebugService(service.DebugDeps{
		Data:     do.MustInvoke[*service.DataService](i),
		Entities: entities.Store,
		Prefs:    prefs.Store,
		Premium:  do.MustInvoke[*premium.Manager](i),
		Photos:   photos,
		Search:   do.MustInvoke[*service.SearchService](i),
		Logger:   log.Component("debug"),
	}), nil
}

// ProvideDeviceService provides device pairing and token verification.
func ProvideDeviceService(i do.Injector) (*service.DeviceService, error) {
	prefs := do.MustInvoke[*PreferenceStoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	code := do.MustInvoke[*auth.PairingCode](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDeviceService(prefs.Store, tokens, code, v, log.Component("devices")), nil
}

// ProvidePhotoSweeper provides the orphaned photo sweeper.
func ProvidePhotoSweeper(i do.Injector) (*service.PhotoSweeper, error) {
	entities := do.MustInvoke[*EntityStoreHandle](i)
	photos := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPhotoSweeper(entities.Store, photos, photoSweepGrace, log.Component("photos")), nil
}
