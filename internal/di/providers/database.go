package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/secretmenu/secretmenu-server/internal/config"
	"github.com/secretmenu/secretmenu-server/internal/logger"
	"github.com/secretmenu/secretmenu-server/internal/premium"
	"github.com/secretmenu/secretmenu-server/internal/store"
	"github.com/secretmenu/secretmenu-server/internal/store/sqlite"
)

// EntityStoreHandle wraps the SQLite entity store with shutdown capability.
type EntityStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *EntityStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideEntityStore provides the relational store for places, orders and tags.
func ProvideEntityStore(i do.Injector) (*EntityStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.Data.DatabasePath()
	db, err := sqlite.Open(path, log.Component("sqlite"))
	if err != nil {
		return nil, err
	}

	log.Info("Entity database initialized", "path", path)
	return &EntityStoreHandle{Store: db}, nil
}

// PreferenceStoreHandle wraps the Badger key-value store with shutdown capability.
type PreferenceStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *PreferenceStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvidePreferenceStore provides the key-value store for premium state,
// preferences and paired devices.
func ProvidePreferenceStore(i do.Injector) (*PreferenceStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.Data.PreferencesPath()
	kv, err := store.New(path, log.Component("badger"))
	if err != nil {
		return nil, err
	}

	log.Info("Preference store initialized", "path", path)
	return &PreferenceStoreHandle{Store: kv}, nil
}

// ProvidePremiumManager provides the premium state manager, loaded from the
// preference store.
func ProvidePremiumManager(i do.Injector) (*premium.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	prefs := do.MustInvoke[*PreferenceStoreHandle](i)

	pm := premium.NewManager(prefs.Store, premium.Options{
		FreePlaceLimit: cfg.Entitlement.FreePlaceLimit,
		FreeOrderLimit: cfg.Entitlement.FreeOrderLimit,
		FreePhotoLimit: cfg.Entitlement.FreePhotoLimit,
		Location:       cfg.App.Location,
		Logger:         log.Component("premium"),
	})
	if err := pm.Load(context.Background()); err != nil {
		return nil, err
	}

	st := pm.Snapshot()
	log.Info("Premium state loaded",
		"is_premium", st.IsPremiumUser,
		"order_limit", pm.TotalOrderLimit(),
		"unlocked_order_slots", st.UnlockedOrderSlots,
	)
	return pm, nil
}
