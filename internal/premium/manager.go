// Package premium owns the in-memory entitlement state: the premium flag, the
// free limits and the bonus order slots earned through rewarded ads.
//
// Every mutator updates memory first and then writes through to the KV store
// before returning. A failed write is logged and returned, but the in-memory
// value is not rolled back.
package premium

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/entitlement"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// KV is the persistent key-value backing for premium state.
// *store.Store satisfies it.
type KV interface {
	GetBool(ctx context.Context, key string) (bool, bool, error)
	SetBool(ctx context.Context, key string, v bool) error
	GetInt(ctx context.Context, key string) (int, bool, error)
	SetInt(ctx context.Context, key string, v int) error
	GetTime(ctx context.Context, key string) (time.Time, bool, error)
	SetTime(ctx context.Context, key string, v time.Time) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Options configures a Manager.
type Options struct {
	FreePlaceLimit int
	FreeOrderLimit int
	FreePhotoLimit int
	// Location decides where a calendar day starts for the daily bonus.
	// Defaults to time.Local.
	Location *time.Location
	Clock    Clock
	Logger   *slog.Logger
}

// Manager holds the premium snapshot. It is safe for concurrent use; all
// mutators are serialised.
type Manager struct {
	kv     KV
	clock  Clock
	loc    *time.Location
	logger *slog.Logger

	freePhotoLimit int

	mu    sync.RWMutex
	state domain.PremiumState
}

// NewManager creates a manager with default (free, no bonus) state.
// Call Load to pick up persisted values.
func NewManager(kv KV, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Manager{
		kv:             kv,
		clock:          opts.Clock,
		loc:            opts.Location,
		logger:         opts.Logger,
		freePhotoLimit: opts.FreePhotoLimit,
		state: domain.PremiumState{
			FreePlaceLimit: opts.FreePlaceLimit,
			FreeOrderLimit: opts.FreeOrderLimit,
		},
	}
}

// Load replaces the in-memory state with persisted values. Missing keys fall
// back to defaults: not premium, zero bonus slots, no last grant.
func (m *Manager) Load(ctx context.Context) error {
	isPremium, _, err := m.kv.GetBool(ctx, store.KeyIsPremiumUser)
	if err != nil {
		return domainerrors.Persistence(err, "load premium flag")
	}
	slots, _, err := m.kv.GetInt(ctx, store.KeyUnlockedOrderSlots)
	if err != nil {
		return domainerrors.Persistence(err, "load unlocked order slots")
	}
	last, ok, err := m.kv.GetTime(ctx, store.KeyLastAdUnlockDate)
	if err != nil {
		return domainerrors.Persistence(err, "load last bonus date")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsPremiumUser = isPremium
	m.state.UnlockedOrderSlots = max(slots, 0)
	m.state.LastBonusGrantDate = nil
	if ok {
		m.state.LastBonusGrantDate = &last
	}

	m.logger.Debug("premium state loaded",
		"premium", isPremium,
		"unlocked_order_slots", m.state.UnlockedOrderSlots,
	)
	return nil
}

// SetPremium sets the premium flag and persists it. Setting the current
// value again is harmless.
func (m *Manager) SetPremium(ctx context.Context, premium bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsPremiumUser = premium
	if err := m.kv.SetBool(ctx, store.KeyIsPremiumUser, premium); err != nil {
		m.logger.Error("failed to persist premium flag", "premium", premium, "error", err)
		return domainerrors.Persistence(err, "save premium flag")
	}

	m.logger.Info("premium flag updated", "premium", premium)
	return nil
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() domain.PremiumState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domain.PremiumState {
	s := m.state
	if s.LastBonusGrantDate != nil {
		t := *s.LastBonusGrantDate
		s.LastBonusGrantDate = &t
	}
	return s
}

// IsPremium reports the premium flag.
func (m *Manager) IsPremium() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsPremiumUser
}

// TotalOrderLimit is the free order allowance plus earned bonus slots.
func (m *Manager) TotalOrderLimit() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return entitlement.TotalOrderLimit(m.state.FreeOrderLimit, m.state.UnlockedOrderSlots)
}

// Limits returns the configured free allowances.
func (m *Manager) Limits() entitlement.Limits {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return entitlement.Limits{
		FreePlaceLimit: m.state.FreePlaceLimit,
		FreeOrderLimit: m.state.FreeOrderLimit,
		FreePhotoLimit: m.freePhotoLimit,
	}
}

// FreePhotoLimit is how many orders may carry a photo without premium.
// Zero means photos are not limited.
func (m *Manager) FreePhotoLimit() int {
	return m.freePhotoLimit
}

// Capabilities derives feature flags from the premium flag.
func (m *Manager) Capabilities() domain.Capabilities {
	return entitlement.CapabilitiesFor(m.IsPremium())
}
