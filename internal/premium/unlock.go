package premium

import (
	"context"
	"errors"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// BonusSlotsPerGrant is how many order slots one rewarded ad earns.
const BonusSlotsPerGrant = 1

// CanUnlock reports whether a bonus slot may be granted now: never for
// premium users, otherwise at most once per calendar day.
func (m *Manager) CanUnlock() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.canUnlockLocked(m.clock.Now())
}

func (m *Manager) canUnlockLocked(now time.Time) bool {
	if m.state.IsPremiumUser {
		return false
	}
	if m.state.LastBonusGrantDate == nil {
		return true
	}
	return !sameDay(*m.state.LastBonusGrantDate, now, m.loc)
}

// UnlockState reports where the daily bonus flow stands.
func (m *Manager) UnlockState() domain.UnlockState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.state.IsPremiumUser:
		return domain.UnlockPremiumBypass
	case m.canUnlockLocked(m.clock.Now()):
		return domain.UnlockEligible
	default:
		return domain.UnlockGrantedToday
	}
}

// NextUnlockAt returns the start of the next calendar day after the last
// grant, or the zero time when a grant is possible now.
func (m *Manager) NextUnlockAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state.IsPremiumUser || m.canUnlockLocked(m.clock.Now()) || m.state.LastBonusGrantDate == nil {
		return time.Time{}
	}
	y, mo, d := m.state.LastBonusGrantDate.In(m.loc).Date()
	return time.Date(y, mo, d+1, 0, 0, 0, 0, m.loc)
}

// Grant adds a bonus order slot if CanUnlock holds. It returns false with a
// nil error when no grant was due. Both the slot count and the grant date are
// written through; a failed write leaves memory updated.
func (m *Manager) Grant(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if !m.canUnlockLocked(now) {
		return false, nil
	}

	m.state.UnlockedOrderSlots += BonusSlotsPerGrant
	m.state.LastBonusGrantDate = &now

	errSlots := m.kv.SetInt(ctx, store.KeyUnlockedOrderSlots, m.state.UnlockedOrderSlots)
	errDate := m.kv.SetTime(ctx, store.KeyLastAdUnlockDate, now)
	if err := errors.Join(errSlots, errDate); err != nil {
		m.logger.Error("failed to persist bonus grant",
			"unlocked_order_slots", m.state.UnlockedOrderSlots,
			"error", err,
		)
		return true, domainerrors.Persistence(err, "save bonus grant")
	}

	m.logger.Info("bonus order slot granted",
		"unlocked_order_slots", m.state.UnlockedOrderSlots,
		"total_order_limit", m.state.TotalOrderLimit(),
	)
	return true, nil
}

// sameDay compares calendar dates in loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
