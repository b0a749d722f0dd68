package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/billing"
	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
	"github.com/secretmenu/secretmenu-server/internal/premium"
)

// UnlockOutcome is the result of one watch-ad-to-unlock attempt.
type UnlockOutcome string

// Unlock outcomes.
const (
	UnlockGranted      UnlockOutcome = "granted"
	UnlockNotEligible  UnlockOutcome = "not_eligible"
	UnlockAdIncomplete UnlockOutcome = "ad_incomplete"
)

// UnlockStatus describes the daily bonus for display.
type UnlockStatus struct {
	State              domain.UnlockState `json:"state"`
	CanUnlock          bool               `json:"can_unlock"`
	AdReady            bool               `json:"ad_ready"`
	UnlockedOrderSlots int                `json:"unlocked_order_slots"`
	TotalOrderLimit    int                `json:"total_order_limit"`
	NextUnlockAt       *time.Time         `json:"next_unlock_at,omitempty"`
}

// UnlockService runs the rewarded-ad bonus flow.
type UnlockService struct {
	premium *premium.Manager
	ads     billing.AdProvider
	logger  *slog.Logger
}

// NewUnlockService creates a new unlock service.
func NewUnlockService(pm *premium.Manager, ads billing.AdProvider, logger *slog.Logger) *UnlockService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &UnlockService{premium: pm, ads: ads, logger: logger}
}

// Status reports the current bonus state.
func (s *UnlockService) Status() UnlockStatus {
	state := s.premium.Snapshot()
	st := UnlockStatus{
		State:              s.premium.UnlockState(),
		CanUnlock:          s.premium.CanUnlock(),
		AdReady:            s.ads.IsReady(),
		UnlockedOrderSlots: state.UnlockedOrderSlots,
		TotalOrderLimit:    state.TotalOrderLimit(),
	}
	if next := s.premium.NextUnlockAt(); !next.IsZero() {
		st.NextUnlockAt = &next
	}
	return st
}

// WatchAdAndUnlock shows a rewarded ad and grants one bonus order slot if the
// user finishes it. The ad is not shown when no grant is due. Failure,
// cancellation or timeout leave the state unchanged.
func (s *UnlockService) WatchAdAndUnlock(ctx context.Context) (UnlockOutcome, error) {
	if !s.premium.CanUnlock() {
		return UnlockNotEligible, nil
	}
	if !s.ads.IsReady() {
		return UnlockAdIncomplete, domainerrors.Unavailable("no rewarded ad is ready")
	}

	completed, err := s.ads.ShowRewardedAd(ctx)
	if err != nil {
		return UnlockAdIncomplete, providerError(err, "rewarded ad failed")
	}
	if !completed {
		s.logger.Info("rewarded ad not completed")
		return UnlockAdIncomplete, nil
	}

	granted, err := s.premium.Grant(ctx)
	if !granted {
		// Became premium or was granted elsewhere while the ad played.
		return UnlockNotEligible, nil
	}
	// A persistence error still leaves the slot granted in memory.
	return UnlockGranted, err
}

// providerError maps billing failures to domain errors. Cancellation passes
// through.
func providerError(err error, msg string) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, billing.ErrTimeout), errors.Is(err, billing.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return domainerrors.Unavailable(msg).WithCause(err)
	default:
		return domainerrors.Internal(msg).WithCause(err)
	}
}
