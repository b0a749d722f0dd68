package domain

import "time"

// Default freemium limits. A photo limit of 0 means photos are not limited.
const (
	DefaultFreePlaceLimit = 3
	DefaultFreeOrderLimit = 5
	DefaultFreePhotoLimit = 0
)

// PremiumState is the entitlement snapshot used by every limit check.
type PremiumState struct {
	IsPremiumUser      bool       `json:"is_premium_user"`
	FreePlaceLimit     int        `json:"free_place_limit"`
	FreeOrderLimit     int        `json:"free_order_limit"`
	UnlockedOrderSlots int        `json:"unlocked_order_slots"`
	LastBonusGrantDate *time.Time `json:"last_bonus_grant_date,omitempty"`
}

// TotalOrderLimit is the free order allowance plus bonus slots earned from ads.
func (s PremiumState) TotalOrderLimit() int {
	return s.FreeOrderLimit + s.UnlockedOrderSlots
}

// UnlockState describes where the daily bonus flow stands.
type UnlockState string

// Bonus unlock states.
const (
	UnlockEligible      UnlockState = "eligible"
	UnlockGrantedToday  UnlockState = "granted_today"
	UnlockPremiumBypass UnlockState = "premium_bypass"
)
