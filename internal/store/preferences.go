package store

import (
	"context"
	"errors"
	"time"
)

// Preference keys. The names match what earlier client builds wrote to
// on-device storage so exported data stays recognizable.
const (
	KeyIsPremiumUser          = "isPremiumUser"
	KeyUnlockedOrderSlots     = "unlockedOrderSlots"
	KeyLastAdUnlockDate       = "lastAdUnlockDate"
	KeySelectedAppTheme       = "selectedAppTheme"
	KeyHasCompletedOnboarding = "hasCompletedOnboarding"
	KeyHasCompletedTutorial   = "hasCompletedTutorial"
	KeyTutorialStep           = "tutorialStep"
)

// getPref reads a typed preference. ok is false when the key was never written.
func getPref[T any](ctx context.Context, s *Store, key string) (T, bool, error) {
	var v T
	if err := ctx.Err(); err != nil {
		return v, false, err
	}

	k := buildKey(prefixPref, key)
	defer releaseKey(k)

	err := s.get(k, &v)
	if errors.Is(err, ErrNotFound) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

func setPref(ctx context.Context, s *Store, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k := buildKey(prefixPref, key)
	defer releaseKey(k)

	return s.set(k, v)
}

// GetBool returns a stored boolean preference.
func (s *Store) GetBool(ctx context.Context, key string) (bool, bool, error) {
	return getPref[bool](ctx, s, key)
}

// SetBool stores a boolean preference.
func (s *Store) SetBool(ctx context.Context, key string, v bool) error {
	return setPref(ctx, s, key, v)
}

// GetInt returns a stored integer preference.
func (s *Store) GetInt(ctx context.Context, key string) (int, bool, error) {
	return getPref[int](ctx, s, key)
}

// SetInt stores an integer preference.
func (s *Store) SetInt(ctx context.Context, key string, v int) error {
	return setPref(ctx, s, key, v)
}

// GetString returns a stored string preference.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	return getPref[string](ctx, s, key)
}

// SetString stores a string preference.
func (s *Store) SetString(ctx context.Context, key string, v string) error {
	return setPref(ctx, s, key, v)
}

// GetTime returns a stored instant.
func (s *Store) GetTime(ctx context.Context, key string) (time.Time, bool, error) {
	return getPref[time.Time](ctx, s, key)
}

// SetTime stores an instant.
func (s *Store) SetTime(ctx context.Context, key string, v time.Time) error {
	return setPref(ctx, s, key, v)
}

// HasPreference reports whether key was ever written.
func (s *Store) HasPreference(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	k := buildKey(prefixPref, key)
	defer releaseKey(k)
	return s.exists(k)
}

// DeletePreference removes a key. Removing a missing key is a no-op.
func (s *Store) DeletePreference(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := buildKey(prefixPref, key)
	defer releaseKey(k)
	return s.delete(k)
}

// ResetPreferences removes every preference, returning the account to a fresh
// free-tier state. Paired devices are kept.
func (s *Store) ResetPreferences(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.deletePrefix([]byte(prefixPref))
}
