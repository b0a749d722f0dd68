// Package billing abstracts the in-app purchase and rewarded-ad providers.
//
// Providers are external and may hang, fail or be cancelled by the user. The
// Guarded wrappers bound every call with a timeout, resolve it exactly once
// and trip a circuit breaker after repeated failures.
package billing

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned when a provider does not answer in time.
	ErrTimeout = errors.New("billing provider timed out")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("billing provider unavailable")
)

// Purchaser buys and restores the premium entitlement.
// A false result with a nil error means the user cancelled or nothing was
// found to restore.
type Purchaser interface {
	Purchase(ctx context.Context) (bool, error)
	Restore(ctx context.Context) (bool, error)
}

// AdProvider shows rewarded ads. ShowRewardedAd returns true only when the
// user watched the ad to completion.
type AdProvider interface {
	ShowRewardedAd(ctx context.Context) (bool, error)
	IsReady() bool
}
