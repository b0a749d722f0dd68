package billing

import (
	"context"
	"sync/atomic"
	"time"
)

// SimulatedPurchaser stands in for a store SDK. By default every purchase
// succeeds and restores find nothing.
type SimulatedPurchaser struct {
	PurchaseResult bool
	RestoreResult  bool
	Err            error
	Delay          time.Duration

	calls atomic.Int64
}

// NewSimulatedPurchaser returns a purchaser whose purchases succeed.
func NewSimulatedPurchaser() *SimulatedPurchaser {
	return &SimulatedPurchaser{PurchaseResult: true}
}

// Purchase implements Purchaser.
func (p *SimulatedPurchaser) Purchase(ctx context.Context) (bool, error) {
	p.calls.Add(1)
	if err := wait(ctx, p.Delay); err != nil {
		return false, err
	}
	return p.PurchaseResult, p.Err
}

// Restore implements Purchaser.
func (p *SimulatedPurchaser) Restore(ctx context.Context) (bool, error) {
	p.calls.Add(1)
	if err := wait(ctx, p.Delay); err != nil {
		return false, err
	}
	return p.RestoreResult, p.Err
}

// Calls reports how many times the provider was invoked.
func (p *SimulatedPurchaser) Calls() int { return int(p.calls.Load()) }

// SimulatedAds stands in for an ad network SDK.
type SimulatedAds struct {
	// Completed decides whether the simulated viewer finishes the ad.
	Completed bool
	// NotReady makes IsReady report false, as when no ad is loaded.
	NotReady bool
	Err      error
	Delay    time.Duration

	calls atomic.Int64
}

// NewSimulatedAds returns an ad provider. completed controls whether shown
// ads count as watched.
func NewSimulatedAds(completed bool) *SimulatedAds {
	return &SimulatedAds{Completed: completed}
}

// ShowRewardedAd implements AdProvider.
func (a *SimulatedAds) ShowRewardedAd(ctx context.Context) (bool, error) {
	a.calls.Add(1)
	if err := wait(ctx, a.Delay); err != nil {
		return false, err
	}
	return a.Completed, a.Err
}

// IsReady implements AdProvider.
func (a *SimulatedAds) IsReady() bool { return !a.NotReady }

// Calls reports how many ads were requested.
func (a *SimulatedAds) Calls() int { return int(a.calls.Load()) }

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
