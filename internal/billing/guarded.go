package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerSettings trips after more than five consecutive provider errors and
// probes again after 30 seconds. A user cancel (false, nil) is a success.
func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	}
}

// GuardedPurchaser bounds a Purchaser with a timeout and circuit breaker.
type GuardedPurchaser struct {
	inner   Purchaser
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[bool]
	logger  *slog.Logger
}

// NewGuardedPurchaser wraps p. timeout applies to each call.
func NewGuardedPurchaser(p Purchaser, timeout time.Duration, logger *slog.Logger) *GuardedPurchaser {
	return &GuardedPurchaser{
		inner:   p,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker[bool](breakerSettings("purchase")),
		logger:  logger,
	}
}

// Purchase implements Purchaser.
func (g *GuardedPurchaser) Purchase(ctx context.Context) (bool, error) {
	return guard(ctx, g.breaker, g.timeout, g.logger, "purchase", g.inner.Purchase)
}

// Restore implements Purchaser.
func (g *GuardedPurchaser) Restore(ctx context.Context) (bool, error) {
	return guard(ctx, g.breaker, g.timeout, g.logger, "restore", g.inner.Restore)
}

// GuardedAds bounds an AdProvider with a timeout and circuit breaker.
type GuardedAds struct {
	inner   AdProvider
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[bool]
	logger  *slog.Logger
}

// NewGuardedAds wraps a.
func NewGuardedAds(a AdProvider, timeout time.Duration, logger *slog.Logger) *GuardedAds {
	return &GuardedAds{
		inner:   a,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker[bool](breakerSettings("rewarded_ad")),
		logger:  logger,
	}
}

// ShowRewardedAd implements AdProvider.
func (g *GuardedAds) ShowRewardedAd(ctx context.Context) (bool, error) {
	return guard(ctx, g.breaker, g.timeout, g.logger, "rewarded_ad", g.inner.ShowRewardedAd)
}

// IsReady reports false while the breaker is open.
func (g *GuardedAds) IsReady() bool {
	return g.breaker.State() != gobreaker.StateOpen && g.inner.IsReady()
}

type outcome struct {
	ok  bool
	err error
}

// guard runs fn under cb with a deadline. The result channel is buffered so a
// provider that answers after the deadline does not leak its goroutine, and
// its late answer is dropped.
func guard(
	ctx context.Context,
	cb *gobreaker.CircuitBreaker[bool],
	timeout time.Duration,
	logger *slog.Logger,
	op string,
	fn func(context.Context) (bool, error),
) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		ok, err := cb.Execute(func() (bool, error) {
			return fn(callCtx)
		})
		done <- outcome{ok: ok, err: err}
	}()

	select {
	case r := <-done:
		if errors.Is(r.err, gobreaker.ErrOpenState) || errors.Is(r.err, gobreaker.ErrTooManyRequests) {
			logWarn(logger, "billing provider circuit open", "op", op)
			return false, ErrUnavailable
		}
		if errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return false, ErrTimeout
		}
		if r.err != nil {
			return false, fmt.Errorf("%s: %w", op, r.err)
		}
		return r.ok, nil
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		logWarn(logger, "billing provider timed out", "op", op, "timeout", timeout)
		return false, ErrTimeout
	}
}

func logWarn(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
