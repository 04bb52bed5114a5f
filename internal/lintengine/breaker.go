package lintengine

import (
	"context"
	"time"

	"github.com/strob0t/ruffls/internal/check"
	"github.com/strob0t/ruffls/internal/resilience"
)

// BreakerEngine wraps an Engine with a circuit breaker, so a crashing or
// hanging lint binary stops being retried on every keystroke once it has
// failed maxFailures times in a row.
type BreakerEngine struct {
	inner   Engine
	breaker *resilience.Breaker
}

// NewBreakerEngine wraps inner with a breaker that opens after maxFailures
// consecutive failures and stays open for resetAfter before probing again.
func NewBreakerEngine(inner Engine, maxFailures int, resetAfter time.Duration) *BreakerEngine {
	return &BreakerEngine{
		inner:   inner,
		breaker: resilience.NewBreaker(maxFailures, resetAfter),
	}
}

// Lint delegates to the wrapped engine through the breaker. When the circuit
// is open, it returns resilience.ErrCircuitOpen instead of invoking the
// engine, so a busy-looping crashed linter cannot monopolize the scheduler's
// worker pool.
func (e *BreakerEngine) Lint(ctx context.Context, path, source string) ([]check.Check, error) {
	var result []check.Check
	err := e.breaker.Execute(ctx, func(ctx context.Context) error {
		checks, lintErr := e.inner.Lint(ctx, path, source)
		result = checks
		return lintErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OnTrip registers a callback invoked whenever the breaker trips open.
func (e *BreakerEngine) OnTrip(fn func()) {
	e.breaker.OnTrip = fn
}
