// Package resilience protects calls to the external lint engine process
// from repeated failure, so a crashing or misconfigured linter binary
// cannot make every keystroke pay for a fresh process-spawn timeout.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker implements a circuit breaker for protecting the lint engine. It
// tracks consecutive failures and opens the circuit once a threshold is
// reached, rejecting further lint invocations until a timeout elapses.
type Breaker struct {
	mu          sync.Mutex
	state       state
	failures    int
	maxFailures int
	timeout     time.Duration
	openedAt    time.Time
	now         func() time.Time // for testing

	// OnTrip, if set, is called (outside the lock) whenever the circuit
	// transitions from closed/half-open to open.
	OnTrip func()
}

// NewBreaker creates a circuit breaker that opens after maxFailures
// consecutive failures and stays open for the given timeout before
// transitioning to half-open.
func NewBreaker(maxFailures int, timeout time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Execute runs fn if the circuit is closed or half-open. Returns
// ErrCircuitOpen without calling fn if the circuit is open. Execute does not
// inspect ctx itself: any error fn returns, including one caused by ctx
// being cancelled, is recorded against the breaker as a failure.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	tripped, allowed := b.allowRequest()
	if !allowed {
		return ErrCircuitOpen
	}
	_ = tripped

	err := fn(ctx)

	b.mu.Lock()
	var justTripped bool
	if err != nil {
		justTripped = b.onFailure()
	} else {
		b.onSuccess()
	}
	b.mu.Unlock()

	if justTripped && b.OnTrip != nil {
		b.OnTrip()
	}

	if err != nil {
		return err
	}
	return nil
}

func (b *Breaker) allowRequest() (wasOpen bool, allowed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return false, true
	case stateOpen:
		if b.now().Sub(b.openedAt) >= b.timeout {
			b.state = stateHalfOpen
			return true, true
		}
		return true, false
	case stateHalfOpen:
		return false, true
	}
	return false, false
}

// onFailure must be called with b.mu held. Returns true if this call tripped
// the breaker open.
func (b *Breaker) onFailure() bool {
	b.failures++
	if b.state != stateOpen && (b.state == stateHalfOpen || b.failures >= b.maxFailures) {
		b.state = stateOpen
		b.openedAt = b.now()
		return true
	}
	return false
}

// onSuccess must be called with b.mu held.
func (b *Breaker) onSuccess() {
	b.failures = 0
	b.state = stateClosed
}
