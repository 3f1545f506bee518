// Package resilience guards calls to the remote data backend.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	CircuitStateClosed CircuitState = iota
	CircuitStateOpen
	CircuitStateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitStateOpen:
		return "open"
	case CircuitStateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	// HalfOpenMaxReq is both the number of concurrent trials allowed after
	// the open timeout and the number of successes needed to close again.
	HalfOpenMaxReq int
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = 2
	}
	return c
}

// CircuitBreaker trips after FailureThreshold consecutive failures.
// A nil *CircuitBreaker lets every call through.
type CircuitBreaker struct {
	cfg   CircuitBreakerConfig
	clock func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openUntil time.Time
	trialing   int
	passed    int
}

// NewCircuitBreakerFromConfig returns nil when the breaker is disabled.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &CircuitBreaker{cfg: cfg.withDefaults(), clock: time.Now}
}

// Execute runs fn when the breaker admits it. Errors for which isFailure
// returns false, such as 4xx responses, count as successes.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error, isFailure func(error) bool) error {
	if b == nil {
		return fn(ctx)
	}

	trial, err := b.admit()
	if err != nil {
		return err
	}

	err = fn(ctx)
	b.settle(trial, err != nil && (isFailure == nil || isFailure(err)))
	return err
}

// State reports the state the next call would observe.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && !b.clock().Before(b.openUntil) {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) admit() (trial bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.clock().Before(b.openUntil) {
			return false, ErrCircuitOpen
		}
		b.state, b.trialing, b.passed = CircuitStateHalfOpen, 0, 0
	}
	if b.state != CircuitStateHalfOpen {
		return false, nil
	}
	if b.trialing >= b.cfg.HalfOpenMaxReq {
		return false, ErrCircuitOpen
	}
	b.trialing++
	return true, nil
}

func (b *CircuitBreaker) settle(trial, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if trial && b.trialing > 0 {
		b.trialing--
	}

	switch {
	case failed && (trial || b.state == CircuitStateHalfOpen):
		b.trip()
	case failed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case b.state == CircuitStateHalfOpen:
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq && b.trialing == 0 {
			b.state, b.failures, b.passed = CircuitStateClosed, 0, 0
		}
	default:
		b.failures = 0
	}
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.openUntil = b.clock().Add(b.cfg.OpenTimeout)
	b.trialing, b.passed = 0, 0
}
