package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errUnavailable = errors.New("postgrest unavailable")

func fail(context.Context) error { return errUnavailable }
func ok(context.Context) error   { return nil }

func newTestBreaker(threshold, trials int, now *time.Time) *CircuitBreaker {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   trials,
	})
	b.clock = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(2, 1, &now)
	ctx := context.Background()

	_ = b.Execute(ctx, fail, nil)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	_ = b.Execute(ctx, fail, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Execute(ctx, ok, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Execute(ctx, ok, nil); err != nil {
		t.Fatalf("expected trial to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful trial, got %s", state)
	}
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, 1, &now)
	ctx := context.Background()

	_ = b.Execute(ctx, fail, nil)
	now = now.Add(6 * time.Second)
	_ = b.Execute(ctx, fail, nil)

	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed trial, got %s", state)
	}
	now = now.Add(time.Second)
	if err := b.Execute(ctx, ok, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open timeout to restart from the failed trial, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenLimitsConcurrentTrials(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, 1, &now)
	ctx := context.Background()

	_ = b.Execute(ctx, fail, nil)
	now = now.Add(6 * time.Second)

	err := b.Execute(ctx, func(ctx context.Context) error {
		if err := b.Execute(ctx, ok, nil); !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("expected second trial to be rejected, got %v", err)
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("first trial: %v", err)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, 1, &now)
	errBadRequest := errors.New("bad request")
	isFailure := func(err error) bool { return !errors.Is(err, errBadRequest) }

	err := b.Execute(context.Background(), func(context.Context) error { return errBadRequest }, isFailure)
	if !errors.Is(err, errBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after non-failure error, got %s", state)
	}

	_ = b.Execute(context.Background(), fail, isFailure)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failure, got %s", state)
	}

	called := false
	err = b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	}, isFailure)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open circuit to short-circuit, err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_DisabledAllowsEverything(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	for i := 0; i < 10; i++ {
		if err := b.Execute(context.Background(), fail, nil); !errors.Is(err, errUnavailable) {
			t.Fatalf("expected call to run, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, got %s", state)
	}
}

func TestCircuitStateString(t *testing.T) {
	if CircuitStateHalfOpen.String() != "half_open" || CircuitStateOpen.String() != "open" || CircuitStateClosed.String() != "closed" {
		t.Fatalf("unexpected state names")
	}
}
