package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)
	throttled := &StatusError{Endpoint: "explore", Code: 429}

	for i := 0; i < 2; i++ {
		_ = cb.Execute(context.Background(), func() error { return throttled })
	}
	if cb.State() != StateOpen {
		t.Fatalf("Expected open circuit, got %v", cb.State())
	}

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Errorf("Open circuit should reject calls, got err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_IgnoresFatalErrors(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	_ = cb.Execute(context.Background(), func() error { return &StatusError{Code: 400} })
	_ = cb.Execute(context.Background(), func() error { return ErrNoPayload })

	if cb.State() != StateClosed {
		t.Errorf("Client errors should not open the circuit, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = cb.Execute(context.Background(), func() error { return errors.New("connection reset") })
	if cb.State() != StateOpen {
		t.Fatalf("Expected open circuit, got %v", cb.State())
	}

	now = now.Add(2 * time.Minute)
	if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("Probe should be allowed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("Successful probe should close the circuit, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenAllowsSingleProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = cb.Execute(context.Background(), func() error { return &StatusError{Code: 503} })
	now = now.Add(2 * time.Minute)

	var concurrent error
	err := cb.Execute(context.Background(), func() error {
		concurrent = cb.Execute(context.Background(), func() error { return nil })
		return nil
	})
	if err != nil {
		t.Fatalf("Probe should run: %v", err)
	}
	if !errors.Is(concurrent, ErrCircuitOpen) {
		t.Errorf("Second caller during probe should get ErrCircuitOpen, got %v", concurrent)
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected closed circuit after probe, got %v", cb.State())
	}
}

func TestCircuitBreaker_FatalProbeStaysHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = cb.Execute(context.Background(), func() error { return &StatusError{Code: 503} })
	now = now.Add(2 * time.Minute)
	_ = cb.Execute(context.Background(), func() error { return context.Canceled })

	if cb.State() != StateHalfOpen {
		t.Fatalf("Expected half-open circuit, got %v", cb.State())
	}
	if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("Next probe should be allowed: %v", err)
	}
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("Cancelled context should skip the call, got err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_Disabled(t *testing.T) {
	cb := NewCircuitBreaker(0, time.Minute)
	for i := 0; i < 10; i++ {
		_ = cb.Execute(context.Background(), func() error { return errors.New("boom") })
	}
	if cb.State() != StateClosed {
		t.Errorf("Disabled breaker should stay closed, got %v", cb.State())
	}
}
