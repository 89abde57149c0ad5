package api

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the provider is being left alone after
// repeated throttling or server failures.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker stops calls after maxFailures consecutive counted
// failures and lets a single probe through once resetTimeout has passed;
// other callers are rejected while the probe is in flight.
// Only errors the classifier does not consider fatal are counted, so a bad
// keyword cannot open the circuit.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	classifier   ErrorClassifier
	now          func() time.Time

	mu           sync.Mutex
	state        CircuitState
	probing      bool
	failures     int
	lastFailTime time.Time
}

// NewCircuitBreaker returns a breaker. maxFailures <= 0 disables it.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		classifier:   NewProviderErrorClassifier(),
		now:          time.Now,
		state:        StateClosed,
	}
}

// Execute runs fn unless the circuit is open or ctx is already done.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cb.canExecute(); err != nil {
		return err
	}

	err := fn()
	cb.recordResult(err)
	return err
}

func (cb *CircuitBreaker) canExecute() error {
	if cb == nil || cb.maxFailures <= 0 {
		return nil
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailTime) < cb.resetTimeout {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.probing = true
	case StateHalfOpen:
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
	}
	return nil
}

func (cb *CircuitBreaker) recordResult(err error) {
	if cb == nil || cb.maxFailures <= 0 {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false

	switch {
	case err == nil:
		cb.state = StateClosed
		cb.failures = 0
	case !cb.classifier.ShouldStopProcessing(err):
		cb.failures++
		cb.lastFailTime = cb.now()
		if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = StateOpen
		}
	case cb.state == StateClosed:
		cb.failures = 0
	}
	// A fatal error during a probe leaves the circuit half-open for the next caller.
}

func (cb *CircuitBreaker) State() CircuitState {
	if cb == nil {
		return StateClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
