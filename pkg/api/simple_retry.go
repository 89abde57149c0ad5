package api

import (
	"context"
	"math"
	"time"
)

// SimpleRetry retries a call with exponential backoff. Delay before retry n
// (0-based) is retryDelay * backoffMultiplier^n.
type SimpleRetry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
	classifier        ErrorClassifier
}

// NewSimpleRetry creates a retry policy doubling the delay on each attempt.
func NewSimpleRetry(maxRetries int, retryDelay time.Duration) *SimpleRetry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SimpleRetry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
		classifier:        NewProviderErrorClassifier(),
	}
}

// Execute runs fn until it succeeds, returns a non-retryable error, or the
// retries run out.
func (sr *SimpleRetry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= sr.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == sr.maxRetries {
			break
		}
		if sr.classifier.ShouldStopProcessing(err) {
			return err
		}

		delay := time.Duration(float64(sr.retryDelay) * math.Pow(sr.backoffMultiplier, float64(attempt)))
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Attempts is the maximum number of calls Execute makes.
func (sr *SimpleRetry) Attempts() int {
	return sr.maxRetries + 1
}
