package api

import (
	"context"
	"errors"
	"net/http"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	ErrorSeverityTemporary ErrorSeverity = iota // throttled, retry after backoff
	ErrorSeverityRetryable                      // transient failure, retry
	ErrorSeverityFatal                          // do not retry
)

// ErrorClassifier defines interface for error classification
type ErrorClassifier interface {
	ClassifyError(err error) ErrorSeverity
	ShouldStopProcessing(err error) bool
}

// ProviderErrorClassifier decides which trends provider failures are worth
// retrying. Throttling and server errors are; bad requests, undecodable
// bodies and cancellations are not.
type ProviderErrorClassifier struct{}

func NewProviderErrorClassifier() ErrorClassifier {
	return &ProviderErrorClassifier{}
}

// ClassifyError classifies error by severity level
func (c *ProviderErrorClassifier) ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityTemporary
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorSeverityFatal
	}
	if errors.Is(err, ErrNoPayload) || errors.Is(err, ErrNoKeywords) || errors.Is(err, ErrWidgetMissing) ||
		errors.Is(err, ErrCircuitOpen) {
		return ErrorSeverityFatal
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrorSeverityFatal
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusTooManyRequests:
			return ErrorSeverityTemporary
		case statusErr.Code >= 500:
			return ErrorSeverityRetryable
		default:
			return ErrorSeverityFatal
		}
	}

	// Transport failures: timeouts, resets, DNS
	return ErrorSeverityRetryable
}

// ShouldStopProcessing determines if retrying should be abandoned
func (c *ProviderErrorClassifier) ShouldStopProcessing(err error) bool {
	return c.ClassifyError(err) == ErrorSeverityFatal
}
