package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestProviderErrorClassifier_ClassifyError(t *testing.T) {
	classifier := NewProviderErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected ErrorSeverity
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: ErrorSeverityTemporary,
		},
		{
			name:     "rate limited",
			err:      &StatusError{Endpoint: "explore", Code: 429},
			expected: ErrorSeverityTemporary,
		},
		{
			name:     "wrapped rate limit",
			err:      fmt.Errorf("explore: %w", &StatusError{Endpoint: "explore", Code: 429}),
			expected: ErrorSeverityTemporary,
		},
		{
			name:     "server error",
			err:      &StatusError{Endpoint: "multiline", Code: 502},
			expected: ErrorSeverityRetryable,
		},
		{
			name:     "bad request",
			err:      &StatusError{Endpoint: "comparedgeo", Code: 400},
			expected: ErrorSeverityFatal,
		},
		{
			name:     "forbidden",
			err:      &StatusError{Endpoint: "explore", Code: 403},
			expected: ErrorSeverityFatal,
		},
		{
			name:     "parse error",
			err:      &ParseError{Endpoint: "explore", Err: errors.New("unexpected end of JSON input")},
			expected: ErrorSeverityFatal,
		},
		{
			name:     "missing payload",
			err:      ErrNoPayload,
			expected: ErrorSeverityFatal,
		},
		{
			name:     "missing widget",
			err:      fmt.Errorf("interest over time: %w", ErrWidgetMissing),
			expected: ErrorSeverityFatal,
		},
		{
			name:     "circuit open",
			err:      ErrCircuitOpen,
			expected: ErrorSeverityFatal,
		},
		{
			name:     "context cancelled",
			err:      context.Canceled,
			expected: ErrorSeverityFatal,
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			expected: ErrorSeverityFatal,
		},
		{
			name:     "network error",
			err:      errors.New("dial tcp: connection refused"),
			expected: ErrorSeverityRetryable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.ClassifyError(tt.err)
			if result != tt.expected {
				t.Errorf("ClassifyError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestProviderErrorClassifier_ShouldStopProcessing(t *testing.T) {
	classifier := NewProviderErrorClassifier()

	if !classifier.ShouldStopProcessing(&StatusError{Code: 404}) {
		t.Error("404 should stop processing")
	}
	if classifier.ShouldStopProcessing(&StatusError{Code: 429}) {
		t.Error("429 should be retried")
	}
	if classifier.ShouldStopProcessing(errors.New("i/o timeout")) {
		t.Error("timeouts should be retried")
	}
}
