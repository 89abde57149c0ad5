package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimpleRetry_Success(t *testing.T) {
	retry := NewSimpleRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &StatusError{Endpoint: "explore", Code: 503}
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestSimpleRetry_MaxRetriesExceeded(t *testing.T) {
	retry := NewSimpleRetry(2, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return &StatusError{Endpoint: "multiline", Code: 429}
	})

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 3 { // 1 initial + 2 retries
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if retry.Attempts() != 3 {
		t.Errorf("Expected Attempts() == 3, got %d", retry.Attempts())
	}
}

func TestSimpleRetry_NonRetryableError(t *testing.T) {
	retry := NewSimpleRetry(3, 10*time.Millisecond)

	tests := []struct {
		name string
		err  error
	}{
		{"bad request", &StatusError{Endpoint: "explore", Code: 400}},
		{"undecodable body", &ParseError{Endpoint: "explore", Err: errors.New("bad json")}},
		{"no payload", ErrNoPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := retry.Execute(context.Background(), func() error {
				attempts++
				return tt.err
			})
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
			if attempts != 1 {
				t.Errorf("Expected 1 attempt, got %d", attempts)
			}
		})
	}
}

func TestSimpleRetry_BackoffGrows(t *testing.T) {
	retry := NewSimpleRetry(2, 20*time.Millisecond)

	var stamps []time.Time
	_ = retry.Execute(context.Background(), func() error {
		stamps = append(stamps, time.Now())
		return errors.New("connection reset")
	})

	if len(stamps) != 3 {
		t.Fatalf("Expected 3 attempts, got %d", len(stamps))
	}
	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	if first < 20*time.Millisecond {
		t.Errorf("First delay too short: %v", first)
	}
	if second < 40*time.Millisecond {
		t.Errorf("Second delay should double, got %v", second)
	}
}

func TestSimpleRetry_ContextCancellation(t *testing.T) {
	retry := NewSimpleRetry(3, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := retry.Execute(ctx, func() error {
		return errors.New("some error")
	})

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
