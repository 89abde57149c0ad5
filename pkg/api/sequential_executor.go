package api

import (
	"context"
	"sync"
)

// SequentialExecutor runs functions one at a time. The provider session holds
// the current payload, so a build-then-fetch cycle must not interleave with
// another one.
type SequentialExecutor struct {
	mu sync.Mutex
}

func NewSequentialExecutor() *SequentialExecutor {
	return &SequentialExecutor{}
}

// Execute waits for any running function to finish, then runs fn.
func (se *SequentialExecutor) Execute(ctx context.Context, fn func() error) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return fn()
}
