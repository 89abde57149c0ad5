package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"trends-go/pkg/monitor"
)

const (
	DefaultMaxSessions = 1000
	DefaultSessionTTL  = 2 * time.Hour
)

// SessionStore gives every browser session its own ResultSlot. Idle
// sessions expire after the TTL and the least recently used ones are
// evicted beyond MaxSessions.
type SessionStore struct {
	cache *MemoryCache
	mu    sync.Mutex
}

func NewSessionStore(maxSessions int, ttl time.Duration) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	cache := NewMemoryCacheWithTTL(maxSessions, ttl)
	cache.OnEvict(func(string, interface{}) {
		monitor.ActiveSessions.Dec()
	})
	return &SessionStore{cache: cache}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like an identifier NewSessionID
// produced.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Slot returns the slot for id, creating an empty one on first use.
func (s *SessionStore) Slot(id string) *ResultSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		return v.(*ResultSlot)
	}
	slot := NewResultSlot()
	_ = s.cache.Set(id, slot)
	monitor.ActiveSessions.Inc()
	return slot
}

// Lookup returns the slot for id without creating one.
func (s *SessionStore) Lookup(id string) (*ResultSlot, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*ResultSlot), true
}

// Latest returns the most recent result stored for id, or nil.
func (s *SessionStore) Latest(id string) *AnalysisResult {
	slot, ok := s.Lookup(id)
	if !ok {
		return nil
	}
	return slot.Load()
}

func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache.Get(id); ok {
		_ = s.cache.Delete(id)
		monitor.ActiveSessions.Dec()
	}
}

func (s *SessionStore) Len() int {
	return s.cache.Size()
}

func (s *SessionStore) Close() {
	s.cache.Close()
}
