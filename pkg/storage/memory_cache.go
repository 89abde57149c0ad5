package storage

import (
	"container/list"
	"sync"
	"time"
)

// cacheItem represents an item in the cache
type cacheItem struct {
	key       string
	value     interface{}
	timestamp time.Time
	element   *list.Element
}

// MemoryCache implements an LRU cache with TTL support. Reads refresh an
// item's timestamp, so the TTL measures idle time.
type MemoryCache struct {
	maxSize int
	items   map[string]*cacheItem
	lruList *list.List
	mu      sync.RWMutex
	ttl     time.Duration
	onEvict func(key string, value interface{})

	stop     chan struct{}
	stopOnce sync.Once
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a new in-memory cache with specified size
func NewMemoryCache(maxSize int) *MemoryCache {
	return NewMemoryCacheWithTTL(maxSize, 0)
}

// NewMemoryCacheWithTTL creates a new in-memory cache with TTL. A cleanup
// goroutine runs until Close when ttl is positive.
func NewMemoryCacheWithTTL(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize < 1 {
		maxSize = 1
	}
	cache := &MemoryCache{
		maxSize: maxSize,
		items:   make(map[string]*cacheItem),
		lruList: list.New(),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}

	if ttl > 0 {
		go cache.cleanupRoutine()
	}

	return cache
}

// OnEvict registers a callback for items removed by LRU eviction or expiry.
// It runs with the cache lock held and must not call back into the cache.
func (mc *MemoryCache) OnEvict(fn func(key string, value interface{})) {
	mc.mu.Lock()
	mc.onEvict = fn
	mc.mu.Unlock()
}

// Set adds or updates an item in the cache
func (mc *MemoryCache) Set(key string, value interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()

	if item, exists := mc.items[key]; exists {
		item.value = value
		item.timestamp = now
		mc.lruList.MoveToFront(item.element)
		return nil
	}

	item := &cacheItem{
		key:       key,
		value:     value,
		timestamp: now,
	}
	item.element = mc.lruList.PushFront(item)
	mc.items[key] = item

	if len(mc.items) > mc.maxSize {
		mc.evictOldest()
	}

	return nil
}

// Get retrieves an item from the cache
func (mc *MemoryCache) Get(key string) (interface{}, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		return nil, false
	}

	if mc.ttl > 0 && time.Since(item.timestamp) > mc.ttl {
		mc.evict(item)
		return nil, false
	}

	item.timestamp = time.Now()
	mc.lruList.MoveToFront(item.element)

	return item.value, true
}

// Delete removes an item from the cache
func (mc *MemoryCache) Delete(key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if item, exists := mc.items[key]; exists {
		mc.deleteItem(item)
	}

	return nil
}

// Clear removes all items from the cache
func (mc *MemoryCache) Clear() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*cacheItem)
	mc.lruList = list.New()

	return nil
}

// Size returns the current number of items in the cache
func (mc *MemoryCache) Size() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.items)
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() CacheStats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return CacheStats{
		Size:    len(mc.items),
		MaxSize: mc.maxSize,
		TTL:     mc.ttl,
	}
}

// Close stops the cleanup goroutine.
func (mc *MemoryCache) Close() {
	mc.stopOnce.Do(func() { close(mc.stop) })
}

// evictOldest removes the least recently used item
func (mc *MemoryCache) evictOldest() {
	element := mc.lruList.Back()
	if element != nil {
		mc.evict(element.Value.(*cacheItem))
	}
}

func (mc *MemoryCache) evict(item *cacheItem) {
	mc.deleteItem(item)
	if mc.onEvict != nil {
		mc.onEvict(item.key, item.value)
	}
}

// deleteItem removes an item from both map and list
func (mc *MemoryCache) deleteItem(item *cacheItem) {
	delete(mc.items, item.key)
	mc.lruList.Remove(item.element)
}

// cleanupRoutine periodically removes expired items
func (mc *MemoryCache) cleanupRoutine() {
	ticker := time.NewTicker(mc.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stop:
			return
		case <-ticker.C:
			mc.cleanupExpired()
		}
	}
}

// cleanupExpired removes all expired items
func (mc *MemoryCache) cleanupExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.ttl == 0 {
		return
	}

	now := time.Now()
	var expiredItems []*cacheItem
	for _, item := range mc.items {
		if now.Sub(item.timestamp) > mc.ttl {
			expiredItems = append(expiredItems, item)
		}
	}

	for _, item := range expiredItems {
		mc.evict(item)
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	TTL     time.Duration `json:"ttl"`
}
