package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ecocompare/backend/internal/domain"
)

// cleanupInterval is how often expired entries are swept
const cleanupInterval = 10 * time.Minute

// cacheItem represents a single encoded snapshot with expiration
type cacheItem struct {
	value      []byte
	expiration time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return now.After(i.expiration)
}

// MemoryCache is a thread-safe in-memory cache with TTL support. Values are
// copied on the way in and out so callers never share backing arrays.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache and starts its sweeper.
// Call Close to stop the sweeper.
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || item.expired(c.now()) {
		return nil, domain.ErrCacheMiss
	}

	return append([]byte(nil), item.value...), nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:      append([]byte(nil), value...),
		expiration: c.now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}
	return !item.expired(c.now()), nil
}

// Close stops the background sweeper. The cache stays usable.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if item.expired(now) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
