package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache is the interface for tenant cache implementations.
//
// A miss is (nil, false, nil). Entries that fail to decode or have expired
// are misses, not errors; a non-nil error means the cache backend itself is
// unavailable and the resolver will surface ErrDependencyUnavailable.
type Cache interface {
	// Get retrieves a tenant from cache by key.
	Get(ctx context.Context, key string) (*Tenant, bool, error)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) error

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default maximum number of items in the in-memory cache.
const DefaultCacheSize = 1000

// memoryCache is the default in-process cache implementation.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]memoryEntry
	lru     []string
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

type memoryEntry struct {
	tenant    *Tenant
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache with automatic expiry cleanup.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory cache with a size limit.
// Least recently used entries are evicted once the limit is reached.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &memoryCache{
		items:   make(map[string]memoryEntry),
		lru:     make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.cleanup()

	return c
}

func (c *memoryCache) Get(_ context.Context, key string) (*Tenant, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		c.removeLRU(key)
		return nil, false, nil
	}

	c.updateLRU(key)

	return item.tenant, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, tenant *Tenant, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	c.items[key] = memoryEntry{
		tenant:    tenant,
		expiresAt: time.Now().Add(ttl),
	}
	c.updateLRU(key)

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	c.removeLRU(key)

	return nil
}

func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			c.removeLRU(key)
		}
	}
}

// updateLRU moves the key to the end of the LRU queue (most recently used).
func (c *memoryCache) updateLRU(key string) {
	for i, k := range c.lru {
		if k == key {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			break
		}
	}
	c.lru = append(c.lru, key)
}

func (c *memoryCache) removeLRU(key string) {
	for i, k := range c.lru {
		if k == key {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache disables caching entirely; every resolution goes to the store.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (noOpCache) Get(context.Context, string) (*Tenant, bool, error) { return nil, false, nil }

func (noOpCache) Set(context.Context, string, *Tenant, time.Duration) error { return nil }

func (noOpCache) Delete(context.Context, string) error { return nil }

func (noOpCache) Close() error { return nil }
