package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache stores rendered exports keyed by a content hash.
// Values are opaque bytes so that remote backends can hold them as-is.
type Cache interface {
	// Get returns the value and true when the key is present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value for ttl. A zero ttl keeps the value until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Close releases background goroutines or connections.
	Close() error
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend
type Options struct {
	Backend         string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	KeyPrefix       string
	CleanupInterval time.Duration
}

// New builds the cache described by opts. The Redis backend is pinged once so
// that a bad address fails at startup rather than on the first export.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		interval := opts.CleanupInterval
		if interval <= 0 {
			interval = time.Minute
		}
		return NewInMemoryCache(interval), nil
	case BackendRedis:
		rc, err := ConnectRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(rc, opts.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

type cacheItem struct {
	value      []byte
	expiration time.Time
}

func (item *cacheItem) isExpired(now time.Time) bool {
	return !item.expiration.IsZero() && now.After(item.expiration)
}

// InMemoryCache is a process-local Cache with periodic eviction of expired entries
type InMemoryCache struct {
	items           map[string]*cacheItem
	mu              sync.RWMutex
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
	now             func() time.Time
}

// NewInMemoryCache starts a cache whose expired entries are swept every cleanupInterval
func NewInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	c := &InMemoryCache{
		items:           make(map[string]*cacheItem),
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
		now:             time.Now,
	}
	go c.startCleanup()
	return c
}

func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.isExpired(c.now()) {
		return nil, false, nil
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, true, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	item := &cacheItem{value: stored}
	if ttl > 0 {
		item.expiration = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Size counts stored entries, including expired ones not yet swept
func (c *InMemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *InMemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *InMemoryCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *InMemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if item.isExpired(now) {
			delete(c.items, key)
		}
	}
}
