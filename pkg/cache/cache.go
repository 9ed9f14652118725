package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// ReportCache stores rendered analysis reports keyed by input text.
// Implementations must be safe for concurrent use.
type ReportCache interface {
	// Set stores a value with an optional TTL (time-to-live)
	// If ttl is 0, the entry only leaves the cache by eviction
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetBytes retrieves a value, or ErrCacheKeyNotFound
	GetBytes(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string) error

	// Len returns the number of live entries
	Len() int

	// Ping checks if the cache is available
	Ping(ctx context.Context) error

	// Close releases the cache
	Close() error
}

// Key derives the cache key for an input text
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "report:" + hex.EncodeToString(sum[:])
}

// NoOpCache is a cache implementation that does nothing (caching disabled)
type NoOpCache struct{}

func (c *NoOpCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheKeyNotFound
}

func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NoOpCache) Len() int {
	return 0
}

func (c *NoOpCache) Ping(ctx context.Context) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process LRU with per-entry TTL.
// Nothing is written outside the process.
type MemoryCache struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List // front = most recently used
	items      map[string]*list.Element
	closed     bool
	now        func() time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries values
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryCache{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = stored
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return nil
	}

	c.items[key] = c.order.PushFront(&memoryEntry{key: key, value: stored, expiresAt: expiresAt})
	for c.order.Len() > c.maxEntries {
		c.removeLocked(c.order.Back())
	}
	return nil
}

func (c *MemoryCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	el, ok := c.items[key]
	if !ok {
		return nil, ErrCacheKeyNotFound
	}
	entry := el.Value.(*memoryEntry)
	if c.expiredLocked(entry) {
		c.removeLocked(el)
		return nil, ErrCacheKeyNotFound
	}

	c.order.MoveToFront(el)
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, el := range c.items {
		if !c.expiredLocked(el.Value.(*memoryEntry)) {
			n++
		}
	}
	return n
}

func (c *MemoryCache) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}
	return nil
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.order.Init()
	c.items = make(map[string]*list.Element)
	return nil
}

func (c *MemoryCache) expiredLocked(e *memoryEntry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

func (c *MemoryCache) removeLocked(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.order.Remove(el)
}
