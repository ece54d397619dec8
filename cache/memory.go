package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a map-backed AnswerCache for tests and ephemeral runs.
type MemoryCache struct {
	mu      sync.RWMutex
	records map[string]Record
	ttl     time.Duration
	now     func() time.Time
	closed  bool
}

var _ AnswerCache = (*MemoryCache)(nil)

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMemoryTTL sets the answer lifetime.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMemoryClock overrides the time source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		records: make(map[string]Record),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(ctx context.Context, fingerprint, query string) (Record, bool, error) {
	if fingerprint == "" || query == "" {
		return Record{}, false, ErrEmptyKey
	}

	key := string(makeKey(fingerprint, query))

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return Record{}, false, ErrClosed
	}
	record, ok := c.records[key]
	c.mu.RUnlock()

	if !ok {
		return Record{}, false, nil
	}
	if record.Expired(c.now()) {
		c.mu.Lock()
		delete(c.records, key)
		c.mu.Unlock()
		return Record{}, false, nil
	}
	return record, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, fingerprint, query string, record Record) error {
	if fingerprint == "" || query == "" {
		return ErrEmptyKey
	}

	record.ExpiresAt = c.now().Add(c.ttl).UTC()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.records[string(makeKey(fingerprint, query))] = record
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, fingerprint, query string) error {
	if fingerprint == "" || query == "" {
		return ErrEmptyKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	delete(c.records, string(makeKey(fingerprint, query)))
	return nil
}

// Len returns the number of live records. Expired but unreclaimed
// records are counted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.records = nil
	return nil
}
