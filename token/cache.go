package token

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultExpiryBuffer is how long before the server-reported expiry a cached
// record is treated as expired, to avoid racing the server's clock.
const DefaultExpiryBuffer = time.Minute

// Cache holds at most one Record per credential key. All expiry judgement
// lives here so there is exactly one invalidation policy; callers never do
// wall-clock math against ExpiresAt themselves.
//
// The cache is safe for concurrent use. Refreshes for the same key are
// deduplicated: while one fetch is in flight, other callers for that key wait
// for and share its result.
type Cache struct {
	buffer  time.Duration
	nowTime func() time.Time // injectable for testing

	mu      sync.RWMutex
	records map[string]Record

	group singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithExpiryBuffer sets the safety window subtracted from each record's
// expiry. Negative values are treated as zero.
func WithExpiryBuffer(buffer time.Duration) CacheOption {
	return func(c *Cache) {
		if buffer < 0 {
			buffer = 0
		}
		c.buffer = buffer
	}
}

// WithNowTime sets the clock function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowTime = nowFunc
	}
}

// NewCache creates an empty cache with the default one-minute expiry buffer.
func NewCache(options ...CacheOption) *Cache {
	cache := &Cache{
		buffer:  DefaultExpiryBuffer,
		nowTime: time.Now,
		records: make(map[string]Record),
	}
	for _, opt := range options {
		opt(cache)
	}
	return cache
}

// Get returns the record for key only while it is still valid under the
// safety buffer. Expired or missing records report ok=false; a stale record
// is never handed out.
func (c *Cache) Get(key string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[key]
	if !ok || !c.valid(record) {
		return Record{}, false
	}
	return record, true
}

// Put replaces the record for key unconditionally.
func (c *Cache) Put(key string, record Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[key] = record
}

// Invalidate clears the record for key unconditionally.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, key)
}

// GetOrRefresh returns the cached record for key, running fetch to obtain a
// fresh one on a miss. Concurrent callers for the same key during a refresh
// share the single in-flight fetch rather than issuing their own.
//
// A fetch failure leaves the cache untouched; the previous entry (already
// judged expired) is not resurrected and the error is returned as-is.
func (c *Cache) GetOrRefresh(ctx context.Context, key string, fetch func(ctx context.Context) (Record, error)) (Record, error) {
	if record, ok := c.Get(key); ok {
		return record, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Double-check after winning the flight; a concurrent refresh may
		// have already stored a fresh record.
		if record, ok := c.Get(key); ok {
			return record, nil
		}

		record, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Put(key, record)
		return record, nil
	})
	if err != nil {
		return Record{}, err
	}
	return result.(Record), nil
}

func (c *Cache) valid(record Record) bool {
	if record.IsZero() {
		return false
	}
	return c.nowTime().Before(record.ExpiresAt.Add(-c.buffer))
}
