package sync

import (
	"context"
	"strings"
	stdsync "sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// SizingEntry is the cached actual value of one category's sizing constant.
// Entries are replaced, never modified.
type SizingEntry struct {
	// Value is the sizing constant as last read from or written to the target.
	Value int
	// Built is the timestamp when this entry was stored.
	Built time.Time
	// TTL is the time-to-live for this entry.
	TTL time.Duration
}

// IsExpired returns true if this entry has expired based on its TTL.
func (e *SizingEntry) IsExpired() bool {
	if e.TTL <= 0 {
		return false // Kept for the session
	}
	return time.Since(e.Built) > e.TTL
}

// SizingCache holds the actual sizing values read from the target, keyed by category.
type SizingCache struct {
	mu      stdsync.RWMutex
	entries map[string]*SizingEntry
	sf      singleflight.Group
	ttl     time.Duration
}

// NewSizingCache creates a cache whose entries live for ttl. With a zero ttl entries
// live until replaced or invalidated.
func NewSizingCache(ttl time.Duration) *SizingCache {
	return &SizingCache{entries: make(map[string]*SizingEntry), ttl: ttl}
}

// GetOrLoad returns the cached value of a category, or calls load when the entry
// is missing or expired. Concurrent loads of one category share a single call.
func (c *SizingCache) GetOrLoad(ctx context.Context, category string, load func(context.Context) (int, error)) (int, error) {
	key := strings.ToLower(category)

	// Fast path: check if entry exists and is fresh
	if e, ok := c.lookup(key); ok {
		return e.Value, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if e, ok := c.lookup(key); ok {
			return e.Value, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(category, value)
		return value, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// Set stores a value written to the target so later reads skip the target.
func (c *SizingCache) Set(category string, value int) {
	entry := &SizingEntry{Value: value, Built: time.Now(), TTL: c.ttl}
	c.mu.Lock()
	c.entries[strings.ToLower(category)] = entry
	c.mu.Unlock()
}

// Invalidate removes the entry of a category.
func (c *SizingCache) Invalidate(category string) {
	c.mu.Lock()
	delete(c.entries, strings.ToLower(category))
	c.mu.Unlock()
}

func (c *SizingCache) lookup(key string) (*SizingEntry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.IsExpired() {
		return nil, false
	}
	return e, true
}
