package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DatasetPair holds a loaded source and target for repeated reconciliation.
type DatasetPair[R any] struct {
	// Source is the loaded source dataset.
	Source Dataset[R]

	// Target is the loaded target dataset.
	Target Dataset[R]

	// Built is the timestamp when this pair was loaded.
	Built time.Time

	// TTL is the time-to-live for this pair.
	TTL time.Duration
}

// IsExpired returns true if this pair has expired based on its TTL.
func (p *DatasetPair[R]) IsExpired() bool {
	if p.TTL == 0 {
		return true // No caching
	}
	return time.Since(p.Built) > p.TTL
}

// LoadFunc loads a source and target dataset.
type LoadFunc[R any] func(ctx context.Context) (source, target Dataset[R], err error)

// Cache holds loaded dataset pairs keyed by caller-chosen strings, typically
// the two input locations.
type Cache[R any] struct {
	ttl   time.Duration
	mu    sync.RWMutex
	pairs map[string]*DatasetPair[R]
	sf    singleflight.Group
}

// NewCache creates a cache whose entries live for ttl. A zero ttl disables
// caching: every Get loads afresh, though concurrent loads of the same key
// are still collapsed.
func NewCache[R any](ttl time.Duration) *Cache[R] {
	return &Cache[R]{
		ttl:   ttl,
		pairs: make(map[string]*DatasetPair[R]),
	}
}

// Get retrieves the pair for key, or loads it if absent or expired.
// Uses singleflight to prevent stampedes.
func (c *Cache[R]) Get(ctx context.Context, key string, load LoadFunc[R]) (*DatasetPair[R], error) {
	// Fast path: check if pair exists and is fresh
	c.mu.RLock()
	pair, exists := c.pairs[key]
	c.mu.RUnlock()

	if exists && !pair.IsExpired() {
		return pair, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		pair, exists := c.pairs[key]
		c.mu.RUnlock()

		if exists && !pair.IsExpired() {
			return pair, nil
		}

		source, target, err := load(ctx)
		if err != nil {
			return nil, err
		}

		newPair := &DatasetPair[R]{
			Source: source,
			Target: target,
			Built:  time.Now(),
			TTL:    c.ttl,
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.pairs[key] = newPair
			c.mu.Unlock()
		}

		return newPair, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*DatasetPair[R]), nil
}

// Invalidate removes the pair stored under key.
func (c *Cache[R]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.pairs, key)
	c.mu.Unlock()
}

// Len returns the number of stored pairs, expired ones included.
func (c *Cache[R]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pairs)
}
