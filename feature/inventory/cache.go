package inventory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// summaryCache holds the last computed summary for a TTL.
type summaryCache struct {
	mu    sync.RWMutex
	value *Summary
	built time.Time
	ttl   time.Duration
	sf    singleflight.Group
	now   func() time.Time
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{ttl: ttl, now: time.Now}
}

// expired reports whether the cached value must be rebuilt. A zero TTL disables caching.
func (c *summaryCache) expired() bool {
	if c.ttl == 0 || c.value == nil {
		return true
	}
	return c.now().Sub(c.built) > c.ttl
}

// get returns the cached summary, or builds one with build.
// Concurrent callers sharing an expired entry trigger a single build.
func (c *summaryCache) get(ctx context.Context, build func(context.Context) (*Summary, error)) (*Summary, error) {
	// Fast path: fresh value
	c.mu.RLock()
	if !c.expired() {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("summary", func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		if !c.expired() {
			v := c.value
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		v, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.value = v
		c.built = c.now()
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Summary), nil
}
