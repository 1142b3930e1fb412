package service

import (
	"context"
	"sync"
	"time"
)

// CampaignCounter reads the campaign counter. *chain.Reader satisfies it.
type CampaignCounter interface {
	CampaignCount(ctx context.Context) (uint64, error)
}

// CountCache memoizes the campaign counter for a short time so paging
// through a list does not hit the RPC node on every button press.
type CountCache struct {
	counter CampaignCounter
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	count    uint64
	cachedAt time.Time
	valid    bool
}

func NewCountCache(counter CampaignCounter, ttl time.Duration) *CountCache {
	return &CountCache{counter: counter, ttl: ttl, now: time.Now}
}

// CampaignCount returns the cached counter, reading it when stale.
func (c *CountCache) CampaignCount(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.cachedAt) <= c.ttl {
		count := c.count
		c.mu.RUnlock()
		return count, nil
	}
	c.mu.RUnlock()

	return c.Fresh(ctx)
}

// Fresh reads the counter from the chain and caches it.
func (c *CountCache) Fresh(ctx context.Context) (uint64, error) {
	count, err := c.counter.CampaignCount(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = count
	c.cachedAt = c.now()
	c.valid = true
	return count, nil
}

// Invalidate forces the next read to hit the chain.
func (c *CountCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
