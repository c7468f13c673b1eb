package matcher

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const indexKey = "index"

// Loader returns the current candidate set
type Loader func(ctx context.Context) ([]Candidate, error)

// CachedIndex rebuilds an Index from its loader at most once per TTL
type CachedIndex struct {
	cache     *gocache.Cache
	load      Loader
	threshold float64
	ttl       time.Duration
}

// NewCachedIndex creates a cached index. A non-positive ttl disables caching.
func NewCachedIndex(load Loader, threshold float64, ttl time.Duration) *CachedIndex {
	return &CachedIndex{
		cache:     gocache.New(ttl, 2*ttl),
		load:      load,
		threshold: threshold,
		ttl:       ttl,
	}
}

// Get returns the cached index, loading it when expired or invalidated
func (c *CachedIndex) Get(ctx context.Context) (*Index, error) {
	if c.ttl > 0 {
		if v, ok := c.cache.Get(indexKey); ok {
			return v.(*Index), nil
		}
	}

	candidates, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load match candidates: %w", err)
	}

	ix := NewIndex(candidates, c.threshold)
	if c.ttl > 0 {
		c.cache.Set(indexKey, ix, c.ttl)
	}
	return ix, nil
}

// Invalidate forces the next Get to reload
func (c *CachedIndex) Invalidate() {
	c.cache.Delete(indexKey)
}
