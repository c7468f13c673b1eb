package ml

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// CacheKey identifies a prediction by model version and feature row
type CacheKey struct {
	ModelVersion string
	Row          []float64
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	var b strings.Builder
	b.WriteString(k.ModelVersion)
	for _, v := range k.Row {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// PredictionCache provides in-memory caching for classifier outputs
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(key CacheKey) (float64, bool) {
	if v, found := pc.cache.Get(key.String()); found {
		pc.hitCount.Add(1)
		pc.updateMetrics()
		return v.(float64), true
	}

	pc.missCount.Add(1)
	pc.updateMetrics()
	return 0, false
}

// Set stores a prediction. When the cache is full expired entries are
// purged first and the value is dropped if no room was freed.
func (pc *PredictionCache) Set(key CacheKey, prediction float64) {
	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}
	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	CacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
