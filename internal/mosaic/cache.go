package mosaic

import (
	"image"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultCacheSize bounds the block cache when the caller gives no capacity
	// and no layout is known.
	DefaultCacheSize = 1024

	// MaxCacheSize caps derived capacities for very fine grids.
	MaxCacheSize = 1 << 20
)

// CacheKey identifies one block-average query against a fixed source image.
type CacheKey struct {
	X0   int
	Y0   int
	Size int
}

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// BlockCache memoizes BlockAverage results for one source image.
//
// The cache is bounded and evicts least recently used entries. It is safe for
// concurrent use. Two workers racing on the same key may both compute the
// average; the values are identical so whichever insert lands last is fine.
type BlockCache struct {
	src    *image.NRGBA
	lru    *lru.Cache[CacheKey, AverageColor]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewBlockCache creates a cache over src holding at most capacity entries.
// A capacity <= 0 selects DefaultCacheSize.
func NewBlockCache(src *image.NRGBA, capacity int) *BlockCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	if capacity > MaxCacheSize {
		capacity = MaxCacheSize
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[CacheKey, AverageColor](capacity)
	return &BlockCache{src: src, lru: c}
}

// Average returns BlockAverage(src, x0, y0, size), computing it at most once
// per key while the entry stays resident.
func (c *BlockCache) Average(x0, y0, size int) AverageColor {
	key := CacheKey{X0: x0, Y0: y0, Size: size}
	if avg, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return avg
	}
	c.misses.Add(1)
	avg := BlockAverage(c.src, x0, y0, size)
	c.lru.Add(key, avg)
	return avg
}

// Len returns the number of resident entries.
func (c *BlockCache) Len() int {
	return c.lru.Len()
}

// Stats returns hit/miss counters and the current entry count.
func (c *BlockCache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.lru.Len(),
	}
}
