package kiohash

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/kiohash/internal/mathutil"
)

const (
	defaultCacheCapacity = 65536

	// Sharding: cap shard count, scale by CPUs, and round to power-of-two for mask-based modulo.
	maxShardCount   = 256
	shardMultiplier = 4

	// golden-ratio multiplier separating algorithms that share the same bytes
	algorithmSpread = 0x9e3779b97f4a7c15
)

// CacheKey identifies a memoized hash: the serialized value and the
// algorithm that hashed it.
type CacheKey struct {
	Data      string
	Algorithm Algorithm
}

// NewCacheKey copies data into a key.
func NewCacheKey(data []byte, alg Algorithm) CacheKey {
	return CacheKey{Data: string(data), Algorithm: alg}
}

// CacheConfig sizes a HashCache.
type CacheConfig struct {
	Capacity     int64 // total entries across shards; must be > 0
	ShardCount   int   // 0 => derived from GOMAXPROCS; 1 => exact global FIFO
	StatsEnabled bool
}

// DefaultCacheConfig returns a 64k-entry cache with stats enabled.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Capacity:     defaultCacheCapacity,
		StatsEnabled: true,
	}
}

// CacheStats exposes approximate telemetry aggregated across shards.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64
	Capacity  int64
	HitRatio  float64
	Shards    int
}

// cacheEntry is the node stored in shard maps and the FIFO list.
// value and key never change after insertion.
type cacheEntry struct {
	value HashValue
	seq   uint64 // global insertion order
	key   CacheKey
	prev  *cacheEntry
	next  *cacheEntry
}

// HashCache memoizes (bytes, algorithm) -> HashValue.
//
// Lookups take a shard read lock only, so readers never wait on each other.
// Inserts take the shard write lock. At capacity the oldest entry of the
// shard is dropped. Eviction only costs recomputation: a stored value is
// always the value the algorithm would produce.
type HashCache struct {
	shards      []*shard
	shardMask   uint64 // shards is power-of-two; mask = shards-1
	config      CacheConfig
	perShardCap int64
	seq         atomic.Uint64
	entryPool   sync.Pool
}

// NewHashCache builds a cache. A non-positive capacity returns
// ErrCacheUnavailable; callers are expected to run without memoization.
func NewHashCache(config CacheConfig) (*HashCache, error) {
	if config.Capacity <= 0 {
		return nil, newError("new cache", KindResource, fmt.Errorf("%w: capacity %d", ErrCacheUnavailable, config.Capacity))
	}

	shardCount := config.ShardCount
	if shardCount <= 0 {
		// Over-provision shards to reduce lock contention.
		shardCount = runtime.GOMAXPROCS(0) * shardMultiplier
		if shardCount > maxShardCount {
			shardCount = maxShardCount
		}
	}

	// Per-shard capacity must stay >= 1.
	maxShards := int(mathutil.FloorPowerOf2(min(config.Capacity, int64(maxShardCount))))
	shardCount = min(mathutil.NextPowerOf2(shardCount), maxShards)

	c := &HashCache{
		shards:      make([]*shard, shardCount),
		shardMask:   uint64(shardCount - 1),
		config:      config,
		perShardCap: config.Capacity / int64(shardCount),
		entryPool: sync.Pool{
			New: func() any { return &cacheEntry{} },
		},
	}

	for i := range c.shards {
		s := &shard{data: make(map[CacheKey]*cacheEntry, c.perShardCap)}
		s.initList()
		c.shards[i] = s
	}
	return c, nil
}

func keyHash(k CacheKey) uint64 {
	return xxhash.Sum64String(k.Data) + uint64(k.Algorithm)*algorithmSpread
}

func (c *HashCache) shardFor(k CacheKey) *shard {
	return c.shards[keyHash(k)&c.shardMask]
}

// Get returns the memoized value for key.
func (c *HashCache) Get(key CacheKey) (HashValue, bool) {
	s := c.shardFor(key)

	s.mu.RLock()
	e, ok := s.data[key]
	var v HashValue
	if ok {
		v = e.value
	}
	s.mu.RUnlock()

	c.record(s, ok)
	return v, ok
}

func (c *HashCache) record(s *shard, hit bool) {
	if !c.config.StatsEnabled {
		return
	}
	if hit {
		atomic.AddInt64(&s.hits, 1)
	} else {
		atomic.AddInt64(&s.misses, 1)
	}
}

// Set stores value under key. An existing entry is left untouched: entries
// are immutable and a pure algorithm can only produce the same value again.
func (c *HashCache) Set(key CacheKey, value HashValue) {
	s := c.shardFor(key)
	s.mu.Lock()
	c.insertLocked(s, key, value)
	s.mu.Unlock()
}

// insertLocked requires s.mu held for writing.
func (c *HashCache) insertLocked(s *shard, key CacheKey, value HashValue) {
	if _, exists := s.data[key]; exists {
		return
	}

	if atomic.LoadInt64(&s.size) >= c.perShardCap {
		if victim := s.evictOldest(); victim != nil {
			c.entryPool.Put(victim)
			if c.config.StatsEnabled {
				atomic.AddInt64(&s.evictions, 1)
			}
		}
	}

	e := c.entryPool.Get().(*cacheEntry)
	e.key = key
	e.value = value
	e.seq = c.seq.Add(1)

	s.data[key] = e
	s.pushNewest(e)
	atomic.AddInt64(&s.size, 1)
}

// Clear drops every entry. Counters are kept so hit ratios span clears.
func (c *HashCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		for _, e := range s.data {
			c.entryPool.Put(e)
		}
		s.data = make(map[CacheKey]*cacheEntry, c.perShardCap)
		s.initList()
		atomic.StoreInt64(&s.size, 0)
		s.mu.Unlock()
	}
}

// Len sums per-shard sizes via atomic loads (O(shards)).
func (c *HashCache) Len() int64 {
	var total int64
	for _, s := range c.shards {
		total += atomic.LoadInt64(&s.size)
	}
	return total
}

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (c *HashCache) HitRatio() float64 {
	return c.Stats().HitRatio
}

// Stats aggregates counters and computes hit ratio.
func (c *HashCache) Stats() CacheStats {
	stats := CacheStats{
		Size:     c.Len(),
		Capacity: c.config.Capacity,
		Shards:   len(c.shards),
	}
	if !c.config.StatsEnabled {
		return stats
	}

	for _, s := range c.shards {
		stats.Hits += atomic.LoadInt64(&s.hits)
		stats.Misses += atomic.LoadInt64(&s.misses)
		stats.Evictions += atomic.LoadInt64(&s.evictions)
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total)
	}
	return stats
}
