package kiohash

import (
	"fmt"
	"testing"
)

func testKey(i int) CacheKey { return NewCacheKey([]byte(fmt.Sprintf("key%d", i)), Default) }

func TestFIFOEviction(t *testing.T) {
	c := newTestCache(t, 3, 1) // single shard for exact global order

	c.Set(testKey(1), 1)
	c.Set(testKey(2), 2)
	c.Set(testKey(3), 3)

	// Reads do not refresh position.
	c.Get(testKey(1))
	c.Set(testKey(4), 4)

	if _, found := c.Get(testKey(1)); found {
		t.Error("Expected oldest insertion to be evicted")
	}
	for _, i := range []int{2, 3, 4} {
		if _, found := c.Get(testKey(i)); !found {
			t.Errorf("Expected key%d to remain", i)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Size != 3 {
		t.Errorf("Expected 1 eviction and size 3, got %d/%d", s.Evictions, s.Size)
	}
}

func TestFIFOEvictionOrder(t *testing.T) {
	c := newTestCache(t, 4, 1)
	for i := range 10 {
		c.Set(testKey(i), HashValue(i))
	}
	for i := range 10 {
		_, found := c.Get(testKey(i))
		if want := i >= 6; found != want {
			t.Errorf("key%d: found=%v want %v", i, found, want)
		}
	}
}

func TestDuplicateSetDoesNotEvict(t *testing.T) {
	c := newTestCache(t, 2, 1)
	c.Set(testKey(1), 1)
	c.Set(testKey(2), 2)
	c.Set(testKey(1), 1)

	if s := c.Stats(); s.Evictions != 0 {
		t.Errorf("Expected no eviction on duplicate Set, got %d", s.Evictions)
	}
}

func TestInsertionSequence(t *testing.T) {
	c := newTestCache(t, 10, 1)
	for i := range 5 {
		c.Set(testKey(i), HashValue(i))
	}

	s := c.shards[0]
	var prev uint64
	for e := s.tail.prev; e != s.head; e = e.prev {
		if e.seq <= prev {
			t.Fatalf("sequence not increasing from oldest to newest: %d after %d", e.seq, prev)
		}
		prev = e.seq
	}
}

func TestShardCapacityBound(t *testing.T) {
	c := newTestCache(t, 64, 8)
	for i := range 1000 {
		c.Set(testKey(i), HashValue(i))
	}
	for i, s := range c.shards {
		if s.size > c.perShardCap {
			t.Errorf("shard %d holds %d, cap %d", i, s.size, c.perShardCap)
		}
	}
	if c.Len() > 64 {
		t.Errorf("Expected size <= 64, got %d", c.Len())
	}
}
