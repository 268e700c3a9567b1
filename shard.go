package kiohash

import (
	"sync"
	"sync/atomic"
)

// shard is a cache partition to reduce lock contention.
type shard struct {
	mu        sync.RWMutex
	data      map[CacheKey]*cacheEntry
	head      *cacheEntry // newest side sentinel
	tail      *cacheEntry // oldest side sentinel
	size      int64
	hits      int64
	misses    int64
	evictions int64
}

// initList resets the insertion-order list to head <-> tail.
// Sentinel nodes eliminate nil checks during insertion/removal.
func (s *shard) initList() {
	s.head = &cacheEntry{}
	s.tail = &cacheEntry{}
	s.head.next = s.tail
	s.tail.prev = s.head
}

// pushNewest links e right after the head sentinel.
func (s *shard) pushNewest(e *cacheEntry) {
	oldNext := s.head.next
	s.head.next = e
	e.next = oldNext
	e.prev = s.head
	oldNext.prev = e
}

// unlink removes e from the list and clears its pointers.
func (s *shard) unlink(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.prev = nil
	e.next = nil
}

// evictOldest removes the earliest inserted entry and returns it, or nil
// when the shard is empty. Requires s.mu held for writing.
func (s *shard) evictOldest() *cacheEntry {
	oldest := s.tail.prev
	if oldest == s.head {
		return nil
	}
	delete(s.data, oldest.key)
	s.unlink(oldest)
	atomic.AddInt64(&s.size, -1)
	return oldest
}
