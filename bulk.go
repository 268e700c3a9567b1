package kiohash

// GetBulk looks up keys, grouping them by shard so each shard lock is taken
// once. Missing keys report false in hit.
func (c *HashCache) GetBulk(keys []CacheKey) ([]HashValue, []bool) {
	out := make([]HashValue, len(keys))
	hit := make([]bool, len(keys))

	for s, idxs := range c.groupByShard(keys) {
		s.mu.RLock()
		for _, i := range idxs {
			if e, ok := s.data[keys[i]]; ok {
				out[i] = e.value
				hit[i] = true
			}
		}
		s.mu.RUnlock()

		for _, i := range idxs {
			c.record(s, hit[i])
		}
	}
	return out, hit
}

// SetBulk stores values[i] under keys[i]. The slices must be the same length.
func (c *HashCache) SetBulk(keys []CacheKey, values []HashValue) {
	for s, idxs := range c.groupByShard(keys) {
		s.mu.Lock()
		for _, i := range idxs {
			c.insertLocked(s, keys[i], values[i])
		}
		s.mu.Unlock()
	}
}

func (c *HashCache) groupByShard(keys []CacheKey) map[*shard][]int {
	groups := make(map[*shard][]int, min(len(c.shards), len(keys)))
	for i, k := range keys {
		s := c.shardFor(k)
		groups[s] = append(groups[s], i)
	}
	return groups
}
