package kiohash

import "runtime"

// LowMemoryConfig keeps a small cache and never spreads work across more
// than two workers.
func LowMemoryConfig() Config {
	c := DefaultConfig()
	c.CacheCapacity = 4096
	c.CacheShards = 4
	c.Workers = 2
	c.ParallelThreshold = 50000
	return c
}

// HighThroughputConfig favours large batches and many workers.
func HighThroughputConfig() Config {
	c := DefaultConfig()
	c.CacheCapacity = 1 << 20
	c.CacheShards = 0
	c.Workers = runtime.GOMAXPROCS(0) * 2
	c.ParallelThreshold = 4096
	c.MinChunkSize = 512
	return c
}

// PassThroughConfig disables memoization entirely.
func PassThroughConfig() Config {
	c := DefaultConfig()
	c.CacheCapacity = 0
	c.StatsEnabled = false
	return c
}
