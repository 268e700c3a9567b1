package kiohash

import (
	"fmt"
	"runtime"

	"github.com/unkn0wn-root/kiohash/accel"
	"github.com/unkn0wn-root/kiohash/digest"
)

const (
	defaultParallelThreshold = 10000
	defaultMinChunkSize      = 1024
)

// Config configures an Engine. The zero value is not valid; start from
// DefaultConfig or a preset.
type Config struct {
	CacheCapacity int64 // <= 0 disables memoization
	CacheShards   int   // 0 => derived from GOMAXPROCS
	StatsEnabled  bool

	// Sequences shorter than ParallelThreshold are always folded serially.
	ParallelThreshold int
	// Each parallel chunk covers at least MinChunkSize elements.
	MinChunkSize int
	// Worker pool size shared by all parallel calls on the engine. 0 => GOMAXPROCS.
	Workers int

	AccelMode accel.Mode

	// Digests puts named kernels from package digest behind selectors,
	// e.g. {LegacyStd: "keccak256"}.
	Digests map[Algorithm]string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheCapacity:     defaultCacheCapacity,
		StatsEnabled:      true,
		ParallelThreshold: defaultParallelThreshold,
		MinChunkSize:      defaultMinChunkSize,
		Workers:           runtime.GOMAXPROCS(0),
		AccelMode:         accel.ModeAuto,
	}
}

// Validate reports the first invalid field as a config error.
func (c Config) Validate() error {
	switch {
	case c.CacheShards < 0:
		return invalidConfig("cache shards", c.CacheShards)
	case c.ParallelThreshold < 0:
		return invalidConfig("parallel threshold", c.ParallelThreshold)
	case c.MinChunkSize < 1:
		return invalidConfig("min chunk size", c.MinChunkSize)
	case c.Workers < 0:
		return invalidConfig("workers", c.Workers)
	case c.AccelMode > accel.ModeSIMD:
		return invalidConfig("accel mode", c.AccelMode)
	}

	for alg, name := range c.Digests {
		if err := checkAlgorithm("validate config", alg); err != nil {
			return err
		}
		if _, err := digest.Lookup(name); err != nil {
			return configError("validate config", err)
		}
	}
	return nil
}

func invalidConfig(field string, v any) error {
	return configError("validate config", fmt.Errorf("%w: %s %v", ErrInvalidConfig, field, v))
}

func (c Config) workers() int {
	if c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

func (c Config) cacheConfig() CacheConfig {
	return CacheConfig{
		Capacity:     c.CacheCapacity,
		ShardCount:   c.CacheShards,
		StatsEnabled: c.StatsEnabled,
	}
}
