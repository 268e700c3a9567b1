package kiohash

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/kiohash/accel"
	"github.com/unkn0wn-root/kiohash/digest"
)

type fakeDevice struct {
	initErr error
	runErr  error
	runs    atomic.Int32
}

func (d *fakeDevice) Name() string { return "fake" }
func (d *fakeDevice) Init() error  { return d.initErr }

func (d *fakeDevice) Run(k accel.Kernel, inputs [][]byte, out []uint64) error {
	d.runs.Add(1)
	if d.runErr != nil {
		return d.runErr
	}
	for i, in := range inputs {
		out[i] = k(in)
	}
	return nil
}

func TestComputeHashDeterministic(t *testing.T) {
	a := NewWithDefaults()
	b, err := New(PassThroughConfig())
	require.NoError(t, err)

	for _, v := range []Hashable{String("x"), Int(-3), Uint(3), Float(1.5), Bool(true), Bytes{1, 2}} {
		assert.Equal(t, a.ComputeHash(v), a.ComputeHash(v))
		assert.Equal(t, a.ComputeHash(v), b.ComputeHash(v), "cache must not change values")
		assert.Equal(t, HashValue(xxhash.Sum64(v.HashBytes())), a.ComputeHash(v))
	}
}

func TestComputeHashWithUnknownAlgorithm(t *testing.T) {
	e := NewWithDefaults()
	_, err := e.ComputeHashWith(String("x"), Algorithm(42))
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.True(t, IsConfigError(err))

	_, err = e.ComputeHashes([]Hashable{String("x")}, Algorithm(42))
	assert.True(t, IsConfigError(err))
}

func TestComputeHashNil(t *testing.T) {
	e := NewWithDefaults()
	_, err := e.ComputeHashWith(nil, Default)
	assert.True(t, IsInputError(err))
	assert.Zero(t, e.ComputeHash(nil))

	_, err = e.ComputeHashes([]Hashable{String("a"), nil}, Default)
	assert.True(t, IsInputError(err))
}

func TestHitRatioAfterRepeats(t *testing.T) {
	e := NewWithDefaults()
	const n = 10
	for range n {
		e.ComputeHash(String("same"))
	}
	assert.InDelta(t, float64(n-1)/n, e.Cache().HitRatio(), 1e-12)
}

func TestCachePurityAfterClear(t *testing.T) {
	e := NewWithDefaults()
	v := Tuple{String("a"), Int(1)}
	before := e.ComputeHash(v)
	e.Cache().Clear()
	assert.Equal(t, before, e.ComputeHash(v))
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, before, e.ComputeHash(v))
}

func TestPassThrough(t *testing.T) {
	m := &BasicMetricsCollector{}
	e, err := New(PassThroughConfig(), WithMetrics(m))
	require.NoError(t, err)

	assert.Nil(t, e.Cache())
	assert.Equal(t, int64(1), m.GetStats().DegradedCount)

	hs, err := e.ComputeHashes(Strings("a", "b"), FnvLike)
	require.NoError(t, err)
	assert.Equal(t, HashValue(fnvLike([]byte("b"))), hs[1])
}

func TestComputeHashesMatchesSingle(t *testing.T) {
	m := &BasicMetricsCollector{}
	e, err := New(DefaultConfig(), WithMetrics(m))
	require.NoError(t, err)

	vs := []Hashable{String("a"), Int(2), Tuple{String("a"), Int(2)}, Some[Hashable](Bool(true)), String("a")}
	for _, alg := range Algorithms() {
		hs, err := e.ComputeHashes(vs, alg)
		require.NoError(t, err)
		require.Len(t, hs, len(vs))
		for i, v := range vs {
			h, err := e.ComputeHashWith(v, alg)
			require.NoError(t, err)
			assert.Equal(t, h, hs[i], "%s index %d", alg, i)
		}
	}

	// second round is all hits
	before := m.GetStats().BatchMisses
	_, err = e.ComputeHashes(Strings("a", "b", "c"), Default)
	require.NoError(t, err)
	_, err = e.ComputeHashes(Strings("a", "b", "c"), Default)
	require.NoError(t, err)
	assert.Equal(t, before+2, m.GetStats().BatchMisses, "only b and c miss once")
}

func TestConfigDigests(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Digests = map[Algorithm]string{LegacyStd: digest.NameKeccak256}
	e, err := New(cfg)
	require.NoError(t, err)

	h, err := e.ComputeHashWith(String(""), LegacyStd)
	require.NoError(t, err)
	assert.Equal(t, HashValue(0xc5d2460186f7233c), h)

	cfg.Digests = map[Algorithm]string{LegacyStd: "sha512"}
	_, err = New(cfg)
	require.ErrorIs(t, err, digest.ErrUnknownDigest)
	assert.True(t, IsConfigError(err))
}

func TestRegistryFrozenAfterCompute(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Use(FnvLike, fnv1))
	h, err := r.Compute([]byte("x"), FnvLike)
	require.NoError(t, err)
	assert.Equal(t, HashValue(fnv1([]byte("x"))), h)

	err = r.Use(FnvLike, fnvLike)
	require.ErrorIs(t, err, ErrInvalidConfig)

	assert.True(t, IsConfigError(r.Use(Algorithm(99), fnv1)))
	assert.True(t, IsConfigError(NewRegistry(nil).Use(Default, nil)))
}

func TestRegistryComputeBatchShortOutput(t *testing.T) {
	r := NewRegistry(nil)
	err := r.ComputeBatch([][]byte{{1}, {2}}, Default, make([]HashValue, 1))
	assert.True(t, IsInputError(err))
}

func TestEngineDeviceReady(t *testing.T) {
	t.Setenv(accel.EnvOverride, "auto")
	d := &fakeDevice{}
	e, err := New(DefaultConfig(), WithDevice(d))
	require.NoError(t, err)

	assert.Equal(t, accel.GPUReady, e.Capability())
	hs, err := e.ComputeHashes(Strings("a", "b"), Default)
	require.NoError(t, err)
	assert.Equal(t, HashValue(xxhash.Sum64String("b")), hs[1])
	assert.Equal(t, int32(1), d.runs.Load())
}

func TestEngineFallbackFiresOnce(t *testing.T) {
	t.Setenv(accel.EnvOverride, "auto")
	m := &BasicMetricsCollector{}
	d := &fakeDevice{runErr: errors.New("device lost")}
	e, err := New(PassThroughConfig(), WithDevice(d), WithMetrics(m))
	require.NoError(t, err)
	require.Equal(t, accel.GPUReady, e.Capability())

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vs := Strings(fmt.Sprint(g), "shared")
			hs, err := e.ComputeHashes(vs, Default)
			if assert.NoError(t, err) {
				assert.Equal(t, HashValue(xxhash.Sum64String("shared")), hs[1])
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, accel.GPUFallback, e.Capability())
	assert.Equal(t, int64(1), m.GetStats().FallbackCount)
}

func TestEngineDeviceInitFailure(t *testing.T) {
	t.Setenv(accel.EnvOverride, "auto")
	e, err := New(DefaultConfig(), WithDevice(&fakeDevice{initErr: errors.New("no driver")}))
	require.NoError(t, err)

	c := e.Capability()
	assert.Contains(t, []accel.Capability{accel.CPUScalar, accel.CPUSIMD}, c)
	assert.Equal(t, HashValue(xxhash.Sum64String("x")), e.ComputeHash(String("x")))
}

func TestSharedRegistryAndCache(t *testing.T) {
	r := NewRegistry(accel.New(accel.WithMode(accel.ModeScalar)))
	c, err := NewHashCache(DefaultCacheConfig())
	require.NoError(t, err)

	a, err := New(DefaultConfig(), WithRegistry(r), WithCache(c))
	require.NoError(t, err)
	b, err := New(DefaultConfig(), WithRegistry(r), WithCache(c))
	require.NoError(t, err)

	a.ComputeHash(String("x"))
	b.ComputeHash(String("x"))
	assert.Equal(t, accel.CPUScalar, b.Capability())
	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, LowMemoryConfig().Validate())
	require.NoError(t, HighThroughputConfig().Validate())
	require.NoError(t, PassThroughConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.CacheShards = -1 },
		func(c *Config) { c.ParallelThreshold = -1 },
		func(c *Config) { c.MinChunkSize = 0 },
		func(c *Config) { c.Workers = -2 },
		func(c *Config) { c.AccelMode = accel.Mode(9) },
		func(c *Config) { c.Digests = map[Algorithm]string{Algorithm(9): digest.NameMD5} },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		err := cfg.Validate()
		assert.True(t, IsConfigError(err), "case %d: %v", i, err)

		_, err = New(cfg)
		assert.True(t, IsConfigError(err), "case %d", i)
	}
}
