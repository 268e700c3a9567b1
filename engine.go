package kiohash

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/unkn0wn-root/kiohash/accel"
)

// Engine hashes values through a Registry, memoizing results in a HashCache.
//
// An Engine is safe for concurrent use. Every piece of mutable state it
// touches (cache shards, backend capability, worker pool) lives on the
// Engine itself, so independent engines never interfere.
type Engine struct {
	cfg      Config
	registry *Registry
	cache    *HashCache // nil => pass-through
	logger   *Logger
	metrics  MetricsCollector
	workers  *semaphore.Weighted
	capacity int64
}

// New builds an engine from cfg.
func New(cfg Config, optFns ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	e := &Engine{
		cfg:      cfg,
		logger:   o.logger,
		metrics:  o.metrics,
		capacity: int64(cfg.workers()),
	}
	e.workers = semaphore.NewWeighted(e.capacity)

	e.registry = o.registry
	if e.registry == nil {
		backend := accel.New(
			accel.WithMode(cfg.AccelMode),
			accel.WithDevice(o.device),
			accel.WithLogger(o.logger.With("component", "accel")),
			accel.WithFallbackHook(func(from, to accel.Capability, _ error) {
				e.metrics.RecordFallback(from, to)
			}),
		)
		e.registry = NewRegistry(backend)
	}

	for alg, name := range cfg.Digests {
		if err := e.registry.UseDigest(alg, name); err != nil {
			return nil, err
		}
	}

	e.cache = o.cache
	if e.cache == nil {
		c, err := NewHashCache(cfg.cacheConfig())
		if err != nil {
			// Memoization is an optimization; run without it.
			e.degraded("new engine", err)
		}
		e.cache = c
	}
	return e, nil
}

// NewWithDefaults builds an engine from DefaultConfig.
func NewWithDefaults(optFns ...Option) *Engine {
	e, err := New(DefaultConfig(), optFns...)
	if err != nil {
		// DefaultConfig always validates.
		panic(err)
	}
	return e
}

func (e *Engine) degraded(op string, err error) {
	e.logger.LogDegraded(context.Background(), op, err)
	e.metrics.RecordDegraded(op, err)
}

// Cache returns the engine cache, or nil when running pass-through.
func (e *Engine) Cache() *HashCache { return e.cache }

// Registry returns the algorithm registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Capability returns the backend's current capability.
func (e *Engine) Capability() accel.Capability { return e.registry.Backend().Capability() }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Close drops memoized values. It is safe to call more than once, and the
// engine stays usable afterwards.
func (e *Engine) Close() error {
	if e.cache != nil {
		e.cache.Clear()
	}
	return nil
}

// ComputeHash hashes v with the Default algorithm. A nil v hashes to 0.
func (e *Engine) ComputeHash(v Hashable) HashValue {
	h, _ := e.ComputeHashWith(v, Default)
	return h
}

// ComputeHashWith hashes v with alg. Composite values (Tuple, Seq, Optional,
// Variant) are hashed structurally; everything else by its HashBytes.
func (e *Engine) ComputeHashWith(v Hashable, alg Algorithm) (HashValue, error) {
	if err := checkAlgorithm("compute hash", alg); err != nil {
		return 0, err
	}
	if v == nil {
		return 0, inputError("compute hash", fmt.Errorf("%w: nil", ErrUnsupportedValue))
	}
	if c, ok := v.(composite); ok {
		return c.hashWith(e, alg)
	}

	start := time.Now()
	h, cached, err := e.hashBytes(v.HashBytes(), alg)
	if err != nil {
		return 0, err
	}
	e.metrics.RecordHash(alg, cached, time.Since(start))
	return h, nil
}

func (e *Engine) hashBytes(data []byte, alg Algorithm) (HashValue, bool, error) {
	if e.cache == nil {
		h, err := e.registry.Compute(data, alg)
		return h, false, err
	}

	key := NewCacheKey(data, alg)
	if h, ok := e.cache.Get(key); ok {
		return h, true, nil
	}
	h, err := e.registry.Compute(data, alg)
	if err != nil {
		return 0, false, err
	}
	e.cache.Set(key, h)
	return h, false, nil
}

// ComputeHashes hashes every value with alg. Cache misses are submitted to
// the backend as a single batch.
func (e *Engine) ComputeHashes(vs []Hashable, alg Algorithm) ([]HashValue, error) {
	if err := checkAlgorithm("compute hashes", alg); err != nil {
		return nil, err
	}
	start := time.Now()
	out := make([]HashValue, len(vs))

	var (
		flat   []int // indexes of non-composite values
		inputs [][]byte
	)
	for i, v := range vs {
		switch c := v.(type) {
		case nil:
			return nil, inputError("compute hashes", fmt.Errorf("%w: nil at %d", ErrUnsupportedValue, i))
		case composite:
			h, err := c.hashWith(e, alg)
			if err != nil {
				return nil, err
			}
			out[i] = h
		default:
			flat = append(flat, i)
			inputs = append(inputs, v.HashBytes())
		}
	}

	misses, err := e.hashBatch(inputs, alg, flat, out)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordBatch(alg, len(vs), misses, time.Since(start))
	return out, nil
}

// hashBatch hashes inputs[j] into out[slots[j]] and returns how many went to
// the backend.
func (e *Engine) hashBatch(inputs [][]byte, alg Algorithm, slots []int, out []HashValue) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}
	if e.cache == nil {
		res := make([]HashValue, len(inputs))
		if err := e.registry.ComputeBatch(inputs, alg, res); err != nil {
			return 0, err
		}
		for j, h := range res {
			out[slots[j]] = h
		}
		return len(inputs), nil
	}

	keys := make([]CacheKey, len(inputs))
	for j, in := range inputs {
		keys[j] = NewCacheKey(in, alg)
	}
	cached, hit := e.cache.GetBulk(keys)

	var (
		missIdx    []int
		missInputs [][]byte
		missKeys   []CacheKey
	)
	for j := range inputs {
		if hit[j] {
			out[slots[j]] = cached[j]
			continue
		}
		missIdx = append(missIdx, j)
		missInputs = append(missInputs, inputs[j])
		missKeys = append(missKeys, keys[j])
	}
	if len(missIdx) == 0 {
		return 0, nil
	}

	res := make([]HashValue, len(missInputs))
	if err := e.registry.ComputeBatch(missInputs, alg, res); err != nil {
		return 0, err
	}
	for m, j := range missIdx {
		out[slots[j]] = res[m]
	}
	e.cache.SetBulk(missKeys, res)
	return len(missIdx), nil
}
