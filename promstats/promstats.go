// Package promstats exports engine events as Prometheus metrics.
//
// Metrics are kept per Collector rather than in package globals, so tests
// and multiple engines can each register their own on any Registerer.
package promstats

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/kiohash"
	"github.com/unkn0wn-root/kiohash/accel"
)

const defaultNamespace = "kiohash"

// Collector implements kiohash.MetricsCollector and prometheus.Collector.
type Collector struct {
	hashes        *prometheus.CounterVec // labels: algorithm, result
	hashSeconds   prometheus.Histogram
	batchItems    prometheus.Histogram
	batchMisses   prometheus.Counter
	sequences     *prometheus.CounterVec // labels: path
	sequenceItems prometheus.Histogram
	degraded      *prometheus.CounterVec // labels: op, kind
	fallbacks     prometheus.Counter
	cacheHitRatio prometheus.GaugeFunc
	cacheSize     prometheus.GaugeFunc
}

var _ kiohash.MetricsCollector = (*Collector)(nil)

// New creates a collector. An empty namespace uses "kiohash". A non-nil
// cache adds gauges for its hit ratio and size.
func New(namespace string, cache *kiohash.HashCache) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}
	c := &Collector{
		hashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hashes_total",
			Help:      "Single-value hashes by algorithm and cache result",
		}, []string{"algorithm", "result"}),
		hashSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hash_duration_seconds",
			Help:      "Latency of single-value hashes",
			Buckets:   prometheus.ExponentialBuckets(50e-9, 4, 10),
		}),
		batchItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_items",
			Help:      "Distribution of values per batch",
			Buckets:   []float64{1, 4, 16, 64, 256, 1024, 4096, 16384, 65536},
		}),
		batchMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_misses_total",
			Help:      "Batch values not found in the cache and sent to the backend",
		}),
		sequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sequences_total",
			Help:      "Sequence hashes by execution path",
		}, []string{"path"}),
		sequenceItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sequence_items",
			Help:      "Distribution of sequence lengths",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_total",
			Help:      "Resource failures absorbed by the engine",
		}, []string{"op", "kind"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accel_fallbacks_total",
			Help:      "Accelerator device failures that moved a backend to the cpu path",
		}),
	}

	if cache != nil {
		c.cacheHitRatio = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_hit_ratio",
			Help:      "hits / (hits + misses) of the hash cache",
		}, cache.HitRatio)
		c.cacheSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Entries currently memoized",
		}, func() float64 { return float64(cache.Len()) })
	}
	return c
}

func (c *Collector) collectors() []prometheus.Collector {
	cs := []prometheus.Collector{
		c.hashes, c.hashSeconds, c.batchItems, c.batchMisses,
		c.sequences, c.sequenceItems, c.degraded, c.fallbacks,
	}
	if c.cacheHitRatio != nil {
		cs = append(cs, c.cacheHitRatio, c.cacheSize)
	}
	return cs
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

// Register adds the collector to r, treating a previous registration of the
// same collector as success.
func (c *Collector) Register(r prometheus.Registerer) error {
	err := r.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// RecordHash implements kiohash.MetricsCollector.
func (c *Collector) RecordHash(alg kiohash.Algorithm, cached bool, d time.Duration) {
	result := "miss"
	if cached {
		result = "hit"
	}
	c.hashes.WithLabelValues(alg.String(), result).Inc()
	c.hashSeconds.Observe(d.Seconds())
}

// RecordBatch implements kiohash.MetricsCollector.
func (c *Collector) RecordBatch(_ kiohash.Algorithm, count, misses int, _ time.Duration) {
	c.batchItems.Observe(float64(count))
	c.batchMisses.Add(float64(misses))
}

// RecordParallel implements kiohash.MetricsCollector.
func (c *Collector) RecordParallel(elements, workers int, _ time.Duration) {
	path := "serial"
	if workers > 1 {
		path = "parallel"
	}
	c.sequences.WithLabelValues(path).Inc()
	c.sequenceItems.Observe(float64(elements))
}

// RecordDegraded implements kiohash.MetricsCollector.
func (c *Collector) RecordDegraded(op string, err error) {
	c.degraded.WithLabelValues(op, kiohash.KindOf(err).String()).Inc()
}

// RecordFallback implements kiohash.MetricsCollector.
func (c *Collector) RecordFallback(accel.Capability, accel.Capability) {
	c.fallbacks.Inc()
}
