package kiohash

import (
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/kiohash/accel"
)

// MetricsCollector receives operational events from an Engine.
// See package promstats for a Prometheus implementation.
type MetricsCollector interface {
	// RecordHash is called after each single-value hash. cached is true
	// when the value came from the HashCache.
	RecordHash(alg Algorithm, cached bool, duration time.Duration)

	// RecordBatch is called after each batch; misses went to the backend.
	RecordBatch(alg Algorithm, count, misses int, duration time.Duration)

	// RecordParallel is called after each sequence hash. workers is 1 for
	// the serial path.
	RecordParallel(elements, workers int, duration time.Duration)

	// RecordDegraded is called when a resource failure was absorbed.
	RecordDegraded(op string, err error)

	// RecordFallback is called once per backend when the device path is abandoned.
	RecordFallback(from, to accel.Capability)
}

// NoopMetricsCollector discards every event.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordHash(Algorithm, bool, time.Duration)         {}
func (NoopMetricsCollector) RecordBatch(Algorithm, int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordParallel(int, int, time.Duration)            {}
func (NoopMetricsCollector) RecordDegraded(string, error)                      {}
func (NoopMetricsCollector) RecordFallback(accel.Capability, accel.Capability) {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	HashCount      atomic.Int64
	HashCached     atomic.Int64
	HashTotalNanos atomic.Int64
	BatchCount     atomic.Int64
	BatchItems     atomic.Int64
	BatchMisses    atomic.Int64
	SequenceCount  atomic.Int64
	ParallelCount  atomic.Int64
	SequenceItems  atomic.Int64
	DegradedCount  atomic.Int64
	FallbackCount  atomic.Int64
}

// RecordHash implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHash(_ Algorithm, cached bool, duration time.Duration) {
	b.HashCount.Add(1)
	b.HashTotalNanos.Add(duration.Nanoseconds())
	if cached {
		b.HashCached.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(_ Algorithm, count, misses int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchMisses.Add(int64(misses))
}

// RecordParallel implements MetricsCollector.
func (b *BasicMetricsCollector) RecordParallel(elements, workers int, _ time.Duration) {
	b.SequenceCount.Add(1)
	b.SequenceItems.Add(int64(elements))
	if workers > 1 {
		b.ParallelCount.Add(1)
	}
}

// RecordDegraded implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDegraded(string, error) {
	b.DegradedCount.Add(1)
}

// RecordFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFallback(accel.Capability, accel.Capability) {
	b.FallbackCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		HashCount:     b.HashCount.Load(),
		HashCached:    b.HashCached.Load(),
		BatchCount:    b.BatchCount.Load(),
		BatchItems:    b.BatchItems.Load(),
		BatchMisses:   b.BatchMisses.Load(),
		SequenceCount: b.SequenceCount.Load(),
		ParallelCount: b.ParallelCount.Load(),
		SequenceItems: b.SequenceItems.Load(),
		DegradedCount: b.DegradedCount.Load(),
		FallbackCount: b.FallbackCount.Load(),
	}
	if s.HashCount > 0 {
		s.HashAvgNanos = b.HashTotalNanos.Load() / s.HashCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	HashCount     int64
	HashCached    int64
	HashAvgNanos  int64
	BatchCount    int64
	BatchItems    int64
	BatchMisses   int64
	SequenceCount int64
	ParallelCount int64
	SequenceItems int64
	DegradedCount int64
	FallbackCount int64
}
