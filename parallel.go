package kiohash

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// ComputeSequence hashes seq as an ordered sequence with the Default
// algorithm. See ComputeSequenceWith.
func (e *Engine) ComputeSequence(seq []Hashable, parallel bool) HashValue {
	h, _ := e.ComputeSequenceWith(seq, Default, parallel)
	return h
}

// ComputeSequenceWith folds the element hashes of seq left to right from
// seed 0. With parallel set and a long enough sequence, element hashes are
// computed by several workers; the result is bit-identical to the serial
// fold in every case.
func (e *Engine) ComputeSequenceWith(seq []Hashable, alg Algorithm, parallel bool) (HashValue, error) {
	if err := checkAlgorithm("compute sequence", alg); err != nil {
		return 0, err
	}
	start := time.Now()

	var (
		h       HashValue
		workers = 1
		err     error
	)
	if parallel && len(seq) >= e.cfg.ParallelThreshold {
		h, workers, err = e.foldParallel(seq, alg)
	} else {
		h, err = foldHashes(e, alg, seq)
	}
	if err != nil {
		return 0, err
	}
	e.metrics.RecordParallel(len(seq), workers, time.Since(start))
	return h, nil
}

// foldParallel splits seq into contiguous chunks, one per worker. Each worker
// writes only its own slot range; after Wait the driver folds the slots in
// order, carrying the running seed across chunk boundaries.
func (e *Engine) foldParallel(seq []Hashable, alg Algorithm) (HashValue, int, error) {
	want := min(int(e.capacity), len(seq)/e.cfg.MinChunkSize)
	if want < 2 {
		h, err := foldHashes(e, alg, seq)
		return h, 1, err
	}

	got := e.acquireWorkers(want)
	if got < 2 {
		e.degraded("compute sequence", newError("acquire workers", KindResource, ErrWorkersExhausted))
		h, err := foldHashes(e, alg, seq)
		return h, 1, err
	}
	defer e.workers.Release(int64(got))

	n := len(seq)
	slots := make([]HashValue, n)
	chunk := (n + got - 1) / got

	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			hs, err := e.ComputeHashes(seq[lo:hi], alg)
			if err != nil {
				return err
			}
			copy(slots[lo:hi], hs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, got, err
	}

	var seed HashValue
	for _, h := range slots {
		seed = HashCombine(seed, h)
	}
	return seed, got, nil
}

// acquireWorkers takes up to want slots from the pool without blocking and
// returns how many it got (0 when fewer than 2 were free).
func (e *Engine) acquireWorkers(want int) int {
	for n := want; n >= 2; n-- {
		if e.workers.TryAcquire(int64(n)) {
			return n
		}
	}
	return 0
}
