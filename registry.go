package kiohash

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/kiohash/accel"
	"github.com/unkn0wn-root/kiohash/digest"
)

// Registry maps algorithm selectors to kernels and runs them on a backend.
//
// Kernels may be swapped with Use until the first computation; after that
// the table is frozen so values already memoized can never go stale.
type Registry struct {
	mu      sync.RWMutex
	kernels [numAlgorithms]accel.Kernel
	backend *accel.Backend
	frozen  atomic.Bool
}

// NewRegistry creates a registry with the built-in kernels. A nil backend
// gets a default accel.Backend.
func NewRegistry(b *accel.Backend) *Registry {
	if b == nil {
		b = accel.New()
	}
	return &Registry{
		kernels: builtinKernels,
		backend: b,
	}
}

// Backend returns the backend kernels run on.
func (r *Registry) Backend() *accel.Backend { return r.backend }

// Use replaces the kernel behind alg.
func (r *Registry) Use(alg Algorithm, k accel.Kernel) error {
	if err := checkAlgorithm("registry use", alg); err != nil {
		return err
	}
	if k == nil {
		return configError("registry use", fmt.Errorf("%w: nil kernel for %s", ErrInvalidConfig, alg))
	}
	if r.frozen.Load() {
		return configError("registry use", fmt.Errorf("%w: registry frozen after first compute", ErrInvalidConfig))
	}

	r.mu.Lock()
	r.kernels[alg] = k
	r.mu.Unlock()
	return nil
}

// UseDigest puts the named digest (see package digest) behind alg.
func (r *Registry) UseDigest(alg Algorithm, name string) error {
	f, err := digest.Lookup(name)
	if err != nil {
		return configError("registry use digest", err)
	}
	return r.Use(alg, accel.Kernel(f))
}

func (r *Registry) kernel(op string, alg Algorithm) (accel.Kernel, error) {
	if err := checkAlgorithm(op, alg); err != nil {
		return nil, err
	}
	r.frozen.Store(true)

	r.mu.RLock()
	k := r.kernels[alg]
	r.mu.RUnlock()
	return k, nil
}

// Compute hashes data with alg.
func (r *Registry) Compute(data []byte, alg Algorithm) (HashValue, error) {
	k, err := r.kernel("compute", alg)
	if err != nil {
		return 0, err
	}
	return HashValue(r.backend.Compute(k, data)), nil
}

// ComputeBatch hashes every input with alg into out, which must be at least
// len(inputs) long.
func (r *Registry) ComputeBatch(inputs [][]byte, alg Algorithm, out []HashValue) error {
	k, err := r.kernel("compute batch", alg)
	if err != nil {
		return err
	}
	if len(out) < len(inputs) {
		return inputError("compute batch", fmt.Errorf("output has %d slots for %d inputs", len(out), len(inputs)))
	}

	raw := make([]uint64, len(inputs))
	r.backend.ComputeBatch(k, inputs, raw)
	for i, h := range raw {
		out[i] = HashValue(h)
	}
	return nil
}
