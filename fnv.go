package kiohash

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// fnvLike implements FNV-1a with additional XOR-folding.
//
// Standard FNV-1a:
// 1. Initialize hash with the FNV offset basis
// 2. For each byte: XOR byte into hash, then multiply by the FNV prime
//
// The final h ^ (h >> 32) folds the upper half into the lower half, which
// improves distribution when only the low bits are used (shard masks,
// power-of-two tables).
func fnvLike(data []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range data {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h ^ (h >> 32)
}

// fnv1 is the original FNV-1 ordering (multiply before XOR), kept for
// compatibility with hashes produced by older tooling.
func fnv1(data []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range data {
		h *= fnvPrime64
		h ^= uint64(c)
	}
	return h
}
