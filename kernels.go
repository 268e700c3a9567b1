package kiohash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/unkn0wn-root/kiohash/accel"
)

// builtinKernels maps each selector to its default implementation.
var builtinKernels = [numAlgorithms]accel.Kernel{
	Default:               xxhash.Sum64,
	FnvLike:               fnvLike,
	FastWide:              xxh3Wide,
	DistributionOptimized: murmur3.Sum64,
	LegacyStd:             fnv1,
}

// xxh3Wide folds the 128-bit XXH3 digest so both halves contribute.
func xxh3Wide(data []byte) uint64 {
	h := xxh3.Hash128(data)
	return h.Hi ^ h.Lo
}
