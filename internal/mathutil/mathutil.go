// Package mathutil holds the power-of-two helpers used for shard sizing.
package mathutil

import "math/bits"

// NextPowerOf2 returns the smallest power of 2 >= n (1 for n <= 1).
func NextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// FloorPowerOf2 returns the largest power of 2 <= n (1 for n <= 1).
func FloorPowerOf2(n int64) int64 {
	if n <= 1 {
		return 1
	}
	return 1 << (bits.Len64(uint64(n)) - 1)
}
