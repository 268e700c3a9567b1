package kiohash

import (
	"fmt"
	"strings"
)

// HashValue is the 64-bit output of every algorithm.
type HashValue uint64

// Algorithm selects the byte -> HashValue function.
type Algorithm uint8

const (
	Default               Algorithm = iota // xxHash64
	FnvLike                                // FNV-1a 64 with xor-fold
	FastWide                               // XXH3-128 folded to 64 bits
	DistributionOptimized                  // MurmurHash3 x64
	LegacyStd                              // FNV-1 64, multiply before xor

	numAlgorithms
)

var algorithmNames = [numAlgorithms]string{
	Default:               "default",
	FnvLike:               "fnv",
	FastWide:              "fastwide",
	DistributionOptimized: "distribution",
	LegacyStd:             "legacy",
}

// Algorithms lists every selector in declaration order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, numAlgorithms)
	for i := range out {
		out[i] = Algorithm(i)
	}
	return out
}

func (a Algorithm) String() string {
	if a.valid() {
		return algorithmNames[a]
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

func (a Algorithm) valid() bool { return a < numAlgorithms }

// ParseAlgorithm maps a name from Algorithm.String back to its selector.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range algorithmNames {
		if name == s {
			return Algorithm(i), nil
		}
	}
	return 0, configError("parse algorithm", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s))
}

func checkAlgorithm(op string, a Algorithm) error {
	if !a.valid() {
		return configError(op, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(a)))
	}
	return nil
}
