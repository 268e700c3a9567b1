// Package digest adapts fixed-size digest primitives to 64-bit hash kernels.
//
// Each Func reduces its digest to the first eight bytes, big-endian. The
// package makes no claim about the cryptographic strength of the result;
// it exists so a registry can put a well-known digest behind an algorithm
// selector.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Func hashes data to 64 bits.
type Func func(data []byte) uint64

// ErrUnknownDigest is returned by Lookup for names it does not know.
var ErrUnknownDigest = errors.New("digest: unknown digest")

const (
	NameKeccak256 = "keccak256"
	NameMD5       = "md5"
	NameSHA1      = "sha1"
	NameBlowfish  = "blowfish"
	NameBlake2b   = "blake2b"
)

var funcs = map[string]Func{
	NameKeccak256: Keccak256,
	NameMD5:       MD5,
	NameSHA1:      SHA1,
	NameBlowfish:  Blowfish,
	NameBlake2b:   Blake2b,
}

// Lookup returns the digest registered under name (case-insensitive).
func Lookup(name string) (Func, error) {
	f, ok := funcs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
	return f, nil
}

// Names lists the registered digests in sorted order.
func Names() []string {
	out := make([]string, 0, len(funcs))
	for name := range funcs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func fold(sum []byte) uint64 { return binary.BigEndian.Uint64(sum[:8]) }

// Keccak256 is the original (pre-FIPS) Keccak-256.
func Keccak256(data []byte) uint64 {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return fold(h.Sum(nil))
}

// MD5 folds an MD5 digest.
func MD5(data []byte) uint64 {
	sum := md5.Sum(data)
	return fold(sum[:])
}

// SHA1 folds a SHA-1 digest.
func SHA1(data []byte) uint64 {
	sum := sha1.Sum(data)
	return fold(sum[:])
}

// Blake2b is BLAKE2b with an 8-byte output.
func Blake2b(data []byte) uint64 {
	h, _ := blake2b.New(8, nil) // only fails for size > 64 or long keys
	h.Write(data)
	return fold(h.Sum(nil))
}
