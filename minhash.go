package kiohash

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/unkn0wn-root/kiohash/codec"
)

const (
	// mersenne61 is the prime modulus of the universal hash family.
	mersenne61 = 1<<61 - 1

	// EmptySlot fills every slot of the signature of an empty set. Real slot
	// values are always < 2^61-1, so EmptySlot never matches one.
	EmptySlot HashValue = math.MaxUint64

	// pcgStream is the second PCG word when the caller supplies a seed.
	pcgStream = 0xda942042e4dd58b5
)

// Signature is a MinHash signature: one minimum per hash function.
type Signature []HashValue

// MarshalBinary encodes k as a big-endian uint32 followed by k big-endian uint64s.
func (s Signature) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 4, 4+8*len(s))
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	for _, h := range s {
		buf = codec.AppendUint64(buf, uint64(h))
	}
	return buf, nil
}

// UnmarshalBinary decodes the MarshalBinary form.
func (s *Signature) UnmarshalBinary(b []byte) error {
	if len(b) < 4 {
		return inputError("unmarshal signature", codec.ErrInvalidLength)
	}
	k := int(binary.BigEndian.Uint32(b))
	b = b[4:]
	if len(b) != 8*k {
		return inputError("unmarshal signature", fmt.Errorf("%w: %d bytes for k=%d", codec.ErrInvalidLength, len(b), k))
	}
	out := make(Signature, k)
	for i := range out {
		out[i] = HashValue(binary.BigEndian.Uint64(b[8*i:]))
	}
	*s = out
	return nil
}

// String renders the slots as concatenated 16-digit hex.
func (s Signature) String() string {
	raw := make([]uint64, len(s))
	for i, h := range s {
		raw[i] = uint64(h)
	}
	return codec.EncodeHashes(raw)
}

// ParseSignature parses the String form.
func ParseSignature(s string) (Signature, error) {
	raw, err := codec.DecodeHashes(s)
	if err != nil {
		return nil, inputError("parse signature", err)
	}
	sig := make(Signature, len(raw))
	for i, h := range raw {
		sig[i] = HashValue(h)
	}
	return sig, nil
}

type hashParam struct {
	a uint64 // [1, p-1]
	b uint64 // [0, p-1]
}

// apply computes (a*x + b) mod p with x reduced mod p first.
func (p hashParam) apply(x uint64) uint64 {
	x %= mersenne61
	hi, lo := bits.Mul64(p.a, x)
	var carry uint64
	lo, carry = bits.Add64(lo, p.b, 0)
	hi += carry
	// a, x < 2^61 so hi < 2^58 < p and Div64 cannot overflow.
	_, rem := bits.Div64(hi, lo, mersenne61)
	return rem
}

type minHashOptions struct {
	seed    uint64
	seeded  bool
	baseAlg Algorithm
}

// MinHashOption configures NewMinHash.
type MinHashOption func(*minHashOptions)

// WithSeed makes the hash family reproducible.
func WithSeed(seed uint64) MinHashOption {
	return func(o *minHashOptions) {
		o.seed = seed
		o.seeded = true
	}
}

// WithBaseAlgorithm selects the algorithm for element base hashes. Default: Default.
func WithBaseAlgorithm(alg Algorithm) MinHashOption {
	return func(o *minHashOptions) { o.baseAlg = alg }
}

// MinHash estimates Jaccard similarity from fixed-length signatures.
// It is immutable after construction and safe to share.
type MinHash struct {
	engine *Engine
	params []hashParam
	alg    Algorithm
}

// NewMinHash draws k hash functions. Without WithSeed the parameters come
// from process entropy and differ per call.
func NewMinHash(e *Engine, k int, optFns ...MinHashOption) (*MinHash, error) {
	if k <= 0 {
		return nil, configError("new minhash", fmt.Errorf("%w: k=%d", ErrZeroHashFunctions, k))
	}
	var o minHashOptions
	for _, fn := range optFns {
		fn(&o)
	}
	if err := checkAlgorithm("new minhash", o.baseAlg); err != nil {
		return nil, err
	}
	if e == nil {
		e = NewWithDefaults()
	}

	var r *rand.Rand
	if o.seeded {
		r = rand.New(rand.NewPCG(o.seed, pcgStream))
	} else {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	params := make([]hashParam, k)
	for i := range params {
		params[i] = hashParam{
			a: 1 + r.Uint64N(mersenne61-1),
			b: r.Uint64N(mersenne61),
		}
	}
	return &MinHash{engine: e, params: params, alg: o.baseAlg}, nil
}

// K returns the signature length.
func (m *MinHash) K() int { return len(m.params) }

// Signature computes the MinHash signature of set. Duplicates do not
// change the result. An empty set yields K() copies of EmptySlot.
func (m *MinHash) Signature(set []Hashable) (Signature, error) {
	sig := make(Signature, len(m.params))
	for i := range sig {
		sig[i] = EmptySlot
	}
	if len(set) == 0 {
		return sig, nil
	}

	base, err := m.engine.ComputeHashes(set, m.alg)
	if err != nil {
		return nil, err
	}
	for _, h := range base {
		for i, p := range m.params {
			if v := HashValue(p.apply(uint64(h))); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig, nil
}

// JaccardIndex returns the fraction of slots where a and b agree.
// Its standard error is about 1/sqrt(k).
func JaccardIndex(a, b Signature) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, inputError("jaccard index", fmt.Errorf("%w: %d vs %d", ErrSignatureLength, len(a), len(b)))
	}
	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(len(a)), nil
}

// ExactJaccard computes |A ∩ B| / |A ∪ B| over string sets. Two empty sets
// have similarity 1.
func ExactJaccard(a, b []string) float64 {
	sa := make(map[string]struct{}, len(a))
	for _, s := range a {
		sa[s] = struct{}{}
	}
	sb := make(map[string]struct{}, len(b))
	for _, s := range b {
		sb[s] = struct{}{}
	}
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}

	inter := 0
	for s := range sa {
		if _, ok := sb[s]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}
