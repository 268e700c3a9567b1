package kiohash

import "github.com/unkn0wn-root/kiohash/codec"

// combineConstant is 2^64 / phi, as used by Boost hash_combine.
const combineConstant = 0x9e3779b97f4a7c15

// HashCombine mixes next into seed. It is order sensitive:
// HashCombine(HashCombine(0, a), b) != HashCombine(HashCombine(0, b), a)
// for almost every a != b.
func HashCombine(seed, next HashValue) HashValue {
	return seed ^ (next + combineConstant + (seed << 6) + (seed >> 2))
}

// VerifyHash reports whether h1 and h2 differ by at most tolerance.
func VerifyHash(h1, h2, tolerance HashValue) bool {
	if h1 >= h2 {
		return h1-h2 <= tolerance
	}
	return h2-h1 <= tolerance
}

// composite values are hashed from the hashes of their parts rather than
// from their own bytes.
type composite interface {
	Hashable
	hashWith(e *Engine, alg Algorithm) (HashValue, error)
}

// foldHashes folds parts left to right starting from seed 0.
func foldHashes[T Hashable](e *Engine, alg Algorithm, parts []T) (HashValue, error) {
	var seed HashValue
	for _, p := range parts {
		h, err := e.ComputeHashWith(p, alg)
		if err != nil {
			return 0, err
		}
		seed = HashCombine(seed, h)
	}
	return seed, nil
}

// Tuple is a fixed heterogeneous group. The empty tuple hashes to 0.
type Tuple []Hashable

// NewTuple groups parts.
func NewTuple(parts ...Hashable) Tuple { return Tuple(parts) }

func (t Tuple) hashWith(e *Engine, alg Algorithm) (HashValue, error) {
	return foldHashes(e, alg, t)
}

// HashBytes is the length-prefixed concatenation of the parts.
func (t Tuple) HashBytes() []byte { return concatParts(t) }

// Seq is an ordered homogeneous collection.
type Seq[T Hashable] []T

func (s Seq[T]) hashWith(e *Engine, alg Algorithm) (HashValue, error) {
	return foldHashes(e, alg, s)
}

// HashBytes is the length-prefixed concatenation of the elements.
func (s Seq[T]) HashBytes() []byte { return concatParts(s) }

func concatParts[T Hashable](parts []T) []byte {
	var buf []byte
	for _, p := range parts {
		buf = codec.AppendLengthPrefixed(buf, p.HashBytes())
	}
	return buf
}

// Optional holds zero or one value.
type Optional[T Hashable] struct {
	value T
	ok    bool
}

// Some wraps v.
func Some[T Hashable](v T) Optional[T] { return Optional[T]{value: v, ok: true} }

// None is the absent Optional.
func None[T Hashable]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

// hashWith: absent -> 0, present -> hash(inner)+1 so Some(x) never
// collides with None when hash(x) == 0.
func (o Optional[T]) hashWith(e *Engine, alg Algorithm) (HashValue, error) {
	if !o.ok {
		return 0, nil
	}
	h, err := e.ComputeHashWith(o.value, alg)
	if err != nil {
		return 0, err
	}
	return h + 1, nil
}

func (o Optional[T]) HashBytes() []byte {
	if !o.ok {
		return []byte{0}
	}
	return codec.AppendLengthPrefixed([]byte{1}, o.value.HashBytes())
}

// Variant is a tagged union value: the tag of the active alternative and
// its payload.
type Variant struct {
	Tag     uint32
	Payload Hashable
}

func (v Variant) hashWith(e *Engine, alg Algorithm) (HashValue, error) {
	tag, err := e.ComputeHashWith(Uint(v.Tag), alg)
	if err != nil {
		return 0, err
	}
	payload, err := e.ComputeHashWith(v.Payload, alg)
	if err != nil {
		return 0, err
	}
	return HashCombine(tag, payload), nil
}

func (v Variant) HashBytes() []byte {
	buf := Uint(v.Tag).HashBytes()
	if v.Payload == nil {
		return buf
	}
	return codec.AppendLengthPrefixed(buf, v.Payload.HashBytes())
}
