package kiohash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCombineFormula(t *testing.T) {
	seed, next := HashValue(0x1234), HashValue(0xabcd)
	want := seed ^ (next + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
	assert.Equal(t, want, HashCombine(seed, next))
	assert.Equal(t, HashValue(0x9e3779b97f4a7c15), HashCombine(0, 0))
}

func TestHashCombineNotCommutative(t *testing.T) {
	e := NewWithDefaults()
	a, b := e.ComputeHash(String("a")), e.ComputeHash(String("b"))

	ab := HashCombine(HashCombine(0, a), b)
	ba := HashCombine(HashCombine(0, b), a)
	assert.NotEqual(t, ab, ba)
}

func TestSeqOrderSensitive(t *testing.T) {
	e := NewWithDefaults()
	fwd := e.ComputeHash(Seq[Int]{1, 2, 3})
	rev := e.ComputeHash(Seq[Int]{3, 2, 1})
	assert.NotEqual(t, fwd, rev)

	h1, h2, h3 := e.ComputeHash(Int(1)), e.ComputeHash(Int(2)), e.ComputeHash(Int(3))
	assert.Equal(t, HashCombine(HashCombine(HashCombine(0, h1), h2), h3), fwd)
}

func TestTuple(t *testing.T) {
	e := NewWithDefaults()
	assert.Zero(t, e.ComputeHash(Tuple{}))

	tup := NewTuple(String("id"), Int(7), Bool(false))
	want := HashCombine(HashCombine(HashCombine(0, e.ComputeHash(String("id"))), e.ComputeHash(Int(7))), e.ComputeHash(Bool(false)))
	assert.Equal(t, want, e.ComputeHash(tup))

	// tuples nest structurally
	nested := Tuple{tup, String("x")}
	assert.Equal(t, HashCombine(HashCombine(0, want), e.ComputeHash(String("x"))), e.ComputeHash(nested))
}

func TestOptional(t *testing.T) {
	e := NewWithDefaults()
	assert.Zero(t, e.ComputeHash(None[String]()))

	inner := e.ComputeHash(String("v"))
	assert.Equal(t, inner+1, e.ComputeHash(Some(String("v"))))

	v, ok := Some(Int(3)).Get()
	assert.True(t, ok)
	assert.Equal(t, Int(3), v)
	_, ok = None[Int]().Get()
	assert.False(t, ok)

	assert.NotEqual(t, None[String]().HashBytes(), Some(String("")).HashBytes())
}

func TestVariant(t *testing.T) {
	e := NewWithDefaults()
	v := Variant{Tag: 2, Payload: String("p")}
	want := HashCombine(e.ComputeHash(Uint(2)), e.ComputeHash(String("p")))
	assert.Equal(t, want, e.ComputeHash(v))

	other := Variant{Tag: 3, Payload: String("p")}
	assert.NotEqual(t, e.ComputeHash(v), e.ComputeHash(other))

	_, err := e.ComputeHashWith(Variant{Tag: 1}, Default)
	assert.True(t, IsInputError(err), "nil payload")
}

func TestCompositeHashBytesUnambiguous(t *testing.T) {
	a := Tuple{String("ab"), String("c")}
	b := Tuple{String("a"), String("bc")}
	assert.NotEqual(t, a.HashBytes(), b.HashBytes())
	assert.Equal(t, Seq[String]{"ab", "c"}.HashBytes(), a.HashBytes())
}

func TestCompositeAlgorithmsDiffer(t *testing.T) {
	e := NewWithDefaults()
	s := Seq[String]{"a", "b"}
	d, err := e.ComputeHashWith(s, Default)
	require.NoError(t, err)
	f, err := e.ComputeHashWith(s, FnvLike)
	require.NoError(t, err)
	assert.NotEqual(t, d, f)
}

func TestVerifyHash(t *testing.T) {
	tests := []struct {
		h1, h2, tol HashValue
		want        bool
	}{
		{5, 5, 0, true},
		{5, 3, 2, true},
		{3, 5, 1, false},
		{0, math.MaxUint64, 1, false},
		{math.MaxUint64, 0, math.MaxUint64, true},
		{math.MaxUint64, math.MaxUint64 - 1, 1, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerifyHash(tt.h1, tt.h2, tt.tol), "%d %d %d", tt.h1, tt.h2, tt.tol)
	}
}
