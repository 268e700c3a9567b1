package kiohash

import (
	"fmt"

	"github.com/unkn0wn-root/kiohash/codec"
)

// Hashable is implemented by values with a stable byte representation.
// Equal logical values must return equal bytes for the life of the process.
type Hashable interface {
	HashBytes() []byte
}

// String hashes its UTF-8 bytes.
type String string

func (s String) HashBytes() []byte { return []byte(s) }

// Bytes hashes itself.
type Bytes []byte

func (b Bytes) HashBytes() []byte { return b }

// Int hashes as 8 big-endian bytes.
type Int int64

func (i Int) HashBytes() []byte { return codec.AppendInt64(make([]byte, 0, 8), int64(i)) }

// Uint hashes as 8 big-endian bytes.
type Uint uint64

func (u Uint) HashBytes() []byte { return codec.AppendUint64(make([]byte, 0, 8), uint64(u)) }

// Float hashes its canonical IEEE-754 bits (-0 == +0, one NaN).
type Float float64

func (f Float) HashBytes() []byte { return codec.AppendFloat64(make([]byte, 0, 8), float64(f)) }

// Bool hashes as a single byte.
type Bool bool

func (b Bool) HashBytes() []byte { return codec.AppendBool(nil, bool(b)) }

// Encoded is the output of a codec.Encoder.
type Encoded []byte

func (e Encoded) HashBytes() []byte { return e }

// Encode runs v through enc, for structured values that have no adapter.
func Encode(enc codec.Encoder, v any) (Encoded, error) {
	b, err := enc.Encode(v)
	if err != nil {
		return nil, inputError("encode", fmt.Errorf("%w: %v", ErrUnsupportedValue, err))
	}
	return Encoded(b), nil
}

// ValueOf wraps a built-in Go value in its adapter. Integers of every width
// map to Int or Uint, so int32(7) and int64(7) hash equally.
func ValueOf(v any) (Hashable, error) {
	switch k := v.(type) {
	case Hashable:
		return k, nil
	case string:
		return String(k), nil
	case []byte:
		return Bytes(k), nil
	case int:
		return Int(k), nil
	case int8:
		return Int(k), nil
	case int16:
		return Int(k), nil
	case int32:
		return Int(k), nil
	case int64:
		return Int(k), nil
	case uint:
		return Uint(k), nil
	case uint8:
		return Uint(k), nil
	case uint16:
		return Uint(k), nil
	case uint32:
		return Uint(k), nil
	case uint64:
		return Uint(k), nil
	case float32:
		return Float(k), nil
	case float64:
		return Float(k), nil
	case bool:
		return Bool(k), nil
	default:
		return nil, inputError("value of", fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
	}
}

// Strings wraps each string as a Hashable.
func Strings(ss ...string) []Hashable {
	out := make([]Hashable, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// Ints wraps each int as a Hashable.
func Ints(is ...int) []Hashable {
	out := make([]Hashable, len(is))
	for i, v := range is {
		out[i] = Int(v)
	}
	return out
}
