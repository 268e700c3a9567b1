package codec

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrInvalidLength is returned when a fixed-width decode receives the wrong size.
var ErrInvalidLength = errors.New("codec: invalid encoded length")

// AppendUint64 appends v as 8 big-endian bytes.
func AppendUint64(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

// AppendInt64 appends v as 8 big-endian bytes (two's complement).
func AppendInt64(dst []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(v))
}

// AppendFloat64 appends the IEEE-754 bits of v. -0 is folded to +0 and every
// NaN to the canonical quiet NaN so equal values encode equally.
func AppendFloat64(dst []byte, v float64) []byte {
	switch {
	case v == 0:
		v = 0
	case math.IsNaN(v):
		v = math.NaN()
	}
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(v))
}

// AppendBool appends 0x01 or 0x00.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// AppendLengthPrefixed appends a uvarint length followed by b, so that
// concatenations of variable-size fields stay unambiguous.
func AppendLengthPrefixed(dst, b []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

// Uint64 decodes an 8-byte big-endian value.
func Uint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, ErrInvalidLength
	}
	return binary.BigEndian.Uint64(b), nil
}

// Int64 decodes an 8-byte big-endian value.
func Int64(b []byte) (int64, error) {
	u, err := Uint64(b)
	return int64(u), err
}
