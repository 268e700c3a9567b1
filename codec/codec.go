// Package codec turns values into the canonical bytes the hash engine consumes.
//
// Two encodings are provided: fixed-width big-endian encoders for scalars,
// and a deterministic CBOR encoder (RFC 8949 core deterministic rules) for
// arbitrary structured values. Both are stable within and across processes.
package codec

import (
	cbor "github.com/fxamacker/cbor/v2"
)

// Encoder maps a value to a canonical byte sequence. The same logical value
// must always produce the same bytes.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// CBOREncoder encodes with core deterministic CBOR: sorted map keys,
// shortest-form integers and floats, no indefinite lengths.
type CBOREncoder struct {
	mode cbor.EncMode
}

// NewCBOREncoder builds the deterministic encoder.
func NewCBOREncoder() (*CBOREncoder, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return &CBOREncoder{mode: em}, nil
}

// Encode implements Encoder.
func (e *CBOREncoder) Encode(v any) ([]byte, error) { return e.mode.Marshal(v) }

// CBORCodec round-trips V through deterministic CBOR.
type CBORCodec[V any] struct {
	enc *CBOREncoder
}

// NewCBORCodec builds a codec for V.
func NewCBORCodec[V any]() (*CBORCodec[V], error) {
	enc, err := NewCBOREncoder()
	if err != nil {
		return nil, err
	}
	return &CBORCodec[V]{enc: enc}, nil
}

func (c *CBORCodec[V]) Encode(v V) ([]byte, error) { return c.enc.Encode(v) }
func (c *CBORCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := cbor.Unmarshal(b, &v)
	return v, err
}
