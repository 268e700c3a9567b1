package codec

import (
	"bytes"
	"reflect"
	"testing"
)

func TestCBOREncoderDeterministicMaps(t *testing.T) {
	enc, err := NewCBOREncoder()
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}

	a := map[string]int{"b": 2, "a": 1, "c": 3}
	b := map[string]int{"c": 3, "a": 1, "b": 2}

	var first []byte
	for i := 0; i < 20; i++ {
		ea, err := enc.Encode(a)
		if err != nil {
			t.Fatalf("encode a: %v", err)
		}
		eb, err := enc.Encode(b)
		if err != nil {
			t.Fatalf("encode b: %v", err)
		}
		if !bytes.Equal(ea, eb) {
			t.Fatalf("equal maps encoded differently: %x vs %x", ea, eb)
		}
		if first == nil {
			first = ea
		} else if !bytes.Equal(first, ea) {
			t.Fatalf("encoding not stable across calls")
		}
	}
}

func TestCBOREncoderRejectsUnsupported(t *testing.T) {
	enc, err := NewCBOREncoder()
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	if _, err := enc.Encode(make(chan int)); err == nil {
		t.Fatalf("expected error encoding a channel")
	}
}

func TestCBORCodecRoundTrip(t *testing.T) {
	type S struct {
		A int
		B string
		C []uint64
	}
	c, err := NewCBORCodec[S]()
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	orig := S{A: 42, B: "x", C: []uint64{1, 2, 3}}
	b, err := c.Encode(orig)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, orig)
	}
}

func TestFixedWidthEncoders(t *testing.T) {
	b := AppendInt64(nil, -1234567890)
	if len(b) != 8 {
		t.Fatalf("encode length: %d", len(b))
	}
	got, err := Int64(b)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got != -1234567890 {
		t.Fatalf("round-trip mismatch: %d", got)
	}
	if _, err := Uint64([]byte{1, 2}); err == nil {
		t.Fatalf("expected length error")
	}

	if !bytes.Equal(AppendUint64(nil, 1), []byte{0, 0, 0, 0, 0, 0, 0, 1}) {
		t.Fatalf("not big-endian")
	}
	if !bytes.Equal(AppendBool(nil, true), []byte{1}) || !bytes.Equal(AppendBool(nil, false), []byte{0}) {
		t.Fatalf("bool encoding")
	}
}

func TestFloatCanonicalization(t *testing.T) {
	negZero := AppendFloat64(nil, negativeZero())
	posZero := AppendFloat64(nil, 0)
	if !bytes.Equal(negZero, posZero) {
		t.Fatalf("-0 and +0 should encode equally")
	}
	if bytes.Equal(AppendFloat64(nil, 1.5), AppendFloat64(nil, 2.5)) {
		t.Fatalf("distinct floats encoded equally")
	}
}

func negativeZero() float64 {
	z := 0.0
	return -z
}

func TestLengthPrefixAvoidsAmbiguity(t *testing.T) {
	ab := AppendLengthPrefixed(AppendLengthPrefixed(nil, []byte("a")), []byte("bc"))
	abc := AppendLengthPrefixed(AppendLengthPrefixed(nil, []byte("ab")), []byte("c"))
	if bytes.Equal(ab, abc) {
		t.Fatalf("length prefix should separate %q|%q from %q|%q", "a", "bc", "ab", "c")
	}
}

func TestHexRoundTrip(t *testing.T) {
	h := uint64(0xdeadbeefcafebabe)
	s := EncodeHash(h)
	if s != "deadbeefcafebabe" {
		t.Fatalf("encode: %q", s)
	}
	got, err := DecodeHash(s)
	if err != nil || got != h {
		t.Fatalf("decode: %x, %v", got, err)
	}
	if _, err := DecodeHash("abc"); err == nil {
		t.Fatalf("expected length error")
	}
	if _, err := DecodeHash("zzzzzzzzzzzzzzzz"); err == nil {
		t.Fatalf("expected hex error")
	}

	list := []uint64{0, 1, h}
	decoded, err := DecodeHashes(EncodeHashes(list))
	if err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if !reflect.DeepEqual(decoded, list) {
		t.Fatalf("list mismatch: %v", decoded)
	}
	if _, err := DecodeHashes("0123"); err == nil {
		t.Fatalf("expected list length error")
	}
}
