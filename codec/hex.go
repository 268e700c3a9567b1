package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// hashHexLen is the width of one hash in hex: 16 characters for 64 bits.
const hashHexLen = 16

// EncodeHash renders h as 16 lower-case hex characters.
func EncodeHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// DecodeHash parses the output of EncodeHash.
func DecodeHash(s string) (uint64, error) {
	if len(s) != hashHexLen {
		return 0, fmt.Errorf("codec: hash %q: %w", s, ErrInvalidLength)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("codec: hash %q: %w", s, err)
	}
	return Uint64(b)
}

// EncodeHashes concatenates EncodeHash of every element.
func EncodeHashes(hs []uint64) string {
	var sb strings.Builder
	sb.Grow(len(hs) * hashHexLen)
	for _, h := range hs {
		sb.WriteString(EncodeHash(h))
	}
	return sb.String()
}

// DecodeHashes parses the output of EncodeHashes.
func DecodeHashes(s string) ([]uint64, error) {
	if len(s)%hashHexLen != 0 {
		return nil, fmt.Errorf("codec: hash list of %d chars: %w", len(s), ErrInvalidLength)
	}
	out := make([]uint64, 0, len(s)/hashHexLen)
	for i := 0; i < len(s); i += hashHexLen {
		h, err := DecodeHash(s[i : i+hashHexLen])
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
