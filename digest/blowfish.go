package digest

import (
	"encoding/binary"

	"golang.org/x/crypto/blowfish"
)

// blowfishKey is fixed so the compression function is a public permutation.
var blowfishKey = []byte("kiohash/blowfish/v1")

var blowfishCipher = mustBlowfish(blowfishKey)

func mustBlowfish(key []byte) *blowfish.Cipher {
	c, err := blowfish.NewCipher(key)
	if err != nil {
		panic(err)
	}
	return c
}

// Blowfish builds a 64-bit hash from the Blowfish block cipher using the
// Matyas-Meyer-Oseas construction: h = E(m ^ h) ^ m per 8-byte block. The
// input is padded with 0x80, zeros, and a final block holding the bit length.
func Blowfish(data []byte) uint64 {
	var (
		state [blowfish.BlockSize]byte
		block [blowfish.BlockSize]byte
		enc   [blowfish.BlockSize]byte
	)

	compress := func(m []byte) {
		for i := range block {
			block[i] = m[i] ^ state[i]
		}
		blowfishCipher.Encrypt(enc[:], block[:])
		for i := range state {
			state[i] = enc[i] ^ m[i]
		}
	}

	n := len(data)
	for len(data) >= blowfish.BlockSize {
		compress(data[:blowfish.BlockSize])
		data = data[blowfish.BlockSize:]
	}

	var tail [blowfish.BlockSize]byte
	copy(tail[:], data)
	tail[len(data)] = 0x80
	compress(tail[:])

	var length [blowfish.BlockSize]byte
	binary.BigEndian.PutUint64(length[:], uint64(n)*8)
	compress(length[:])

	return binary.BigEndian.Uint64(state[:])
}
