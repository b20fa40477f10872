// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand implements a deterministic pseudo-random number generator.
// This differs from the math.Rand in that the exact output will be consistent
// across different versions of Go.
type Rand struct {
	stream cipher.Stream
	blk    [8]byte
}

func NewRand(seed int) *Rand {
	var key, iv [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	blk, _ := aes.NewCipher(key[:])
	return &Rand{stream: cipher.NewCTR(blk, iv[:])}
}

func (r *Rand) next() uint64 {
	r.blk = [8]byte{}
	r.stream.XORKeyStream(r.blk[:], r.blk[:])
	return binary.LittleEndian.Uint64(r.blk[:])
}

func (r *Rand) Int() int {
	return int(r.next() >> 1)
}

func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

// Uint16 returns a pseudo-random 16-bit code word.
func (r *Rand) Uint16() uint16 {
	return uint16(r.next())
}

// Bits returns a pseudo-random value of nb bits.
func (r *Rand) Bits(nb uint) uint {
	return uint(r.next() & (1<<nb - 1))
}
