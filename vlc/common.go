// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package vlc compiles variable-length code tables.
//
// A code table is supplied as a bit-tree, where every step of the decoder
// consumes a single bit of input. Compile turns the bit-tree into a chain of
// 256-entry tables so that a decoder can consume a whole byte per step.
// Verify checks a compiled decoder against the bit-tree over every possible
// 16-bit input, and must pass before a compiled table is put to use.
package vlc

import (
	"fmt"

	"github.com/dsnet/mpegvlc/internal/errors"
)

const (
	// MaxCodeBits is the maximum bit-length of any code word.
	MaxCodeBits = 16

	// EscapeSym is the one symbol that does not fit in symBits.
	// Its code word has a fixed length known to the decoder.
	EscapeSym = 0xffff

	tableBits = 8
	tableSize = 1 << tableBits
	symBits   = 13
	symMask   = 1<<symBits - 1
)

// ErrMalformed reports a code word that does not exist in the code table.
var ErrMalformed error = errors.Error{Code: errors.Corrupted, Pkg: "vlc", Msg: "malformed code word"}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "vlc", Msg: fmt.Sprintf(f, a...)}
}

// Match is the result of decoding one code word.
type Match struct {
	Sym uint16 // Decoded symbol
	Len uint8  // Number of code bits consumed (1..16)
}

// Decoder is implemented by everything that can decode a code word given
// the next 16 bits of input, most-significant bit first.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Lookup(code uint16) (Match, error)
}

// LookupFunc adapts an ordinary function to the Decoder interface.
type LookupFunc func(code uint16) (Match, error)

func (f LookupFunc) Lookup(code uint16) (Match, error) { return f(code) }
