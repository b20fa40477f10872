// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package mpegvlc is a collection of variable-length code (VLC) table
// builders and decoders for MPEG-1 class video.
//
// The vlc package compiles a bit-level decision tree into byte-indexed lookup
// tables and checks the result exhaustively against the bit-by-bit decoder.
// The mpeg1 package uses those tables to read DCT coefficients from a video
// bit-stream.
package mpegvlc

import "io"

// The Error interface identifies all errors generated by this repository.
type Error interface {
	error

	// IsInternal reports whether a code table violated a build invariant.
	IsInternal() bool

	// IsInvalid reports whether the API was misused.
	IsInvalid() bool

	// IsCorrupted reports whether a code word or stream was malformed.
	IsCorrupted() bool

	// IsMismatch reports whether two decoders disagreed.
	IsMismatch() bool
}

// ByteReader is an interface accepted by all bit readers in this repository.
// Readers that do not implement it are wrapped in a bufio.Reader, which may
// read more bytes from the source than are strictly necessary.
type ByteReader interface {
	io.Reader
	io.ByteReader
}
