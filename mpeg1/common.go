// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package mpeg1 decodes the DCT coefficient code of MPEG-1 video
// (ISO/IEC 11172-2) using tables compiled by package vlc.
package mpeg1

import (
	"fmt"

	"github.com/dsnet/mpegvlc/internal/errors"
)

// BlockSize is the number of coefficients in an 8x8 block.
const BlockSize = 64

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: "mpeg1", Msg: fmt.Sprintf(f, a...)}
}

var errPosition error = errors.Error{Code: errors.Corrupted, Pkg: "mpeg1", Msg: "coefficient position out of range"}

// Coeff is one decoded DCT coefficient.
type Coeff struct {
	Pos   int // Zig-zag position in the block (0..63); set by ReadBlock
	Run   int // Number of zero coefficients preceding this one
	Level int // Signed coefficient value
}

func (c Coeff) String() string {
	return fmt.Sprintf("{Pos: %d, Run: %d, Level: %d}", c.Pos, c.Run, c.Level)
}
