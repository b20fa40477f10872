// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package mpeg1

import (
	"bufio"
	"io"

	"github.com/dsnet/mpegvlc"
	"github.com/dsnet/mpegvlc/internal/errors"
	"github.com/dsnet/mpegvlc/vlc"
)

// Reader reads DCT coefficients from an MPEG-1 video bit-stream.
//
// Bits are consumed most-significant bit first. The Reader never reads more
// bytes from an mpegvlc.ByteReader than the bits it has been asked for
// require; other io.Readers are wrapped in a bufio.Reader.
// A Reader must be created with NewReader.
type Reader struct {
	rd      mpegvlc.ByteReader
	bufBits uint64 // Buffer to hold some bits, the next bit is the highest valid one
	numBits uint   // Number of valid bits in bufBits
	offset  int64  // Number of bytes read from the underlying io.Reader
	eof     bool   // Underlying reader returned io.EOF

	tables *vlc.TableSet
}

// NewReader returns a Reader that reads from r.
// It fails if the DCT coefficient tables do not pass their check.
func NewReader(r io.Reader) (*Reader, error) {
	_, ts, err := Tables()
	if err != nil {
		return nil, err
	}
	zr := &Reader{tables: ts}
	zr.Reset(r)
	return zr, nil
}

// Reset discards the Reader's state and makes it read from r.
func (zr *Reader) Reset(r io.Reader) {
	*zr = Reader{tables: zr.tables}
	if rr, ok := r.(mpegvlc.ByteReader); ok {
		zr.rd = rr
	} else {
		zr.rd = bufio.NewReader(r)
	}
}

// Offset reports the number of bits consumed so far.
func (zr *Reader) Offset() int64 {
	return 8*zr.offset - int64(zr.numBits)
}

// feedBits tries to ensure that at least nb bits exist in the bit buffer.
// It may hold fewer bits only once the underlying reader hit io.EOF.
func (zr *Reader) feedBits(nb uint) {
	for zr.numBits < nb && !zr.eof {
		c, err := zr.rd.ReadByte()
		if err != nil {
			if err == io.EOF {
				zr.eof = true
				break
			}
			errors.Panic(err)
		}
		zr.bufBits = zr.bufBits<<8 | uint64(c)
		zr.numBits += 8
		zr.offset++
	}
}

func (zr *Reader) readBits(nb uint) uint {
	zr.feedBits(nb)
	if zr.numBits < nb {
		errors.Panic(io.ErrUnexpectedEOF)
	}
	zr.numBits -= nb
	val := uint(zr.bufBits>>zr.numBits) & (1<<nb - 1)
	zr.bufBits &= 1<<zr.numBits - 1
	return val
}

// ReadBits reads nb bits, where nb is at most 32.
func (zr *Reader) ReadBits(nb uint) (val uint, err error) {
	if nb > 32 {
		return 0, errorf(errors.Invalid, "cannot read %d bits at once", nb)
	}
	defer errors.Recover(&err)
	return zr.readBits(nb), nil
}

// readSymbol decodes one code word. The decoder always looks at 16 bits, so
// the tail of the stream is padded with zeros; a code word that reaches into
// the padding is truncated.
func (zr *Reader) readSymbol() (uint16, uint) {
	zr.feedBits(vlc.MaxCodeBits)
	var code uint16
	if zr.numBits >= vlc.MaxCodeBits {
		code = uint16(zr.bufBits >> (zr.numBits - vlc.MaxCodeBits))
	} else {
		code = uint16(zr.bufBits << (vlc.MaxCodeBits - zr.numBits))
	}

	m, err := Lookup(zr.tables, code)
	if err != nil {
		if errors.IsCorrupted(err) && zr.numBits < vlc.MaxCodeBits {
			err = io.ErrUnexpectedEOF
		}
		errors.Panic(err)
	}
	nb := uint(m.Len)
	if nb > zr.numBits {
		errors.Panic(io.ErrUnexpectedEOF)
	}
	zr.numBits -= nb
	zr.bufBits &= 1<<zr.numBits - 1
	return m.Sym, nb
}

// ReadSymbol decodes the next DCT coefficient code word and returns its
// symbol together with the number of bits it occupied.
// It returns io.EOF only if the stream ended exactly before the code word.
func (zr *Reader) ReadSymbol() (sym uint16, nb uint, err error) {
	defer errors.Recover(&err)
	if zr.feedBits(1); zr.numBits == 0 {
		return 0, 0, io.EOF
	}
	sym, nb = zr.readSymbol()
	return sym, nb, nil
}

// readCoeff reads one run/level pair. The code word 1 stands for the end of
// block unless first is set, in which case it is the coefficient 1.
func (zr *Reader) readCoeff(first bool) (Coeff, bool) {
	sym, _ := zr.readSymbol()
	if sym == eobSym && !first && zr.readBits(1) == 0 {
		return Coeff{}, false
	}

	var c Coeff
	if sym == vlc.EscapeSym {
		c.Run = int(zr.readBits(6))
		c.Level = int(zr.readBits(8))
		switch {
		case c.Level == 0:
			c.Level = int(zr.readBits(8))
		case c.Level == 128:
			c.Level = int(zr.readBits(8)) - 256
		case c.Level > 128:
			c.Level -= 256
		}
	} else {
		c.Run = int(sym >> 8)
		c.Level = int(sym & 0xff)
		if zr.readBits(1) != 0 {
			c.Level = -c.Level
		}
	}
	return c, true
}

// ReadCoeff reads the next coefficient of a block. It reports ok as false
// when it reads the end of block code instead.
// The first coefficient of a non-intra block must be read with first set,
// since it cannot be preceded by the end of block.
func (zr *Reader) ReadCoeff(first bool) (c Coeff, ok bool, err error) {
	defer errors.Recover(&err)
	c, ok = zr.readCoeff(first)
	return c, ok, nil
}

// ReadBlock reads the coefficients of one block up to and including the end
// of block code, and appends them to dst.
//
// For intra blocks, the DC coefficient is coded separately and must already
// have been read, so positions start at 1.
func (zr *Reader) ReadBlock(dst []Coeff, intra bool) (_ []Coeff, err error) {
	defer errors.Recover(&err)
	var n int
	if intra {
		n = 1
	}
	for {
		c, ok := zr.readCoeff(n == 0)
		if !ok {
			return dst, nil
		}
		n += c.Run
		if n < 0 || n >= BlockSize {
			errors.Panic(errPosition)
		}
		c.Pos = n
		dst = append(dst, c)
		n++
	}
}
