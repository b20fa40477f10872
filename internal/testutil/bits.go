// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/icza/bitio"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// EncodeBits encodes a bit-string description into bytes.
//
// The description is a series of tokens separated by white space, where the
// '#' character starts a comment that runs to the end of the line. Unlike the
// DEFLATE oriented formats, MPEG streams are always packed starting with the
// most-significant bit of each byte, so there are no bit-order modifiers.
//
// A token of the pattern "[01]{1,64}" is a bit-string written left to right
// (e.g. 000001 is the MPEG-1 escape code).
//
// A token of the form "D[0-9]+:[0-9]+" or "H[0-9]+:[0-9a-fA-F]{1,16}" is a
// decimal or hexadecimal value written as an unsigned integer with the given
// bit-length, most-significant bit first.
//
// A token may carry a trailing "*N" quantifier to repeat it N times.
//
// If the bit-stream does not end on a byte boundary, it is padded with 0 bits.
//
// Example:
//	000001 D6:3 D8:200 # escape, run 3, level -56
//	10                 # end of block
func EncodeBits(str string) ([]byte, error) {
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		toks = append(toks, strings.Fields(s)...)
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	for _, t := range toks {
		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			n, err := strconv.Atoi(t[i+1:])
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = t[:i], n
		}

		var v uint64
		var n int
		switch {
		case reBin.MatchString(t):
			for _, b := range t {
				v = v<<1 | uint64(b-'0')
			}
			n = len(t)
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			base := 10
			if t[0] == 'H' {
				base = 16
			}
			var err1, err2 error
			n, err1 = strconv.Atoi(t[1:i])
			v, err2 = strconv.ParseUint(t[i+1:], base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v&(1<<uint(n)-1) != v {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}

		for i := 0; i < rep; i++ {
			if err := writeBits(bw, v, n); err != nil {
				return nil, err
			}
		}
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBits writes the lower n bits of v, most-significant bit first.
func writeBits(bw *bitio.Writer, v uint64, n int) error {
	if n == 0 {
		return nil
	}
	return bw.WriteBits(v, uint8(n))
}
