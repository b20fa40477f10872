// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package mpeg1

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/mpegvlc/mpeg1"
	"github.com/dsnet/mpegvlc/vlc"
	"github.com/icza/bitio"
)

func Fuzz(data []byte) int {
	tree, _, err := mpeg1.Tables()
	if err != nil {
		panic(err)
	}
	fast, ferr := readFast(data)
	slow, serr := readSlow(tree, data)

	n := len(fast)
	if len(slow) < n {
		n = len(slow)
	}
	for i := 0; i < n; i++ {
		if fast[i] != slow[i] {
			panic(fmt.Sprintf("symbol %d: fast decoder got %v, slow decoder got %v", i, fast[i], slow[i]))
		}
	}
	if len(fast) != len(slow) {
		panic(fmt.Sprintf("decoded %d symbols with the fast decoder (%v), %d with the slow one (%v)", len(fast), ferr, len(slow), serr))
	}
	if (ferr == io.EOF) != (serr == io.EOF) {
		panic(fmt.Sprintf("mismatching errors: %v != %v", ferr, serr))
	}

	rd, err := mpeg1.NewReader(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	if _, err := rd.ReadBlock(nil, len(data) > 0 && data[0]&1 == 1); err == nil {
		return 1 // Favor inputs that hold a whole block
	}
	return 0
}

// readFast decodes symbols with the table driven Reader until it fails.
func readFast(data []byte) ([]vlc.Match, error) {
	rd, err := mpeg1.NewReader(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	var ms []vlc.Match
	for {
		sym, nb, err := rd.ReadSymbol()
		if err != nil {
			return ms, err
		}
		ms = append(ms, vlc.Match{Sym: sym, Len: uint8(nb)})
	}
}

// readSlow decodes symbols by walking the bit-tree one input bit at a time.
// A code word cut short by the end of input is reported like any other
// error, since the fast decoder only sees zero padding there.
func readSlow(tree *vlc.Tree, data []byte) ([]vlc.Match, error) {
	br := bitio.NewReader(bytes.NewReader(data))
	var ms []vlc.Match
	for {
		m, err := slowSymbol(tree, br)
		if err != nil {
			return ms, err
		}
		ms = append(ms, m)
	}
}

func slowSymbol(tree *vlc.Tree, br *bitio.Reader) (vlc.Match, error) {
	var idx int
	for nb := 1; nb <= vlc.MaxCodeBits; nb++ {
		bit, err := br.ReadBool()
		if err != nil {
			if err == io.EOF && nb > 1 {
				err = io.ErrUnexpectedEOF
			}
			return vlc.Match{}, err
		}
		if bit {
			idx++
		}
		switch n := tree.Node(idx); n.Kind {
		case vlc.NodeInvalid:
			return vlc.Match{}, vlc.ErrMalformed
		case vlc.NodeTerminal:
			return vlc.Match{Sym: n.Sym, Len: uint8(nb)}, nil
		default:
			idx = n.Next
		}
	}
	panic("code word exceeds maximum length")
}
