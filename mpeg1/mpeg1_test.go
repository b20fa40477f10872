// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package mpeg1

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dsnet/mpegvlc/internal/errors"
	"github.com/dsnet/mpegvlc/internal/testutil"
	"github.com/dsnet/mpegvlc/vlc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTables(t *testing.T) (*vlc.Tree, *vlc.TableSet) {
	t.Helper()
	tree, ts, err := Tables()
	require.NoError(t, err)
	return tree, ts
}

func TestTables(t *testing.T) {
	tree, ts := mustTables(t)
	assert.Equal(t, 2*112, tree.Len())
	assert.Equal(t, 5, ts.NumTables())
	assert.Equal(t, uint(escapeLen), ts.EscapeLen())

	for b := 0; b < 4; b++ {
		e := ts.Entry(0, byte(b))
		if assert.Equal(t, vlc.EntryLink, e.Kind(), "byte %d", b) {
			assert.Equal(t, b+1, e.Link(), "byte %d", b)
		}
	}
	for b := 4; b < 8; b++ {
		assert.Equal(t, vlc.EntryEscape, ts.Entry(0, byte(b)).Kind(), "byte %d", b)
	}

	tree2, ts2, err := Tables()
	require.NoError(t, err)
	assert.True(t, tree == tree2 && ts == ts2, "tables rebuilt on second call")
}

func TestLookup(t *testing.T) {
	_, ts := mustTables(t)
	var vectors = []struct {
		code uint16
		want vlc.Match
	}{
		{0x8000, vlc.Match{Sym: 0x0001, Len: 1}},
		{0xc000, vlc.Match{Sym: 0x0001, Len: 1}},
		{0xffff, vlc.Match{Sym: 0x0001, Len: 1}},
		{0x6000, vlc.Match{Sym: 0x0101, Len: 3}},
		{0x4000, vlc.Match{Sym: 0x0002, Len: 4}},
		{0x3000, vlc.Match{Sym: 0x0401, Len: 5}},
		{0x0800, vlc.Match{Sym: 0x0202, Len: 7}},
		{0x0400, vlc.Match{Sym: vlc.EscapeSym, Len: 6}},
		{0x07ff, vlc.Match{Sym: vlc.EscapeSym, Len: 6}},
		{0x0300, vlc.Match{Sym: 0x0104, Len: 10}},
		{0x0200, vlc.Match{Sym: 0x1001, Len: 10}},
		{0x0100, vlc.Match{Sym: 0x000b, Len: 12}},
		{0x0080, vlc.Match{Sym: 0x0a02, Len: 13}},
		{0x0040, vlc.Match{Sym: 0x001f, Len: 14}},
		{0x0020, vlc.Match{Sym: 0x0028, Len: 15}},
		{0x0010, vlc.Match{Sym: 0x0112, Len: 16}},
		{0x001f, vlc.Match{Sym: 0x1b01, Len: 16}},
	}

	for i, v := range vectors {
		got, err := Lookup(ts, v.code)
		if err != nil {
			t.Errorf("test %d, code %04x: unexpected error: %v", i, v.code, err)
			continue
		}
		if got != v.want {
			t.Errorf("test %d, code %04x: got %v, want %v", i, v.code, got, v.want)
		}
		for j := 0; j < 3; j++ {
			if again, _ := Lookup(ts, v.code); again != got {
				t.Errorf("test %d, code %04x: unstable result %v", i, v.code, again)
			}
		}
	}
}

func TestLookupInvalid(t *testing.T) {
	tree, ts := mustTables(t)
	var numInvalid, numEscape int
	for c := 0; c <= 0xffff; c++ {
		m, err := Lookup(ts, uint16(c))
		switch {
		case err != nil:
			if !errors.IsCorrupted(err) {
				t.Fatalf("code %04x: unexpected error: %v", c, err)
			}
			if _, err := tree.Lookup(uint16(c)); err == nil {
				t.Fatalf("code %04x: slow decoder accepts code", c)
			}
			if c > 0x000f {
				t.Errorf("code %04x: unexpectedly invalid", c)
			}
			numInvalid++
		case m.Sym == vlc.EscapeSym:
			if m.Len != escapeLen || c>>10 != 1 {
				t.Errorf("code %04x: unexpected escape %v", c, m)
			}
			numEscape++
		}
	}
	assert.Equal(t, 16, numInvalid)
	assert.Equal(t, 1024, numEscape)
}

func TestBuildTablesMismatch(t *testing.T) {
	// Symbol 1 moved off the 1-bit code breaks the leading-bit shortcut.
	pairs := append([]vlc.Pair(nil), DCTCoeff...)
	pairs[1].Sym = 0x0002
	_, _, err := buildTables(pairs)
	if !errors.IsMismatch(err) {
		t.Errorf("buildTables: got %v, want mismatch error", err)
	}

	// DCTCoeff itself is left untouched.
	_, _, err = buildTables(DCTCoeff)
	assert.NoError(t, err)
}

func TestReadSymbol(t *testing.T) {
	var vectors = []struct {
		input  string
		syms   []uint16
		lens   []uint
		errf   func(error) bool
		offset int64
	}{{
		input: "",
		errf:  func(err error) bool { return err == io.EOF },
	}, {
		input:  "1 011 0100 00110",
		syms:   []uint16{0x0001, 0x0101, 0x0002, 0x0401},
		lens:   []uint{1, 3, 4, 5},
		offset: 13,
	}, {
		input:  "H16:0010 H16:001f",
		syms:   []uint16{0x0112, 0x1b01},
		lens:   []uint{16, 16},
		offset: 32,
	}, {
		input:  "000001",
		syms:   []uint16{vlc.EscapeSym},
		lens:   []uint{6},
		offset: 6,
	}, {
		input: "0000 0001", // Truncated 12-bit code word
		errf:  func(err error) bool { return err == io.ErrUnexpectedEOF },
	}, {
		input: "0000 0000", // Truncated code word that looks invalid when padded
		errf:  func(err error) bool { return err == io.ErrUnexpectedEOF },
	}, {
		input: "H16:0000",
		errf:  errors.IsCorrupted,
	}}

	for i, v := range vectors {
		rd, err := NewReader(bytes.NewReader(testutil.MustEncodeBits(v.input)))
		require.NoError(t, err)

		var syms []uint16
		var lens []uint
		for range v.syms {
			sym, nb, err := rd.ReadSymbol()
			if err != nil {
				t.Fatalf("test %d, unexpected error: %v", i, err)
			}
			syms, lens = append(syms, sym), append(lens, nb)
		}
		if diff := cmp.Diff(v.syms, syms); diff != "" {
			t.Errorf("test %d, symbols mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(v.lens, lens); diff != "" {
			t.Errorf("test %d, lengths mismatch (-want +got):\n%s", i, diff)
		}
		if v.errf != nil {
			if _, _, err := rd.ReadSymbol(); !v.errf(err) {
				t.Errorf("test %d, unexpected error: %v", i, err)
			}
			continue
		}
		if got := rd.Offset(); got != v.offset {
			t.Errorf("test %d, offset mismatch: got %d, want %d", i, got, v.offset)
		}
	}
}

func TestReadBits(t *testing.T) {
	rd, err := NewReader(bytes.NewReader(testutil.MustEncodeBits("101 D8:200 H16:beef")))
	require.NoError(t, err)

	var got []uint
	for _, nb := range []uint{3, 8, 16} {
		v, err := rd.ReadBits(nb)
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []uint{5, 200, 0xbeef}, got)
	assert.Equal(t, int64(27), rd.Offset())

	_, err = rd.ReadBits(33)
	assert.True(t, errors.IsInvalid(err), "got %v", err)
	_, err = rd.ReadBits(8)
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestReadCoeff(t *testing.T) {
	var vectors = []struct {
		input string
		first bool
		want  Coeff
		ok    bool
	}{
		{input: "1 0", first: true, want: Coeff{Run: 0, Level: 1}, ok: true},
		{input: "1 1", first: true, want: Coeff{Run: 0, Level: -1}, ok: true},
		{input: "11 1", want: Coeff{Run: 0, Level: -1}, ok: true},
		{input: "10", ok: false},
		{input: "0100 0", want: Coeff{Run: 0, Level: 2}, ok: true},
		{input: "011 1", want: Coeff{Run: 1, Level: -1}, ok: true},
		{input: "00110 0", want: Coeff{Run: 4, Level: 1}, ok: true},
		{input: "000001 D6:3 D8:200", want: Coeff{Run: 3, Level: -56}, ok: true},
		{input: "000001 D6:5 D8:127", want: Coeff{Run: 5, Level: 127}, ok: true},
		{input: "000001 D6:0 D8:0 D8:200", want: Coeff{Run: 0, Level: 200}, ok: true},
		{input: "000001 D6:63 D8:128 D8:10", want: Coeff{Run: 63, Level: -246}, ok: true},
	}

	for i, v := range vectors {
		rd, err := NewReader(bytes.NewReader(testutil.MustEncodeBits(v.input)))
		require.NoError(t, err)
		got, ok, err := rd.ReadCoeff(v.first)
		if err != nil {
			t.Errorf("test %d, unexpected error: %v", i, err)
			continue
		}
		if ok != v.ok || got != v.want {
			t.Errorf("test %d, ReadCoeff(%v) = (%v, %v), want (%v, %v)", i, v.first, got, ok, v.want, v.ok)
		}
	}
}

func TestReadSymbolRandom(t *testing.T) {
	tree, _ := mustTables(t)
	rand := testutil.NewRand(0)
	for i := 0; i < 1000; i++ {
		code := rand.Uint16()
		want, err := tree.Lookup(code)
		if err != nil {
			continue
		}
		rd, err := NewReader(bytes.NewReader([]byte{byte(code >> 8), byte(code)}))
		require.NoError(t, err)
		sym, nb, err := rd.ReadSymbol()
		if err != nil {
			t.Fatalf("test %d, code %04x: unexpected error: %v", i, code, err)
		}
		if sym != want.Sym || nb != uint(want.Len) {
			t.Errorf("test %d, code %04x: got (%d, %04x), want %v", i, code, nb, sym, want)
		}
	}
}

// escapeBits returns the bit-string description of c as an escape code.
func escapeBits(c Coeff) string {
	var lvl string
	switch l := c.Level; {
	case l >= 128:
		lvl = fmt.Sprintf("D8:0 D8:%d", l)
	case l <= -128:
		lvl = fmt.Sprintf("D8:128 D8:%d", l+256)
	case l < 0:
		lvl = fmt.Sprintf("D8:%d", l+256)
	default:
		lvl = fmt.Sprintf("D8:%d", l)
	}
	return fmt.Sprintf("000001 D6:%d %s", c.Run, lvl)
}

func TestReadBlockRandom(t *testing.T) {
	rand := testutil.NewRand(1)
	for i := 0; i < 100; i++ {
		var want []Coeff
		var toks []string
		for n := 0; n < BlockSize; {
			c := Coeff{Pos: n + rand.Intn(BlockSize-n), Level: int(rand.Bits(8))}
			c.Run = c.Pos - n
			if c.Level == 0 {
				c.Level = 1
			}
			if rand.Bits(1) == 1 {
				c.Level = -c.Level
			}
			want = append(want, c)
			toks = append(toks, escapeBits(c))
			n = c.Pos + 1
			if rand.Intn(4) == 0 {
				break
			}
		}
		toks = append(toks, "10")

		rd, err := NewReader(bytes.NewReader(testutil.MustEncodeBits(strings.Join(toks, "\n"))))
		require.NoError(t, err)
		got, err := rd.ReadBlock(nil, false)
		if err != nil {
			t.Fatalf("test %d, unexpected error: %v", i, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("test %d, coefficients mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestReadBlock(t *testing.T) {
	var vectors = []struct {
		desc  string
		input string
		intra bool
		want  []Coeff
		errf  func(error) bool
	}{{
		desc:  "empty intra block",
		input: "10",
		intra: true,
	}, {
		desc: "non-intra block",
		input: `
			1 0                # level 1
			011 1              # run 1, level -1
			000001 D6:3 D8:200 # escape: run 3, level -56
			10                 # end of block
		`,
		want: []Coeff{
			{Pos: 0, Run: 0, Level: 1},
			{Pos: 2, Run: 1, Level: -1},
			{Pos: 6, Run: 3, Level: -56},
		},
	}, {
		desc:  "intra block",
		input: "11 0 0100 1 10",
		intra: true,
		want: []Coeff{
			{Pos: 1, Run: 0, Level: 1},
			{Pos: 2, Run: 0, Level: -2},
		},
	}, {
		desc:  "last position",
		input: "000001 D6:63 D8:1 10",
		want:  []Coeff{{Pos: 63, Run: 63, Level: 1}},
	}, {
		desc:  "position overflow",
		input: "000001 D6:63 D8:1 11 0",
		errf:  errors.IsCorrupted,
	}, {
		desc:  "missing end of block",
		input: "1 0",
		errf:  func(err error) bool { return err == io.ErrUnexpectedEOF },
	}, {
		desc:  "invalid code word",
		input: "1 0 H16:0000",
		errf:  errors.IsCorrupted,
	}}

	for i, v := range vectors {
		rd, err := NewReader(bytes.NewReader(testutil.MustEncodeBits(v.input)))
		require.NoError(t, err)
		got, err := rd.ReadBlock(nil, v.intra)
		if v.errf != nil {
			if !v.errf(err) {
				t.Errorf("test %d (%s), unexpected error: %v", i, v.desc, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("test %d (%s), unexpected error: %v", i, v.desc, err)
			continue
		}
		if diff := cmp.Diff(v.want, got); diff != "" {
			t.Errorf("test %d (%s), coefficients mismatch (-want +got):\n%s", i, v.desc, diff)
		}
	}
}

func TestReaderError(t *testing.T) {
	data := testutil.MustEncodeBits("H16:0010")
	br := &testutil.BuggyReader{R: bytes.NewReader(data), N: 1, Err: io.ErrClosedPipe}
	rd, err := NewReader(br)
	require.NoError(t, err)
	_, _, err = rd.ReadSymbol()
	assert.Equal(t, io.ErrClosedPipe, err)

	rd.Reset(bytes.NewReader(data))
	sym, nb, err := rd.ReadSymbol()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0112), sym)
	assert.Equal(t, uint(16), nb)
}

func BenchmarkReadBlock(b *testing.B) {
	block := `
		1 0 011 1 0100 0 00110 1 000001 D6:3 D8:200 0000 0001 0001 0
		10
	`
	data := bytes.Repeat(testutil.MustEncodeBits(block), 64)
	rd, err := NewReader(bytes.NewReader(data))
	if err != nil {
		b.Fatal(err)
	}
	var buf []Coeff

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rd.Reset(bytes.NewReader(data))
		for j := 0; j < 64; j++ {
			if buf, err = rd.ReadBlock(buf[:0], false); err != nil {
				b.Fatal(err)
			}
		}
	}
}
