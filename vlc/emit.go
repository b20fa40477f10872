// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"go/format"
	"io"

	"github.com/dsnet/mpegvlc/internal/errors"
)

const (
	binMagic   = "VLCQ"
	binVersion = 1
	binHdrSize = len(binMagic) + 1 + 1 + 2
)

// Packed returns every table in packed form (see Entry.Pack).
func (ts *TableSet) Packed() ([][tableSize]int32, error) {
	out := make([][tableSize]int32, len(ts.tables))
	for j := range ts.tables {
		for i, e := range ts.tables[j] {
			v, err := e.Pack()
			if err != nil {
				return nil, err
			}
			out[j][i] = v
		}
	}
	return out, nil
}

// WriteGoSource writes a Go source file declaring the packed tables as a
// variable with the given name in package pkg.
func (ts *TableSet) WriteGoSource(w io.Writer, pkg, name string) error {
	packed, err := ts.Packed()
	if err != nil {
		return err
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by vlcgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// %s holds %d byte-indexed code tables.\n", name, len(packed))
	fmt.Fprintf(&b, "//\n")
	fmt.Fprintf(&b, "// An entry of 0 is an invalid code word, 0xffff is the %d-bit escape code,\n", ts.escLen)
	fmt.Fprintf(&b, "// a positive entry is sym | (bits-1)<<13, and a negative entry is the\n")
	fmt.Fprintf(&b, "// negated index of the table that decodes the next byte.\n")
	fmt.Fprintf(&b, "var %s = [%d][%d]int32{\n", name, len(packed), tableSize)
	for _, t := range packed {
		fmt.Fprintf(&b, "{\n")
		for i, v := range t {
			fmt.Fprintf(&b, "%d,", v)
			if i%16 == 15 {
				fmt.Fprintf(&b, "\n")
			} else {
				fmt.Fprintf(&b, " ")
			}
		}
		fmt.Fprintf(&b, "},\n")
	}
	fmt.Fprintf(&b, "}\n")

	src, err := format.Source(b.Bytes())
	if err != nil {
		return errorf(errors.Invalid, "generated source: %v", err)
	}
	_, err = w.Write(src)
	return err
}

// MarshalBinary encodes the tables as the 4-byte magic "VLCQ", a version
// byte, the escape code length, the table count as a big-endian uint16, and
// then every packed entry as a big-endian int32.
func (ts *TableSet) MarshalBinary() ([]byte, error) {
	packed, err := ts.Packed()
	if err != nil {
		return nil, err
	}
	b := make([]byte, binHdrSize, binHdrSize+4*tableSize*len(packed))
	copy(b, binMagic)
	b[4] = binVersion
	b[5] = ts.escLen
	binary.BigEndian.PutUint16(b[6:], uint16(len(packed)))
	for _, t := range packed {
		for _, v := range t {
			b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
		}
	}
	return b, nil
}

// UnmarshalTables decodes the output of MarshalBinary.
//
// Links must point forward to a later table and chains may not exceed
// MaxCodeBits, so a decoded TableSet always terminates.
func UnmarshalTables(b []byte) (*TableSet, error) {
	if len(b) < binHdrSize || string(b[:4]) != binMagic {
		return nil, errorf(errors.Corrupted, "missing table header")
	}
	if b[4] != binVersion {
		return nil, errorf(errors.Corrupted, "unknown table version %d", b[4])
	}
	ts := &TableSet{escLen: b[5]}
	n := int(binary.BigEndian.Uint16(b[6:]))
	b = b[binHdrSize:]
	if n == 0 || len(b) != 4*tableSize*n {
		return nil, errorf(errors.Corrupted, "table data has %d bytes for %d tables", len(b), n)
	}

	ts.tables = make([]Table, n)
	depths := make([]int, n) // Bits consumed before each table; -1 if unreachable
	for j := 1; j < n; j++ {
		depths[j] = -1
	}
	for j := range ts.tables {
		for i := range ts.tables[j] {
			v := int32(binary.BigEndian.Uint32(b))
			b = b[4:]
			e, err := UnpackEntry(v)
			if err != nil {
				return nil, errorf(errors.Corrupted, "table %d, entry %d: %v", j, i, err)
			}
			switch e.kind {
			case EntryEscape:
				if ts.escLen == 0 || ts.escLen > MaxCodeBits {
					return nil, errorf(errors.Corrupted, "escape entry with length %d", ts.escLen)
				}
			case EntryLink:
				if e.Link() <= j || e.Link() >= n || depths[j] < 0 || depths[j]+tableBits >= MaxCodeBits {
					return nil, errorf(errors.Corrupted, "table %d, entry %d: invalid link to table %d", j, i, e.Link())
				}
				depths[e.Link()] = depths[j] + tableBits
			}
			ts.tables[j][i] = e
		}
	}
	return ts, nil
}
