// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlc

import "github.com/dsnet/mpegvlc/internal/errors"

// TableSet is a compiled code table. Table 0 decodes the first byte of a
// code word, and longer code words link to further tables.
// A TableSet is immutable and safe for concurrent use.
type TableSet struct {
	tables []Table
	escLen uint8 // Bit-length of the EscapeSym code word, if any
}

// builder is the table registry for a single call to Compile.
type builder struct {
	tree   *Tree
	tables []Table
	escLen uint8
}

// Compile compiles a bit-tree into byte-indexed tables.
//
// Tables are numbered in the order they are allocated: a table's index is
// reserved before any of the tables it links to are built. No table is shared
// between two bytes, even if both lead to the same internal node.
func Compile(t *Tree) (ts *TableSet, err error) {
	defer errors.Recover(&err)
	b := &builder{tree: t}
	b.build(0, 0)
	return &TableSet{tables: b.tables, escLen: b.escLen}, nil
}

// build appends a new table for the subtree whose children start at idx,
// where depth bits of the code word have already been consumed.
// It returns the index of the new table.
func (b *builder) build(idx int, depth uint) int {
	tidx := len(b.tables)
	b.tables = append(b.tables, Table{})
	for c := 0; c < tableSize; c++ {
		var e Entry
		n, nb := b.tree.walkByte(idx, byte(c))
		switch n.Kind {
		case NodeInvalid:
		case NodeTerminal:
			if n.Sym == EscapeSym {
				b.setEscapeLen(depth + nb)
				e = Entry{kind: EntryEscape}
			} else {
				e = Entry{kind: EntryTerminal, nb: uint8(nb), val: n.Sym}
			}
		case NodeInternal:
			if depth+tableBits >= MaxCodeBits {
				errors.Panic(errorf(errors.Internal, "code words exceed %d bits", MaxCodeBits))
			}
			e = Entry{kind: EntryLink, val: uint16(b.build(n.Next, depth+tableBits))}
		}
		if _, err := e.Pack(); err != nil {
			errors.Panic(err)
		}
		b.tables[tidx][c] = e // b.tables may have been reallocated
	}
	return tidx
}

// setEscapeLen records the bit-length of the escape code word.
// The decoder relies on it being the same everywhere.
func (b *builder) setEscapeLen(n uint) {
	if b.escLen != 0 && uint(b.escLen) != n {
		errors.Panic(errorf(errors.Internal, "escape code word has lengths %d and %d", b.escLen, n))
	}
	b.escLen = uint8(n)
}

// NumTables reports the number of tables.
func (ts *TableSet) NumTables() int { return len(ts.tables) }

// EscapeLen reports the bit-length of the EscapeSym code word,
// or zero if the code table does not contain it.
func (ts *TableSet) EscapeLen() uint { return uint(ts.escLen) }

// Entry returns the entry for byte b in table t.
func (ts *TableSet) Entry(t int, b byte) Entry { return ts.tables[t][b] }

// Lookup decodes the code word at the start of code using the tables alone,
// without knowledge of any particular code table.
func (ts *TableSet) Lookup(code uint16) (Match, error) {
	var base uint8
	e := ts.tables[0][code>>8]
	if e.kind == EntryLink {
		base = tableBits
		e = ts.tables[e.val][byte(code)]
	}
	switch e.kind {
	case EntryTerminal:
		return Match{Sym: e.val, Len: base + e.nb}, nil
	case EntryEscape:
		return Match{Sym: EscapeSym, Len: ts.escLen}, nil
	case EntryLink:
		return Match{}, errorf(errors.Internal, "table chain exceeds %d bits", MaxCodeBits)
	default:
		return Match{}, ErrMalformed
	}
}
