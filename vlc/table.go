// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlc

import "github.com/dsnet/mpegvlc/internal/errors"

type EntryKind uint8

const (
	EntryInvalid  EntryKind = iota // Code word does not exist
	EntryTerminal                  // Code word ends within this table
	EntryEscape                    // Code word for EscapeSym ends within this table
	EntryLink                      // Continue with the next byte in another table
)

// Entry is one slot of a byte-indexed Table.
type Entry struct {
	kind EntryKind
	nb   uint8  // Bits consumed within this table (EntryTerminal only)
	val  uint16 // Symbol (EntryTerminal) or table index (EntryLink)
}

// Table maps the next 8 bits of input to an Entry.
type Table [tableSize]Entry

func (e Entry) Kind() EntryKind { return e.kind }

// Sym reports the decoded symbol of a terminal or escape entry.
func (e Entry) Sym() uint16 {
	if e.kind == EntryEscape {
		return EscapeSym
	}
	return e.val
}

// Len reports the number of bits consumed within the table (1..8) by a
// terminal entry. Escape entries do not carry a length.
func (e Entry) Len() uint { return uint(e.nb) }

// Link reports the index of the table to continue with.
func (e Entry) Link() int { return int(e.val) }

// Pack converts the entry to its packed integer form:
//
//	0                   invalid
//	0xffff              escape
//	sym | (nb-1) << 13  terminal
//	-index              link
//
// Entries that cannot be represented unambiguously are rejected.
func (e Entry) Pack() (int32, error) {
	switch e.kind {
	case EntryInvalid:
		return 0, nil
	case EntryEscape:
		return EscapeSym, nil
	case EntryLink:
		if e.val == 0 {
			return 0, errorf(errors.Invalid, "link to the root table")
		}
		return -int32(e.val), nil
	case EntryTerminal:
		if e.val&^symMask != 0 || e.nb < 1 || e.nb > tableBits {
			return 0, errorf(errors.Invalid, "terminal (%#04x, %d) out of range", e.val, e.nb)
		}
		v := int32(e.val) | int32(e.nb-1)<<symBits
		if v == 0 || v == EscapeSym {
			return 0, errorf(errors.Internal, "terminal (%#04x, %d) packs to reserved value %#04x", e.val, e.nb, v)
		}
		return v, nil
	default:
		return 0, errorf(errors.Invalid, "unknown entry kind %d", e.kind)
	}
}

// UnpackEntry is the inverse of Entry.Pack.
func UnpackEntry(v int32) (Entry, error) {
	switch {
	case v == 0:
		return Entry{}, nil
	case v == EscapeSym:
		return Entry{kind: EntryEscape}, nil
	case v < 0:
		if v < -0xffff {
			return Entry{}, errorf(errors.Invalid, "link %d out of range", -v)
		}
		return Entry{kind: EntryLink, val: uint16(-v)}, nil
	case v > 0xffff:
		return Entry{}, errorf(errors.Invalid, "packed entry %#x out of range", v)
	default:
		return Entry{kind: EntryTerminal, nb: uint8(v>>symBits) + 1, val: uint16(v & symMask)}, nil
	}
}
