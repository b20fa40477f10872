// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlc

import "github.com/dsnet/mpegvlc/internal/errors"

// Pair is one row of a bit-tree literal.
//
// The rows at indexes 2k and 2k+1 are the children of internal node k for an
// input bit of 0 and 1, respectively. The root's children are rows 0 and 1.
type Pair struct {
	Next int    // Index of the first child row, 0 if terminal, or -1 if invalid
	Sym  uint16 // Decoded symbol when Next is 0
}

type NodeKind uint8

const (
	NodeInvalid  NodeKind = iota // Code word does not exist
	NodeTerminal                 // Code word ends here
	NodeInternal                 // More bits are needed
)

type Node struct {
	Kind NodeKind
	Sym  uint16 // Valid for NodeTerminal
	Next int    // Valid for NodeInternal; index of the 0-bit child
}

// Tree is an immutable bit-tree code table.
type Tree struct {
	nodes []Node
}

// NewTree converts a bit-tree literal into a Tree.
//
// Every symbol must fit in 13 bits, with the exception of EscapeSym, and
// every path from the root must terminate within MaxCodeBits.
func NewTree(pairs []Pair) (*Tree, error) {
	if len(pairs) < 2 || len(pairs)%2 != 0 {
		return nil, errorf(errors.Invalid, "bit-tree has %d rows, want a positive even count", len(pairs))
	}

	nodes := make([]Node, len(pairs))
	for i, p := range pairs {
		switch {
		case p.Next == -1:
			nodes[i] = Node{Kind: NodeInvalid}
		case p.Next == 0:
			if p.Sym&^symMask != 0 && p.Sym != EscapeSym {
				return nil, errorf(errors.Internal, "row %d: symbol %#04x does not fit in %d bits", i, p.Sym, symBits)
			}
			nodes[i] = Node{Kind: NodeTerminal, Sym: p.Sym}
		case p.Next > 0 && p.Next%2 == 0 && p.Next < len(pairs):
			nodes[i] = Node{Kind: NodeInternal, Next: p.Next}
		default:
			return nil, errorf(errors.Invalid, "row %d: invalid child index %d", i, p.Next)
		}
	}

	t := &Tree{nodes: nodes}
	if err := t.checkDepth(0, 1); err != nil {
		return nil, err
	}
	return t, nil
}

// checkDepth reports an error if any path below the node whose children
// start at idx fails to terminate within MaxCodeBits. Cycles are caught the
// same way.
func (t *Tree) checkDepth(idx, depth int) error {
	for _, n := range t.nodes[idx : idx+2] {
		if n.Kind != NodeInternal {
			continue
		}
		if depth >= MaxCodeBits {
			return errorf(errors.Internal, "code words exceed %d bits", MaxCodeBits)
		}
		if err := t.checkDepth(n.Next, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of rows in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at row i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Lookup decodes the code word at the start of code one bit at a time.
// It is the reference decoder that compiled tables are checked against.
func (t *Tree) Lookup(code uint16) (Match, error) {
	var idx int
	for i := 0; i < MaxCodeBits; i++ {
		idx += int(code >> 15)
		code <<= 1
		switch n := t.nodes[idx]; n.Kind {
		case NodeInvalid:
			return Match{}, ErrMalformed
		case NodeTerminal:
			return Match{Sym: n.Sym, Len: uint8(i + 1)}, nil
		default:
			idx = n.Next
		}
	}
	// NewTree rejects such trees.
	panic(errorf(errors.Internal, "code word does not terminate within %d bits", MaxCodeBits))
}

// walkByte consumes the 8 bits of b, starting with the children at idx.
// It returns the node where the walk stopped and the number of bits consumed.
// If all 8 bits were consumed without reaching a leaf, the returned node is
// the internal node to continue from.
func (t *Tree) walkByte(idx int, b byte) (Node, uint) {
	for i := uint(0); i < tableBits; i++ {
		idx += int(b >> 7)
		b <<= 1
		n := t.nodes[idx]
		if n.Kind != NodeInternal {
			return n, i + 1
		}
		idx = n.Next
	}
	return Node{Kind: NodeInternal, Next: idx}, tableBits
}
