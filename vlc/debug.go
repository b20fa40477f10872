// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlc

import (
	"fmt"
	"strings"
)

func (m Match) String() string {
	return fmt.Sprintf("{len: %d, sym: %#04x}", m.Len, m.Sym)
}

func (e Entry) String() string {
	switch e.kind {
	case EntryTerminal:
		return fmt.Sprintf("{sym: %#04x, len: %d}", e.val, e.nb)
	case EntryEscape:
		return "{esc}"
	case EntryLink:
		return fmt.Sprintf("{idx: %d}", e.val)
	default:
		return "{}"
	}
}

func (t *Tree) String() string {
	var ss []string
	ss = append(ss, "{")
	for i := 0; i < len(t.nodes); i += 2 {
		var cs [2]string
		for j, n := range t.nodes[i : i+2] {
			switch n.Kind {
			case NodeInvalid:
				cs[j] = "{}"
			case NodeTerminal:
				cs[j] = fmt.Sprintf("{sym: %#04x}", n.Sym)
			case NodeInternal:
				cs[j] = fmt.Sprintf("{next: %3d}", n.Next)
			}
		}
		ss = append(ss, fmt.Sprintf("\t%3d:  %-14s %-14s", i/2, cs[0], cs[1]))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (ts *TableSet) String() string {
	var ss []string
	ss = append(ss, "{")
	for j := range ts.tables {
		ss = append(ss, fmt.Sprintf("\ttables[%d]: {", j))
		for i, e := range ts.tables[j] {
			if e.kind == EntryInvalid {
				continue
			}
			ss = append(ss, fmt.Sprintf("\t\t%08b:  %v,", i, e))
		}
		ss = append(ss, "\t},")
	}
	ss = append(ss, fmt.Sprintf("\tescLen: %d,", ts.escLen))
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}
