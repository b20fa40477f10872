// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"testing"
)

func TestEncodeBits(t *testing.T) {
	var vectors = []struct {
		input  string
		output []byte
		valid  bool
	}{{
		input:  "",
		output: []byte{},
		valid:  true,
	}, {
		input:  "1",
		output: []byte{0x80},
		valid:  true,
	}, {
		input:  "000001 D6:3 D8:200 # escape",
		output: []byte{0x04, 0x3c, 0x80},
		valid:  true,
	}, {
		input:  "H16:8000",
		output: []byte{0x80, 0x00},
		valid:  true,
	}, {
		input:  "10*4 # four end-of-block codes",
		output: []byte{0xaa},
		valid:  true,
	}, {
		input: "D2:4", // Overflow
		valid: false,
	}, {
		input: "012",
		valid: false,
	}}

	for i, v := range vectors {
		got, err := EncodeBits(v.input)
		if (err == nil) != v.valid {
			t.Errorf("test %d, validity mismatch: got %v, want %v", i, err == nil, v.valid)
			continue
		}
		if v.valid && !bytes.Equal(got, v.output) {
			t.Errorf("test %d, output mismatch:\ngot  %x\nwant %x", i, got, v.output)
		}
	}
}
