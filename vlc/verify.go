// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlc

import (
	"runtime"
	"sync"

	"github.com/dsnet/mpegvlc/internal/errors"
)

const numCodes = 1 << MaxCodeBits

// Verify checks that got and ref decode every 16-bit input identically.
// Both must either fail with a corrupted error, or produce the same Match.
//
// The work is split across GOMAXPROCS goroutines. If several inputs differ,
// the lowest one is reported, so the result does not depend on scheduling.
func Verify(ref, got Decoder) error {
	n := runtime.GOMAXPROCS(0)
	shard := (numCodes + n - 1) / n
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		lo, hi := i*shard, (i+1)*shard
		if lo >= numCodes {
			break
		}
		if hi > numCodes {
			hi = numCodes
		}
		wg.Add(1)
		go func(i, lo, hi int) {
			defer wg.Done()
			errs[i] = VerifyRange(ref, got, lo, hi)
		}(i, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// VerifyRange is like Verify, but only checks inputs in [lo, hi), in order.
func VerifyRange(ref, got Decoder, lo, hi int) error {
	if lo < 0 || hi > numCodes || lo > hi {
		return errorf(errors.Invalid, "invalid code range [%d, %d)", lo, hi)
	}
	for c := lo; c < hi; c++ {
		code := uint16(c)
		m0, err0 := got.Lookup(code)
		m1, err1 := ref.Lookup(code)
		if !sameResult(m0, err0, m1, err1) {
			return errorf(errors.Mismatch, "code %016b: got %s, want %s",
				code, formatResult(m0, err0), formatResult(m1, err1))
		}
	}
	return nil
}

func sameResult(m0 Match, err0 error, m1 Match, err1 error) bool {
	if err0 != nil || err1 != nil {
		return errors.IsCorrupted(err0) && errors.IsCorrupted(err1)
	}
	return m0 == m1
}

func formatResult(m Match, err error) string {
	if err != nil {
		return "(" + err.Error() + ")"
	}
	return m.String()
}
