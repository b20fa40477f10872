// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"fmt"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/dsnet/mpegvlc/internal/artifact"
	"github.com/dsnet/mpegvlc/internal/errors"
	"github.com/dsnet/mpegvlc/mpeg1"
	"github.com/dsnet/mpegvlc/vlc"
)

const (
	formatGo   = "go"
	formatBin  = "bin"
	formatText = "text"
)

type config struct {
	Format  string
	Output  string
	Package string
	Var     string
	Codec   string
}

func errorf(c int, f string, a ...interface{}) error {
	return errors.Error{Code: c, Pkg: progName, Msg: fmt.Sprintf(f, a...)}
}

func formatSize(n int) string {
	return strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
}

// generate builds and checks the tables and renders them in the configured
// format. The result is only returned if every check passed.
func generate(cfg config) ([]byte, error) {
	if cfg.Format != formatBin && cfg.Codec != "" && cfg.Codec != artifact.CodecNone {
		return nil, errorf(errors.Invalid, "compression only applies to the %s format", formatBin)
	}

	tree, ts, err := mpeg1.Tables()
	if err != nil {
		return nil, err
	}
	log.Debugf("bit-tree: %d rows", tree.Len())
	log.Debugf("compiled %d tables, escape code is %d bits", ts.NumTables(), ts.EscapeLen())
	log.Infof("checked %d code words against the bit-tree", 1<<vlc.MaxCodeBits)

	var buf bytes.Buffer
	switch cfg.Format {
	case formatGo:
		if err := ts.WriteGoSource(&buf, cfg.Package, cfg.Var); err != nil {
			return nil, err
		}
	case formatText:
		buf.WriteString(ts.String())
	case formatBin:
		data, err := ts.MarshalBinary()
		if err != nil {
			return nil, err
		}
		codec := cfg.Codec
		if codec == "" {
			codec = artifact.CodecNone
		}
		if err := artifact.Compress(&buf, data, codec); err != nil {
			return nil, err
		}
		log.Debugf("%s: %sB raw, %sB compressed", codec, formatSize(len(data)), formatSize(buf.Len()))

		// Read back what is about to be written.
		data, err = artifact.Decompress(bytes.NewReader(buf.Bytes()), codec)
		if err != nil {
			return nil, err
		}
		ts2, err := vlc.UnmarshalTables(data)
		if err != nil {
			return nil, err
		}
		if err := vlc.Verify(tree, ts2); err != nil {
			return nil, err
		}
	default:
		return nil, errorf(errors.Invalid, "unknown format %q", cfg.Format)
	}
	return buf.Bytes(), nil
}
