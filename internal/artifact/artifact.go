// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package artifact compresses the table artifacts written by vlcgen.
package artifact

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"sort"

	"github.com/dsnet/mpegvlc/internal/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const (
	CodecNone = "none"
	CodecZstd = "zstd"
	CodecXZ   = "xz"
)

type Encoder func(io.Writer) (io.WriteCloser, error)
type Decoder func(io.Reader) (io.ReadCloser, error)

var (
	encoders = make(map[string]Encoder)
	decoders = make(map[string]Decoder)
)

func register(name string, enc Encoder, dec Decoder) {
	encoders[name] = enc
	decoders[name] = dec
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func init() {
	register(CodecNone,
		func(w io.Writer) (io.WriteCloser, error) {
			return nopWriteCloser{w}, nil
		},
		func(r io.Reader) (io.ReadCloser, error) {
			return ioutil.NopCloser(r), nil
		})
	register(CodecZstd,
		func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		},
		func(r io.Reader) (io.ReadCloser, error) {
			zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, err
			}
			return zr.IOReadCloser(), nil
		})
	register(CodecXZ,
		func(w io.Writer) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
		func(r io.Reader) (io.ReadCloser, error) {
			zr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return ioutil.NopCloser(zr), nil
		})
}

// Codecs returns the names of all supported codecs in sorted order.
func Codecs() []string {
	var ss []string
	for k := range encoders {
		ss = append(ss, k)
	}
	sort.Strings(ss)
	return ss
}

func errUnknown(codec string) error {
	return errors.Error{Code: errors.Invalid, Pkg: "artifact", Msg: fmt.Sprintf("unknown codec %q", codec)}
}

// Compress writes data to w compressed with the named codec.
func Compress(w io.Writer, data []byte, codec string) error {
	enc, ok := encoders[codec]
	if !ok {
		return errUnknown(codec)
	}
	zw, err := enc(w)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Decompress reads all of r and decompresses it with the named codec.
func Decompress(r io.Reader, codec string) ([]byte, error) {
	dec, ok := decoders[codec]
	if !ok {
		return nil, errUnknown(codec)
	}
	zr, err := dec(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
