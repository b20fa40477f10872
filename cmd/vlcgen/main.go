// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command vlcgen compiles the MPEG-1 DCT coefficient bit-tree into byte
// tables, checks them against the bit-tree for every 16-bit input, and writes
// them out. Nothing is written unless the check passes.
//
// Example usage:
//	$ go run ./cmd/vlcgen -format go -pkg video -var dctCoeffTables -o dct_tables.go
//	$ go run ./cmd/vlcgen -format bin -compress zstd -o dct.vlcq.zst
//	$ go run ./cmd/vlcgen -format text -v
//
// The Go output is a [N][256]int32 literal in the packed entry format:
//	0           invalid code word
//	0xffff      escape code word (6 bits)
//	positive    symbol | (bits-1) << 13
//	negative    negated index of the table for the next byte
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/dsnet/mpegvlc/internal/artifact"
	"github.com/op/go-logging"
)

const progName = "vlcgen"

var log = logging.MustGetLogger(progName)

var leveledLogBackend logging.LeveledBackend

func startLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatter := logging.MustStringFormatter("%{level:-8s} %{shortfunc:-12s} | %{message}")
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

func main() {
	startLogging()

	var cfg config
	flag.StringVar(&cfg.Format, "format", formatGo, "Output format: go, bin, or text")
	flag.StringVar(&cfg.Output, "o", "", "Output file (default standard output)")
	flag.StringVar(&cfg.Package, "pkg", "video", "Package name of the Go output")
	flag.StringVar(&cfg.Var, "var", "dctCoeffTables", "Variable name of the Go output")
	flag.StringVar(&cfg.Codec, "compress", artifact.CodecNone,
		"Compression of the bin output: "+strings.Join(artifact.Codecs(), ", "))
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *verbose {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "%s: unexpected arguments: %v\n", progName, flag.Args())
		flag.Usage()
		os.Exit(2)
	}

	out, err := generate(cfg)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	if cfg.Output == "" {
		_, err = os.Stdout.Write(out)
	} else {
		err = ioutil.WriteFile(cfg.Output, out, 0664)
	}
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	log.Infof("wrote %sB to %s", formatSize(len(out)), outputName(cfg.Output))
	fmt.Fprintln(os.Stderr, "OK")
}

func outputName(s string) string {
	if s == "" {
		return "standard output"
	}
	return s
}
