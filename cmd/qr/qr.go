// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr is a command line QR code generator.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/qforge/qr"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var g = struct {
	scale  int      // scale
	border int      // quiet zone
	rev    bool     // reverse colours
	fn     string   // filename
	lev    qr.Level // QR correction level
	format int      // output file format
	latin1 bool     // Latin-1 byte mode
	upper  bool     // uppercase
}{}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	getopt.CommandLine.PrintUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	fmt.Println("QR code generator")
	getopt.CommandLine.PrintUsage(os.Stdout)
	fmt.Print(`
If no string is given, data is read from standard input and the
final newline is stripped.
`)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2026 The qr Authors`)
	os.Exit(0)
}

var formats = []string{
	"png", "pngi", "svg", "svgi", "pbm", "pbmi",
	"utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodeSVG,
	(*qr.Code).EncodePBM,
	func(c *qr.Code, w io.Writer) error {
		_, err := io.WriteString(w, c.String())
		return err
	},
	func(c *qr.Code, w io.Writer) error {
		_, err := io.WriteString(w, c.ASCII())
		return err
	},
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.SetParameters("[string ...]")
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(&g.latin1, '1', "convert byte mode data to Latin-1")
	getopt.Flag(&g.upper, 'i', "ignore case, convert input to uppercase")
	getopt.Flag(&g.border, 'm', "quiet zone pixels [4]", "margin")
	fno := getopt.Flag(&g.fn, 'o',
		`output file, or "-" for standard output`, "file")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "m",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 10, &getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: 1 << 16},
		`image pixels per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	if !getopt.IsSet('m') {
		g.border = -1
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	encode := qr.Encode
	if g.latin1 {
		encode = qr.EncodeLatin1
	}
	c, err := encode(s, g.lev)
	if err != nil {
		log.Fatalln(err)
	}

	w := os.Stdout
	if g.fn != "" {
		if w, err = os.OpenFile(g.fn,
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666); err != nil {
			log.Fatalln(err)
		}
	}
	c.Scale = g.scale
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}
	err = encoders[g.format](c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}
