// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.
*/
package qr // import "github.com/qforge/qr"

import (
	"errors"

	"github.com/qforge/qr/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

var (
	// ErrEmpty is returned when there is no text to encode.
	ErrEmpty = errors.New("qr: empty input")
	// ErrLevel is returned for an error correction level
	// outside L through H.
	ErrLevel = coding.ErrLevel
	// ErrTooLong is returned when the text does not fit
	// in the largest QR code at the requested level.
	ErrTooLong = errors.New("qr: text too long to encode as QR")
)

// Classify returns the tightest mode that encodes all of text:
// Numeric for decimal digits, Alphanumeric for the 45 character
// alphanumeric set, Byte otherwise.
func Classify(text string) coding.Mode {
	mode := coding.Numeric
	for _, r := range text {
		switch {
		case coding.Is(r, mode):
		case mode == coding.Numeric && coding.Is(r, coding.Alphanumeric):
			mode = coding.Alphanumeric
		default:
			return coding.Byte
		}
	}
	return mode
}

// version returns the smallest version fitting an n byte segment of
// the given mode at level l.
func version(n int, mode coding.Mode, l coding.Level) (coding.Version, error) {
	for v := coding.MinVersion; v <= coding.MaxVersion; v++ {
		if mode.Length(n, v.SizeClass()) <= v.DataBits(l) {
			return v, nil
		}
	}
	return 0, ErrTooLong
}

// Encode returns an encoding of text at the given error correction
// level, in the smallest QR version the text fits in.  Text outside
// the numeric and alphanumeric sets is encoded as UTF-8 bytes.
func Encode(text string, level Level) (*Code, error) {
	return encode(coding.Segment{Text: text, Mode: Classify(text)}, level)
}

// EncodeLatin1 is like Encode, but text outside the numeric and
// alphanumeric sets is converted to ISO 8859-1 before encoding.
// Text with code points above U+00FF cannot be encoded.
func EncodeLatin1(text string, level Level) (*Code, error) {
	mode := Classify(text)
	if mode == coding.Byte {
		mode = coding.Latin1
	}
	return encode(coding.Segment{Text: text, Mode: mode}, level)
}

func encode(seg coding.Segment, level Level) (*Code, error) {
	if seg.Text == "" {
		return nil, ErrEmpty
	}
	if level < L || level > H {
		return nil, ErrLevel
	}
	l := coding.Level(level)
	seg, err := seg.Transform()
	if err != nil {
		return nil, err
	}
	v, err := version(len(seg.Text), seg.Mode, l)
	if err != nil {
		return nil, err
	}
	cc, err := coding.Encode(v, l, seg)
	if err != nil {
		return nil, err
	}
	return &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Stride:  cc.Stride,
		Version: int(v),
		Level:   level,
		Scale:   10,
		Border:  4,
	}, nil
}

// A Code is a square pixel grid.
// It implements image.Image and direct PNG, SVG and PBM encoding.
type Code struct {
	Bitmap  []byte // 1 is black, 0 is white
	Size    int    // number of pixels on a side
	Stride  int    // number of bytes per row
	Version int    // QR version, 1 to 40
	Level   Level  // error correction level
	Scale   int    // number of image pixels per QR pixel
	Border  int    // quiet zone width in QR pixels
	Reverse bool   // render white on black
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Dark is Black with row and column arguments swapped.
func (c *Code) Dark(row, col int) bool { return c.Black(col, row) }
