// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
)

// ErrArgs is returned for an invalid Code or a nil writer.
var ErrArgs = errors.New("qr: invalid arguments")

func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Stride >= (c.Size+7)/8 &&
		len(c.Bitmap) >= c.Size*c.Stride && c.Scale > 0 && c.Border >= 0
}

// PNG returns a PNG image displaying the code,
// or nil if the code is invalid.
func (c *Code) PNG() []byte {
	var buf bytes.Buffer
	if c.EncodePNG(&buf) != nil {
		return nil
	}
	return buf.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	siz, scale, bord := c.Size, c.Scale, c.Border
	d := (siz + bord*2) * scale
	img := image.NewGray(image.Rect(0, 0, d, d))
	white, black := byte(0xff), byte(0x00)
	if c.Reverse {
		white, black = black, white
	}
	for i := range img.Pix {
		img.Pix[i] = white
	}
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if !c.Black(x, y) {
				continue
			}
			x0 := (x + bord) * scale
			for yy := (y + bord) * scale; yy < (y+bord+1)*scale; yy++ {
				row := img.Pix[yy*img.Stride+x0 : yy*img.Stride+x0+scale]
				for i := range row {
					row[i] = black
				}
			}
		}
	}
	return png.Encode(w, img)
}
