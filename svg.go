// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"fmt"
	"io"
)

// EncodeSVG writes an SVG image displaying the code to w.  Black
// pixels are coalesced into horizontal runs, one path element per
// run.  The image scales with its container; c.Scale only sets the
// width and height attributes.
func (c *Code) EncodeSVG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	siz, bord := c.Size, c.Border
	d := siz + bord*2
	fg, bg := "#000", "#fff"
	if c.Reverse {
		fg, bg = bg, fg
	}
	fmt.Fprintf(b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="%d" height="%d" fill="%s"/>
<path fill="%s" d="`,
		d*c.Scale, d*c.Scale, d, d, d, d, bg, fg)
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			if !c.Black(x, y) {
				x++
				continue
			}
			n := 1
			for x+n < siz && c.Black(x+n, y) {
				n++
			}
			fmt.Fprintf(b, "M%d %dh%dv1h-%dz", x+bord, y+bord, n, n)
			x += n
		}
	}
	b.WriteString("\"/>\n</svg>\n")
	return b.Flush()
}
