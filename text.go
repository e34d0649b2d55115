// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import "strings"

// String returns the code as text, two vertical QR pixels per
// Unicode half block character.  Light pixels are drawn as filled
// blocks, so that the code scans on a dark terminal background;
// set c.Reverse for a light background.
func (c *Code) String() string {
	cells := [4]rune{'█', '▀', '▄', ' '}
	if c.Reverse {
		cells = [4]rune{' ', '▄', '▀', '█'}
	}
	siz, bord := c.Size, c.Border
	var b strings.Builder
	b.Grow((siz + bord*2 + 1) * (siz + bord*2 + 1) * 3 / 2)
	for y := -bord; y < siz+bord; y += 2 {
		for x := -bord; x < siz+bord; x++ {
			n := 0
			if c.Black(x, y) {
				n = 2
			}
			if c.Black(x, y+1) {
				n++
			}
			b.WriteRune(cells[n])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ASCII returns the code as ASCII art, one QR pixel per two
// characters.  The same terminal background convention as for
// String applies.
func (c *Code) ASCII() string {
	dark, light := "  ", "##"
	if c.Reverse {
		dark, light = light, dark
	}
	siz, bord := c.Size, c.Border
	var b strings.Builder
	b.Grow((siz + bord*2) * (siz+bord*2)*2 + siz + bord*2)
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			if c.Black(x, y) {
				b.WriteString(dark)
			} else {
				b.WriteString(light)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
