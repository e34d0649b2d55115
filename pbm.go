// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.
func (c *Code) EncodePBM(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	siz, scale, bord := c.Size, c.Scale, c.Border
	length := scale * (siz + bord*2)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	var white byte
	if c.Reverse {
		white = 0xff
	}
	blank := make([]byte, (length+7)/8)
	for i := range blank {
		blank[i] = white
	}
	rows := func(r []byte, n int) error {
		for i := 0; i < n; i++ {
			if _, err := b.Write(r); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rows(blank, scale*bord); err != nil {
		return err
	}
	row := make([]byte, len(blank))
	for y := 0; y < siz; y++ {
		copy(row, blank)
		for x := 0; x < siz; x++ {
			if !c.Black(x, y) {
				continue
			}
			for i := (x + bord) * scale; i < (x+bord+1)*scale; i++ {
				row[i>>3] ^= 0x80 >> (i & 7)
			}
		}
		if err := rows(row, scale); err != nil {
			return err
		}
	}
	if err := rows(blank, scale*bord); err != nil {
		return err
	}
	return b.Flush()
}
