// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
}

func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// A bitmap is a mutable view of a Code or Plan pixel grid.
type bitmap struct {
	b      []byte
	stride int
}

func (b bitmap) set(x, y int) { b.b[y*b.stride+x>>3] |= 0x80 >> (x & 7) }

func (b bitmap) get(x, y int) bool {
	return b.b[y*b.stride+x>>3]&(0x80>>(x&7)) != 0
}

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of pixels on a side

	Map     []byte    // pixel map: 0 is data or checksum, 1 is other
	Pattern [8][]byte // position and alignment boxes, timing, format, mask
}

// NewPlan returns a Plan for a QR code with the given version and level.
func NewPlan(version Version, level Level) (*Plan, error) {
	pp, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	p := *pp
	siz := len(pp.Map)
	bitmap := make([]byte, cap(pp.Map))
	copy(bitmap, pp.Map[:cap(pp.Map)])
	p.Map, bitmap = bitmap[:siz], bitmap[siz:]
	for i := range p.Pattern {
		p.Pattern[i], bitmap = bitmap[:siz], bitmap[siz:]
	}
	return &p, nil
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of version and level is used.  Each plan is a few words
// plus a bitmap the size of 9 Code bitmaps, from 567 bytes for
// version 1 to 36 KB for version 40.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version][level].
// If it doesn't exist, it is created.
func makePlan(version Version, level Level) (*Plan, error) {
	if version < MinVersion || version > MaxVersion {
		return nil, ErrVersion
	}
	if level < L || level > H {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() {
		pp := vplan(version, level)
		for mask := range pp.Pattern {
			fplan(formatInfo(level, mask), mask, pp)
			mplan(mask, pp)
		}
		p.p = pp
	})
	return p.p, nil
}

// formatInfo returns the 15 bit format information for the given
// level and mask: 5 data bits, 10 BCH check bits, xored with a fixed
// pattern so that no level and mask yield all zeroes.
func formatInfo(l Level, mask int) uint32 {
	d := uint32(l^1)<<3 | uint32(mask)
	rem := d
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ rem>>9*0x537
	}
	return (d<<10 | rem) ^ 0x5412
}

// versionInfo returns the 18 bit version information for v:
// 6 data bits and 12 BCH check bits.  Only used for version 7 and up.
func versionInfo(v Version) uint32 {
	rem := uint32(v)
	for i := 0; i < 12; i++ {
		rem = rem<<1 ^ rem>>11*0x1f25
	}
	return uint32(v)<<12 | rem
}

// vplan creates a Plan for the given version and level with the
// function patterns common to all masks: position and alignment
// boxes, timing strips, version information and the reserved format
// areas.  Pattern[0] through Pattern[7] hold identical copies;
// fplan and mplan differentiate them.
func vplan(v Version, l Level) *Plan {
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBits(l),
		Size:     siz,
	}
	sz := stride * siz
	buf := make([]byte, sz*9)
	p.Map, buf = buf[:sz], buf[sz:]
	fm := bitmap{p.Map, stride}
	fp := bitmap{buf[:sz], stride}
	mark := func(x, y int, black bool) {
		fm.set(x, y)
		if black {
			fp.set(x, y)
		}
	}

	// Timing strips (overdrawn by boxes).
	for i := 8; i < siz-8; i++ {
		mark(i, 6, i&1 == 0)
		mark(6, i, i&1 == 0)
	}

	// Position boxes with separators, 8x8 pixels clipped to the grid.
	for _, c := range [3][2]int{{3, 3}, {siz - 4, 3}, {3, siz - 4}} {
		for dy := -4; dy <= 4; dy++ {
			for dx := -4; dx <= 4; dx++ {
				x, y := c[0]+dx, c[1]+dy
				if x < 0 || x >= siz || y < 0 || y >= siz {
					continue
				}
				d := max(abs(dx), abs(dy))
				mark(x, y, d != 2 && d != 4)
			}
		}
	}

	// Alignment boxes.  The centre list includes the three positions
	// overlapping the position boxes; skip those.
	cs := atab[v]
	for i, cy := range cs {
		for j, cx := range cs {
			if i == 0 && (j == 0 || j == len(cs)-1) ||
				j == 0 && i == len(cs)-1 {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					mark(int(cx)+dx, int(cy)+dy,
						max(abs(dx), abs(dy)) != 1)
				}
			}
		}
	}

	// Reserve the format areas; fplan draws the bits per mask.
	for i := 0; i <= 8; i++ {
		if i != 6 {
			mark(8, i, false)
			mark(i, 8, false)
		}
	}
	for i := 0; i < 8; i++ {
		mark(siz-1-i, 8, false)
		mark(8, siz-1-i, false)
	}
	// One lonely black pixel.
	mark(8, siz-8, true)

	// Version information: two mirrored 3x6 blocks
	// next to the top right and bottom left position boxes.
	if v >= 7 {
		vi := versionInfo(v)
		for i := 0; i < 18; i++ {
			black := vi>>i&1 != 0
			a, b := siz-11+i%3, i/3
			mark(a, b, black)
			mark(b, a, black)
		}
	}

	p.Pattern[0] = fp.b
	for i := 1; i < len(p.Pattern); i++ {
		p.Pattern[i], buf = buf[sz:sz*2], buf[sz:]
		copy(p.Pattern[i], p.Pattern[0])
	}
	return p
}

// fplan draws the format bits for the given mask.
func fplan(fb uint32, mask int, p *Plan) {
	siz := p.Size
	b := bitmap{p.Pattern[mask], (siz + 7) >> 3}
	set := func(i, x, y int) {
		if fb>>i&1 != 0 {
			b.set(x, y)
		}
	}
	// first copy, around the top left position box
	for i := 0; i <= 5; i++ {
		set(i, 8, i)
	}
	set(6, 8, 7)
	set(7, 8, 8)
	set(8, 7, 8)
	for i := 9; i <= 14; i++ {
		set(i, 14-i, 8)
	}
	// second copy, split between the other two boxes
	for i := 0; i <= 7; i++ {
		set(i, siz-1-i, 8)
	}
	for i := 8; i <= 14; i++ {
		set(i, 8, siz-15+i)
	}
}

// Mask conditions from the standard, row y and column x.
// A pixel is inverted where the condition holds.
var maskCond = [8]func(y, x int) bool{
	func(y, x int) bool { return (y+x)%2 == 0 },
	func(y, x int) bool { return y%2 == 0 },
	func(y, x int) bool { return x%3 == 0 },
	func(y, x int) bool { return (y+x)%3 == 0 },
	func(y, x int) bool { return (y/2+x/3)%2 == 0 },
	func(y, x int) bool { return y*x%2+y*x%3 == 0 },
	func(y, x int) bool { return (y*x%2+y*x%3)%2 == 0 },
	func(y, x int) bool { return ((y+x)%2+y*x%3)%2 == 0 },
}

// mplan edits a version+level-only Plan to add the mask,
// applied to data and checksum pixels only.
func mplan(mask int, p *Plan) {
	stride := (p.Size + 7) >> 3
	fm := bitmap{p.Map, stride}
	b := bitmap{p.Pattern[mask], stride}
	cond := maskCond[mask]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !fm.get(x, y) && cond(y, x) {
				b.set(x, y)
			}
		}
	}
}

// Serialise writes bits from s to the bitmap in zigzag scan order:
// two-pixel columns from the right edge leftward, alternately scanned
// bottom to top and top to bottom, right pixel before left, skipping
// the vertical timing strip and pixels reserved in the Map.
func (p *Plan) Serialise(s BitStream, bm []byte) {
	siz := p.Size
	stride := (siz + 7) >> 3
	fm := bitmap{p.Map, stride}
	b := bitmap{bm, stride}
	up := true
	for x := siz - 2; x >= 0; x -= 2 {
		if x == 5 { // vertical timing strip
			x--
		}
		for i := 0; i < siz; i++ {
			y := i
			if up {
				y = siz - 1 - i
			}
			for xx := x + 1; xx >= x; xx-- {
				if !fm.get(xx, y) && s.Next() != 0 {
					b.set(xx, y)
				}
			}
		}
		up = !up
	}
}

// mask applies the eight mask patterns to the serialised data bitmap
// in parallel and returns the code with the smallest penalty.  Lower
// mask number wins a tie for determinism.
func (p *Plan) mask(data []byte) *Code {
	stride := (p.Size + 7) >> 3
	var (
		codes [8]*Code
		pen   [8]int
		g     errgroup.Group
	)
	for m := range p.Pattern {
		m := m
		g.Go(func() error {
			c := &Code{
				Bitmap: make([]byte, len(data)),
				Size:   p.Size,
				Stride: stride,
			}
			xor(c.Bitmap, data, p.Pattern[m])
			codes[m], pen[m] = c, c.Penalty()
			return nil
		})
	}
	g.Wait()
	best := 0
	for m := 1; m < len(pen); m++ {
		if pen[m] < pen[best] {
			best = m
		}
	}
	return codes[best]
}

// xor xors a and b into dst.  a and b may not be shorter than dst.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Penalty returns the penalty value for a QR code.
// The value is used for choosing the mask.
//
// Total penalty is the sum of penalties for runs and boxes
// of same-colour pixels, finder patterns and colour balance.
//
//   - runs: for runs of n same-colour pixels, n>=5 -> n-2
//   - boxes: for possibly overlapping 2x2 boxes -> 3
//   - finder: for possibly overlapping finder patterns -> 40
//     The pattern is 1011101 with 0000 on either side;
//     it may extend into the quiet zone
//   - balance: for n% of black pixels -> 10*(ceiling(abs(n-50)/5)-1)
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
func (c *Code) Penalty() int {
	siz := c.Size
	p := 0

	// runs and finder patterns, horizontal and vertical
	for i := 0; i < siz; i++ {
		p += lineScore(siz, func(k int) bool { return c.Black(k, i) })
		p += lineScore(siz, func(k int) bool { return c.Black(i, k) })
	}

	// 2x2 boxes, detected at the top left pixel
	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			px := c.Black(x, y)
			if px == c.Black(x+1, y) && px == c.Black(x, y+1) &&
				px == c.Black(x+1, y+1) {
				p += 3
			}
		}
	}

	// colour balance.  Exact percentages get less penalty: 40% and
	// 60% get 10 points like 41%, not 20 like 39%.  To round away
	// from 50%, fold bal into 0 <= bal < sq/2 and divide rounding
	// down.  No need to handle 50% as siz is always odd.
	bal := 0
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if c.Black(x, y) {
				bal++
			}
		}
	}
	sq := siz * siz
	if bal > sq/2 {
		bal = sq - bal
	}
	p += (9 - bal*20/sq) * 10

	return p
}

// lineScore returns the run and finder pattern penalties for one row
// or column of n pixels read through at.  The sliding 11 bit window
// starts in the quiet zone before the line and the scan runs 4 pixels
// past its end, so finder patterns with a quiet zone outside the code
// are caught.
func lineScore(n int, at func(int) bool) int {
	const (
		finderB = 0x05d // 0000 1011101, quiet zone before
		finderA = 0x5d0 // 1011101 0000, quiet zone after
	)
	var p, run int
	var pat uint32
	last := false
	for k := 0; k < n+4; k++ {
		px := k < n && at(k)
		if k < n {
			if k == 0 || px != last {
				run, last = 1, px
			} else if run++; run == 5 {
				p += 3
			} else if run > 5 {
				p++
			}
		}
		if pat = pat<<1&0x7ff | b2u(px); pat == finderB || pat == finderA {
			p += 40
		}
	}
	return p
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
