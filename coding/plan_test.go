// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Leftover bits that fit no codeword, ISO/IEC 18004 table 1.
var remainder = [41]int{
	1:  0,
	2:  7,
	3:  7,
	4:  7,
	5:  7,
	6:  7,
	14: 3,
	15: 3,
	16: 3,
	17: 3,
	18: 3,
	19: 3,
	20: 3,
	21: 4,
	22: 4,
	23: 4,
	24: 4,
	25: 4,
	26: 4,
	27: 4,
	28: 3,
	29: 3,
	30: 3,
	31: 3,
	32: 3,
	33: 3,
	34: 3,
}

// Every pixel not reserved in the Map holds a data or checksum bit.
// Their count per version must be the total codeword count times 8
// plus the leftover bits.
func TestPlanFreePixels(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		p, err := NewPlan(v, L)
		require.NoError(t, err)
		fm := bitmap{p.Map, (p.Size + 7) >> 3}
		free := 0
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				if !fm.get(x, y) {
					free++
				}
			}
		}
		assert.Equal(t, vtab[v].bytes*8+remainder[v], free,
			"version %d", v)
	}
}

// Alignment boxes are drawn at every centre pair except the three
// overlapping the position boxes: dark centre, light ring, dark border.
func TestAlignmentBoxes(t *testing.T) {
	for _, v := range []Version{2, 7, 25, 40} {
		p, err := NewPlan(v, M)
		require.NoError(t, err)
		stride := (p.Size + 7) >> 3
		fm := bitmap{p.Map, stride}
		fp := bitmap{p.Pattern[0], stride}
		cs := atab[v]
		require.NotEmpty(t, cs, "version %d", v)
		last := len(cs) - 1
		for i, cy := range cs {
			for j, cx := range cs {
				x, y := int(cx), int(cy)
				if i == 0 && (j == 0 || j == last) || j == 0 && i == last {
					continue
				}
				assert.True(t, fm.get(x, y),
					"version %d centre (%d,%d) not reserved", v, x, y)
				assert.True(t, fp.get(x, y),
					"version %d centre (%d,%d)", v, x, y)
				assert.False(t, fp.get(x-1, y),
					"version %d ring (%d,%d)", v, x-1, y)
				assert.True(t, fp.get(x-2, y-2),
					"version %d border (%d,%d)", v, x-2, y-2)
			}
		}
	}
}

func TestPlanErrors(t *testing.T) {
	_, err := NewPlan(0, L)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewPlan(41, L)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewPlan(1, Level(-1))
	assert.ErrorIs(t, err, ErrLevel)
}

// NewPlan returns a deep copy; scribbling on it must not
// affect later plans.
func TestNewPlanCopies(t *testing.T) {
	p1, err := NewPlan(2, M)
	require.NoError(t, err)
	p1.Map[0] ^= 0xff
	p1.Pattern[3][0] ^= 0xff
	p2, err := NewPlan(2, M)
	require.NoError(t, err)
	assert.NotEqual(t, p1.Map[0], p2.Map[0])
	assert.NotEqual(t, p1.Pattern[3][0], p2.Pattern[3][0])
}

func TestFormatInfo(t *testing.T) {
	// ISO/IEC 18004 annex C
	assert.Equal(t, uint32(0x77c4), formatInfo(L, 0))
	assert.Equal(t, uint32(0x5412), formatInfo(M, 0))
	assert.Equal(t, uint32(0x355f), formatInfo(Q, 0))
	assert.Equal(t, uint32(0x1689), formatInfo(H, 0))
	assert.Equal(t, uint32(0x40ce), formatInfo(M, 5))
	seen := make(map[uint32]bool)
	for l := L; l <= H; l++ {
		for mask := 0; mask < 8; mask++ {
			v := formatInfo(l, mask)
			assert.Less(t, v, uint32(1<<15))
			assert.False(t, seen[v], "duplicate format %#x", v)
			seen[v] = true
		}
	}
}

func TestVersionInfo(t *testing.T) {
	// ISO/IEC 18004 annex D
	assert.Equal(t, uint32(0x07c94), versionInfo(7))
	assert.Equal(t, uint32(0x0f928), versionInfo(15))
	assert.Equal(t, uint32(0x15683), versionInfo(21))
	assert.Equal(t, uint32(0x28c69), versionInfo(40))
}

// The chosen mask must have the smallest penalty of the eight
// candidates.
func TestMaskChoice(t *testing.T) {
	p, err := NewPlan(3, Q)
	require.NoError(t, err)
	e := newEncoder(p)
	require.NoError(t, e.Write(Segment{"MASK SELECTION TEST", Alphanumeric}))
	e.b.AddCheckBytes(p.Version, p.Level)
	bits := e.b.Permute(p.Version, p.Level)
	stride := (p.Size + 7) >> 3
	data := make([]byte, p.Size*stride)
	p.Serialise(bits, data)
	c := p.mask(data)
	pen := c.Penalty()
	matched := false
	for m := range p.Pattern {
		cand := &Code{
			Bitmap: make([]byte, len(data)),
			Size:   p.Size,
			Stride: stride,
		}
		xor(cand.Bitmap, data, p.Pattern[m])
		assert.GreaterOrEqual(t, cand.Penalty(), pen, "mask %d", m)
		if string(cand.Bitmap) == string(c.Bitmap) {
			matched = true
		}
	}
	assert.True(t, matched, "chosen code is not one of the candidates")
}

func TestEncodeDeterministic(t *testing.T) {
	c1, err := Encode(2, M, Segment{"DETERMINISM", Alphanumeric})
	require.NoError(t, err)
	c2, err := Encode(2, M, Segment{"DETERMINISM", Alphanumeric})
	require.NoError(t, err)
	assert.Equal(t, c1.Bitmap, c2.Bitmap)
}

// Structural spot checks on an encoded symbol.
func TestCodeStructure(t *testing.T) {
	c, err := Encode(7, L, Segment{"STRUCTURE", Alphanumeric})
	require.NoError(t, err)
	siz := c.Size
	assert.Equal(t, 45, siz)
	// position box corners are black, separator pixels white
	for _, p := range [][2]int{{0, 0}, {siz - 1, 0}, {0, siz - 1}} {
		assert.True(t, c.Black(p[0], p[1]), "corner %v", p)
	}
	assert.False(t, c.Black(7, 7))
	assert.False(t, c.Black(siz-8, 7))
	assert.False(t, c.Black(7, siz-8))
	// centre of the middle alignment box
	assert.True(t, c.Black(22, 22))
	assert.False(t, c.Black(22, 21))
	// timing strips alternate
	for i := 8; i < siz-8; i++ {
		assert.Equal(t, i&1 == 0, c.Black(i, 6), "timing x=%d", i)
		assert.Equal(t, i&1 == 0, c.Black(6, i), "timing y=%d", i)
	}
	// the one black pixel above the bottom left position box
	assert.True(t, c.Black(8, siz-8))
}

func TestPenaltyBalance(t *testing.T) {
	// all-white 21x21 grid: a run of 21 per line, every 2x2 box,
	// maximum imbalance, no finder patterns
	c := &Code{Bitmap: make([]byte, 3*21), Size: 21, Stride: 3}
	run := 2 * 21 * (21 - 2)
	box := 3 * 20 * 20
	bal := 90
	assert.Equal(t, run+box+bal, c.Penalty())
}
