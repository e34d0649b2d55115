// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qforge/qr/gf256"
)

var f = gf256.NewField(0x11d, 2)

// naiveMul multiplies modulo x^8+x^4+x^3+x^2+1 one bit at a time.
func naiveMul(a, b int) int {
	p := 0
	for ; b != 0; b >>= 1 {
		if b&1 != 0 {
			p ^= a
		}
		a <<= 1
		if a&0x100 != 0 {
			a ^= 0x11d
		}
	}
	return p
}

func TestExpLog(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 255; i++ {
		x := f.Exp(i)
		require.NotZero(t, x, "exp(%d)", i)
		require.False(t, seen[x], "exp(%d) repeats", i)
		seen[x] = true
		assert.Equal(t, i, f.Log(x), "log(exp(%d))", i)
	}
	assert.Equal(t, byte(1), f.Exp(255)) // α^255 == α^0
}

func TestLogZeroPanics(t *testing.T) {
	assert.Panics(t, func() { f.Log(0) })
	assert.Panics(t, func() { f.Inv(0) })
}

func TestMul(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			if got, want := f.Mul(byte(a), byte(b)),
				byte(naiveMul(a, b)); got != want {
				t.Fatalf("Mul(%#x, %#x) = %#x, want %#x",
					a, b, got, want)
			}
		}
	}
}

func TestInv(t *testing.T) {
	for x := 1; x < 256; x++ {
		assert.Equal(t, byte(1), f.Mul(byte(x), f.Inv(byte(x))),
			"x*inv(x), x=%#x", x)
	}
}

func TestNewFieldPanics(t *testing.T) {
	assert.Panics(t, func() { gf256.NewField(0xff, 2) })
	assert.Panics(t, func() { gf256.NewField(0x11d, 8) }) // α³ has order 85
}

// Data and check bytes for "01234567" at version 1-M,
// ISO/IEC 18004 section I.2.
func TestECC(t *testing.T) {
	data := []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
	}
	want := []byte{
		0xa5, 0x24, 0xd4, 0xc1, 0xed, 0x36, 0xc7, 0x87, 0x2c, 0x55,
	}
	rs := gf256.NewRSEncoder(f, len(want))
	check := make([]byte, len(want))
	rs.ECC(data, check)
	assert.Equal(t, want, check)
}

// The data polynomial with check bytes appended must evaluate to
// zero at every root of the generator polynomial.
func TestECCRoots(t *testing.T) {
	data := []byte("error correction root property")
	for _, c := range []int{7, 10, 13, 17, 30, gf256.MaxECBytes} {
		rs := gf256.NewRSEncoder(f, c)
		check := make([]byte, c)
		rs.ECC(data, check)
		msg := append(append([]byte{}, data...), check...)
		for i := 0; i < c; i++ {
			root := f.Exp(i)
			var v byte
			for _, b := range msg {
				v = f.Mul(v, root) ^ b
			}
			assert.Zero(t, v, "degree %d, root α^%d", c, i)
		}
	}
}

func TestECCSizePanics(t *testing.T) {
	assert.Panics(t, func() { gf256.NewRSEncoder(f, 0) })
	assert.Panics(t, func() { gf256.NewRSEncoder(f, gf256.MaxECBytes+1) })
	rs := gf256.NewRSEncoder(f, 10)
	assert.Panics(t, func() { rs.ECC([]byte{1}, make([]byte, 9)) })
}
