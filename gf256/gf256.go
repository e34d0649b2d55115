// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois field GF(256)
// and Reed-Solomon error correction coding over it.
package gf256

import "sync"

// A Field represents an instance of GF(256) defined by a reducing
// polynomial and a generator element.
type Field struct {
	exp [510]byte // exp[i] = α^i; doubled to avoid reduction mod 255
	log [256]byte // log[exp[i]] = i for i < 255

	mu   sync.Mutex
	lgen map[int][]byte // cached generator polynomials by degree
}

// mul returns the product of a and b modulo poly, bit by bit.
// Used only while building the tables.
func mul(a, b, poly int) int {
	p := 0
	for ; b != 0; b >>= 1 {
		if b&1 != 0 {
			p ^= a
		}
		a <<= 1
		if a&0x100 != 0 {
			a ^= poly
		}
	}
	return p
}

// NewField returns the field GF(256) defined by the degree 8 reducing
// polynomial poly and the generator element α, building the exponent
// and logarithm tables.  The field used by QR error correction is
// NewField(0x11d, 2).  NewField panics if poly is out of range or α
// does not generate the multiplicative group.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 {
		panic("gf256: invalid reducing polynomial")
	}
	f := &Field{}
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: generator does not generate the field")
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	if x != 1 {
		panic("gf256: invalid generator")
	}
	f.log[0] = 255
	return f
}

// Exp returns the base-α exponential α^e.  e must not be negative.
func (f *Field) Exp(e int) byte { return f.exp[e%255] }

// Log returns the base-α logarithm of x.  Log panics if x == 0:
// the logarithm of zero is undefined, callers must special-case it.
func (f *Field) Log(x byte) int {
	if x == 0 {
		panic("gf256: log(0) undefined")
	}
	return int(f.log[x])
}

// Add returns the sum of x and y.
func (f *Field) Add(x, y byte) byte { return x ^ y }

// Mul returns the product of x and y.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// Inv returns the multiplicative inverse of x.
// Inv panics if x == 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		panic("gf256: inverse of 0 undefined")
	}
	return f.exp[255-int(f.log[x])]
}

// MaxECBytes is the largest supported error correction block size.
const MaxECBytes = 68

// gen returns the logarithms of the coefficients of the degree c
// generator polynomial (x-α^0)(x-α^1)...(x-α^(c-1)), from x^(c-1)
// down to x^0, excluding the leading term.  Polynomials are built on
// first use and cached.
func (f *Field) gen(c int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lg, ok := f.lgen[c]; ok {
		return lg
	}
	// Multiply out the roots; g holds ascending coefficients.
	g := make([]byte, 1, c+1)
	g[0] = 1
	for i := 0; i < c; i++ {
		r := f.exp[i]
		g = append(g, 0)
		for j := len(g) - 1; j > 0; j-- {
			g[j] = f.Mul(g[j], r) ^ g[j-1]
		}
		g[0] = f.Mul(g[0], r)
	}
	lg := make([]byte, c)
	for i, v := range g[:c] {
		// Coefficients of generator polynomials with consecutive
		// roots are never zero, so the logarithm is defined.
		lg[c-1-i] = f.log[v]
	}
	if f.lgen == nil {
		f.lgen = make(map[int][]byte)
	}
	f.lgen[c] = lg
	return lg
}

// An RSEncoder computes Reed-Solomon error correction codewords
// over a Field.
type RSEncoder struct {
	f    *Field
	c    int
	lgen []byte
}

// NewRSEncoder returns an RSEncoder producing c check bytes.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	if c < 1 || c > MaxECBytes {
		panic("gf256: invalid number of check bytes")
	}
	return &RSEncoder{f: f, c: c, lgen: f.gen(c)}
}

// ECC writes the error correction codewords for data into check,
// whose length must equal the encoder's check byte count.  The
// codewords are the remainder of the data polynomial, shifted up by
// the check byte count, divided by the generator polynomial.
func (rs *RSEncoder) ECC(data, check []byte) {
	if len(check) != rs.c {
		panic("gf256: wrong number of check bytes")
	}
	for i := range check {
		check[i] = 0
	}
	f := rs.f
	for _, d := range data {
		fb := d ^ check[0]
		copy(check, check[1:])
		check[rs.c-1] = 0
		if fb != 0 {
			lf := int(f.log[fb])
			for i, lg := range rs.lgen {
				check[i] ^= f.exp[lf+int(lg)]
			}
		}
	}
}
