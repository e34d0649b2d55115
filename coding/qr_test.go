// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionSize(t *testing.T) {
	assert.Equal(t, 21, Version(1).Size())
	assert.Equal(t, 57, Version(10).Size())
	assert.Equal(t, 177, Version(40).Size())
}

func TestSizeClass(t *testing.T) {
	assert.Equal(t, Class0, Version(1).SizeClass())
	assert.Equal(t, Class0, Version(9).SizeClass())
	assert.Equal(t, Class1, Version(10).SizeClass())
	assert.Equal(t, Class1, Version(26).SizeClass())
	assert.Equal(t, Class2, Version(27).SizeClass())
	assert.Equal(t, Class2, Version(40).SizeClass())
}

func TestDataBits(t *testing.T) {
	assert.Equal(t, 152, Version(1).DataBits(L))
	assert.Equal(t, 128, Version(1).DataBits(M))
	assert.Equal(t, 104, Version(1).DataBits(Q))
	assert.Equal(t, 72, Version(1).DataBits(H))
	assert.Equal(t, 23648, Version(40).DataBits(L))
}

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(0x5, 4)
	b.Write(0x1ff, 9)
	b.Write(0, 3)
	assert.Equal(t, 16, b.Bits())
	assert.Equal(t, []byte{0x5f, 0xf8}, b.Bytes())
	b.Reset()
	b.Write(0xffffffff, 2) // only the low bits count
	b.Write(0, 6)
	assert.Equal(t, []byte{0xc0}, b.Bytes())
}

func TestBitsFractionalByte(t *testing.T) {
	var b Bits
	b.Write(0, 3)
	assert.Panics(t, func() { b.Bytes() })
	assert.Panics(t, func() { b.Add(1) })
}

func TestModeLength(t *testing.T) {
	// 8 digits: 4 bit indicator, 10 bit count, two triplets, one pair
	assert.Equal(t, 4+10+10+10+7, Numeric.Length(8, Class0))
	assert.Equal(t, 4+12+10+10+7, Numeric.Length(8, Class1))
	// 11 alphanumerics: five pairs and one single
	assert.Equal(t, 4+9+5*11+6, Alphanumeric.Length(11, Class0))
	assert.Equal(t, 4+8+5*8, Byte.Length(5, Class0))
	assert.Equal(t, 4+16+5*8, Byte.Length(5, Class2))
	assert.Equal(t, 0, Mode(-1).Length(5, Class0))
}

func TestIs(t *testing.T) {
	for _, r := range "0123456789" {
		assert.True(t, Is(r, Numeric), "%q", r)
		assert.True(t, Is(r, Alphanumeric), "%q", r)
	}
	for _, r := range "ABCZ $%*+-./:" {
		assert.False(t, Is(r, Numeric), "%q", r)
		assert.True(t, Is(r, Alphanumeric), "%q", r)
	}
	for _, r := range "abc!,é" {
		assert.False(t, Is(r, Alphanumeric), "%q", r)
		assert.True(t, Is(r, Byte), "%q", r)
	}
	assert.True(t, Is('é', Latin1))
	assert.False(t, Is('日', Latin1))
}

func TestSegmentValid(t *testing.T) {
	assert.True(t, Segment{"0123", Numeric}.IsValid())
	assert.False(t, Segment{"012a", Numeric}.IsValid())
	assert.True(t, Segment{"HELLO WORLD", Alphanumeric}.IsValid())
	assert.False(t, Segment{"Hello", Alphanumeric}.IsValid())
	assert.True(t, Segment{"\x00\xff", Byte}.IsValid())
	assert.False(t, Segment{"x", Mode(-1)}.IsValid())
}

// Encoding "01234567" at version 1-M, ISO/IEC 18004 section I.2.
func TestEncodeNumeric(t *testing.T) {
	b := NewBits(1, M)
	require.NoError(t, Segment{"01234567", Numeric}.Encode(b, Class0))
	assert.Equal(t, 41, b.Bits())
	b.PadTo(4, Version(1).DataBits(M))
	assert.Equal(t, []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
	}, b.Bytes())
}

// Encoding "HELLO WORLD" at version 1-Q.
func TestAddCheckBytes(t *testing.T) {
	b := NewBits(1, Q)
	require.NoError(t, Segment{"HELLO WORLD", Alphanumeric}.Encode(b, Class0))
	b.AddCheckBytes(1, Q)
	assert.Equal(t, []byte{
		// data
		0x20, 0x5b, 0x0b, 0x78, 0xd1, 0x72, 0xdc, 0x4d,
		0x43, 0x40, 0xec, 0x11, 0xec,
		// checksum
		0xa8, 0x48, 0x16, 0x52, 0xd9, 0x36, 0x9c, 0x00,
		0x2e, 0x0f, 0xb4, 0x7a, 0x10,
	}, b.Bytes())
}

func TestEncodeKanji(t *testing.T) {
	b := NewBits(1, L)
	assert.ErrorIs(t, Segment{"点", Kanji}.Encode(b, Class0), ErrKanji)
}

func TestEncodeInvalid(t *testing.T) {
	b := NewBits(1, L)
	err := Segment{"abc", Numeric}.Encode(b, Class0)
	var serr SegmentError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "numeric")

	err = Segment{"x", Mode(17)}.Encode(b, Class0)
	var merr ModeError
	assert.ErrorAs(t, err, &merr)
}

func TestLatin1Transform(t *testing.T) {
	seg, err := Segment{"café", Latin1}.Transform()
	require.NoError(t, err)
	assert.Equal(t, Segment{"caf\xe9", Byte}, seg)

	_, err = Segment{"日本", Latin1}.Transform()
	assert.Error(t, err)

	// non-transforming modes pass through
	seg, err = Segment{"123", Numeric}.Transform()
	require.NoError(t, err)
	assert.Equal(t, Segment{"123", Numeric}, seg)
}

func TestInterleave(t *testing.T) {
	// two blocks of uneven length, shorter first
	src := []byte{1, 2, 3, 4, 5}
	dst := make([]byte, len(src))
	interleave(dst, src, 2)
	assert.Equal(t, []byte{1, 3, 2, 4, 5}, dst)

	// equal blocks
	src = []byte{1, 2, 3, 4, 5, 6}
	dst = make([]byte, len(src))
	interleave(dst, src, 3)
	assert.Equal(t, []byte{1, 3, 5, 2, 4, 6}, dst)
}

func TestPermute(t *testing.T) {
	// version 3-Q has two blocks of 17 data and 18 check bytes
	b := NewBits(3, Q)
	require.NoError(t, Segment{"INTERLEAVING", Alphanumeric}.Encode(b, Class0))
	b.AddCheckBytes(3, Q)
	plain := append([]byte{}, b.Bytes()...)
	s := b.Permute(3, Q)
	got := s.Bytes()
	require.Equal(t, len(plain), len(got))
	nd := Version(3).DataBits(Q) / 8
	db := nd / 2
	for i := 0; i < db; i++ {
		assert.Equal(t, plain[i], got[i*2], "data block 0 byte %d", i)
		assert.Equal(t, plain[db+i], got[i*2+1], "data block 1 byte %d", i)
	}
	check := plain[nd:]
	cw := got[nd:]
	nc := len(check) / 2
	for i := 0; i < nc; i++ {
		assert.Equal(t, check[i], cw[i*2], "check block 0 byte %d", i)
		assert.Equal(t, check[nc+i], cw[i*2+1], "check block 1 byte %d", i)
	}
}

func TestBitStream(t *testing.T) {
	s := NewBitStream([]byte{0xa5})
	var bits []byte
	for i := 0; i < 10; i++ {
		bits = append(bits, s.Next())
	}
	assert.Equal(t, []byte{1, 0, 1, 0, 0, 1, 0, 1, 0, 0}, bits)
}

func TestEncoderTooLong(t *testing.T) {
	e, err := NewEncoder(1, H)
	require.NoError(t, err)
	require.NoError(t, e.Write(Segment{"THIS TEXT IS TOO LONG FOR A VERSION 1-H CODE",
		Alphanumeric}))
	_, err = e.Code()
	assert.Error(t, err)
}

func TestNewEncoderErrors(t *testing.T) {
	_, err := NewEncoder(0, L)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewEncoder(41, L)
	assert.ErrorIs(t, err, ErrVersion)
	_, err = NewEncoder(1, Level(4))
	assert.ErrorIs(t, err, ErrLevel)
}
