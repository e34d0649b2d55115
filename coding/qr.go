// Copyright 2026 The qr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: segment
// encoding, error correction, matrix layout and masking.
package coding // import "github.com/qforge/qr/coding"

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/qforge/qr/gf256"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
	ErrKanji   = errors.New("qr: kanji mode not supported")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.  The version specifies the size
// of the QR code: a code with version v has 4v+17 modules on a side.
// The larger the version, the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// QR version size classes.  The class determines the length of the
// character count field of a segment.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Size returns the number of modules on a side of a QR code with
// version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// dataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) dataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int {
	return v.dataBytes(l) * 8
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// A version describes metadata associated with a version.
type version struct {
	bytes int // total number of codewords
	level [4]level
}

type level struct {
	nblock int // number of error correction blocks
	check  int // number of check bytes per block
}

// Bits is a bit stream being written, most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version and level.
func NewBits(v Version, l Level) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].bytes)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written so far.
func (b *Bits) Bits() int { return b.nbit }

// Bytes returns the written bytes.  Bytes panics if the stream does
// not end on a byte boundary.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Add adds n zero bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	b.b = append(b.b, make([]byte, n)...)
	b.nbit = 8 * len(b.b)
	return b.b[len(b.b)-n:]
}

// Write appends the low nbit bits of v, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit < 32 {
		v &= 1<<uint(nbit) - 1
	}
	for nbit > 0 {
		if b.nbit&7 == 0 {
			b.b = append(b.b, 0)
		}
		free := 8 - b.nbit&7
		n := min(free, nbit)
		b.b[len(b.b)-1] |= byte(v >> uint(nbit-n) << uint(free-n))
		b.nbit += n
		nbit -= n
	}
}

// PadTo adds up to t terminator bits to b and pads it to n bits:
// zero bits to the next byte boundary, then alternating 0xec and
// 0x11 pad bytes.  n must be a multiple of 8.
func (b *Bits) PadTo(t, n int) {
	if b.nbit > n {
		panic("qr: too much data")
	}
	b.Write(0, min(t, n-b.nbit))
	if b.nbit&7 != 0 {
		b.Write(0, 8-b.nbit&7)
	}
	for i := 0; b.nbit < n; i++ {
		b.Write([2]uint32{0xec, 0x11}[i&1], 8)
	}
}

// AddCheckBytes adds terminator, padding and error correction
// codewords to b for the given QR version and level.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nd := v.dataBytes(l)
	b.PadTo(4, nd*8)

	vt := &vtab[v]
	lev := vt.level[l]
	db := nd / lev.nblock
	normal := (db+1)*lev.nblock - nd // number of shorter blocks
	rs := gf256.NewRSEncoder(Field, lev.check)
	check := b.Add(lev.nblock * lev.check)
	dat := b.Bytes()
	for i := 0; i < lev.nblock; i++ {
		if i == normal {
			db++
		}
		rs.ECC(dat[:db], check[:lev.check])
		dat, check = dat[db:], check[lev.check:]
	}

	if len(b.Bytes()) != vt.bytes {
		panic("qr: internal error")
	}
}

// interleave distributes nblock consecutive blocks from src into dst
// column-wise: codeword i of every block in block order for each i,
// shorter blocks contributing nothing once exhausted.  Blocks differ
// in length by at most one codeword, shorter blocks first.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	normal := nblock - len(src)%nblock // number of shorter blocks
	for i := 0; i < nblock; i++ {
		for j := 0; j < db; j++ {
			dst[j*nblock+i] = src[j]
		}
		src = src[db:]
		if i >= normal {
			// the extra codeword of a longer block lands after
			// the full rectangle
			dst[db*nblock+i-normal] = src[0]
			src = src[1:]
		}
	}
}

// Permute returns a BitStream reading the data and check bits of b
// in transmission order: data blocks interleaved, then check blocks
// interleaved, for the given QR version and level.
func (b *Bits) Permute(v Version, l Level) BitStream {
	vt := &vtab[v]
	src := b.Bytes()
	if len(src) != vt.bytes {
		panic("qr: wrong data length")
	}
	if nblock := vt.level[l].nblock; nblock > 1 {
		dst := make([]byte, vt.bytes)
		nd := v.dataBytes(l)
		interleave(dst[:nd], src[:nd], nblock)
		interleave(dst[nd:], src[nd:], nblock)
		src = dst
	}
	return NewBitStream(src)
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Predefined encoding modes.
const (
	Numeric      Mode = iota // numeric mode, decimal digits
	Alphanumeric             // alphanumeric mode, subset of ASCII
	Byte                     // byte mode, any data
	Kanji                    // kanji mode; recognised but not supported
	Latin1                   // byte mode, UTF-8 text encoded as ISO 8859-1
)

// A Mode is a QR segment encoder.
type Mode int

// A modeEncoder implements a QR segment encoding.  The segment is
// validated using accepts.  Modes with a transform function (Latin1)
// are converted to a segment of another mode before encoding.  The
// encoder calls a non-nil encode{N} repeatedly as long as N source
// bytes are available, in descending order of N; if all are nil,
// each byte is encoded as 8 bits.
type modeEncoder struct {
	name          string  // name for error reporting
	indicator     uint32  // 4 bit mode indicator
	countLength   [3]byte // character count field length per size class
	encodedLength func(n int) int
	accepts       func(r rune) bool
	transform     func(s string) (Segment, bool)
	encode3       func(b [3]byte) (uint32, int)
	encode2       func(b [2]byte) (uint32, int)
	encode1       func(b byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

var modes = [...]modeEncoder{
	Numeric: {
		name:          "numeric",
		indicator:     1,
		countLength:   [3]byte{10, 12, 14},
		encodedLength: func(n int) int { return (10*n + 2) / 3 },
		accepts:       func(r rune) bool { return uint32(r-'0') < 10 },
		encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
	},
	Alphanumeric: {
		name:          "alphanumeric",
		indicator:     2,
		countLength:   [3]byte{9, 11, 13},
		encodedLength: func(n int) int { return (11*n + 1) / 2 },
		accepts: func(r rune) bool {
			return alphamask>>(uint32(r)-' ')&1 != 0
		},
		encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		name:        "byte",
		indicator:   4,
		countLength: [3]byte{8, 16, 16},
	},
	Kanji: {
		name:        "kanji",
		indicator:   8,
		countLength: [3]byte{8, 10, 12},
	},
	Latin1: {
		name:        "latin-1",
		indicator:   4,
		countLength: [3]byte{8, 16, 16},
		accepts:     func(r rune) bool { return uint32(r) < 0x100 },
		transform: func(s string) (Segment, bool) {
			t, err := charmap.ISO8859_1.NewEncoder().String(s)
			return Segment{t, Byte}, err == nil
		},
	},
}

func (mode Mode) valid() bool {
	return mode >= 0 && int(mode) < len(modes)
}

func (mode Mode) String() string {
	if mode.valid() {
		return modes[mode].name
	}
	return strconv.Itoa(int(mode))
}

// Is reports whether r is encodable in mode.
func Is(r rune, mode Mode) bool {
	return mode.valid() &&
		(modes[mode].accepts == nil || modes[mode].accepts(r))
}

// Length returns the length in bits of a valid n-byte string encoded
// in mode at the given QR version size class, including the segment
// header.  Length returns 0 if and only if mode is invalid.
func (mode Mode) Length(n, class int) int {
	if !mode.valid() {
		return 0
	}
	m := &modes[mode]
	bits := 4 + int(m.countLength[class])
	if m.encodedLength != nil {
		bits += m.encodedLength(n)
	} else {
		bits += n * 8
	}
	return bits
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if e.Mode.valid() {
		return fmt.Sprintf("qr: non-%s string %#q", modes[e.Mode].name,
			e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

// ModeError represents an invalid Mode number.
type ModeError Mode

func (e ModeError) Error() string {
	return fmt.Sprintf("qr: invalid mode %d", int(e))
}

func (m *modeEncoder) isValid(s string) bool {
	if m.accepts == nil {
		return true
	}
	for _, r := range s {
		if !m.accepts(r) {
			return false
		}
	}
	return true
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	return seg.Mode.valid() && modes[seg.Mode].isValid(seg.Text)
}

// EncodedLength returns the encoded length in bits of seg at the
// given QR version size class, including the header.  The segment is
// not validated.
func (seg Segment) EncodedLength(class int) int {
	return seg.Mode.Length(len(seg.Text), class)
}

// Transform returns seg transformed for encoding: segments of
// transforming modes are validated and converted to their target
// mode, all others are returned unchanged.
func (seg Segment) Transform() (Segment, error) {
	if !seg.Mode.valid() {
		return Segment{}, ModeError(seg.Mode)
	}
	m := &modes[seg.Mode]
	if m.transform == nil {
		return seg, nil
	}
	if !m.isValid(seg.Text) {
		return Segment{}, SegmentError(seg)
	}
	ts, ok := m.transform(seg.Text)
	if !ok {
		return Segment{}, SegmentError(seg)
	}
	return ts, nil
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	if seg.Mode == Kanji {
		return ErrKanji
	}
	seg, err := seg.Transform()
	if err != nil {
		return err
	}
	m := &modes[seg.Mode]
	if !m.isValid(seg.Text) {
		return SegmentError(seg)
	}
	b.Write(m.indicator, 4)
	b.Write(uint32(len(seg.Text)), int(m.countLength[class]))
	s := seg.Text
	if m.encode3 != nil {
		for len(s) >= 3 {
			b.Write(m.encode3([3]byte{s[0], s[1], s[2]}))
			s = s[3:]
		}
	}
	if m.encode2 != nil {
		for len(s) >= 2 {
			b.Write(m.encode2([2]byte{s[0], s[1]}))
			s = s[2:]
		}
	}
	if m.encode1 != nil {
		for len(s) >= 1 {
			b.Write(m.encode1(s[0]))
			s = s[1:]
		}
	}
	for i := 0; i < len(s); i++ {
		b.Write(uint32(s[i]), 8) // byte mode
	}
	return nil
}

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	b *Bits
}

func newEncoder(p *Plan) *Encoder {
	return &Encoder{p: p, b: NewBits(p.Version, p.Level)}
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	return newEncoder(p), nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) Reset() { e.b.Reset() }

// Code returns a QR code containing data written to e.
func (e *Encoder) Code() (*Code, error) {
	if e.b.Bits() > e.p.DataBits {
		return nil, fmt.Errorf("qr: cannot encode %d bits into %d-bit code",
			e.b.Bits(), e.p.DataBits)
	}
	e.b.AddCheckBytes(e.p.Version, e.p.Level)
	bits := e.b.Permute(e.p.Version, e.p.Level)
	// Now we have the data and check bytes in transmission order.
	// Construct the bitmap of data and check bits, apply the eight
	// masks and keep the code with the smallest penalty.
	siz := e.p.Size
	stride := (siz + 7) >> 3
	data := make([]byte, siz*stride)
	e.p.Serialise(bits, data)
	return e.p.mask(data), nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

func (p *Plan) Encode(text ...Segment) (*Code, error) {
	return newEncoder(p).Encode(text...)
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}
