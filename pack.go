package dxt1

import (
	"encoding/binary"
	"image/color"
)

const (
	// BlockPixels is the number of pixels in a 4x4 block.
	BlockPixels = 16
	// BlockSize is the size in bytes of one encoded BC1 block.
	BlockSize = 8

	// transparentSelector is the selector reserved for punch-through pixels.
	transparentSelector = 3
)

// Result is the optimized encoding of one block.
//
// Low and High are the first and second color words as stored in the block,
// so a 4-color block has Low > High and a punch-through block Low <= High.
// Selectors are BC1 indices, pixel 0 first.
type Result struct {
	Low       uint16
	High      uint16
	Selectors [BlockPixels]uint8
	// Error is the summed squared error over opaque pixels under the metric
	// the block was optimized for.
	Error             uint64
	AlphaBlock        bool
	AlternateRounding bool
	// Solid is set when the block took the single-color shortcut.
	Solid bool
}

// Block returns the 8-byte BC1 encoding.
func (r Result) Block() [BlockSize]byte {
	var b [BlockSize]byte
	r.PutBlock(b[:])
	return b
}

// PutBlock writes the 8-byte BC1 encoding into dst.
func (r Result) PutBlock(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:], r.Low)
	binary.LittleEndian.PutUint16(dst[2:], r.High)
	var bits uint32
	for i, s := range r.Selectors {
		bits |= uint32(s&3) << (2 * uint(i))
	}
	binary.LittleEndian.PutUint32(dst[4:], bits)
}

// Linear selector to BC1 index, for blocks whose first stored color is Low.
var (
	linearToIndex4 = [4]uint8{0, 2, 3, 1}
	linearToIndex3 = [4]uint8{0, 2, 1, 3}
)

// packResult orders the endpoints for the block mode and converts selectors
// to BC1 indices.
func packResult(s *solution) Result {
	r := Result{
		Error:             s.err,
		AlphaBlock:        s.alphaBlock,
		AlternateRounding: s.alternateRounding,
	}
	lo, hi := s.coords.Low, s.coords.High

	switch {
	case lo == hi:
		// Equal words decode as a 3-color block; index 0 covers every opaque pixel.
		r.Low, r.High = lo, hi
		for i, sel := range s.selectors {
			if s.alphaBlock && sel == transparentSelector {
				r.Selectors[i] = transparentSelector
			}
		}
	case !s.alphaBlock:
		r.Low, r.High = max(lo, hi), min(lo, hi)
		for i, sel := range s.selectors {
			if lo < hi {
				sel = 3 - sel
			}
			r.Selectors[i] = linearToIndex4[sel]
		}
	default:
		r.Low, r.High = min(lo, hi), max(lo, hi)
		for i, sel := range s.selectors {
			if lo > hi {
				sel = swapSelector(sel, true)
			}
			r.Selectors[i] = linearToIndex3[sel]
		}
	}
	return r
}

// DecodeBlock reconstructs the 16 pixels of a BC1 block. round selects the
// rounding interpolant variant.
func DecodeBlock(block []byte, round bool) [BlockPixels]color.NRGBA {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	bits := binary.LittleEndian.Uint32(block[4:])

	a, b := unpack(c0), unpack(c1)
	var pal [4]color.NRGBA
	pal[0] = opaque(a)
	pal[1] = opaque(b)
	if c0 > c1 {
		pal[2] = opaque(mix3(a, b, round))
		pal[3] = opaque(mix3(b, a, round))
	} else {
		pal[2] = opaque(mix2(a, b, round))
		pal[3] = color.NRGBA{}
	}

	var out [BlockPixels]color.NRGBA
	for i := range out {
		out[i] = pal[(bits>>(2*uint(i)))&3]
	}
	return out
}

func opaque(c rgb) color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}
