package dxt1

// rgb is an opaque 8-bit color as seen by the endpoint search.
type rgb [3]uint8

// Coords is a candidate endpoint pair, each endpoint packed as R5G6B5.
//
// Scoring does not depend on the order of Low and High; the packer decides which
// endpoint is stored first from the block mode.
type Coords struct {
	Low  uint16
	High uint16
}

// Canonical returns the pair with the larger packed value first.
func (c Coords) Canonical() Coords {
	if c.Low < c.High {
		return Coords{Low: c.High, High: c.Low}
	}
	return c
}

// Swapped returns the pair with Low and High exchanged.
func (c Coords) Swapped() Coords {
	return Coords{Low: c.High, High: c.Low}
}

// Equal reports whether c and o describe the same endpoint pair in any order.
func (c Coords) Equal(o Coords) bool {
	return c.Canonical() == o.Canonical()
}

func (c Coords) key() uint32 {
	k := c.Canonical()
	return uint32(k.Low)<<16 | uint32(k.High)
}

// Pack565 quantizes an 8-bit color into a packed R5G6B5 value.
func Pack565(r, g, b uint8) uint16 {
	r5 := (uint32(r)*31 + 127) / 255
	g6 := (uint32(g)*63 + 127) / 255
	b5 := (uint32(b)*31 + 127) / 255
	return uint16(r5<<11 | g6<<5 | b5)
}

// Unpack565 expands a packed R5G6B5 value to 8 bits per channel.
func Unpack565(v uint16) (r, g, b uint8) {
	r5 := uint8(v>>11) & 0x1f
	g6 := uint8(v>>5) & 0x3f
	b5 := uint8(v) & 0x1f
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

func pack(c rgb) uint16 { return Pack565(c[0], c[1], c[2]) }

func unpack(v uint16) rgb {
	r, g, b := Unpack565(v)
	return rgb{r, g, b}
}

// channelMax is the largest quantized value per channel in R5G6B5.
var channelMax = [3]int{31, 63, 31}

func split565(v uint16) [3]int {
	return [3]int{int(v>>11) & 0x1f, int(v>>5) & 0x3f, int(v) & 0x1f}
}

func join565(c [3]int) uint16 {
	return uint16(c[0]<<11 | c[1]<<5 | c[2])
}

// mix3 returns the BC1 interpolant two thirds of the way towards a.
func mix3(a, b rgb, round bool) rgb {
	var bias uint32
	if round {
		bias = 1
	}
	var out rgb
	for i := range 3 {
		out[i] = uint8((2*uint32(a[i]) + uint32(b[i]) + bias) / 3)
	}
	return out
}

// mix2 returns the 3-color mode midpoint of a and b.
func mix2(a, b rgb, round bool) rgb {
	var bias uint32
	if round {
		bias = 1
	}
	var out rgb
	for i := range 3 {
		out[i] = uint8((uint32(a[i]) + uint32(b[i]) + bias) / 2)
	}
	return out
}

// Luma weights, also used as the perceptual channel weights.
var lumaWeights = [3]uint64{299, 587, 114}

func luma(c rgb) int64 {
	return (299*int64(c[0]) + 587*int64(c[1]) + 114*int64(c[2]) + 500) / 1000
}

// distanceFunc is a squared color distance under one metric.
type distanceFunc func(a, b rgb) uint64

func uniformDistance(a, b rgb) uint64 {
	dr := int64(a[0]) - int64(b[0])
	dg := int64(a[1]) - int64(b[1])
	db := int64(a[2]) - int64(b[2])
	return uint64(dr*dr + dg*dg + db*db)
}

func perceptualDistance(a, b rgb) uint64 {
	dr := int64(a[0]) - int64(b[0])
	dg := int64(a[1]) - int64(b[1])
	db := int64(a[2]) - int64(b[2])
	return lumaWeights[0]*uint64(dr*dr) + lumaWeights[1]*uint64(dg*dg) + lumaWeights[2]*uint64(db*db)
}

func grayDistance(a, b rgb) uint64 {
	d := luma(a) - luma(b)
	return uint64(d * d)
}

// newDistance picks the metric once per block.
func newDistance(perceptual, grayscale bool) (distanceFunc, uint64) {
	switch {
	case grayscale:
		return grayDistance, 1
	case perceptual:
		return perceptualDistance, lumaWeights[0] + lumaWeights[1] + lumaWeights[2]
	default:
		return uniformDistance, 3
	}
}
