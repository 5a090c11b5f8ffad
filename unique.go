package dxt1

import "image/color"

// uniqueColor is one distinct opaque color of a block and the number of pixels
// sharing it.
type uniqueColor struct {
	c      rgb
	weight uint32
}

// noColor marks a transparent pixel in Optimizer.pixelColor.
const noColor = -1

// dedupe collapses the block pixels into unique colors in first-seen order.
// With punch-through allowed, pixels below the alpha threshold are left out of
// the color list and counted as transparent.
func (o *Optimizer) dedupe(pixels []color.NRGBA, threshold int, alphaAllowed bool) {
	o.numUnique = 0
	o.numTransparent = 0

	for i, p := range pixels {
		if alphaAllowed && int(p.A) < threshold {
			o.pixelColor[i] = noColor
			o.numTransparent++
			continue
		}

		c := rgb{p.R, p.G, p.B}
		found := noColor
		for j := 0; j < o.numUnique; j++ {
			if o.unique[j].c == c {
				found = j
				break
			}
		}
		if found == noColor {
			found = o.numUnique
			o.unique[found] = uniqueColor{c: c}
			o.numUnique++
		}
		o.unique[found].weight++
		o.pixelColor[i] = int8(found)
	}
}

// colors returns the unique colors of the current block.
func (o *Optimizer) colors() []uniqueColor {
	return o.unique[:o.numUnique]
}

// opaqueCount is the sum of all unique color weights.
func (o *Optimizer) opaqueCount() uint32 {
	return uint32(BlockPixels - o.numTransparent)
}

// averageColor is the rounded weighted mean of the opaque colors.
func (o *Optimizer) averageColor() rgb {
	var sum [3]uint32
	var n uint32
	for _, u := range o.colors() {
		for i := range 3 {
			sum[i] += uint32(u.c[i]) * u.weight
		}
		n += u.weight
	}
	if n == 0 {
		return rgb{}
	}
	var out rgb
	for i := range 3 {
		out[i] = uint8((sum[i] + n/2) / n)
	}
	return out
}

// solidColor reports the packed value of a block with exactly one unique
// color. Blocks whose distinct colors merely share a 565 value are left to the
// search, which starts from the same solid candidate.
func (o *Optimizer) solidColor() (uint16, bool) {
	if o.numUnique != 1 {
		return 0, false
	}
	return pack(o.unique[0].c), true
}

// nearBlack reports whether c is dark enough to ride on the transparent index.
func nearBlack(c rgb) bool {
	return c[0] <= blackTolerance && c[1] <= blackTolerance && c[2] <= blackTolerance
}
