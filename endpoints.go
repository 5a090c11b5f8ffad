package dxt1

import "math"

// quantizeFloat packs an 8-bit scale float color into R5G6B5 with rounding.
func quantizeFloat(v vec3) uint16 {
	var q [3]int
	for i := range 3 {
		x := math.Max(0, math.Min(255, v[i]))
		q[i] = int(math.Round(x * float64(channelMax[i]) / 255))
	}
	return join565(q)
}

// initialEndpoints projects the colors onto the principal axis and quantizes
// the two extremes. A flat fit yields the mean color for both endpoints.
func (o *Optimizer) initialEndpoints(fit axisFit, skip func(rgb) bool) Coords {
	if fit.flat {
		m := quantizeFloat(unmapColor(fit.mean, o.scale))
		return Coords{Low: m, High: m}
	}

	minT, maxT := math.Inf(1), math.Inf(-1)
	for i, u := range o.colors() {
		if skip != nil && skip(u.c) {
			continue
		}
		t := o.vectors[i].sub(fit.mean).dot(fit.axis)
		minT = math.Min(minT, t)
		maxT = math.Max(maxT, t)
	}

	lo := unmapColor(fit.mean.add(fit.axis.scale(minT)), o.scale)
	hi := unmapColor(fit.mean.add(fit.axis.scale(maxT)), o.scale)
	return Coords{Low: quantizeFloat(lo), High: quantizeFloat(hi)}
}

// Interpolation positions of the linear selectors.
var (
	selectorT4 = [4]float64{0, 1.0 / 3, 2.0 / 3, 1}
	selectorT3 = [4]float64{0, 0.5, 1, -1}
)

// refit solves the per-channel least squares problem for the two endpoints
// given the selectors of s, then quantizes the result.
func (o *Optimizer) refit(s *solution, pixels []rgb) (Coords, bool) {
	table := &selectorT4
	if s.alphaBlock {
		table = &selectorT3
	}

	var a, b, c float64
	var x, y vec3
	for i, p := range pixels {
		if o.pixelColor[i] == noColor {
			continue
		}
		t := table[s.selectors[i]]
		if t < 0 {
			// Pixel rides on the black index.
			continue
		}
		u := 1 - t
		a += u * u
		b += u * t
		c += t * t
		for k := range 3 {
			x[k] += u * float64(p[k])
			y[k] += t * float64(p[k])
		}
	}

	det := a*c - b*b
	if math.Abs(det) < 1e-9 {
		return Coords{}, false
	}
	lo := x.scale(c).sub(y.scale(b)).scale(1 / det)
	hi := y.scale(a).sub(x.scale(b)).scale(1 / det)
	return Coords{Low: quantizeFloat(lo), High: quantizeFloat(hi)}, true
}
