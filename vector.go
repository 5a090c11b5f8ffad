package dxt1

import "math"

type vec3 [3]float64

func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a vec3) add(b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a vec3) sub(b vec3) vec3 { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a vec3) scale(s float64) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }

func (a vec3) normalize() (vec3, bool) {
	n := math.Sqrt(a.dot(a))
	if n < 1e-12 {
		return vec3{}, false
	}
	return a.scale(1 / n), true
}

const (
	powerIterations = 8
	// flatVariance is the covariance trace below which a block has no usable axis.
	flatVariance = 1e-9
)

// perceptualScale maps squared distances in the unit cube onto the luma weights.
var perceptualScale = vec3{
	math.Sqrt(299.0 / 587.0),
	1,
	math.Sqrt(114.0 / 587.0),
}

var uniformScale = vec3{1, 1, 1}

// axisFit is the principal axis of a weighted color cluster.
type axisFit struct {
	mean vec3
	axis vec3
	flat bool
}

// mapColor normalizes an 8-bit color into the unit cube and applies the
// channel scale.
func mapColor(c rgb, s vec3) vec3 {
	return vec3{
		float64(c[0]) / 255 * s[0],
		float64(c[1]) / 255 * s[1],
		float64(c[2]) / 255 * s[2],
	}
}

// unmapColor undoes mapColor and returns 8-bit scale floats.
func unmapColor(v vec3, s vec3) vec3 {
	return vec3{v[0] / s[0] * 255, v[1] / s[1] * 255, v[2] / s[2] * 255}
}

// mapColors fills o.vectors for the current unique colors.
func (o *Optimizer) mapColors() {
	for i, u := range o.colors() {
		o.vectors[i] = mapColor(u.c, o.scale)
	}
}

// covariance returns the weighted mean and covariance of the mapped colors.
// Colors rejected by skip do not contribute.
func (o *Optimizer) covariance(skip func(rgb) bool) (vec3, [3][3]float64, bool) {
	var mean vec3
	var total float64
	for i, u := range o.colors() {
		if skip != nil && skip(u.c) {
			continue
		}
		w := float64(u.weight)
		mean = mean.add(o.vectors[i].scale(w))
		total += w
	}
	var cov [3][3]float64
	if total == 0 {
		return mean, cov, false
	}
	mean = mean.scale(1 / total)

	for i, u := range o.colors() {
		if skip != nil && skip(u.c) {
			continue
		}
		w := float64(u.weight)
		d := o.vectors[i].sub(mean)
		for r := range 3 {
			for c := r; c < 3; c++ {
				cov[r][c] += w * d[r] * d[c]
			}
		}
	}
	for r := range 3 {
		for c := r; c < 3; c++ {
			cov[r][c] /= total
			cov[c][r] = cov[r][c]
		}
	}
	return mean, cov, true
}

// principalAxis estimates the dominant eigenvector of cov by power iteration,
// starting from the row of the largest variance.
func principalAxis(cov [3][3]float64) (vec3, bool) {
	if cov[0][0]+cov[1][1]+cov[2][2] < flatVariance {
		return vec3{}, false
	}

	k := 0
	for i := 1; i < 3; i++ {
		if cov[i][i] > cov[k][k] {
			k = i
		}
	}
	v, ok := vec3(cov[k]).normalize()
	if !ok {
		return vec3{}, false
	}

	for range powerIterations {
		next := vec3{
			cov[0][0]*v[0] + cov[0][1]*v[1] + cov[0][2]*v[2],
			cov[1][0]*v[0] + cov[1][1]*v[1] + cov[1][2]*v[2],
			cov[2][0]*v[0] + cov[2][1]*v[1] + cov[2][2]*v[2],
		}
		if v, ok = next.normalize(); !ok {
			return vec3{}, false
		}
	}
	return v, true
}

// fitAxis runs the mapper and the principal-axis estimator over the unique
// colors accepted by skip.
func (o *Optimizer) fitAxis(skip func(rgb) bool) axisFit {
	mean, cov, ok := o.covariance(skip)
	if !ok {
		return axisFit{flat: true}
	}
	axis, ok := principalAxis(cov)
	return axisFit{mean: mean, axis: axis, flat: !ok}
}
