package dxt1

const (
	// smallBlockColors is the unique color count up to which endpoint pairs are
	// drawn from the colors themselves instead of the principal axis.
	smallBlockColors = 4

	// blackTolerance is the largest channel value treated as black by the
	// alpha-as-black trial.
	blackTolerance = 8
)

// transparentResult encodes a block without opaque pixels.
func transparentResult() Result {
	r := Result{AlphaBlock: true}
	for i := range r.Selectors {
		r.Selectors[i] = transparentSelector
	}
	return r
}

// solidResult encodes a single-color block as v: both endpoints are v and
// every opaque pixel uses index 0.
func (o *Optimizer) solidResult(v uint16) Result {
	o.best = solution{
		coords:            Coords{Low: v, High: v},
		alphaBlock:        o.alphaForced,
		alternateRounding: o.round,
		enforceSelector:   0,
	}
	evaluateUber(&o.eval, &o.best)

	r := packResult(&o.best)
	r.Solid = true
	return r
}

// seed scores the starting candidates: the average color as a solid block,
// the recent ring, then either all pairs of unique colors (small blocks) or
// the principal-axis extremes.
func (o *Optimizer) seed() {
	o.budget = seedBudget
	o.tryAverage()

	if o.caching {
		o.recent.each(func(c Coords) {
			o.try(c, o.alphaForced, true)
		})
		if o.best.err <= ringAcceptPerPixel*o.metricScale*uint64(o.opaqueCount()) {
			return
		}
	}

	if o.numUnique <= smallBlockColors {
		o.tryPairs(o.alphaForced)
		return
	}
	o.try(o.initialEndpoints(o.axis(), nil), o.alphaForced, true)
}

// tryAverage scores the quantized average color with selector 0 everywhere.
// This bounds the result by the plain solid-color encoding.
func (o *Optimizer) tryAverage() {
	v := pack(o.averageColor())
	o.trial = solution{
		coords:            Coords{Low: v, High: v},
		alphaBlock:        o.alphaForced,
		alternateRounding: o.round,
		enforceSelector:   0,
	}
	o.score(&o.trial, true)
	o.offer()
}

// tryPairs scores every pair of unique colors as endpoints.
func (o *Optimizer) tryPairs(alphaBlock bool) {
	colors := o.colors()
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			o.try(Coords{Low: pack(colors[i].c), High: pack(colors[j].c)}, alphaBlock, true)
		}
	}
}

// tryAlternateMode scores 3-color punch-through candidates for an opaque
// block and keeps climbing if one of them wins.
func (o *Optimizer) tryAlternateMode() {
	if !o.alternateMode {
		return
	}
	o.budget = alternateBudget
	o.try(o.best.coords, true, true)
	if o.numUnique <= smallBlockColors {
		o.tryPairs(true)
	} else {
		o.try(o.initialEndpoints(o.axis(), nil), true, true)
	}
	if o.best.alphaBlock {
		o.climb(deltasNear, true, climbUberBudget)
	}
}

// tryAlphaAsBlack drops near-black colors from the fit, leaving them to the
// transparent index that decodes as black, and scores the resulting endpoints
// as a punch-through block.
func (o *Optimizer) tryAlphaAsBlack() {
	if !o.eval.blackIndex || !(o.alphaForced || o.alternateMode) {
		return
	}
	var dark, light int
	for _, u := range o.colors() {
		if nearBlack(u.c) {
			dark++
		} else {
			light++
		}
	}
	if dark == 0 || light == 0 {
		return
	}

	o.budget = alternateBudget
	fit := o.fitAxis(nearBlack)
	if !o.try(o.initialEndpoints(fit, nearBlack), true, true) {
		return
	}
	o.climb(deltasNear, true, climbUberBudget)
}
