package dxt1

import (
	"fmt"
	"image/color"
)

// DefaultAlphaThreshold is the punch-through threshold used by DefaultEncodeOptions.
const DefaultAlphaThreshold = 128

// Params is the read-only input of one block optimization.
type Params struct {
	// Pixels holds the block in row-major order and must have 16 entries.
	Pixels []color.NRGBA
	// Quality selects the search effort.
	Quality Quality
	// AlphaThreshold is the alpha below which a pixel is transparent (0..255).
	// It only applies when AllowAlphaBlocks is set.
	AlphaThreshold int

	// AllowAlphaBlocks enables 3-color punch-through blocks.
	AllowAlphaBlocks bool
	// Perceptual weights channel errors by luma contribution.
	Perceptual bool
	// Grayscale measures errors on luma only.
	Grayscale bool
	// EndpointCaching seeds the search with the latest block results of this
	// Optimizer.
	EndpointCaching bool
	// ForceAlphaBlock emits a punch-through block even without transparent pixels.
	ForceAlphaBlock bool
	// UseTransparentForBlack lets opaque pixels use the transparent index as
	// black. Only enable it when the consumer ignores alpha.
	UseTransparentForBlack bool
	// AlternateRounding scores against decoders that round interpolants.
	AlternateRounding bool
}

func (p *Params) validate() error {
	if len(p.Pixels) != BlockPixels {
		return fmt.Errorf("%w: got %d", ErrPixelCount, len(p.Pixels))
	}
	if p.AlphaThreshold < 0 || p.AlphaThreshold > 0xff {
		return fmt.Errorf("%w: %d", ErrAlphaThreshold, p.AlphaThreshold)
	}
	if !p.Quality.Valid() {
		return fmt.Errorf("%w: %d", ErrBadQuality, p.Quality)
	}
	return nil
}

// Optimizer holds the scratch state of the endpoint search. It is reused
// across blocks and must not be shared between goroutines; give each worker
// its own. The zero value is ready to use.
type Optimizer struct {
	pixels         [BlockPixels]rgb
	pixelColor     [BlockPixels]int8
	unique         [BlockPixels]uniqueColor
	vectors        [BlockPixels]vec3
	numUnique      int
	numTransparent int

	scale       vec3
	metricScale uint64
	fit         axisFit
	fitReady    bool

	eval   evaluator
	cache  solutionCache
	recent recentRing

	best  solution
	trial solution

	budget        int
	round         bool
	alphaForced   bool
	alternateMode bool
	caching       bool
}

// NewOptimizer returns an Optimizer with its cache allocated.
func NewOptimizer() *Optimizer {
	return &Optimizer{cache: newSolutionCache()}
}

// Reset forgets the results remembered from previous blocks.
func (o *Optimizer) Reset() {
	o.recent.reset()
}

// Compute finds endpoints and selectors for one block.
//
// The only errors are precondition violations (wrong pixel count, threshold or
// quality out of range). For fixed input and a fresh or Reset Optimizer the
// result is deterministic.
func (o *Optimizer) Compute(p *Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}
	o.begin(p)

	if o.numUnique == 0 {
		return transparentResult(), nil
	}
	if v, ok := o.solidColor(); ok {
		r := o.solidResult(v)
		o.remember()
		return r, nil
	}

	o.mapColors()
	o.search(p.Quality)
	o.polish()

	r := packResult(&o.best)
	o.remember()
	return r, nil
}

// begin resets the per-block scratch state.
func (o *Optimizer) begin(p *Params) {
	if o.cache.seen == nil {
		o.cache = newSolutionCache()
	}
	o.cache.reset()

	for i, px := range p.Pixels {
		o.pixels[i] = rgb{px.R, px.G, px.B}
	}
	o.dedupe(p.Pixels, p.AlphaThreshold, p.AllowAlphaBlocks)

	dist, metricScale := newDistance(p.Perceptual, p.Grayscale)
	o.metricScale = metricScale
	o.scale = uniformScale
	if p.Perceptual && !p.Grayscale {
		o.scale = perceptualScale
	}
	o.fitReady = false

	o.eval = evaluator{
		dist:       dist,
		colors:     o.colors(),
		pixelColor: &o.pixelColor,
		blackIndex: p.AllowAlphaBlocks && p.UseTransparentForBlack,
		limit:      maxError,
	}

	o.round = p.AlternateRounding
	o.alphaForced = p.ForceAlphaBlock || o.numTransparent > 0
	o.alternateMode = p.AllowAlphaBlocks && !o.alphaForced
	o.caching = p.EndpointCaching
	o.best = solution{err: maxError, enforceSelector: noSelector}
}

// remember pushes the block result into the recent ring.
func (o *Optimizer) remember() {
	if o.caching && o.best.err != maxError {
		o.recent.push(o.best.coords)
	}
}

// axis returns the principal-axis fit of all unique colors, computing it once
// per block.
func (o *Optimizer) axis() axisFit {
	if !o.fitReady {
		o.fit = o.fitAxis(nil)
		o.fitReady = true
	}
	return o.fit
}
