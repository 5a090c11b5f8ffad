package dxt1

import (
	"image/color"
	"math/rand"
	"testing"
)

// newTestOptimizer prepares o for direct evaluator calls on px.
func newTestOptimizer(px []color.NRGBA, allowAlpha, blackIndex bool) *Optimizer {
	o := NewOptimizer()
	o.begin(&Params{
		Pixels:                 px,
		AlphaThreshold:         128,
		AllowAlphaBlocks:       allowAlpha,
		UseTransparentForBlack: blackIndex,
	})
	return o
}

func TestEvaluateOrderIndependent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(21))
	evaluators := []struct {
		name string
		fn   evaluateFunc
	}{
		{name: "fast", fn: evaluateFast},
		{name: "uber", fn: evaluateUber},
	}

	for n := range 50 {
		px := randomBlock(rng, n%2 == 0)
		o := newTestOptimizer(px, true, n%3 == 0)
		c := Coords{Low: uint16(rng.Intn(1 << 16)), High: uint16(rng.Intn(1 << 16))} //nolint:gosec // bounded
		if c.Low == c.High {
			continue
		}

		for _, ev := range evaluators {
			for _, alpha := range []bool{false, true} {
				a := solution{coords: c, alphaBlock: alpha, enforceSelector: noSelector}
				b := solution{coords: c.Swapped(), alphaBlock: alpha, enforceSelector: noSelector}
				ev.fn(&o.eval, &a)
				ev.fn(&o.eval, &b)

				if a.err != b.err {
					t.Fatalf("%s alpha=%v: error %d vs %d after swap", ev.name, alpha, a.err, b.err)
				}
				for i := range a.selectors {
					if o.pixelColor[i] == noColor {
						if a.selectors[i] != transparentSelector || b.selectors[i] != transparentSelector {
							t.Fatalf("%s alpha=%v: transparent pixel %d lost its selector", ev.name, alpha, i)
						}
						continue
					}
					if want := swapSelector(a.selectors[i], alpha); b.selectors[i] != want {
						t.Fatalf("%s alpha=%v: pixel %d selector %d, want %d", ev.name, alpha, i, b.selectors[i], want)
					}
				}
			}
		}
	}
}

func TestEvaluateUberNotWorseThanFast(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(22))
	for range 50 {
		o := newTestOptimizer(randomBlock(rng, false), false, false)
		c := Coords{Low: uint16(rng.Intn(1 << 16)), High: uint16(rng.Intn(1 << 16))} //nolint:gosec // bounded

		fast := solution{coords: c, enforceSelector: noSelector}
		uber := fast
		evaluateFast(&o.eval, &fast)
		evaluateUber(&o.eval, &uber)
		if uber.err > fast.err {
			t.Fatalf("uber error %d above fast %d for %04x/%04x", uber.err, fast.err, c.Low, c.High)
		}
	}
}

func TestEvaluateFastEarlyOut(t *testing.T) {
	t.Parallel()

	px := fillBlock(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	o := newTestOptimizer(px, false, false)
	o.eval.limit = 10

	s := solution{coords: Coords{Low: 0, High: 0x0001}, enforceSelector: noSelector}
	evaluateFast(&o.eval, &s)
	if s.err != maxError {
		t.Fatalf("err = %d, want early-out", s.err)
	}
}

func TestEvaluateEnforcedSelector(t *testing.T) {
	t.Parallel()

	px := fillBlock(color.NRGBA{R: 255, A: 255})
	o := newTestOptimizer(px, false, false)

	c := Coords{Low: 0xf800, High: 0x001f}
	lowSide := solution{coords: c, enforceSelector: 0}
	highSide := solution{coords: c.Swapped(), enforceSelector: 0}
	evaluateUber(&o.eval, &lowSide)
	evaluateUber(&o.eval, &highSide)

	if lowSide.err != 0 {
		t.Fatalf("selector 0 on red endpoint: err %d", lowSide.err)
	}
	if want := 16 * uniformDistance(rgb{255, 0, 0}, rgb{0, 0, 255}); highSide.err != want {
		t.Fatalf("selector 0 on blue endpoint: err %d, want %d", highSide.err, want)
	}
}

func TestEvaluateBlackIndex(t *testing.T) {
	t.Parallel()

	px := fillBlock(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	for i := range 4 {
		px[i] = color.NRGBA{A: 255}
	}

	c := Coords{Low: Pack565(200, 200, 200), High: Pack565(200, 200, 200)}

	without := newTestOptimizer(px, true, false)
	s := solution{coords: c, alphaBlock: true, enforceSelector: noSelector}
	evaluateUber(&without.eval, &s)
	if s.err == 0 {
		t.Fatalf("black pixels scored without a black index")
	}

	with := newTestOptimizer(px, true, true)
	s = solution{coords: c, alphaBlock: true, enforceSelector: noSelector}
	evaluateUber(&with.eval, &s)
	gray := unpack(c.Low)
	if want := 12 * uniformDistance(rgb{200, 200, 200}, gray); s.err != want {
		t.Fatalf("err = %d, want %d", s.err, want)
	}
	for i := range 4 {
		if s.selectors[i] != transparentSelector {
			t.Fatalf("black pixel %d selector %d", i, s.selectors[i])
		}
	}
}

func TestSwapSelectorTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sel   uint8
		alpha bool
		want  uint8
	}{
		{sel: 0, want: 3},
		{sel: 1, want: 2},
		{sel: 3, want: 0},
		{sel: 0, alpha: true, want: 2},
		{sel: 1, alpha: true, want: 1},
		{sel: 3, alpha: true, want: 3},
	}

	for _, tc := range tests {
		if got := swapSelector(tc.sel, tc.alpha); got != tc.want {
			t.Fatalf("swapSelector(%d, %v) = %d, want %d", tc.sel, tc.alpha, got, tc.want)
		}
	}
}
