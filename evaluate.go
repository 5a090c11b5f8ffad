package dxt1

import "math"

// maxError marks a trial abandoned by an early-out.
const maxError = math.MaxUint64

// noSelector means no selector is enforced.
const noSelector = -1

// solution is a scored candidate. Selectors are in linear order relative to
// coords: 0 is Low, the last opaque index is High.
type solution struct {
	coords            Coords
	selectors         [BlockPixels]uint8
	err               uint64
	alphaBlock        bool
	alternateRounding bool
	enforceSelector   int8
}

// evaluator scores endpoint pairs against the unique colors of one block.
type evaluator struct {
	dist       distanceFunc
	colors     []uniqueColor
	pixelColor *[BlockPixels]int8
	blackIndex bool
	limit      uint64
	choice     [BlockPixels]uint8
}

// evaluateFunc is one of the two interchangeable scoring strategies.
type evaluateFunc func(e *evaluator, s *solution)

// evaluateFast assigns selectors by projecting onto the endpoint line and
// stops once the running error exceeds e.limit.
func evaluateFast(e *evaluator, s *solution) { e.run(s, false) }

// evaluateUber assigns every color its nearest palette entry.
func evaluateUber(e *evaluator, s *solution) { e.run(s, true) }

// palette returns the decoded palette in linear order and the number of
// entries opaque colors may use.
func (e *evaluator) palette(c Coords, alphaBlock, round bool) ([4]rgb, int) {
	lo, hi := unpack(c.Low), unpack(c.High)
	if !alphaBlock {
		return [4]rgb{lo, mix3(lo, hi, round), mix3(hi, lo, round), hi}, 4
	}
	pal := [4]rgb{lo, mix2(lo, hi, round), hi, {}}
	if e.blackIndex {
		return pal, 4
	}
	return pal, 3
}

func (e *evaluator) run(s *solution, exhaustive bool) {
	c := s.coords
	swapped := c.Low < c.High
	if swapped {
		c = c.Swapped()
	}
	pal, n := e.palette(c, s.alphaBlock, s.alternateRounding)

	switch {
	case s.enforceSelector != noSelector:
		sel := uint8(s.enforceSelector)
		if swapped {
			sel = swapSelector(sel, s.alphaBlock)
		}
		s.err = e.assignEnforced(&pal, sel)
	case exhaustive:
		s.err = e.assignNearest(&pal, n)
	default:
		s.err = e.assignProjected(&pal, n, s.alphaBlock)
	}

	for i, idx := range e.pixelColor {
		if idx == noColor {
			s.selectors[i] = transparentSelector
			continue
		}
		sel := e.choice[idx]
		if swapped {
			sel = swapSelector(sel, s.alphaBlock)
		}
		s.selectors[i] = sel
	}
}

func (e *evaluator) assignEnforced(pal *[4]rgb, sel uint8) uint64 {
	var err uint64
	for i, u := range e.colors {
		e.choice[i] = sel
		err += uint64(u.weight) * e.dist(u.c, pal[sel])
	}
	return err
}

func (e *evaluator) assignNearest(pal *[4]rgb, n int) uint64 {
	var err uint64
	for i, u := range e.colors {
		best, bestDist := 0, e.dist(u.c, pal[0])
		for k := 1; k < n; k++ {
			if d := e.dist(u.c, pal[k]); d < bestDist {
				best, bestDist = k, d
			}
		}
		e.choice[i] = uint8(best)
		err += uint64(u.weight) * bestDist
	}
	return err
}

func (e *evaluator) assignProjected(pal *[4]rgb, n int, alphaBlock bool) uint64 {
	last := 3
	if alphaBlock {
		last = 2
	}
	var dir [3]int64
	var dd int64
	for k := range 3 {
		dir[k] = int64(pal[last][k]) - int64(pal[0][k])
		dd += dir[k] * dir[k]
	}

	var err uint64
	for i, u := range e.colors {
		k := 0
		if dd > 0 {
			var dp int64
			for j := range 3 {
				dp += (int64(u.c[j]) - int64(pal[0][j])) * dir[j]
			}
			if num := dp*int64(last)*2 + dd; num > 0 {
				k = min(int(num/(2*dd)), last)
			}
		}
		d := e.dist(u.c, pal[k])
		if n > last+1 {
			if db := e.dist(u.c, pal[3]); db < d {
				k, d = 3, db
			}
		}
		e.choice[i] = uint8(k)
		err += uint64(u.weight) * d
		if err > e.limit {
			return maxError
		}
	}
	return err
}

// swapSelector maps a linear selector to the one used after exchanging the
// endpoints.
func swapSelector(sel uint8, alphaBlock bool) uint8 {
	if !alphaBlock {
		return 3 - sel
	}
	if sel == transparentSelector {
		return sel
	}
	return 2 - sel
}
