package dxt1

// stage is one step of the endpoint search. Stages only ever replace the best
// solution with a strictly better one.
type stage func(o *Optimizer)

// levelStages lists the stages each quality level adds on top of the levels
// below it. Every level after the first starts with polish so that it begins
// from exactly the result the previous level would have returned.
var levelStages = [numQualities][]stage{
	QualitySuperFast: {(*Optimizer).seed, (*Optimizer).climbFast},
	QualityFast:      {(*Optimizer).polish, (*Optimizer).climbUber},
	QualityNormal:    {(*Optimizer).polish, (*Optimizer).refitUber, (*Optimizer).climbWide},
	QualityBetter:    {(*Optimizer).polish, (*Optimizer).tryAlternateMode, (*Optimizer).tryAlphaAsBlack, (*Optimizer).refitUber},
	QualityUber:      {(*Optimizer).polish, (*Optimizer).combinatorial, (*Optimizer).refitUber, (*Optimizer).climbWide},
}

// Trial budgets per stage.
const (
	seedBudget          = 16
	climbFastBudget     = 32
	climbUberBudget     = 64
	climbWideBudget     = 128
	refitBudget         = 4
	alternateBudget     = 96
	combinatorialBudget = 1024

	// ringAcceptPerPixel is the per-pixel error, in uniform units, below which a
	// seed from the recent ring makes the principal-axis seed unnecessary.
	ringAcceptPerPixel = 8
)

var (
	deltasNear = []int{-1, 1}
	deltasWide = []int{-1, 1, -2, 2}
)

func (o *Optimizer) search(q Quality) {
	for level := 0; level <= int(q); level++ {
		for _, st := range levelStages[level] {
			st(o)
			if o.best.err == 0 {
				return
			}
		}
	}
}

// try scores c unless it was already seen in this block or the stage budget
// is spent, and reports whether it became the new best.
func (o *Optimizer) try(c Coords, alphaBlock, uber bool) bool {
	if o.budget <= 0 {
		return false
	}
	var mode evalMode
	if alphaBlock {
		mode |= modeAlpha
	}
	if uber {
		mode |= modeUber
	}
	if !o.cache.insert(c, mode) {
		return false
	}
	o.budget--

	o.trial = solution{
		coords:            c,
		alphaBlock:        alphaBlock,
		alternateRounding: o.round,
		enforceSelector:   noSelector,
	}
	o.score(&o.trial, uber)
	return o.offer()
}

func (o *Optimizer) score(s *solution, uber bool) {
	o.eval.limit = o.best.err
	if uber {
		evaluateUber(&o.eval, s)
	} else {
		evaluateFast(&o.eval, s)
	}
}

// offer keeps the trial when it is strictly better; ties keep the earlier one.
func (o *Optimizer) offer() bool {
	if o.trial.err < o.best.err {
		o.best = o.trial
		return true
	}
	return false
}

// polish rescores the best endpoints with the exhaustive evaluator. It is also
// the final selector assignment.
func (o *Optimizer) polish() {
	o.trial = o.best
	o.trial.enforceSelector = noSelector
	o.eval.limit = maxError
	evaluateUber(&o.eval, &o.trial)
	o.offer()
}

func (o *Optimizer) climbFast() { o.climb(deltasNear, false, climbFastBudget) }

func (o *Optimizer) climbUber() { o.climb(deltasNear, true, climbUberBudget) }

func (o *Optimizer) climbWide() { o.climb(deltasWide, true, climbWideBudget) }

// climb perturbs one channel of one endpoint at a time until no neighbor
// improves or the budget runs out.
func (o *Optimizer) climb(deltas []int, uber bool, budget int) {
	o.budget = budget
	for improved := true; improved && o.budget > 0; {
		improved = false
		for ep := range 2 {
			for ch := range 3 {
				for _, d := range deltas {
					c, ok := nudge(o.best.coords, ep, ch, d)
					if ok && o.try(c, o.best.alphaBlock, uber) {
						improved = true
					}
				}
			}
		}
	}
}

// nudge moves one channel of one endpoint by d quantization steps.
func nudge(c Coords, endpoint, channel, d int) (Coords, bool) {
	v := &c.Low
	if endpoint == 1 {
		v = &c.High
	}
	comps := split565(*v)
	comps[channel] += d
	if comps[channel] < 0 || comps[channel] > channelMax[channel] {
		return c, false
	}
	*v = join565(comps)
	return c, true
}

// shift moves all three channels of v by d, reporting false when any channel
// leaves its range.
func shift(v uint16, d [3]int) (uint16, bool) {
	comps := split565(v)
	for i := range 3 {
		comps[i] += d[i]
		if comps[i] < 0 || comps[i] > channelMax[i] {
			return v, false
		}
	}
	return join565(comps), true
}

// neighborDeltas are the 26 non-zero moves in {-1,0,1}^3.
var neighborDeltas = func() [][3]int {
	var out [][3]int
	for r := -1; r <= 1; r++ {
		for g := -1; g <= 1; g++ {
			for b := -1; b <= 1; b++ {
				if r != 0 || g != 0 || b != 0 {
					out = append(out, [3]int{r, g, b})
				}
			}
		}
	}
	return out
}()

// combinatorial explores joint moves of both endpoints: each endpoint alone,
// both in the same direction and both in opposite directions.
func (o *Optimizer) combinatorial() {
	o.budget = combinatorialBudget
	for improved := true; improved && o.budget > 0; {
		improved = false
		for _, d := range neighborDeltas {
			neg := [3]int{-d[0], -d[1], -d[2]}
			base := o.best.coords
			lo, okLo := shift(base.Low, d)
			hi, okHi := shift(base.High, d)
			hiNeg, okHiNeg := shift(base.High, neg)

			candidates := [...]struct {
				c  Coords
				ok bool
			}{
				{Coords{Low: lo, High: base.High}, okLo},
				{Coords{Low: base.Low, High: hi}, okHi},
				{Coords{Low: lo, High: hi}, okLo && okHi},
				{Coords{Low: lo, High: hiNeg}, okLo && okHiNeg},
			}
			for _, cand := range candidates {
				if cand.ok && o.try(cand.c, o.best.alphaBlock, true) {
					improved = true
				}
			}
		}
	}
}

// refitUber alternates least-squares endpoint fits with selector assignment.
func (o *Optimizer) refitUber() {
	o.budget = refitBudget
	for o.budget > 0 {
		c, ok := o.refit(&o.best, o.pixels[:])
		if !ok || !o.try(c, o.best.alphaBlock, true) {
			return
		}
	}
}
