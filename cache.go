package dxt1

// evalMode distinguishes cache entries scored under different block modes or
// evaluators.
type evalMode uint8

const (
	modeAlpha evalMode = 1 << iota
	modeUber
)

// solutionCache remembers which endpoint pairs were already scored for the
// current block. Pairs are stored in canonical order.
type solutionCache struct {
	seen map[uint64]struct{}
}

func newSolutionCache() solutionCache {
	return solutionCache{seen: make(map[uint64]struct{}, 256)}
}

// insert adds the pair and reports whether it was new.
func (c *solutionCache) insert(coords Coords, mode evalMode) bool {
	k := uint64(coords.key()) | uint64(mode)<<32
	if _, ok := c.seen[k]; ok {
		return false
	}
	c.seen[k] = struct{}{}
	return true
}

func (c *solutionCache) reset() {
	clear(c.seen)
}

func (c *solutionCache) len() int {
	return len(c.seen)
}

// recentCapacity is the number of block results kept to seed later blocks.
const recentCapacity = 4

// recentRing is a fixed-size ring of the latest block endpoints.
type recentRing struct {
	entries [recentCapacity]Coords
	next    int
	count   int
}

// push stores c unless an equal pair is already present.
func (r *recentRing) push(c Coords) {
	for i := 0; i < r.count; i++ {
		if r.entries[i].Equal(c) {
			return
		}
	}
	r.entries[r.next] = c
	r.next = (r.next + 1) % recentCapacity
	if r.count < recentCapacity {
		r.count++
	}
}

// each visits entries from newest to oldest.
func (r *recentRing) each(fn func(Coords)) {
	for i := 1; i <= r.count; i++ {
		fn(r.entries[(r.next-i+recentCapacity)%recentCapacity])
	}
}

func (r *recentRing) reset() {
	*r = recentRing{}
}
