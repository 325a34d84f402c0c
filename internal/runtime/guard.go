package runtime

// visitGuard is the set of node indices already on the current evaluation path.
// It is copied on extension, so sibling branches do not see each other's nodes.
type visitGuard map[int]struct{}

func (g visitGuard) has(index int) bool {
	_, ok := g[index]
	return ok
}

func (g visitGuard) with(index int) visitGuard {
	next := make(visitGuard, len(g)+1)
	for k := range g {
		next[k] = struct{}{}
	}
	next[index] = struct{}{}
	return next
}
