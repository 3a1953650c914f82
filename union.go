package emst

import "sync/atomic"

// LowerBoundCache is a per-leaf cache of the last round's best
// out-of-component distance found, letting a leaf's nearest-neighbor
// search skip the traversal entirely once nothing can possibly beat its
// cached bound.
type LowerBoundCache struct {
	Bounds  []float64
	Targets []int // point id the bound was measured against, or -1
}

// NewLowerBoundCache allocates a cache for n points, with every bound
// starting at 0 (no information yet — never skips a leaf's first round).
func NewLowerBoundCache(n int) *LowerBoundCache {
	targets := make([]int, n)
	for i := range targets {
		targets[i] = -1
	}
	return &LowerBoundCache{Bounds: make([]float64, n), Targets: targets}
}

// Invalidate resets a leaf's cached bound when the component it was
// measured against has since merged into the leaf's own component, since
// the cached distance can no longer be trusted as an out-of-component
// bound. Call once per round, after labels have been updated for the
// round just completed.
func (c *LowerBoundCache) Invalidate(bvh *BVH, labels []int) {
	for i, t := range c.Targets {
		if t < 0 {
			continue
		}
		if labels[bvh.LeafIndex(i)] == labels[bvh.LeafIndex(t)] {
			c.Bounds[i] = 0
		}
	}
}

// roundEdges accumulates the edges emitted across the whole Borůvka run
// (not reset between rounds), via an atomic counter-allocated slot per
// emission — slot indices double as the dendrogram's edge-id space, so
// dendrogram.go can address them directly.
type roundEdges struct {
	slots []WeightedEdge
	next  int64
}

func newRoundEdges(capacity int) *roundEdges {
	return &roundEdges{slots: make([]WeightedEdge, capacity)}
}

func (r *roundEdges) append(e WeightedEdge) int {
	slot := atomic.AddInt64(&r.next, 1) - 1
	r.slots[slot] = e
	return int(slot)
}

func (r *roundEdges) emitted() []WeightedEdge {
	return r.slots[:r.next]
}

// isMutualPair reports whether c's winner (u, w) and c''s winner (u', w')
// point at each other: w' == u and u' == w.
func isMutualPair(winner, otherWinner DirectedEdge) bool {
	return otherWinner.Target == winner.Source && otherWinner.Source == winner.Target
}

// mergeEvent records one edge's merge: the component absorbed (loser) and
// the minimum-labeled id that survives — the input dendrogram.go needs to
// assign parents incrementally, round by round.
type mergeEvent struct {
	edge     int
	loser    int
	survivor int
}

// emitEdges is the edge-emission sub-pass: for every active component
// with a real winning edge, append it to the run's edge list exactly
// once. When two components pick each other as their mutual nearest
// neighbor, only the smaller-id component emits, so the edge isn't
// appended twice. It always also returns the (loser, survivor) pair per
// emitted edge: cheap to compute alongside emission, and exactly what the
// HDBSCAN dendrogram needs, folded into a single pass since every edge
// has exactly one loser and one survivor regardless of how many
// components independently pointed at it.
func emitEdges(bvh *BVH, labels []int, outEdges *atomicEdges, components []int, round *roundEdges) ([]int, []mergeEvent) {
	slots := make([]int, len(components))
	for i := range slots {
		slots[i] = -1
	}
	events := make([]mergeEvent, 0, len(components))

	for idx, c := range components {
		winner := outEdges.load(c)
		if winner.isUninitialized() {
			continue
		}
		cPrime := labels[bvh.LeafIndex(winner.Target)]
		otherWinner := outEdges.load(cPrime)

		// Compare components, not endpoints: two components can pick each
		// other through different edges of equal weight.
		pointsBack := !otherWinner.isUninitialized() && labels[bvh.LeafIndex(otherWinner.Target)] == c
		if (isMutualPair(winner, otherWinner) || pointsBack) && c > cPrime {
			continue // cPrime (processed earlier, since components is sorted) already emitted its edge to c
		}

		slot := round.append(winner.toWeighted())
		slots[idx] = slot

		survivor, loser := c, cPrime
		if cPrime < c {
			survivor, loser = cPrime, c
		}
		events = append(events, mergeEvent{edge: slot, loser: loser, survivor: survivor})
	}
	return slots, events
}

// updateLabels is the label-update sub-pass: every active component c and
// the component its winning edge reaches (as labelled at the start of the
// round) both take the smaller of their two current labels, iterated to a
// fixpoint (classical union-by-minimum), so each merged group ends up
// labelled by its minimum id; then every leaf's label is pushed down
// through the resulting chains to its own fixpoint.
func updateLabels(bvh *BVH, labels []int, outEdges *atomicEdges, components []int) {
	old := append([]int(nil), labels...)
	for {
		changed := false
		for _, c := range components {
			winner := outEdges.load(c)
			if winner.isUninitialized() {
				continue
			}
			leaf, other := bvh.LeafIndex(c), bvh.LeafIndex(old[bvh.LeafIndex(winner.Target)])
			m := labels[leaf]
			if labels[other] < m {
				m = labels[other]
			}
			if m < labels[leaf] || m < labels[other] {
				labels[leaf], labels[other] = m, m
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	n := bvh.NumPoints()
	for i := 0; i < n; i++ {
		leaf := bvh.LeafIndex(i)
		for {
			parent := labels[leaf]
			parentLeaf := bvh.LeafIndex(parent)
			if labels[parentLeaf] == parent {
				break
			}
			labels[leaf] = labels[parentLeaf]
		}
	}
}

// activeComponents returns the sorted, de-duplicated set of current
// component ids found among the leaf labels — the id space a Borůvka
// round iterates over, shrinking as labels collapse round over round.
func activeComponents(bvh *BVH, labels []int) []int {
	n := bvh.NumPoints()
	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		seen[labels[bvh.LeafIndex(i)]] = true
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	for i := 1; i < len(out); i++ {
		v := out[i]
		j := i - 1
		for j >= 0 && out[j] > v {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = v
	}
	return out
}
