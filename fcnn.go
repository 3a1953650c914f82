package emst

// fcnnState holds the shared, round-scoped arrays FindComponentNearestNeighbors
// threads through every leaf task: current labels, the metric in use, the
// three atomic per-component accumulators (best edge, best weight, shared
// radius), plus the optional lower-bound cache.
type fcnnState struct {
	bvh    *BVH
	labels []int
	metric Metric

	edges   *atomicEdges
	weights *atomicFloats
	radii   *atomicFloats

	cache *LowerBoundCache // nil unless the lower-bound cache is enabled

	// useSharedRadii controls whether radii[c] feeds the per-leaf pruning
	// distance. It is never required for correctness: disabling it only
	// widens the traversal, never changes which edge is finally chosen,
	// since weights[c] alone is still a valid (if looser) bound. Left on
	// by default — see DESIGN.md.
	useSharedRadii bool
}

// FindComponentNearestNeighbors finds, for every point, the nearest point
// in a *different* component, and folds the best one found per component
// into edges/weights/radii via lock-free monotone combine. It is the hot
// loop of the whole Borůvka round and the only place the BVH is walked
// once per point per round.
func FindComponentNearestNeighbors(bvh *BVH, labels []int, metric Metric, edges *atomicEdges, weights, radii *atomicFloats, cache *LowerBoundCache, backend Backend) error {
	s := &fcnnState{
		bvh:            bvh,
		labels:         labels,
		metric:         metric,
		edges:          edges,
		weights:        weights,
		radii:          radii,
		cache:          cache,
		useSharedRadii: true,
	}
	return backend.ParallelFor(bvh.NumPoints(), s.processLeaf)
}

func (s *fcnnState) processLeaf(i int) error {
	leafNode := s.bvh.LeafIndex(i)
	c := s.labels[leafNode]

	dBest := s.weights.load(c)
	if s.cache != nil && s.cache.Bounds[i] > dBest {
		// Nothing closer than our last round's bound has appeared; the
		// component-level weight can only have tightened since, so this
		// point cannot possibly improve on the component's best edge.
		return nil
	}

	pruningDistance := dBest
	if s.useSharedRadii {
		if r := s.radii.load(c); r < pruningDistance {
			pruningDistance = r
		}
	}

	localBest := s.edges.load(c)
	localDBest := dBest
	v := &fcnnVisitor{state: s, i: i, c: c, best: &localBest, dBest: &localDBest}
	s.bvh.Traverse(s.bvh.Root(), pruningDistance, v)

	if !localBest.isUninitialized() {
		s.edges.combine(c, localBest)
	}
	s.weights.min(c, localDBest)
	s.radii.min(c, localDBest)
	if s.cache != nil {
		s.cache.Bounds[i] = localDBest
		if !localBest.isUninitialized() {
			s.cache.Targets[i] = localBest.Target
		}
	}
	return nil
}

// fcnnVisitor implements TraverseVisitor for a single point's component-
// nearest-neighbor search: same-component subtrees are pruned outright
// regardless of geometry, everything else is pruned only by the metric's
// lower bound.
type fcnnVisitor struct {
	state *fcnnState
	i, c  int
	best  *DirectedEdge
	dBest *float64
}

func (v *fcnnVisitor) Prune(node int) bool {
	return v.state.labels[node] == v.c
}

func (v *fcnnVisitor) NodeLowerBound(node int) float64 {
	return v.state.metric.LowerBound(v.state.bvh.NodeBounds(node), v.i)
}

func (v *fcnnVisitor) VisitLeaf(leaf int, pruningDistance float64) float64 {
	if v.state.labels[v.state.bvh.LeafIndex(leaf)] == v.c {
		return *v.dBest
	}
	d := v.state.metric.Distance(v.i, leaf)
	if d < *v.dBest {
		*v.dBest = d
		*v.best = DirectedEdge{Source: v.i, Target: leaf, Weight: d}
	}
	return *v.dBest
}
