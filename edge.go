package emst

import "math"

// Point is a fixed-dimension coordinate vector. The dimension is fixed
// for a whole construction but otherwise the builder is dimension-agnostic.
type Point []float64

// WeightedEdge is an undirected MST edge. Ordering is lexicographic on
// (Weight, min(Source,Target), max(Source,Target)); two distinct edges
// (distinct point pairs) never compare equal, which makes the ordering a
// valid deterministic tie-break for parallel reductions.
type WeightedEdge struct {
	Source int
	Target int
	Weight float64
}

// Less reports whether e sorts before o under the canonical edge order.
func (e WeightedEdge) Less(o WeightedEdge) bool {
	if e.Weight != o.Weight {
		return e.Weight < o.Weight
	}
	eMin, eMax := minMax(e.Source, e.Target)
	oMin, oMax := minMax(o.Source, o.Target)
	if eMin != oMin {
		return eMin < oMin
	}
	return eMax < oMax
}

func minMax(a, b int) (lo, hi int) {
	if a < b {
		return a, b
	}
	return b, a
}

// DirectedEdge is a candidate outgoing edge for a component: Source is
// known to belong to the component that owns this edge, Target is the
// (possibly out-of-component) point it reaches. The zero value is not
// valid; use uninitializedEdge for "no candidate yet".
type DirectedEdge struct {
	Source int
	Target int
	Weight float64
}

// uninitializedEdge is the "no candidate yet" sentinel: infinite weight,
// both endpoints -1.
var uninitializedEdge = DirectedEdge{Source: -1, Target: -1, Weight: math.Inf(1)}

// isUninitialized reports whether e is the "no candidate yet" sentinel.
func (e DirectedEdge) isUninitialized() bool {
	return e.Source == -1 && e.Target == -1
}

// less implements the total order used by the atomic monotone combine:
// order by (weight, min(endpoint), max(endpoint)).
func (e DirectedEdge) less(o DirectedEdge) bool {
	return WeightedEdge{e.Source, e.Target, e.Weight}.Less(
		WeightedEdge{o.Source, o.Target, o.Weight})
}

// toWeighted produces the undirected edge carried by e.
func (e DirectedEdge) toWeighted() WeightedEdge {
	return WeightedEdge{Source: e.Source, Target: e.Target, Weight: e.Weight}
}
