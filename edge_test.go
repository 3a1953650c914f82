package emst

import "testing"

func TestWeightedEdgeLess_OrdersByWeightFirst(t *testing.T) {
	a := WeightedEdge{Source: 5, Target: 1, Weight: 1.0}
	b := WeightedEdge{Source: 0, Target: 2, Weight: 2.0}
	if !a.Less(b) {
		t.Error("lighter edge should sort first regardless of endpoints")
	}
	if b.Less(a) {
		t.Error("heavier edge should not sort before a lighter one")
	}
}

func TestWeightedEdgeLess_TiesBreakOnEndpoints(t *testing.T) {
	a := WeightedEdge{Source: 3, Target: 1, Weight: 1.0} // canonical (1,3)
	b := WeightedEdge{Source: 2, Target: 4, Weight: 1.0} // canonical (2,4)
	if !a.Less(b) {
		t.Error("(1,3) should sort before (2,4) at equal weight")
	}
}

func TestWeightedEdgeLess_DistinctEdgesNeverEqual(t *testing.T) {
	a := WeightedEdge{Source: 0, Target: 1, Weight: 1.0}
	b := WeightedEdge{Source: 1, Target: 2, Weight: 1.0}
	if !a.Less(b) && !b.Less(a) {
		t.Error("two distinct edges must not compare equal under the canonical order")
	}
}

func TestDirectedEdge_UninitializedSentinel(t *testing.T) {
	if !uninitializedEdge.isUninitialized() {
		t.Error("uninitializedEdge must report itself as uninitialized")
	}
	real := DirectedEdge{Source: 0, Target: 1, Weight: 1.0}
	if real.isUninitialized() {
		t.Error("a real edge must not report itself as uninitialized")
	}
}

func TestDirectedEdge_LessMatchesWeightedEdge(t *testing.T) {
	a := DirectedEdge{Source: 0, Target: 1, Weight: 1.0}
	b := DirectedEdge{Source: 0, Target: 2, Weight: 2.0}
	if !a.less(b) {
		t.Error("lighter directed edge should sort first")
	}
}
