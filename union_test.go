package emst

import "testing"

func TestLowerBoundCache_InvalidateResetsAbsorbedTargets(t *testing.T) {
	n := 4
	bvh, err := BuildBVH(linePoints(n))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache := NewLowerBoundCache(n)
	cache.Bounds[0] = 5
	cache.Targets[0] = 1 // point 0's last candidate was point 1

	labels := make([]int, 2*n-1)
	// Points 0 and 1 have since merged into the same component.
	labels[bvh.LeafIndex(0)] = 0
	labels[bvh.LeafIndex(1)] = 0
	labels[bvh.LeafIndex(2)] = 2
	labels[bvh.LeafIndex(3)] = 2

	cache.Invalidate(bvh, labels)
	if cache.Bounds[0] != 0 {
		t.Errorf("Bounds[0] = %v, want 0 after its target merged into its own component", cache.Bounds[0])
	}
}

func TestLowerBoundCache_LeavesStillValidBoundsAlone(t *testing.T) {
	n := 4
	bvh, err := BuildBVH(linePoints(n))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache := NewLowerBoundCache(n)
	cache.Bounds[0] = 5
	cache.Targets[0] = 3

	labels := make([]int, 2*n-1)
	labels[bvh.LeafIndex(0)] = 0
	labels[bvh.LeafIndex(1)] = 0
	labels[bvh.LeafIndex(2)] = 2
	labels[bvh.LeafIndex(3)] = 2

	cache.Invalidate(bvh, labels)
	if cache.Bounds[0] != 5 {
		t.Errorf("Bounds[0] = %v, want unchanged 5 (target never merged in)", cache.Bounds[0])
	}
}

func TestEmitEdges_MutualPairEmitsOnce(t *testing.T) {
	n := 2
	bvh, err := BuildBVH(linePoints(n))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labels := make([]int, 2*n-1)
	labels[bvh.LeafIndex(0)] = 0
	labels[bvh.LeafIndex(1)] = 1

	outEdges := newAtomicEdges(n)
	outEdges.combine(0, DirectedEdge{Source: 0, Target: 1, Weight: 1})
	outEdges.combine(1, DirectedEdge{Source: 1, Target: 0, Weight: 1})

	round := newRoundEdges(1)
	components := activeComponents(bvh, labels)
	_, events := emitEdges(bvh, labels, outEdges, components, round)

	if got := len(round.emitted()); got != 1 {
		t.Fatalf("emitted %d edges for a mutual pair, want 1", got)
	}
	if got := len(events); got != 1 {
		t.Fatalf("got %d merge events, want 1", got)
	}
	if events[0].survivor != 0 || events[0].loser != 1 {
		t.Errorf("merge event = %+v, want survivor=0 loser=1", events[0])
	}
}

func TestUpdateLabels_CollapsesChainToMinimum(t *testing.T) {
	n := 3
	bvh, err := BuildBVH(linePoints(n))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labels := make([]int, 2*n-1)
	for i := 0; i < n; i++ {
		labels[bvh.LeafIndex(i)] = i
	}

	outEdges := newAtomicEdges(n)
	outEdges.combine(1, DirectedEdge{Source: 1, Target: 0, Weight: 1}) // 1 -> 0
	outEdges.combine(2, DirectedEdge{Source: 2, Target: 1, Weight: 1}) // 2 -> 1

	updateLabels(bvh, labels, outEdges, []int{0, 1, 2})

	for i := 0; i < n; i++ {
		if got := labels[bvh.LeafIndex(i)]; got != 0 {
			t.Errorf("leaf %d label = %d, want 0 after chain collapse", i, got)
		}
	}
}
