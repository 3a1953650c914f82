package emst

import "sync/atomic"

// multipleLabels is the sentinel label for a BVH node whose subtree spans
// more than one current component.
const multipleLabels = -2

// propagateLabels rebuilds internal-node labels bottom-up from the
// (already up to date) leaf labels: an internal node's label is the
// common label of its two children, or multipleLabels if they disagree.
//
// Because BuildBVH assigns internal-node ids in pre-order (a node's id is
// always smaller than every id in its own subtree), no child ever has a
// *smaller* id than its parent, but the converse doesn't hold — a child's
// id is not necessarily an immediate successor of its parent's. Rather
// than rely on id order, propagation runs as a small number of data-
// parallel wavefronts: a round recomputes every internal node whose two
// children are already resolved, and repeats until none are left. This
// terminates in O(depth) rounds, and each round is a single
// Backend.ParallelFor — i.e. parallelizable per level without
// precomputing an explicit level array.
func propagateLabels(bvh *BVH, labels []int, backend Backend) error {
	n := bvh.NumPoints()
	if n == 1 {
		return nil
	}

	numInternal := n - 1
	resolved := make([]bool, numInternal)
	// Children that are leaves are always already resolved.
	isResolvedChild := func(node int) bool {
		if bvh.IsLeaf(node) {
			return true
		}
		return resolved[node]
	}

	remaining := numInternal
	for remaining > 0 {
		var progressed int64
		err := backend.ParallelFor(numInternal, func(node int) error {
			if resolved[node] {
				return nil
			}
			left, right := bvh.Children(node)
			if !isResolvedChild(left) || !isResolvedChild(right) {
				return nil
			}
			ll, rl := labels[left], labels[right]
			if ll == rl {
				labels[node] = ll
			} else {
				labels[node] = multipleLabels
			}
			resolved[node] = true
			atomic.AddInt64(&progressed, 1)
			return nil
		})
		if err != nil {
			return err
		}
		if progressed == 0 {
			return backendFailuref("label propagation stalled with %d internal node(s) unresolved", remaining)
		}
		remaining -= int(progressed)
	}
	return nil
}
