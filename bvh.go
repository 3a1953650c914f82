package emst

import "math"

// AABB is an axis-aligned bounding box: per-dimension [Min, Max] ranges.
type AABB struct {
	Min Point
	Max Point
}

func aabbForPoint(p Point) AABB {
	lo := make(Point, len(p))
	hi := make(Point, len(p))
	copy(lo, p)
	copy(hi, p)
	return AABB{Min: lo, Max: hi}
}

func (b AABB) union(o AABB) AABB {
	dims := len(b.Min)
	lo := make(Point, dims)
	hi := make(Point, dims)
	for d := 0; d < dims; d++ {
		lo[d] = math.Min(b.Min[d], o.Min[d])
		hi[d] = math.Max(b.Max[d], o.Max[d])
	}
	return AABB{Min: lo, Max: hi}
}

// BVH is a bounding-volume hierarchy over N points: N leaves and N-1
// internal nodes, addressed in one index space of length 2N-1. Internal
// nodes occupy [0, N-2], leaves occupy the contiguous range [N-1, 2N-2],
// and leaf node N-1+i always corresponds to point i (so LeafIndex is O(1)
// and needs no lookup table).
//
// BuildBVH treats the specific tree-building strategy as an internal
// detail rather than a promised contract; it is a
// median-of-greatest-spread-dimension recursive split, adapted to this
// index layout.
type BVH struct {
	points []Point
	dims   int
	n      int

	// Parents[node] is the parent of node, or -1 for the root.
	Parents []int

	// bounds[node] is node's bounding box.
	bounds []AABB

	// left[node], right[node] hold the children of internal nodes; unused
	// for leaves. Internal nodes are indexed [0, n-2].
	left, right []int

	root int
}

// NumPoints returns N.
func (b *BVH) NumPoints() int { return b.n }

// Dims returns the point dimensionality.
func (b *BVH) Dims() int { return b.dims }

// Root returns the index of the top-level node (internal node 0, unless
// N==1 in which case the sole leaf is also the root).
func (b *BVH) Root() int { return b.root }

// IsLeaf reports whether node is a leaf.
func (b *BVH) IsLeaf(node int) bool { return node >= b.n-1 }

// LeafIndex returns the BVH node id of point i's leaf.
func (b *BVH) LeafIndex(i int) int { return b.n - 1 + i }

// LeafPoint returns the point index stored at leaf node.
func (b *BVH) LeafPoint(leaf int) int { return leaf - (b.n - 1) }

// NodePoint returns the point at a leaf node.
func (b *BVH) NodePoint(leaf int) Point { return b.points[b.LeafPoint(leaf)] }

// NodeBounds returns node's bounding box.
func (b *BVH) NodeBounds(node int) AABB { return b.bounds[node] }

// Children returns node's (left, right) child ids. Undefined for leaves.
func (b *BVH) Children(node int) (int, int) { return b.left[node], b.right[node] }

// BuildBVH builds a BVH over points. len(points) must be >= 1 (Build
// enforces the stricter N>=2 requirement itself, as an InvalidInput
// error).
func BuildBVH(points []Point) (*BVH, error) {
	n := len(points)
	if n == 0 {
		return nil, invalidInputf("cannot build a BVH over zero points")
	}
	dims := len(points[0])
	for i, p := range points {
		if len(p) != dims {
			return nil, invalidInputf("point %d has dimension %d, want %d", i, len(p), dims)
		}
		for d, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalidInputf("point %d has non-finite coordinate at dim %d", i, d)
			}
		}
	}

	numNodes := 2*n - 1
	b := &BVH{
		points:  points,
		dims:    dims,
		n:       n,
		Parents: make([]int, numNodes),
		bounds:  make([]AABB, numNodes),
		left:    make([]int, numNodes),
		right:   make([]int, numNodes),
	}
	for i := range b.Parents {
		b.Parents[i] = -1
	}

	if n == 1 {
		b.root = b.LeafIndex(0)
		b.bounds[b.root] = aabbForPoint(points[0])
		return b, nil
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	nextInternal := 0
	var build func(start, end int) int
	build = func(start, end int) int {
		count := end - start
		if count == 1 {
			leaf := b.LeafIndex(perm[start])
			b.bounds[leaf] = aabbForPoint(points[perm[start]])
			return leaf
		}

		node := nextInternal
		nextInternal++

		splitDim := greatestSpreadDim(points, perm[start:end])
		sortBySlicesDim(points, perm[start:end], splitDim)
		mid := start + count/2

		left := build(start, mid)
		right := build(mid, end)

		b.left[node] = left
		b.right[node] = right
		b.Parents[left] = node
		b.Parents[right] = node
		b.bounds[node] = b.bounds[left].union(b.bounds[right])
		return node
	}

	b.root = build(0, n)
	return b, nil
}

func greatestSpreadDim(points []Point, idx []int) int {
	dims := len(points[0])
	lo := make([]float64, dims)
	hi := make([]float64, dims)
	for d := 0; d < dims; d++ {
		lo[d] = math.Inf(1)
		hi[d] = math.Inf(-1)
	}
	for _, i := range idx {
		for d := 0; d < dims; d++ {
			v := points[i][d]
			if v < lo[d] {
				lo[d] = v
			}
			if v > hi[d] {
				hi[d] = v
			}
		}
	}
	best, bestSpread := 0, -1.0
	for d := 0; d < dims; d++ {
		spread := hi[d] - lo[d]
		if spread > bestSpread {
			bestSpread = spread
			best = d
		}
	}
	return best
}

// sortBySlicesDim sorts idx (a subslice of the permutation array) by
// points[idx[i]][dim], ascending. Insertion sort is fine here: BVH leaves
// hold exactly one point each, so the largest slice sorted is N, and this
// runs O(log N) times per level during the top-down build; for the
// low-dimensional geometric data this package targets, a dependency-free
// sort keeps bvh.go self-contained.
func sortBySlicesDim(points []Point, idx []int, dim int) {
	for i := 1; i < len(idx); i++ {
		v := idx[i]
		key := points[v][dim]
		j := i - 1
		for j >= 0 && points[idx[j]][dim] > key {
			idx[j+1] = idx[j]
			j--
		}
		idx[j+1] = v
	}
}

// TraverseVisitor drives a nearest-first descent of a BVH. NodeLowerBound
// supplies the geometric pruning bound (typically Metric.LowerBound
// against the query point); Prune lets the caller skip a subtree for
// non-geometric reasons (FindComponentNearestNeighbors' same-component
// pruning) before the geometric bound is even computed; VisitLeaf
// processes a reached leaf and may tighten the pruning distance for the
// rest of the walk.
type TraverseVisitor interface {
	Prune(node int) bool
	NodeLowerBound(node int) float64
	VisitLeaf(leaf int, pruningDistance float64) float64
}

// Traverse performs a depth-first, nearest-first descent from node,
// invoking v on every unpruned leaf within pruningDistance, and returns
// the (possibly tightened) pruning distance after the whole subtree has
// been visited.
func (b *BVH) Traverse(node int, pruningDistance float64, v TraverseVisitor) float64 {
	if pruningDistance <= 0 {
		return pruningDistance
	}
	if v.Prune(node) {
		return pruningDistance
	}
	if v.NodeLowerBound(node) >= pruningDistance {
		return pruningDistance
	}
	if b.IsLeaf(node) {
		return v.VisitLeaf(b.LeafPoint(node), pruningDistance)
	}

	left, right := b.Children(node)
	leftBound := v.NodeLowerBound(left)
	rightBound := v.NodeLowerBound(right)

	near, far, farBound := left, right, rightBound
	if rightBound < leftBound {
		near, far, farBound = right, left, leftBound
	}

	pruningDistance = b.Traverse(near, pruningDistance, v)
	if farBound < pruningDistance {
		pruningDistance = b.Traverse(far, pruningDistance, v)
	}
	return pruningDistance
}
