package emst

import (
	"container/heap"
	"math"
)

// ComputeCoreDistances computes, for every point p, the distance from p
// to its k-th nearest neighbor, via a k-NN query against bvh. Core
// distances are always computed under plain Euclidean distance: mutual
// reachability is defined *from* the core distances, so it cannot yet
// exist when they're being built.
func ComputeCoreDistances(bvh *BVH, k int, backend Backend) ([]float64, error) {
	n := bvh.NumPoints()
	if k < 1 {
		return nil, invalidInputf("k must be >= 1, got %d", k)
	}
	if k >= n {
		return nil, invalidInputf("k (%d) must be < number of points (%d)", k, n)
	}

	metric := NewEuclideanMetric(pointsFromBVH(bvh))
	core := make([]float64, n)

	err := backend.ParallelFor(n, func(i int) error {
		v := &knnVisitor{bvh: bvh, metric: metric, self: i, k: k}
		bvh.Traverse(bvh.Root(), math.Inf(1), v)
		core[i] = v.worst()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return core, nil
}

// pointsFromBVH reconstructs the flat point slice a BVH was built from,
// indexed by original point id (needed because Metric is constructed
// independently of the BVH but must share its point set).
func pointsFromBVH(bvh *BVH) []Point {
	pts := make([]Point, bvh.NumPoints())
	for i := range pts {
		pts[i] = bvh.NodePoint(bvh.LeafIndex(i))
	}
	return pts
}

// knnVisitor is a bounded max-heap based k-NN traversal visitor: it keeps
// the k closest points seen so far (excluding self) and shrinks the
// pruning distance to the current k-th best once the heap is full.
type knnVisitor struct {
	bvh    *BVH
	metric *EuclideanMetric
	self   int
	k      int
	heap   knnHeap
}

func (v *knnVisitor) Prune(node int) bool { return false }

func (v *knnVisitor) NodeLowerBound(node int) float64 {
	return v.metric.LowerBound(v.bvh.NodeBounds(node), v.self)
}

func (v *knnVisitor) VisitLeaf(leaf int, pruningDistance float64) float64 {
	if leaf == v.self {
		return pruningDistance
	}
	d := v.metric.Distance(v.self, leaf)
	if v.heap.Len() < v.k {
		heap.Push(&v.heap, knnItem{point: leaf, dist: d})
	} else if d < v.heap[0].dist {
		v.heap[0] = knnItem{point: leaf, dist: d}
		heap.Fix(&v.heap, 0)
	}
	if v.heap.Len() < v.k {
		return math.Inf(1)
	}
	return v.heap[0].dist
}

func (v *knnVisitor) worst() float64 {
	if v.heap.Len() == 0 {
		return 0
	}
	return v.heap[0].dist
}

type knnItem struct {
	point int
	dist  float64
}

// knnHeap is a max-heap of knnItem (largest distance on top), used as a
// bounded priority queue for k-NN queries.
type knnHeap []knnItem

func (h knnHeap) Len() int            { return len(h) }
func (h knnHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h knnHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x interface{}) { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
