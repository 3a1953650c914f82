package emst

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metric is the pluggable distance capability the nearest-neighbor search
// needs: Distance for the exact edge weight, LowerBound for tree pruning.
// Euclidean and mutual reachability are the only two metrics wired into
// the Borůvka loop here — see DESIGN.md for why Manhattan/Chebyshev/
// Minkowski/Cosine distance metrics are not carried over.
type Metric interface {
	// Distance returns the distance between points i and j.
	Distance(i, j int) float64

	// LowerBound returns a lower bound on Distance(i, j) for any j whose
	// point lies inside box.
	LowerBound(box AABB, i int) float64
}

// EuclideanMetric is the standard L2 distance over a fixed point set.
type EuclideanMetric struct {
	points []Point
}

// NewEuclideanMetric builds a EuclideanMetric over points.
func NewEuclideanMetric(points []Point) *EuclideanMetric {
	return &EuclideanMetric{points: points}
}

// Distance returns the Euclidean distance between points i and j, via
// gonum's floats.Distance (L2 norm).
func (m *EuclideanMetric) Distance(i, j int) float64 {
	return floats.Distance(m.points[i], m.points[j], 2)
}

// LowerBound returns the point-to-box Euclidean distance: for each
// dimension, the gap between the point and the box if the point lies
// outside it on that axis, combined in L2.
func (m *EuclideanMetric) LowerBound(box AABB, i int) float64 {
	p := m.points[i]
	var sumSq float64
	for d, v := range p {
		var gap float64
		if v < box.Min[d] {
			gap = box.Min[d] - v
		} else if v > box.Max[d] {
			gap = v - box.Max[d]
		}
		sumSq += gap * gap
	}
	return math.Sqrt(sumSq)
}

// MutualReachabilityMetric defines distance(i,j) = max(core[i], core[j],
// euclidean(i,j)), a metric on the same point set used by HDBSCAN.
type MutualReachabilityMetric struct {
	euclidean *EuclideanMetric
	core      []float64
}

// NewMutualReachabilityMetric builds a MutualReachabilityMetric from a
// per-point core-distance array (see ComputeCoreDistances).
func NewMutualReachabilityMetric(points []Point, core []float64) *MutualReachabilityMetric {
	return &MutualReachabilityMetric{euclidean: NewEuclideanMetric(points), core: core}
}

// Distance returns max(core[i], core[j], euclidean(i,j)).
func (m *MutualReachabilityMetric) Distance(i, j int) float64 {
	d := m.euclidean.Distance(i, j)
	return max3(m.core[i], m.core[j], d)
}

// LowerBound returns max(core[i], point-to-box euclidean distance): the
// j-side core[j] cannot be cheaply bounded from the box alone, so it is
// ignored in the lower bound.
func (m *MutualReachabilityMetric) LowerBound(box AABB, i int) float64 {
	return math.Max(m.core[i], m.euclidean.LowerBound(box, i))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
