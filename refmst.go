package emst

import "math"

// PrimMST computes a reference minimum spanning tree with Prim's
// algorithm over any Metric, generalized from a flat mutual-reachability
// matrix. It exists purely as an independent O(n²) oracle for testing
// that Build's result is a minimum spanning tree; Build never calls it.
func PrimMST(metric Metric, n int) []WeightedEdge {
	if n <= 1 {
		return nil
	}

	inTree := make([]bool, n)
	nearest := make([]int, n)
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}

	dist[0] = 0
	nearest[0] = 0
	edges := make([]WeightedEdge, 0, n-1)

	for count := 0; count < n; count++ {
		u := -1
		best := math.Inf(1)
		for v := 0; v < n; v++ {
			if !inTree[v] && dist[v] < best {
				best = dist[v]
				u = v
			}
		}
		if u == -1 {
			break // disconnected under this metric; shouldn't happen for a finite metric
		}
		inTree[u] = true
		if count > 0 {
			edges = append(edges, WeightedEdge{Source: nearest[u], Target: u, Weight: best})
		}

		for v := 0; v < n; v++ {
			if inTree[v] {
				continue
			}
			d := metric.Distance(u, v)
			if d < dist[v] {
				dist[v] = d
				nearest[v] = u
			}
		}
	}

	return edges
}

// TotalWeight sums edge weights — used to compare Build's result against
// PrimMST's under the minimality property.
func TotalWeight(edges []WeightedEdge) float64 {
	var sum float64
	for _, e := range edges {
		sum += e.Weight
	}
	return sum
}

// unionFind is a minimal disjoint-set structure used only by
// isSpanningForest to check that a candidate edge set is acyclic and
// spans all n vertices.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size}
}

func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

func (uf *unionFind) union(x, y int) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return false
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return true
}

// isSpanningForest reports whether edges form a single acyclic tree
// spanning exactly n vertices: len(edges) == n-1, no edge closes a cycle,
// and every vertex in [0, n) is reachable.
func isSpanningForest(edges []WeightedEdge, n int) bool {
	if len(edges) != n-1 {
		return false
	}
	uf := newUnionFind(n)
	for _, e := range edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			return false
		}
		if !uf.union(e.Source, e.Target) {
			return false // cycle
		}
	}
	root := uf.find(0)
	for i := 1; i < n; i++ {
		if uf.find(i) != root {
			return false // disconnected
		}
	}
	return true
}
