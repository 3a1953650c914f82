package emst

import (
	"log"
	"math"
)

// Config controls how Build constructs the spanning tree, cut down to the
// knobs this package actually has.
type Config struct {
	// Workers is the number of goroutines the parallel backend uses; <= 0
	// selects runtime.NumCPU(). Ignored if Backend is set explicitly.
	Workers int

	// Backend overrides the execution backend entirely; if nil, one is
	// built from Workers via NewBackend.
	Backend Backend

	// LowerBoundCache enables the per-leaf lower-bound distance cache.
	// Defaults to true: it is never required for correctness, only a
	// performance optimization.
	LowerBoundCache bool

	// BuildDendrogram requests the HDBSCAN single-linkage dendrogram
	// alongside the MST. Forced true automatically when K > 1, since
	// mutual-reachability mode exists specifically to feed HDBSCAN.
	BuildDendrogram bool
}

// DefaultConfig returns the default construction options.
func DefaultConfig() Config {
	return Config{
		LowerBoundCache: true,
	}
}

func (c Config) applyDefaults() Config {
	if c.Workers == 0 {
		c.Workers = 0 // NewBackend(0) already means NumCPU(); nothing to do
	}
	return c
}

// Result is Build's output: always the MST edges, plus the dendrogram
// fields when HDBSCAN mode was requested.
type Result struct {
	Edges []WeightedEdge

	// CoreDistances is non-nil when k > 1 (mutual-reachability mode).
	CoreDistances []float64

	// The following are non-nil only when Config.BuildDendrogram (or
	// k > 1) was in effect.
	DendrogramParents       []int
	DendrogramParentHeights []float64
	ChainOffsets            []int
	ChainLevels             []int
}

// Build is the top-level driver: builds a BVH over points, optionally
// computes core distances and switches to the mutual-reachability
// metric, then runs the Borůvka loop to a single component, optionally
// assembling the HDBSCAN dendrogram inline as it goes.
func Build(points []Point, k int, cfg Config) (*Result, error) {
	n := len(points)
	if n < 2 {
		return nil, invalidInputf("need at least 2 points, got %d", n)
	}
	if k < 1 {
		return nil, invalidInputf("k must be >= 1, got %d", k)
	}
	if k >= n {
		return nil, invalidInputf("k (%d) must be < number of points (%d)", k, n)
	}

	cfg = cfg.applyDefaults()
	backend := cfg.Backend
	if backend == nil {
		backend = NewBackend(cfg.Workers)
	}

	bvh, err := BuildBVH(points)
	if err != nil {
		return nil, err
	}

	var metric Metric
	var core []float64
	dendrogramMode := cfg.BuildDendrogram || k > 1
	if k > 1 {
		core, err = ComputeCoreDistances(bvh, k, backend)
		if err != nil {
			return nil, err
		}
		metric = NewMutualReachabilityMetric(points, core)
	} else {
		metric = NewEuclideanMetric(points)
	}

	n2 := 2*n - 1
	labels := make([]int, n2)
	for i := 0; i < n; i++ {
		labels[bvh.LeafIndex(i)] = i
	}

	var cache *LowerBoundCache
	if cfg.LowerBoundCache {
		cache = NewLowerBoundCache(n)
	}

	edges := newRoundEdges(n - 1)
	var dendro *DendrogramBuilder
	if dendrogramMode {
		dendro = NewDendrogramBuilder(bvh)
	}

	weights := newAtomicFloats(n, math.Inf(1))
	radii := newAtomicFloats(n, math.Inf(1))
	outEdges := newAtomicEdges(n)

	for {
		if err := propagateLabels(bvh, labels, backend); err != nil {
			return nil, err
		}

		components := activeComponents(bvh, labels)
		if len(components) == 1 {
			break
		}

		weights.reset(math.Inf(1))
		radii.reset(math.Inf(1))
		outEdges.reset()

		if err := FindComponentNearestNeighbors(bvh, labels, metric, outEdges, weights, radii, cache, backend); err != nil {
			return nil, err
		}

		_, events := emitEdges(bvh, labels, outEdges, components, edges)
		if len(events) == 0 {
			// Every point has a finite distance to every other point, so
			// FindComponentNearestNeighbors should never leave every
			// component's candidate edge uninitialized. This is checked
			// defensively rather than assumed, so a bug upstream fails
			// loudly instead of spinning the loop forever.
			log.Printf("emst: union step made no progress with %d components remaining (disconnected point set)", len(components))
			return nil, disconnectedf("could not connect %d remaining components", len(components))
		}
		if dendro != nil {
			dendro.Record(events)
		}

		updateLabels(bvh, labels, outEdges, components)
		if cache != nil {
			cache.Invalidate(bvh, labels)
		}
	}

	result := &Result{CoreDistances: core}

	if dendro != nil {
		d := dendro.Finalize(edges.emitted())
		result.Edges = d.Edges
		result.DendrogramParents = d.Parents
		result.DendrogramParentHeights = d.ParentHeights
		result.ChainOffsets = d.ChainOffsets
		result.ChainLevels = d.ChainLevels
	} else {
		result.Edges = append([]WeightedEdge(nil), edges.emitted()...)
	}

	return result, nil
}
