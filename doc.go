// Package emst implements a parallel Borůvka-style Euclidean Minimum
// Spanning Tree (EMST) builder accelerated by a bounding-volume hierarchy
// (BVH), with an optional extension mode that produces an HDBSCAN
// single-linkage dendrogram directly from the MST construction trace.
//
// Basic usage:
//
//	cfg := emst.DefaultConfig()
//	result, err := emst.Build(points, 1, cfg) // k=1: plain Euclidean MST
//	// result.Edges is the (n-1)-edge minimum spanning tree
//
// HDBSCAN mode is selected by k>1 (mutual reachability distance) or by
// explicitly requesting the dendrogram:
//
//	cfg := emst.DefaultConfig()
//	cfg.BuildDendrogram = true
//	result, err := emst.Build(points, 5, cfg)
//	// result.DendrogramParents, result.DendrogramParentHeights,
//	// result.ChainOffsets, result.ChainLevels describe the single-linkage
//	// hierarchy without a second O(n log n) linkage pass.
package emst
