package emst

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Backend is the execution-space abstraction: a data-parallel for-loop
// over n independent items (leaves, components, edges) with a barrier on
// return. No task may observe another task's writes until the call
// returns; a failure from any task aborts the whole loop and the first
// error reported is returned to the caller synchronously, unchanged.
//
// Core-distance computation and nearest-neighbor search are each one
// ParallelFor call; label propagation is one ParallelFor call per
// wavefront; edge emission, label update and dendrogram bookkeeping run
// sequentially on the calling goroutine. The model is bulk-synchronous:
// work inside a sub-step never waits on another sub-step, and every
// sub-step completes before the next one starts.
type Backend interface {
	ParallelFor(n int, fn func(i int) error) error
}

// sequentialThreshold is the item count below which goroutineBackend falls
// back to running inline: scheduling n goroutines to do a few float
// comparisons each is pure overhead for small n.
const sequentialThreshold = 256

// goroutineBackend runs ParallelFor over min(workers, n) goroutines using
// errgroup, which gives first-error propagation for free
// — "any failure aborts construction" — without a hand-rolled WaitGroup +
// error channel.
type goroutineBackend struct {
	workers int
}

// NewBackend returns the default parallel backend. workers<=0 means use
// runtime.NumCPU().
func NewBackend(workers int) Backend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &goroutineBackend{workers: workers}
}

func (b *goroutineBackend) ParallelFor(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if n <= sequentialThreshold || b.workers <= 1 {
		return sequentialParallelFor(n, fn)
	}

	var g errgroup.Group
	workers := b.workers
	if workers > n {
		workers = n
	}
	itemsPerWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * itemsPerWorker
		end := start + itemsPerWorker
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// sequentialBackend always runs inline on the calling goroutine. Used by
// tests that need deterministic single-threaded execution and by
// construction paths too small to benefit from fan-out.
type sequentialBackend struct{}

// NewSequentialBackend returns a Backend that never spawns goroutines.
func NewSequentialBackend() Backend { return sequentialBackend{} }

func (sequentialBackend) ParallelFor(n int, fn func(i int) error) error {
	return sequentialParallelFor(n, fn)
}

func sequentialParallelFor(n int, fn func(i int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
