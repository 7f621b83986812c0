package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the iteration count below which For runs sequentially
// regardless of the worker count. Forking a few goroutines for a handful of
// rows costs more than the rows themselves; 4096 keeps coarse levels serial
// while the fine levels of realistic problems still fork.
const DefaultThreshold = 1 << 12

// Policy describes how a data-parallel region executes.
//
// Workers   – upper bound on goroutines forked per region (≤1 means serial).
// Threshold – minimum iteration count before forking is attempted.
//
// The zero value is a valid serial policy. Policy is a plain value: copy it,
// embed it in options, pass it down call chains. It carries no hidden state.
type Policy struct {
	Workers   int
	Threshold int
}

// Serial returns a policy that never forks. Useful for tests that need
// deterministic single-goroutine execution and for rounding out option sets.
func Serial() Policy {
	return Policy{Workers: 1, Threshold: DefaultThreshold}
}

// Default returns a policy sized to the current process: GOMAXPROCS workers
// with the default sequential threshold.
func Default() Policy {
	return Policy{Workers: runtime.GOMAXPROCS(0), Threshold: DefaultThreshold}
}

// parallelizable reports whether a region of n iterations should fork under p.
func (p Policy) parallelizable(n int) bool {
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return p.Workers > 1 && n >= threshold
}

// For executes body over the half-open range [0,n) with an implicit barrier.
//
// Sequential path: a single body(0,n) call on the calling goroutine.
// Parallel path: the range is split into at most p.Workers contiguous chunks
// of near-equal size, each handed to its own goroutine; For returns after
// all chunks complete.
//
// body must treat [lo,hi) as its exclusive write domain; reads outside it
// must be of data that no other chunk writes. n ≤ 0 is a no-op.
//
// Complexity: O(n) work, O(p.Workers) goroutines, no allocations on the
// sequential path.
func For(p Policy, n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if !p.parallelizable(n) {
		body(0, n)

		return
	}

	workers := p.Workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			body(lo, hi)

			return nil
		})
	}
	// Bodies never return errors; Wait serves purely as the join barrier.
	_ = g.Wait()
}

// ForEach is a convenience wrapper over For for bodies that are most natural
// one index at a time. It shares For's policy semantics and barrier.
func ForEach(p Policy, n int, body func(i int)) {
	For(p, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			body(i)
		}
	})
}
