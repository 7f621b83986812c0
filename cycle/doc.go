// Package cycle runs multigrid cycles over a built hierarchy.
//
// Apply performs one cycle on the finest level: smooth, restrict the
// residual, recurse on the coarse levels, prolongate the correction back
// and smooth again, with a direct solve on the coarsest level. The
// recursion count per level comes from the hierarchy (one visit for V
// cycles, two for W, graded counts for aggregation stacks), and
// AMLI-style hierarchies replace the fixed repeat count with a
// Chebyshev-weighted combination of coarse corrections.
//
// All scratch lives in the level-owned work vectors, so cycles allocate
// nothing and repeated runs with the same inputs produce identical
// iterates. Solve wraps Apply into a ready standalone iteration that
// stops on a relative-residual tolerance:
//
//	it, res, err := cycle.Solve(h, b, x, 1e-8, 100)
//
// Smoothing sweeps run forward before the coarse-grid correction and
// backward after it, keeping one cycle symmetric for symmetric operators
// and symmetric smoothers.
package cycle
