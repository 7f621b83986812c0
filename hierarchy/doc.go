// Package hierarchy assembles the multigrid level stack.
//
// Build runs one coarsening round per level: classify strong couplings,
// select the coarse space, assemble the prolongation, and form the next
// operator by the Galerkin triple product R·A·P. The loop stops when the
// operator is small enough for a direct solve, when the level cap is
// reached, or when a round reports that no useful coarse space exists.
// Every level owns its smoother and its right-hand-side, iterate and
// scratch vectors, so cycling over the finished hierarchy allocates
// nothing.
//
// Configuration goes through functional options. The defaults build a
// classical hierarchy: strength-based splitting, direct interpolation,
// one Gauss-Seidel sweep in Coarse-first order on each side of the
// correction, and a dense LU factorization of the coarsest operator. An
// aggregation hierarchy swaps in an aggregation coarsener together with
// the tentative prolongation:
//
//	h, err := hierarchy.Build(a,
//	    hierarchy.WithCoarsener(aggregate.NewVMB()),
//	    hierarchy.WithInterpolator(aggregate.Tentative{}),
//	    hierarchy.WithMinCoarseSize(100),
//	)
//
// Coarsening failures are not fatal: a level that cannot shrink any
// further simply becomes the coarsest, and whatever stack exists at that
// point is finished and returned. Configuration mistakes fail fast
// instead, with Build returning ErrBadOption before touching the
// operator.
//
// A Hierarchy is immutable once built. Rebuild it whenever the operator
// changes; reuse it across any number of right-hand sides.
//
// Complexity:
//
//	– Time:  dominated by the Galerkin products, roughly O(nnz · c²)
//	   per level for an average row count c of the prolongation.
//	– Space: all level operators together, typically 1.2–2.5 times the
//	   finest operator (reported by OperatorComplexity).
package hierarchy
