// Package coarse terminates the multigrid descent: the coarsest operator
// is small enough to solve outright, and the accuracy of that solve is
// what the cycles above it lean on.
//
//   - Dense — the operator is densified and LU-factorized once; every
//     Solve is two triangular sweeps. Exact, and at coarsest-level sizes
//     the cubic setup cost is invisible.
//
//   - CG — diagonally preconditioned conjugate gradients wrapped in a
//     safety net: the best iterate seen is kept aside, stagnation and
//     apparent convergence are double-checked against the true residual,
//     and the search direction restarts when progress stalls. The
//     fallback when the coarsest operator is singular or a factorization
//     is unwanted.
//
// Both implement Solver: Factorize once per hierarchy build, Solve once
// per cycle visit.
package coarse
