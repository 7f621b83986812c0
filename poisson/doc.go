// Package poisson builds the discrete model problems the module is
// exercised on: finite-difference Laplacians on uniform 1D and 2D grids
// with homogeneous Dirichlet boundaries, plus the constant and seeded
// random vectors that accompany them as near-kernel candidates and
// right-hand sides.
//
// The operators are symmetric positive definite M-matrices, which makes
// them the canonical input for every coarsening and interpolation
// strategy in the module. Generators panic on nonpositive grid sizes,
// matching the constructor convention of gonum's mat package; everything
// else about them is infallible.
package poisson
