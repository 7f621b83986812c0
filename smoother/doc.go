// Package smoother provides the relaxation methods that damp the
// high-frequency error between grid transfers. Every smoother applies a
// fixed number of sweeps to A·x = b and updates x in place:
//
//   - GaussSeidel — in-place sweeps using the latest neighbor values.
//
//   - Method: rows are visited in index order (reversed for Backward
//     sweeps) and each one is re-solved against the current iterate.
//
//   - Time:   O(nnz) per sweep.
//
//   - Memory: none beyond the iterate.
//
//   - SOR — Gauss–Seidel with an over-relaxation weight in (0, 2).
//
//   - SymmetricGS — one forward pass followed by one backward pass per
//     sweep, which keeps the smoothing operator symmetric.
//
//   - Jacobi — damped simultaneous relaxation. Updates read only the
//     previous iterate, so the row loop runs under an execution policy;
//     a work vector owned by the smoother carries the next iterate.
//
//   - ILU — a zero fill-in incomplete factorization bound to one operator
//     by SetupILU. Each sweep applies the correction U⁻¹·L⁻¹·(b − A·x).
//
//   - Time:   setup O(nnz·k) for average row length k, O(nnz) per sweep.
//
//   - Memory: one copy of the operator values plus a residual vector.
//
//   - Schwarz — overlapping block relaxation. Blocks are grown by
//     breadth-first search on the symmetrized pattern and dense-factored
//     once by SetupSchwarz; each sweep sums the block corrections with
//     partition-of-unity weights on the overlap.
//
// # Sweep direction and ordering
//
// Direction picks the traversal of one multiplicative sweep: Forward
// ascends, Backward descends. Jacobi, ILU and Schwarz compute
// simultaneous corrections and ignore it. The Ordered wrapper replaces
// the natural traversal with an explicit row list, which is how
// coarse-first sweeps and label-restricted compatible relaxation are
// expressed; rows outside the list keep their values.
//
// # Concurrency
//
// GaussSeidel, SOR and SymmetricGS hold no state and may smooth distinct
// systems concurrently. Jacobi, ILU and Schwarz own scratch buffers, so
// one value serves one goroutine at a time.
package smoother
