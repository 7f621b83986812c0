// Package interp builds the prolongation operator P that carries coarse
// corrections back to the fine grid. Restriction is its transpose, so P
// alone fixes the quality of the whole level transfer.
//
// Three schemes are provided, all working from a Coarse/Fine splitting and
// the strength graph that produced it:
//
//   - Direct: each Fine row interpolates from its strong Coarse neighbors
//     only. Off-diagonal mass outside the pattern is folded in through the
//     classical sign-split scaling factors, so row sums are preserved.
//     Method: one pass per row. Time: O(nnz). Memory: O(nnz(P)).
//   - Standard: Fine rows first eliminate their strong Fine couplings
//     through the neighbor's own row, then interpolate from the enlarged
//     distance-two pattern. The scheme of choice after aggressive
//     coarsening, where a Fine point may have no Coarse neighbor at
//     distance one. Time: O(nnz · avg row) on Fine rows. Memory: O(n).
//   - EnergyMin: starts from the direct pattern and recomputes all weights
//     at once by minimizing the energy of the coarse basis, one dense
//     local solve per coarse column plus one global diagonally
//     preconditioned CG solve. Expensive and entirely optional.
//
// Direct and Standard truncate their result: entries below a fraction of
// the row's signed extremes are dropped and the survivors are rescaled so
// the negative and positive row sums survive the cut. Truncate is exported
// for callers that assemble P by other means.
//
// # Determinism
//
// Every scheme visits rows in ascending order and writes each row's slots
// independently, so results are identical under any execution policy.
package interp
