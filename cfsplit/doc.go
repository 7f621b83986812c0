// Package cfsplit partitions the vertices of a strength graph into Coarse
// and Fine sets, the splitting that every classical multigrid level is
// built on. Two strategies are provided:
//
//   - Classical — the Ruge–Stüben greedy maximum-measure algorithm.
//
//   - Method: each vertex carries a measure lambda equal to the number of
//     vertices that strongly depend on it; a bucket queue repeatedly yields
//     the most-depended-on vertex, marks it Coarse, and pushes its
//     dependents to Fine while re-weighting the frontier.
//
//   - Time:   O(V + E) amortized; every queue operation is O(1).
//
//   - Memory: O(V + maxLambda) for the bucket arena.
//
//   - Aggressive — distance-two coarsening on top of Classical.
//
//   - Method: run Classical, connect the surviving Coarse points through
//     one (Path=1) or two independent (Path=2) Fine intermediaries, and
//     re-run the greedy elimination on that second-order graph. Coarse
//     points eliminated by the second round fall back to Fine.
//
//   - Produces far smaller coarse spaces; pairs with wide interpolation
//     stencils that can reach across two strong hops.
//
// # Determinism
//
// The splitting is reproducible by construction. Vertices enter the queue
// in ascending index order, each bucket serves first-in first-out, and the
// repair passes walk vertices in ascending order. Equal measures therefore
// always resolve toward the lowest index, and two runs over the same graph
// yield identical labels.
//
// # Result
//
// Both strategies return a Splitting: a per-vertex Label slice (Coarse,
// Fine, Isolated), the Coarse count, and an optional aggregate map filled
// by aggregation-based coarseners from package aggregate. Vertices whose
// operator row holds at most one entry are labeled Isolated and excluded
// from interpolation entirely.
//
// Use CoarseIndex to obtain the dense renumbering of Coarse vertices that
// interpolation builders consume.
package cfsplit
