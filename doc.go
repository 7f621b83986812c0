// Package amg is an algebraic multigrid (AMG) toolkit for large sparse
// linear systems — from CSR primitives to full hierarchy construction and
// recursive multilevel cycling, usable standalone or as a preconditioner.
//
// 🚀 What is amg?
//
//	A library that assembles a multilevel solver purely from matrix entries:
//		• Sparse primitives: CSR matrices, transpose, triple products
//		• Strength analysis: strong-coupling graphs with row-sum capping
//		• C/F splitting: Ruge–Stüben greedy, aggressive 2nd-order variants
//		• Aggregation: pairwise matching and VMB neighborhood growing
//		• Interpolation: direct, standard (two-hop) and energy-minimizing
//		• Galerkin assembly: coarse operators via R·A·P
//		• Cycling: V, W and AMLI schedules over an index-addressed hierarchy
//		• Smoothers: Gauss–Seidel, SOR, Jacobi, ILU(0), overlapping Schwarz
//
// ✨ Why choose amg?
//
//   - Deterministic – tie-breaks and visitation orders are part of the contract
//   - Explicit control – execution policy, smoother and solver are injected,
//     never read from globals
//   - Honest failure model – degenerate coarsening truncates the hierarchy
//     instead of aborting; only genuine setup errors surface as errors
//   - Plain data – levels are value objects addressed by index, no pointer
//     webs between neighboring levels
//
// Everything is organized under per-concern subpackages:
//
//	sparse/    — CSR matrix type, structural patterns, SpMV and products
//	parallel/  — execution policy + fork-join data-parallel loops
//	strength/  — strong-coupling graph builder
//	cfsplit/   — classical and aggressive C/F splitters (bucket queue)
//	aggregate/ — pairwise & VMB aggregation, tentative prolongation
//	interp/    — direct / standard / energy-min interpolation + truncation
//	galerkin/  — sparse triple product R·A·P
//	smoother/  — relaxation methods and sweep orderings
//	coarse/    — coarsest-level solvers (dense LU, preconditioned CG)
//	hierarchy/ — level bookkeeping and the Build setup loop
//	cycle/     — recursive V/W/AMLI cycle engine and Solve driver
//	poisson/   — 1D/2D model problems for tests and examples
//
// Quick sketch of a two-level correction:
//
//	x ← smooth(A,b,x);  r ← b−Ax;  e ← P·solve(RAP, R·r);  x ← x+e;  x ← smooth(A,b,x)
//
// Dive into README.md for the full tutorial: building a hierarchy on a
// Poisson problem, choosing coarseners, and wiring amg as a preconditioner.
//
//	go get github.com/katalvlaran/amg
package amg
