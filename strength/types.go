// Package strength classifies the couplings of a sparse operator into
// strong and weak edges, producing the strength graph S that drives
// coarse/fine splitting and aggregation.
//
// The rule follows the classical Ruge–Stüben convention for M-matrices:
// an off-diagonal coupling a_ij is strong when it is sufficiently negative
// relative to the most negative entry of its row,
//
//	a_ij < Threshold · min_k a_ik   (minimum over the whole row).
//
// Rows whose lumped sum dominates the diagonal are treated as entirely
// weak when MaxRowSum < 1; such rows keep an empty adjacency list.
// Whether an empty row becomes an isolated point is decided by the
// splitter, not here.
//
// Build is row-independent and executes under a parallel.Policy.
package strength

import (
	"errors"

	"github.com/katalvlaran/amg/sparse"
)

// Sentinel errors returned by Build.
var (
	// ErrNilMatrix reports a nil operator.
	ErrNilMatrix = errors.New("strength: nil matrix")

	// ErrNotSquare reports a rectangular operator.
	ErrNotSquare = errors.New("strength: matrix is not square")

	// ErrBadThreshold reports a strength threshold outside (0, 1).
	ErrBadThreshold = errors.New("strength: threshold outside (0, 1)")

	// ErrNoStrongEdges reports that classification removed every coupling.
	// Callers treat this as a signal to stop coarsening, not as a fault.
	ErrNoStrongEdges = errors.New("strength: no strong couplings")
)

// Options tune the classification rule.
type Options struct {
	// Threshold scales the row minimum; couplings below Threshold times
	// the most negative row entry count as strong. Must lie in (0, 1).
	Threshold float64

	// MaxRowSum bounds |Σ_j a_ij| / |a_ii|. Rows above the bound are
	// classified entirely weak. Values >= 1 disable the check.
	MaxRowSum float64
}

// DefaultOptions returns the standard classification parameters.
func DefaultOptions() Options {
	return Options{
		Threshold: 0.25,
		MaxRowSum: 0.9,
	}
}

// Graph is the strength-of-connection graph of an operator: vertex i is a
// row, and S.Row(i) lists the columns i strongly depends on. Weak edges
// are physically absent.
type Graph struct {
	// N is the vertex count (rows of the source operator).
	N int

	// S holds the strong adjacency lists in compacted form.
	S *sparse.Pattern
}

// Order returns the vertex count.
func (g *Graph) Order() int { return g.N }

// Neighbors returns the strong dependencies of vertex i as a view.
func (g *Graph) Neighbors(i int) []int { return g.S.Row(i) }

// EdgeCount returns the number of strong couplings.
func (g *Graph) EdgeCount() int { return g.S.NNZ() }

// Transpose returns the influence graph: edge (i,j) of the result means
// vertex j strongly depends on i.
func (g *Graph) Transpose() *Graph {
	return &Graph{N: g.N, S: g.S.Transpose()}
}
