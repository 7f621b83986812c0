package cfsplit

import "errors"

// Sentinel errors shared by the splitting strategies.
var (
	// ErrNilMatrix reports a nil operator.
	ErrNilMatrix = errors.New("cfsplit: nil matrix")

	// ErrNilGraph reports a nil strength graph.
	ErrNilGraph = errors.New("cfsplit: nil strength graph")

	// ErrOrderMismatch reports a strength graph whose order differs from
	// the operator dimension.
	ErrOrderMismatch = errors.New("cfsplit: graph order does not match matrix")

	// ErrNoProgress reports that no Coarse vertex could be selected. The
	// hierarchy treats it as the signal to stop coarsening.
	ErrNoProgress = errors.New("cfsplit: no coarse vertices selected")

	// ErrBadPath reports an aggressive path parameter other than 1 or 2.
	ErrBadPath = errors.New("cfsplit: aggressive path must be 1 or 2")
)

// Label classifies one vertex of a level.
type Label int8

const (
	// Undecided marks a vertex not yet assigned. It never survives into a
	// returned Splitting.
	Undecided Label = iota

	// Fine vertices are interpolated from their Coarse neighbors.
	Fine

	// Coarse vertices survive to the next level.
	Coarse

	// Isolated vertices have at most one operator entry and take part in
	// neither interpolation nor the coarse space.
	Isolated
)

// String returns a short lower-case name for logs.
func (l Label) String() string {
	switch l {
	case Fine:
		return "fine"
	case Coarse:
		return "coarse"
	case Isolated:
		return "isolated"
	default:
		return "undecided"
	}
}

// Splitting is the result of a coarsening pass.
type Splitting struct {
	// Labels holds one Label per vertex.
	Labels []Label

	// NumCoarse is the number of Coarse labels, i.e. the dimension of the
	// next level.
	NumCoarse int

	// Aggregate maps each vertex to its aggregate number, or -1 for
	// vertices outside every aggregate. Only aggregation-based coarseners
	// fill it; splitting-based ones leave it nil.
	Aggregate []int
}

// CoarseIndex returns the dense renumbering of the Coarse vertices:
// out[i] is the coarse-space index of vertex i, or -1 when i is not Coarse.
// Numbering follows ascending vertex order.
func (s Splitting) CoarseIndex() []int {
	out := make([]int, len(s.Labels))
	next := 0
	for i, l := range s.Labels {
		if l == Coarse {
			out[i] = next
			next++
		} else {
			out[i] = -1
		}
	}

	return out
}
