// Package sparse defines the compressed sparse row (CSR) matrix type and the
// structural operations the multigrid setup and cycling phases are built on.
//
// Two representations are provided:
//
//   - CSR     – numeric matrix: row offsets, column indices, float64 values.
//   - Pattern – purely structural variant (no values), used for strength
//     graphs and interpolation sparsity where only adjacency matters.
//
// Shape invariants, enforced by every constructor and preserved by every
// operation:
//
//	– RowPtr has length Rows+1, RowPtr[0] == 0, RowPtr[Rows] == NNZ
//	– RowPtr is non-decreasing
//	– every ColInd entry lies in [0, Cols)
//
// Column order inside a row is NOT a standing invariant: SortRows is an
// explicit operation, and any method that requires or guarantees sorted rows
// says so in its contract.
//
// Errors (sentinel):
//
//	– ErrNilMatrix      if a nil *CSR or *Pattern is passed where one is required.
//	– ErrBadShape       if constructor slices disagree with the declared shape.
//	– ErrBadIndex       if a column index falls outside [0, Cols).
//	– ErrDimMismatch    if operand dimensions do not conform.
//	– ErrVectorLength   if a vector argument has the wrong length.
//	– ErrNoDiagonal     if a row lacks the diagonal entry an operation requires.
//	– ErrBadPermutation if a permutation slice is not a bijection on [0, n).
//
// Example usage:
//
//	a, err := sparse.NewCSR(2, 2,
//	    []int{0, 2, 3},
//	    []int{0, 1, 1},
//	    []float64{2, -1, 2},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y := make([]float64, 2)
//	_ = a.MulVec(parallel.Serial(), []float64{1, 1}, y)
package sparse

import "errors"

// Sentinel errors shared by all sparse operations.
var (
	// ErrNilMatrix indicates that a nil matrix pointer was supplied.
	ErrNilMatrix = errors.New("sparse: matrix is nil")

	// ErrBadShape indicates that constructor slices disagree with the declared
	// row/column/nonzero counts, or that RowPtr violates its invariants.
	ErrBadShape = errors.New("sparse: inconsistent shape")

	// ErrBadIndex indicates a column index outside [0, Cols).
	ErrBadIndex = errors.New("sparse: column index out of range")

	// ErrDimMismatch indicates non-conformable operands (e.g. A·B with
	// A.Cols != B.Rows).
	ErrDimMismatch = errors.New("sparse: dimension mismatch")

	// ErrVectorLength indicates a vector argument whose length does not match
	// the matrix dimension it must conform to.
	ErrVectorLength = errors.New("sparse: vector length mismatch")

	// ErrNoDiagonal indicates a row without an explicitly stored diagonal
	// entry in an operation that requires one (e.g. DiagFirst).
	ErrNoDiagonal = errors.New("sparse: missing diagonal entry")

	// ErrBadPermutation indicates a permutation slice that is not a bijection
	// on [0, n).
	ErrBadPermutation = errors.New("sparse: invalid permutation")
)

// CSR is a row-compressed sparse matrix.
//
// The three backing slices are exported deliberately: multigrid kernels
// (strength classification, splitting, interpolation assembly) iterate rows
// directly and tolerate no accessor overhead. Callers that mutate the slices
// own the shape invariants from the package comment.
type CSR struct {
	Rows, Cols int
	RowPtr     []int     // len Rows+1; RowPtr[i]..RowPtr[i+1] bounds row i
	ColInd     []int     // len NNZ
	Val        []float64 // len NNZ, parallel to ColInd
}

// Pattern is the structural (value-free) counterpart of CSR. It represents
// adjacency only: strength graphs, interpolation sparsity, second-order
// coarse graphs.
type Pattern struct {
	Rows, Cols int
	RowPtr     []int
	ColInd     []int
}

// Entry is one coordinate-format nonzero, used by FromEntries to assemble a
// CSR from unordered triplets (duplicates are summed).
type Entry struct {
	Row, Col int
	Val      float64
}
