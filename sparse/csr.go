package sparse

import (
	"fmt"
	"sort"
)

// NewCSR validates the three backing slices against the declared shape and
// wraps them (no copy). The caller relinquishes ownership of the slices.
//
// Complexity: O(rows + nnz) for validation.
func NewCSR(rows, cols int, rowPtr, colInd []int, val []float64) (*CSR, error) {
	if err := checkShape(rows, cols, rowPtr, colInd, len(val)); err != nil {
		return nil, err
	}

	return &CSR{Rows: rows, Cols: cols, RowPtr: rowPtr, ColInd: colInd, Val: val}, nil
}

// NewPattern is the structural analog of NewCSR.
func NewPattern(rows, cols int, rowPtr, colInd []int) (*Pattern, error) {
	if err := checkShape(rows, cols, rowPtr, colInd, len(colInd)); err != nil {
		return nil, err
	}

	return &Pattern{Rows: rows, Cols: cols, RowPtr: rowPtr, ColInd: colInd}, nil
}

// checkShape enforces the package shape invariants.
func checkShape(rows, cols int, rowPtr, colInd []int, nval int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if len(rowPtr) != rows+1 {
		return fmt.Errorf("%w: len(RowPtr)=%d, want %d", ErrBadShape, len(rowPtr), rows+1)
	}
	if rowPtr[0] != 0 {
		return fmt.Errorf("%w: RowPtr[0]=%d, want 0", ErrBadShape, rowPtr[0])
	}
	for i := 0; i < rows; i++ {
		if rowPtr[i+1] < rowPtr[i] {
			return fmt.Errorf("%w: RowPtr decreases at row %d", ErrBadShape, i)
		}
	}
	nnz := rowPtr[rows]
	if len(colInd) != nnz || nval != nnz {
		return fmt.Errorf("%w: nnz=%d, len(ColInd)=%d, len(Val)=%d",
			ErrBadShape, nnz, len(colInd), nval)
	}
	for k, j := range colInd {
		if j < 0 || j >= cols {
			return fmt.Errorf("%w: ColInd[%d]=%d, cols=%d", ErrBadIndex, k, j, cols)
		}
	}

	return nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *CSR {
	rowPtr := make([]int, n+1)
	colInd := make([]int, n)
	val := make([]float64, n)
	for i := 0; i < n; i++ {
		rowPtr[i+1] = i + 1
		colInd[i] = i
		val[i] = 1.0
	}

	return &CSR{Rows: n, Cols: n, RowPtr: rowPtr, ColInd: colInd, Val: val}
}

// Zeros returns the rows×cols matrix with no stored entries.
func Zeros(rows, cols int) *CSR {
	return &CSR{Rows: rows, Cols: cols, RowPtr: make([]int, rows+1)}
}

// FromEntries assembles a CSR from unordered coordinate triplets. Duplicate
// (row,col) entries are summed; rows come out with ascending column order.
//
// Complexity: O(nnz log nnz) for the sort.
func FromEntries(rows, cols int, entries []Entry) (*CSR, error) {
	for _, e := range entries {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("%w: entry (%d,%d) outside %dx%d",
				ErrBadIndex, e.Row, e.Col, rows, cols)
		}
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Row != sorted[b].Row {
			return sorted[a].Row < sorted[b].Row
		}

		return sorted[a].Col < sorted[b].Col
	})

	rowPtr := make([]int, rows+1)
	colInd := make([]int, 0, len(sorted))
	val := make([]float64, 0, len(sorted))
	for k := 0; k < len(sorted); {
		r, c := sorted[k].Row, sorted[k].Col
		sum := 0.0
		for ; k < len(sorted) && sorted[k].Row == r && sorted[k].Col == c; k++ {
			sum += sorted[k].Val
		}
		colInd = append(colInd, c)
		val = append(val, sum)
		rowPtr[r+1]++
	}
	for i := 0; i < rows; i++ {
		rowPtr[i+1] += rowPtr[i]
	}

	return &CSR{Rows: rows, Cols: cols, RowPtr: rowPtr, ColInd: colInd, Val: val}, nil
}

// NNZ returns the number of stored entries.
func (a *CSR) NNZ() int { return a.RowPtr[a.Rows] }

// Dims returns (rows, cols).
func (a *CSR) Dims() (int, int) { return a.Rows, a.Cols }

// RowNNZ returns the number of stored entries in row i.
func (a *CSR) RowNNZ(i int) int { return a.RowPtr[i+1] - a.RowPtr[i] }

// Row returns the column-index and value slices of row i as views into the
// backing arrays. Mutating them mutates the matrix.
func (a *CSR) Row(i int) ([]int, []float64) {
	lo, hi := a.RowPtr[i], a.RowPtr[i+1]

	return a.ColInd[lo:hi], a.Val[lo:hi]
}

// Clone returns a deep copy.
func (a *CSR) Clone() *CSR {
	b := &CSR{
		Rows:   a.Rows,
		Cols:   a.Cols,
		RowPtr: make([]int, len(a.RowPtr)),
		ColInd: make([]int, len(a.ColInd)),
		Val:    make([]float64, len(a.Val)),
	}
	copy(b.RowPtr, a.RowPtr)
	copy(b.ColInd, a.ColInd)
	copy(b.Val, a.Val)

	return b
}

// At returns the stored value at (i,j), or 0 if (i,j) is not stored.
// Linear scan of row i; intended for tests and small probes, not kernels.
func (a *CSR) At(i, j int) float64 {
	for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
		if a.ColInd[k] == j {
			return a.Val[k]
		}
	}

	return 0
}

// NNZ returns the number of stored edges.
func (p *Pattern) NNZ() int { return p.RowPtr[p.Rows] }

// Row returns the column indices of row i as a view.
func (p *Pattern) Row(i int) []int {
	return p.ColInd[p.RowPtr[i]:p.RowPtr[i+1]]
}

// Clone returns a deep copy.
func (p *Pattern) Clone() *Pattern {
	q := &Pattern{
		Rows:   p.Rows,
		Cols:   p.Cols,
		RowPtr: make([]int, len(p.RowPtr)),
		ColInd: make([]int, len(p.ColInd)),
	}
	copy(q.RowPtr, p.RowPtr)
	copy(q.ColInd, p.ColInd)

	return q
}
