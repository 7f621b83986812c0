package sparse

import "fmt"

// Mul computes the sparse product C = A·B with the classical two-pass
// scatter scheme: a symbolic pass sizes each output row, a numeric pass
// accumulates values through a dense workspace of B.Cols scratch slots.
// Output rows are sorted ascending, so repeated products are deterministic.
//
// Complexity: O(Σ_i Σ_{k∈row i(A)} nnz(row k(B))) time, O(B.Cols) workspace.
func (a *CSR) Mul(b *CSR) (*CSR, error) {
	if a.Cols != b.Rows {
		return nil, fmt.Errorf("%w: %dx%d · %dx%d",
			ErrDimMismatch, a.Rows, a.Cols, b.Rows, b.Cols)
	}

	// 1) Symbolic pass: count distinct columns per output row.
	marker := make([]int, b.Cols)
	for j := range marker {
		marker[j] = -1
	}
	rowPtr := make([]int, a.Rows+1)
	for i := 0; i < a.Rows; i++ {
		count := 0
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			row := a.ColInd[k]
			for m := b.RowPtr[row]; m < b.RowPtr[row+1]; m++ {
				j := b.ColInd[m]
				if marker[j] != i {
					marker[j] = i
					count++
				}
			}
		}
		rowPtr[i+1] = rowPtr[i] + count
	}

	// 2) Numeric pass: scatter-accumulate into the workspace, gather out.
	nnz := rowPtr[a.Rows]
	colInd := make([]int, nnz)
	val := make([]float64, nnz)
	acc := make([]float64, b.Cols)
	for j := range marker {
		marker[j] = -1
	}
	pos := 0
	for i := 0; i < a.Rows; i++ {
		start := pos
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			row := a.ColInd[k]
			av := a.Val[k]
			for m := b.RowPtr[row]; m < b.RowPtr[row+1]; m++ {
				j := b.ColInd[m]
				if marker[j] < start {
					marker[j] = pos
					colInd[pos] = j
					acc[j] = 0
					pos++
				}
				acc[j] += av * b.Val[m]
			}
		}
		for m := start; m < pos; m++ {
			val[m] = acc[colInd[m]]
		}
	}

	c := &CSR{Rows: a.Rows, Cols: b.Cols, RowPtr: rowPtr, ColInd: colInd, Val: val}
	c.SortRows()

	return c, nil
}
