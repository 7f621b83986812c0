package sparse

import (
	"fmt"
	"math"
)

// Transpose returns Aᵗ using the two-pass counting scheme: count entries per
// column, prefix-sum into row offsets, then scatter. Output rows come out in
// ascending column order as a side effect of the row-major scatter.
//
// Complexity: O(rows + nnz) time, O(nnz) extra space.
func (a *CSR) Transpose() *CSR {
	nnz := a.NNZ()
	t := &CSR{
		Rows:   a.Cols,
		Cols:   a.Rows,
		RowPtr: make([]int, a.Cols+1),
		ColInd: make([]int, nnz),
		Val:    make([]float64, nnz),
	}

	// 1) Count entries per column of A (= per row of Aᵗ).
	for _, j := range a.ColInd {
		t.RowPtr[j+1]++
	}
	// 2) Prefix sum turns counts into row offsets.
	for j := 0; j < a.Cols; j++ {
		t.RowPtr[j+1] += t.RowPtr[j]
	}
	// 3) Scatter, using a moving cursor per output row.
	next := make([]int, a.Cols)
	copy(next, t.RowPtr[:a.Cols])
	for i := 0; i < a.Rows; i++ {
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.ColInd[k]
			pos := next[j]
			t.ColInd[pos] = i
			t.Val[pos] = a.Val[k]
			next[j]++
		}
	}

	return t
}

// Transpose returns the structural transpose of p (same counting scheme).
func (p *Pattern) Transpose() *Pattern {
	t := &Pattern{
		Rows:   p.Cols,
		Cols:   p.Rows,
		RowPtr: make([]int, p.Cols+1),
		ColInd: make([]int, p.NNZ()),
	}
	for _, j := range p.ColInd {
		t.RowPtr[j+1]++
	}
	for j := 0; j < p.Cols; j++ {
		t.RowPtr[j+1] += t.RowPtr[j]
	}
	next := make([]int, p.Cols)
	copy(next, t.RowPtr[:p.Cols])
	for i := 0; i < p.Rows; i++ {
		for k := p.RowPtr[i]; k < p.RowPtr[i+1]; k++ {
			j := p.ColInd[k]
			t.ColInd[next[j]] = i
			next[j]++
		}
	}

	return t
}

// SortRows reorders each row in place to ascending column order.
// Insertion sort per row: multigrid rows are short (tens of entries),
// and rows touched by earlier ops are usually nearly sorted already.
func (a *CSR) SortRows() {
	for i := 0; i < a.Rows; i++ {
		lo, hi := a.RowPtr[i], a.RowPtr[i+1]
		for k := lo + 1; k < hi; k++ {
			cj, cv := a.ColInd[k], a.Val[k]
			m := k - 1
			for m >= lo && a.ColInd[m] > cj {
				a.ColInd[m+1] = a.ColInd[m]
				a.Val[m+1] = a.Val[m]
				m--
			}
			a.ColInd[m+1] = cj
			a.Val[m+1] = cv
		}
	}
}

// Diag extracts the diagonal into a fresh slice; rows without a stored
// diagonal entry yield 0.
//
// Complexity: O(nnz).
func (a *CSR) Diag() []float64 {
	d := make([]float64, min(a.Rows, a.Cols))
	for i := range d {
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			if a.ColInd[k] == i {
				d[i] = a.Val[k]

				break
			}
		}
	}

	return d
}

// Compress drops entries with |value| ≤ tol in place and returns the number
// of entries removed. Row order within surviving entries is preserved.
func (a *CSR) Compress(tol float64) int {
	k := 0
	end := a.RowPtr[0]
	for i := 0; i < a.Rows; i++ {
		begin := end
		end = a.RowPtr[i+1]
		for m := begin; m < end; m++ {
			if math.Abs(a.Val[m]) > tol {
				a.ColInd[k] = a.ColInd[m]
				a.Val[k] = a.Val[m]
				k++
			}
		}
		a.RowPtr[i+1] = k
	}
	dropped := len(a.ColInd) - k
	a.ColInd = a.ColInd[:k]
	a.Val = a.Val[:k]

	return dropped
}

// DiagFirst reorders each row in place so the diagonal entry is stored
// first. Pairwise aggregation requires this layout. Returns ErrNoDiagonal
// naming the first row without a stored diagonal.
func (a *CSR) DiagFirst() error {
	if a.Rows != a.Cols {
		return fmt.Errorf("%w: DiagFirst on %dx%d", ErrDimMismatch, a.Rows, a.Cols)
	}
	for i := 0; i < a.Rows; i++ {
		lo, hi := a.RowPtr[i], a.RowPtr[i+1]
		found := false
		for k := lo; k < hi; k++ {
			if a.ColInd[k] == i {
				a.ColInd[lo], a.ColInd[k] = a.ColInd[k], a.ColInd[lo]
				a.Val[lo], a.Val[k] = a.Val[k], a.Val[lo]
				found = true

				break
			}
		}
		if !found {
			return fmt.Errorf("%w: row %d", ErrNoDiagonal, i)
		}
	}

	return nil
}

// Permute returns A(p,p): row i of the result is row p[i] of A with every
// column index j replaced by inv(p)[j]. p must be a bijection on [0, Rows).
//
// Complexity: O(rows + nnz).
func (a *CSR) Permute(p []int) (*CSR, error) {
	if a.Rows != a.Cols {
		return nil, fmt.Errorf("%w: Permute on %dx%d", ErrDimMismatch, a.Rows, a.Cols)
	}
	if len(p) != a.Rows {
		return nil, fmt.Errorf("%w: len(p)=%d, want %d", ErrBadPermutation, len(p), a.Rows)
	}
	inv := make([]int, a.Rows)
	for i := range inv {
		inv[i] = -1
	}
	for i, pi := range p {
		if pi < 0 || pi >= a.Rows || inv[pi] != -1 {
			return nil, fmt.Errorf("%w: p[%d]=%d", ErrBadPermutation, i, pi)
		}
		inv[pi] = i
	}

	out := &CSR{
		Rows:   a.Rows,
		Cols:   a.Cols,
		RowPtr: make([]int, a.Rows+1),
		ColInd: make([]int, a.NNZ()),
		Val:    make([]float64, a.NNZ()),
	}
	k := 0
	for i := 0; i < a.Rows; i++ {
		src := p[i]
		for m := a.RowPtr[src]; m < a.RowPtr[src+1]; m++ {
			out.ColInd[k] = inv[a.ColInd[m]]
			out.Val[k] = a.Val[m]
			k++
		}
		out.RowPtr[i+1] = k
	}

	return out, nil
}

// SymPart returns (A + Aᵗ)/2. Used to hand Schwarz setup a structurally
// symmetric operator. Requires a square input.
func (a *CSR) SymPart() (*CSR, error) {
	if a.Rows != a.Cols {
		return nil, fmt.Errorf("%w: SymPart on %dx%d", ErrDimMismatch, a.Rows, a.Cols)
	}
	t := a.Transpose()
	half := func(v float64) float64 { return 0.5 * v }

	// Merge rows of A and Aᵗ; both unsorted rows are handled via scatter.
	marker := make([]int, a.Cols)
	for j := range marker {
		marker[j] = -1
	}
	acc := make([]float64, a.Cols)

	rowPtr := make([]int, a.Rows+1)
	colInd := make([]int, 0, a.NNZ())
	val := make([]float64, 0, a.NNZ())
	for i := 0; i < a.Rows; i++ {
		start := len(colInd)
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.ColInd[k]
			if marker[j] < start {
				marker[j] = len(colInd)
				colInd = append(colInd, j)
				acc[j] = 0
			}
			acc[j] += half(a.Val[k])
		}
		for k := t.RowPtr[i]; k < t.RowPtr[i+1]; k++ {
			j := t.ColInd[k]
			if marker[j] < start {
				marker[j] = len(colInd)
				colInd = append(colInd, j)
				acc[j] = 0
			}
			acc[j] += half(t.Val[k])
		}
		for _, j := range colInd[start:] {
			val = append(val, acc[j])
		}
		rowPtr[i+1] = len(colInd)
	}

	out := &CSR{Rows: a.Rows, Cols: a.Cols, RowPtr: rowPtr, ColInd: colInd, Val: val}
	out.SortRows()

	return out, nil
}

// InfNorm returns the maximum absolute row sum.
func (a *CSR) InfNorm() float64 {
	norm := 0.0
	for i := 0; i < a.Rows; i++ {
		sum := 0.0
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			sum += math.Abs(a.Val[k])
		}
		if sum > norm {
			norm = sum
		}
	}

	return norm
}

// MaxAbsDiff returns max_{i,j} |a_ij − b_ij| over the union of both
// patterns. Dimensions must agree. Primarily a test aid (symmetry checks).
func (a *CSR) MaxAbsDiff(b *CSR) (float64, error) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrDimMismatch, a.Rows, a.Cols, b.Rows, b.Cols)
	}
	acc := make([]float64, a.Cols)
	touched := make([]int, 0, 64)
	marker := make([]bool, a.Cols)

	diff := 0.0
	for i := 0; i < a.Rows; i++ {
		touched = touched[:0]
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.ColInd[k]
			if !marker[j] {
				marker[j] = true
				touched = append(touched, j)
				acc[j] = 0
			}
			acc[j] += a.Val[k]
		}
		for k := b.RowPtr[i]; k < b.RowPtr[i+1]; k++ {
			j := b.ColInd[k]
			if !marker[j] {
				marker[j] = true
				touched = append(touched, j)
				acc[j] = 0
			}
			acc[j] -= b.Val[k]
		}
		for _, j := range touched {
			if d := math.Abs(acc[j]); d > diff {
				diff = d
			}
			marker[j] = false
		}
	}

	return diff, nil
}

// Equal reports whether a and b describe the same matrix: equal
// dimensions and equal entries. Pattern layout is irrelevant, so an
// explicit stored zero compares equal to an absent entry.
func (a *CSR) Equal(b *CSR) bool {
	d, err := a.MaxAbsDiff(b)

	return err == nil && d == 0
}
