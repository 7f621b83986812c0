package smoother

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// ILU holds a zero fill-in incomplete factorization bound to one
// operator. The factor shares the operator's sparsity, L carries a unit
// diagonal, and each smoothing sweep applies the correction
//
//	x ← x + U⁻¹·L⁻¹·(b − A·x)
//
// Obtain one through SetupILU; the zero value rejects every matrix.
type ILU struct {
	n      int
	rowPtr []int
	colInd []int
	val    []float64
	diag   []int // position of the pivot within each row

	work []float64
}

// SetupILU computes the ILU(0) factorization of a. A structurally
// missing diagonal or a pivot eliminated to zero surfaces as
// ErrZeroPivot; hierarchies treat that as a cue to fall back to a plain
// smoother rather than as a fatal condition.
func SetupILU(a *sparse.CSR) (*ILU, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.Rows != a.Cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	}

	f := a.Clone()
	f.SortRows()
	n := f.Rows
	diag := make([]int, n)

	// pos[j] is the slot of column j within the current row, -1 outside.
	pos := make([]int, n)
	for j := range pos {
		pos[j] = -1
	}

	for i := 0; i < n; i++ {
		lo, hi := f.RowPtr[i], f.RowPtr[i+1]
		diag[i] = -1
		for k := lo; k < hi; k++ {
			pos[f.ColInd[k]] = k
			if f.ColInd[k] == i {
				diag[i] = k
			}
		}
		if diag[i] < 0 {
			return nil, fmt.Errorf("%w: row %d has no diagonal entry", ErrZeroPivot, i)
		}

		// 1) Eliminate the strictly lower part against the rows above.
		//    Sorted columns make that part a prefix of the row.
		for k := lo; k < hi && f.ColInd[k] < i; k++ {
			r := f.ColInd[k]
			piv := f.Val[diag[r]]
			if piv == 0 {
				return nil, fmt.Errorf("%w: row %d", ErrZeroPivot, r)
			}
			mult := f.Val[k] / piv
			f.Val[k] = mult

			// 2) Subtract the scaled upper part of row r, keeping only
			//    slots the current row already owns.
			for kk := diag[r] + 1; kk < f.RowPtr[r+1]; kk++ {
				if p := pos[f.ColInd[kk]]; p >= 0 {
					f.Val[p] -= mult * f.Val[kk]
				}
			}
		}
		if f.Val[diag[i]] == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroPivot, i)
		}

		// 3) Clear the scatter markers for the next row.
		for k := lo; k < hi; k++ {
			pos[f.ColInd[k]] = -1
		}
	}

	return &ILU{n: n, rowPtr: f.RowPtr, colInd: f.ColInd, val: f.Val, diag: diag}, nil
}

// Smooth applies sweeps residual corrections through the stored factor.
// Direction is ignored: the forward and backward triangular solves run
// in every sweep.
func (f *ILU) Smooth(a *sparse.CSR, b, x []float64, sweeps int, _ Direction) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if a.Rows != f.n {
		return fmt.Errorf("%w: matrix order %d, factorization order %d", ErrSetupMismatch, a.Rows, f.n)
	}

	f.work = growWork(f.work, f.n)
	r := f.work
	for s := 0; s < sweeps; s++ {
		if err := a.Residual(parallel.Policy{}, b, x, r); err != nil {
			return err
		}
		f.solve(r)
		floats.Add(x, r)
	}

	return nil
}

// solve overwrites r with U⁻¹·L⁻¹·r.
func (f *ILU) solve(r []float64) {
	// Forward substitution; L holds a unit diagonal.
	for i := 0; i < f.n; i++ {
		s := r[i]
		for k := f.rowPtr[i]; k < f.diag[i]; k++ {
			s -= f.val[k] * r[f.colInd[k]]
		}
		r[i] = s
	}
	// Backward substitution against the stored pivots.
	for i := f.n - 1; i >= 0; i-- {
		s := r[i]
		for k := f.diag[i] + 1; k < f.rowPtr[i+1]; k++ {
			s -= f.val[k] * r[f.colInd[k]]
		}
		r[i] = s / f.val[f.diag[i]]
	}
}
