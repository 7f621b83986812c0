package smoother

import (
	"fmt"

	"github.com/katalvlaran/amg/sparse"
)

// GaussSeidel relaxes each row against the latest iterate. The classical
// workhorse smoother: cheap, stateless and strongly smoothing on
// M-matrices.
type GaussSeidel struct{}

// NewGaussSeidel returns the plain Gauss–Seidel smoother.
func NewGaussSeidel() GaussSeidel { return GaussSeidel{} }

// Smooth runs sweeps passes over all rows in the given direction.
func (GaussSeidel) Smooth(a *sparse.CSR, b, x []float64, sweeps int, dir Direction) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}

	return relaxSweeps(a, b, x, sweeps, dir, nil, 1)
}

func (GaussSeidel) smoothOrder(a *sparse.CSR, b, x []float64, sweeps int, dir Direction, order []int) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if err := checkOrder(order, a.Rows); err != nil {
		return err
	}

	return relaxSweeps(a, b, x, sweeps, dir, order, 1)
}

// SymmetricGS runs one forward and one backward pass per sweep. The
// resulting error propagation operator is symmetric in the A inner
// product, which AMLI cycles and CG preconditioning rely on. Direction
// is ignored.
type SymmetricGS struct{}

// NewSymmetricGS returns the symmetric Gauss–Seidel smoother.
func NewSymmetricGS() SymmetricGS { return SymmetricGS{} }

// Smooth runs sweeps forward-backward passes.
func (SymmetricGS) Smooth(a *sparse.CSR, b, x []float64, sweeps int, _ Direction) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}

	for s := 0; s < sweeps; s++ {
		if err := relaxPass(a, b, x, Forward, nil, 1); err != nil {
			return err
		}
		if err := relaxPass(a, b, x, Backward, nil, 1); err != nil {
			return err
		}
	}

	return nil
}

func (SymmetricGS) smoothOrder(a *sparse.CSR, b, x []float64, sweeps int, _ Direction, order []int) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if err := checkOrder(order, a.Rows); err != nil {
		return err
	}

	for s := 0; s < sweeps; s++ {
		if err := relaxPass(a, b, x, Forward, order, 1); err != nil {
			return err
		}
		if err := relaxPass(a, b, x, Backward, order, 1); err != nil {
			return err
		}
	}

	return nil
}

// relaxSweeps runs sweeps weighted Gauss–Seidel passes.
func relaxSweeps(a *sparse.CSR, b, x []float64, sweeps int, dir Direction, order []int, omega float64) error {
	for s := 0; s < sweeps; s++ {
		if err := relaxPass(a, b, x, dir, order, omega); err != nil {
			return err
		}
	}

	return nil
}

// relaxPass updates every visited row once:
//
//	x_i ← x_i + ω·((b_i − Σ_{j≠i} a_ij·x_j)/a_ii − x_i)
//
// Rows come from order when it is non-nil, from 0..n otherwise; Backward
// walks the same set in reverse.
func relaxPass(a *sparse.CSR, b, x []float64, dir Direction, order []int, omega float64) error {
	m := a.Rows
	if order != nil {
		m = len(order)
	}
	for k := 0; k < m; k++ {
		pos := k
		if dir == Backward {
			pos = m - 1 - k
		}
		i := pos
		if order != nil {
			i = order[pos]
		}
		if err := relaxRow(a, b, x, i, omega); err != nil {
			return err
		}
	}

	return nil
}

// relaxRow re-solves row i against the current iterate.
func relaxRow(a *sparse.CSR, b, x []float64, i int, omega float64) error {
	diag, sum := 0.0, 0.0
	for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
		j := a.ColInd[k]
		if j == i {
			diag += a.Val[k]
			continue
		}
		sum += a.Val[k] * x[j]
	}
	if diag == 0 {
		return fmt.Errorf("%w: row %d", ErrZeroDiagonal, i)
	}
	x[i] += omega * ((b[i]-sum)/diag - x[i])

	return nil
}
