package coarse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/amg/sparse"
)

// Dense densifies the coarsest operator and factorizes it with LU.
// Memory is quadratic in the coarse dimension, which the hierarchy keeps
// small by construction.
type Dense struct {
	n  int
	lu *mat.LU
}

// NewDense returns an unfactorized dense solver.
func NewDense() *Dense { return &Dense{} }

// Factorize builds the LU decomposition. An exactly singular operator is
// reported as ErrSingular so the caller can fall back to an iterative
// solve.
func (d *Dense) Factorize(a *sparse.CSR) error {
	if a == nil || a.Rows == 0 {
		return ErrNilMatrix
	}
	if a.Rows != a.Cols {
		return fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	}

	n := a.Rows
	dm := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		cols, vals := a.Row(i)
		for k, j := range cols {
			dm.Set(i, j, dm.At(i, j)+vals[k])
		}
	}

	var lu mat.LU
	lu.Factorize(dm)
	// The log determinant stays finite for any nonsingular pivot chain,
	// no matter how the magnitudes over- or underflow.
	if det, sign := lu.LogDet(); sign == 0 || math.IsInf(det, -1) {
		return ErrSingular
	}
	d.n, d.lu = n, &lu

	return nil
}

// Solve writes the solution of A·x = b into x. b and x must not alias.
func (d *Dense) Solve(b, x []float64) error {
	if d.lu == nil {
		return ErrNotFactored
	}
	if len(b) != d.n || len(x) != d.n {
		return fmt.Errorf("%w: len(b)=%d, len(x)=%d, want %d", ErrVectorLength, len(b), len(x), d.n)
	}

	dst := mat.NewVecDense(d.n, x)
	if err := d.lu.SolveVecTo(dst, false, mat.NewVecDense(d.n, b)); err != nil {
		if cond, ok := err.(mat.Condition); !ok || math.IsInf(float64(cond), 1) {
			return fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}

	return nil
}
