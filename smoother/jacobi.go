package smoother

import (
	"fmt"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// Jacobi applies damped simultaneous relaxation:
//
//	x ← x + ω·D⁻¹·(b − A·x)
//
// Updates read only the previous iterate, so the row loop runs under the
// configured execution policy and the result is identical for any worker
// count. The next iterate lives in a work vector owned by the smoother;
// one Jacobi value serves one goroutine at a time. Direction is ignored.
type Jacobi struct {
	Omega float64
	Pol   parallel.Policy

	work []float64
}

// NewJacobi returns a damped Jacobi smoother with the stock weight and
// the default execution policy.
func NewJacobi() *Jacobi {
	return &Jacobi{Omega: DefaultJacobiWeight, Pol: parallel.Default()}
}

// Smooth runs sweeps damped passes.
func (j *Jacobi) Smooth(a *sparse.CSR, b, x []float64, sweeps int, _ Direction) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if err := checkOmega(j.Omega); err != nil {
		return err
	}

	n := a.Rows
	diag := a.Diag()
	for i, d := range diag {
		if d == 0 {
			return fmt.Errorf("%w: row %d", ErrZeroDiagonal, i)
		}
	}

	j.work = growWork(j.work, n)
	w := j.work
	for s := 0; s < sweeps; s++ {
		parallel.For(j.Pol, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				sum := 0.0
				for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
					c := a.ColInd[k]
					if c == i {
						continue
					}
					sum += a.Val[k] * x[c]
				}
				w[i] = x[i] + j.Omega*((b[i]-sum)/diag[i]-x[i])
			}
		})
		copy(x, w)
	}

	return nil
}

// smoothOrder updates only the listed rows, still simultaneously; the
// complement keeps its values. Label-restricted Jacobi is the cheapest
// compatible-relaxation smoother.
func (j *Jacobi) smoothOrder(a *sparse.CSR, b, x []float64, sweeps int, _ Direction, order []int) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if err := checkOmega(j.Omega); err != nil {
		return err
	}
	if err := checkOrder(order, a.Rows); err != nil {
		return err
	}

	j.work = growWork(j.work, len(order))
	w := j.work
	for s := 0; s < sweeps; s++ {
		for k, i := range order {
			diag, sum := 0.0, 0.0
			for p := a.RowPtr[i]; p < a.RowPtr[i+1]; p++ {
				c := a.ColInd[p]
				if c == i {
					diag += a.Val[p]
					continue
				}
				sum += a.Val[p] * x[c]
			}
			if diag == 0 {
				return fmt.Errorf("%w: row %d", ErrZeroDiagonal, i)
			}
			w[k] = x[i] + j.Omega*((b[i]-sum)/diag-x[i])
		}
		for k, i := range order {
			x[i] = w[k]
		}
	}

	return nil
}
