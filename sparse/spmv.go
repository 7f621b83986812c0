package sparse

import (
	"fmt"

	"github.com/katalvlaran/amg/parallel"
)

// MulVec computes y = A·x. Rows are independent, so the sweep runs under the
// supplied execution policy; the zero policy means sequential.
//
// Complexity: O(nnz).
func (a *CSR) MulVec(pol parallel.Policy, x, y []float64) error {
	if len(x) != a.Cols {
		return fmt.Errorf("%w: len(x)=%d, want %d", ErrVectorLength, len(x), a.Cols)
	}
	if len(y) != a.Rows {
		return fmt.Errorf("%w: len(y)=%d, want %d", ErrVectorLength, len(y), a.Rows)
	}

	parallel.For(pol, a.Rows, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			sum := 0.0
			for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
				sum += a.Val[k] * x[a.ColInd[k]]
			}
			y[i] = sum
		}
	})

	return nil
}

// MulVecAdd computes y += alpha·A·x under the supplied policy.
func (a *CSR) MulVecAdd(pol parallel.Policy, alpha float64, x, y []float64) error {
	if len(x) != a.Cols {
		return fmt.Errorf("%w: len(x)=%d, want %d", ErrVectorLength, len(x), a.Cols)
	}
	if len(y) != a.Rows {
		return fmt.Errorf("%w: len(y)=%d, want %d", ErrVectorLength, len(y), a.Rows)
	}

	parallel.For(pol, a.Rows, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			sum := 0.0
			for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
				sum += a.Val[k] * x[a.ColInd[k]]
			}
			y[i] += alpha * sum
		}
	})

	return nil
}

// Residual computes r = b − A·x under the supplied policy. r may alias b.
func (a *CSR) Residual(pol parallel.Policy, b, x, r []float64) error {
	if len(x) != a.Cols {
		return fmt.Errorf("%w: len(x)=%d, want %d", ErrVectorLength, len(x), a.Cols)
	}
	if len(b) != a.Rows || len(r) != a.Rows {
		return fmt.Errorf("%w: len(b)=%d, len(r)=%d, want %d",
			ErrVectorLength, len(b), len(r), a.Rows)
	}

	parallel.For(pol, a.Rows, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			sum := 0.0
			for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
				sum += a.Val[k] * x[a.ColInd[k]]
			}
			r[i] = b[i] - sum
		}
	})

	return nil
}
