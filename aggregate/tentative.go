package aggregate

import (
	"fmt"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Tentative builds the unsmoothed tentative prolongation: row i carries a
// single entry in its aggregate's column, holding the near-kernel value of
// vertex i. A nil NearKernel means the constant vector, so every member
// contributes weight one. Vertices outside every aggregate get an empty
// row.
type Tentative struct {
	NearKernel []float64
}

// RoutesThroughFine reports that the operator never reaches across
// Fine-Fine couplings, so no splitting repair is required.
func (Tentative) RoutesThroughFine() bool { return false }

// Interpolate assembles the tentative prolongation for the given
// splitting. The strength graph argument is unused.
func (tp Tentative) Interpolate(a *sparse.CSR, _ *strength.Graph, sp cfsplit.Splitting, _ parallel.Policy) (*sparse.CSR, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if sp.Aggregate == nil {
		return nil, ErrNoAggregates
	}
	if len(sp.Aggregate) != a.Rows {
		return nil, fmt.Errorf("%w: %d ids for %d rows", ErrBadAggregate, len(sp.Aggregate), a.Rows)
	}
	if tp.NearKernel != nil && len(tp.NearKernel) != a.Rows {
		return nil, fmt.Errorf("%w: %d values for %d rows", ErrKernelLength, len(tp.NearKernel), a.Rows)
	}

	n := a.Rows
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, n)
	val := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		ag := sp.Aggregate[i]
		if ag >= 0 {
			if ag >= sp.NumCoarse {
				return nil, fmt.Errorf("%w: id %d of %d", ErrBadAggregate, ag, sp.NumCoarse)
			}
			w := 1.0
			if tp.NearKernel != nil {
				w = tp.NearKernel[i]
			}
			colInd = append(colInd, ag)
			val = append(val, w)
		}
		rowPtr[i+1] = len(colInd)
	}

	return &sparse.CSR{Rows: n, Cols: sp.NumCoarse, RowPtr: rowPtr, ColInd: colInd, Val: val}, nil
}
