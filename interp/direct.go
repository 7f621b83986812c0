package interp

import (
	"fmt"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Direct interpolates every Fine point from its strong Coarse neighbors.
// Neighbors outside the pattern are not simply dropped: negative and
// positive off-diagonal mass is summed separately and folded into the
// pattern weights, and when a row has no positive pattern entry the
// positive remainder moves onto the diagonal instead. Truncation is the
// fraction of the row's signed extreme below which entries are discarded.
type Direct struct {
	Truncation float64
}

// RoutesThroughFine reports that the pattern stops at distance one, so
// the splitting must guarantee a common Coarse neighbor behind every
// strong Fine-Fine coupling.
func (Direct) RoutesThroughFine() bool { return false }

// Interpolate assembles the direct-interpolation prolongation.
func (d Direct) Interpolate(a *sparse.CSR, g *strength.Graph, sp cfsplit.Splitting, pol parallel.Policy) (*sparse.CSR, error) {
	if err := checkInputs(a, g, sp); err != nil {
		return nil, err
	}
	if d.Truncation < 0 || d.Truncation >= 1 {
		return nil, fmt.Errorf("%w: got %g", ErrBadTruncation, d.Truncation)
	}

	pat := directPattern(g, sp.Labels)
	p := &sparse.CSR{
		Rows:   a.Rows,
		Cols:   a.Rows,
		RowPtr: pat.RowPtr,
		ColInd: pat.ColInd,
		Val:    make([]float64, pat.NNZ()),
	}

	diag := a.Diag()
	for i := 0; i < a.Rows; i++ {
		if sp.Labels[i] != cfsplit.Coarse && p.RowNNZ(i) > 0 && diag[i] == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroDiagonal, i)
		}
	}

	parallel.For(pol, a.Rows, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			fillDirectRow(a, p, sp.Labels, diag, i)
		}
	})

	renumberCols(p, sp)

	return Truncate(p, d.Truncation)
}

// fillDirectRow computes the weights of one prolongation row in place.
func fillDirectRow(a, p *sparse.CSR, labels []cfsplit.Label, diag []float64, i int) {
	lo, hi := p.RowPtr[i], p.RowPtr[i+1]
	if lo == hi {
		return
	}
	if labels[i] == cfsplit.Coarse {
		p.Val[lo] = 1

		return
	}

	// 1) Split the off-diagonal mass by sign, inside and outside the
	//    pattern. Both index sets are sorted, so membership is a merge.
	cols, vals := a.Row(i)
	var amN, amP, apN, apP float64
	countPplus := 0
	t := lo
	for k, j := range cols {
		if j == i {
			continue
		}
		for t < hi && p.ColInd[t] < j {
			t++
		}
		member := t < hi && p.ColInd[t] == j
		if v := vals[k]; v > 0 {
			apN += v
			if member {
				apP += v
				countPplus++
			}
		} else {
			amN += v
			if member {
				amP += v
			}
		}
	}

	// 2) Scaling factors. A row with no positive pattern entry pushes its
	//    positive remainder onto the diagonal instead of spreading it.
	aii := diag[i]
	var alpha, beta float64
	if amP != 0 {
		alpha = amN / amP
	}
	if countPplus > 0 {
		beta = apN / apP
	} else {
		aii += apN
	}

	// 3) Fill the slots from the matched operator values.
	k := 0
	for s := lo; s < hi; s++ {
		j := p.ColInd[s]
		for k < len(cols) && cols[k] < j {
			k++
		}
		var v float64
		if k < len(cols) && cols[k] == j {
			v = vals[k]
		}
		if v > 0 {
			p.Val[s] = -beta * v / aii
		} else {
			p.Val[s] = -alpha * v / aii
		}
	}
}
