package interp

import (
	"fmt"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Standard eliminates strong Fine-Fine couplings through the neighbor's
// own row before interpolating, which extends the pattern to Coarse
// points two strong edges away. It is the required companion of
// aggressive coarsening, whose Fine points may see no Coarse neighbor at
// distance one.
type Standard struct {
	Truncation float64
}

// RoutesThroughFine reports that eliminated couplings reach Coarse points
// behind Fine neighbors, so no common-neighbor repair of the splitting is
// needed.
func (Standard) RoutesThroughFine() bool { return true }

// Interpolate assembles the standard-interpolation prolongation.
func (st Standard) Interpolate(a *sparse.CSR, g *strength.Graph, sp cfsplit.Splitting, pol parallel.Policy) (*sparse.CSR, error) {
	if err := checkInputs(a, g, sp); err != nil {
		return nil, err
	}
	if st.Truncation < 0 || st.Truncation >= 1 {
		return nil, fmt.Errorf("%w: got %g", ErrBadTruncation, st.Truncation)
	}

	pat := standardPattern(g, sp.Labels)
	r := &stdRunner{
		a:      a,
		g:      g,
		labels: sp.Labels,
		diag:   a.Diag(),
		nsum:   make([]float64, a.Rows),
		cs:     make([]float64, a.Rows),
		hatA:   make([]float64, a.Rows),
		p: &sparse.CSR{
			Rows:   a.Rows,
			Cols:   a.Rows,
			RowPtr: pat.RowPtr,
			ColInd: pat.ColInd,
			Val:    make([]float64, pat.NNZ()),
		},
	}
	r.sums(pol)

	for i := 0; i < a.Rows; i++ {
		if err := r.fillRow(i); err != nil {
			return nil, err
		}
	}

	renumberCols(r.p, sp)

	return Truncate(r.p, st.Truncation)
}

// stdRunner keeps the per-setup state of one standard interpolation:
// precomputed row sums and the dense scratch the elimination accumulates
// into.
type stdRunner struct {
	a      *sparse.CSR
	g      *strength.Graph
	labels []cfsplit.Label
	p      *sparse.CSR

	diag []float64 // operator diagonal
	nsum []float64 // off-diagonal row sums
	cs   []float64 // row sums over strong Coarse neighbors
	hatA []float64 // eliminated row of the moment, indexed by fine column

	sv, kv []float64 // value buffers for strong rows
}

// sums precomputes the diagonal, off-diagonal and strong-Coarse row sums
// every elimination reads.
func (r *stdRunner) sums(pol parallel.Policy) {
	parallel.For(pol, r.a.Rows, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			cols, vals := r.a.Row(i)
			for k, j := range cols {
				if j != i {
					r.nsum[i] += vals[k]
				}
			}
			srow := r.g.Neighbors(i)
			kk := 0
			for _, j := range srow {
				if r.labels[j] != cfsplit.Coarse {
					continue
				}
				for kk < len(cols) && cols[kk] < j {
					kk++
				}
				if kk < len(cols) && cols[kk] == j {
					r.cs[i] += vals[kk]
				}
			}
		}
	})
}

// fillRow computes the weights of one prolongation row.
func (r *stdRunner) fillRow(i int) error {
	p := r.p
	lo, hi := p.RowPtr[i], p.RowPtr[i+1]
	if lo == hi {
		return nil
	}
	if r.labels[i] == cfsplit.Coarse {
		p.Val[lo] = 1

		return nil
	}

	// 1) Reset the scratch slots this row will touch and seed the
	//    eliminated diagonal.
	for s := lo; s < hi; s++ {
		r.hatA[p.ColInd[s]] = 0
	}
	r.hatA[i] = r.diag[i]
	alN, alP := r.nsum[i], r.cs[i]

	// 2) Walk the strong neighbors: Coarse ones contribute directly, Fine
	//    ones are eliminated through their own row.
	srow := r.g.Neighbors(i)
	r.sv = growBuf(r.sv, len(srow))
	patternValues(r.a, i, srow, r.sv)
	for idx, k := range srow {
		aik := r.sv[idx]
		switch r.labels[k] {
		case cfsplit.Coarse:
			r.hatA[k] += aik
		case cfsplit.Fine:
			if err := r.eliminate(i, k, aik, &alN, &alP); err != nil {
				return err
			}
		}
	}
	if r.hatA[i] == 0 {
		return fmt.Errorf("%w: eliminated row %d", ErrZeroDiagonal, i)
	}

	// 3) Scale the accumulated pattern entries.
	alpha := alN / alP
	for s := lo; s < hi; s++ {
		p.Val[s] = -alpha * r.hatA[p.ColInd[s]] / r.hatA[i]
	}

	return nil
}

// eliminate folds the strong Fine coupling a_ik into row i through row k,
// updating the sign sums and the eliminated-row scratch.
func (r *stdRunner) eliminate(i, k int, aik float64, alN, alP *float64) error {
	akk := r.diag[k]
	if akk == 0 {
		return fmt.Errorf("%w: row %d", ErrZeroDiagonal, k)
	}
	aki := r.a.At(k, i)
	*alN -= (r.nsum[k] - aki + akk) * aik / akk
	*alP -= r.cs[k] * aik / akk

	krow := r.g.Neighbors(k)
	r.kv = growBuf(r.kv, len(krow))
	patternValues(r.a, k, krow, r.kv)
	for idx, h := range krow {
		akh := r.kv[idx]
		switch {
		case r.labels[h] == cfsplit.Coarse:
			r.hatA[h] -= aik * akh / akk
		case h == i:
			r.hatA[i] -= aik * akh / akk
		}
	}

	return nil
}

// growBuf returns buf resized to n, reallocating only on growth.
func growBuf(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}

	return buf[:n]
}
