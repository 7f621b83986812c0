package aggregate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// Pairwise aggregates by repeated greedy matching: every vertex pairs with
// its strongest coupled unmatched neighbor, the operator is collapsed onto
// the pairs, and the matching repeats on the quotient. Passes rounds give
// aggregates of up to 2^Passes vertices.
//
// QualityBound rejects pairs whose local two-point problem is too stiff to
// represent with a single coarse value: a pair is accepted only when
// (a_ii + a_jj) / (-2·a_ij) stays within the bound. The hierarchy doubles
// the bound when overall coarsening stalls, admitting weaker pairs.
type Pairwise struct {
	Passes        int
	StrongCoupled float64
	QualityBound  float64
}

// NeedsStrength reports that Coarsen works from operator values directly.
func (Pairwise) NeedsStrength() bool { return false }

// Coarsen runs the matching rounds and returns the splitting with the
// aggregate map filled. The strength graph argument is unused.
func (pw Pairwise) Coarsen(a *sparse.CSR, _ *strength.Graph, _ parallel.Policy) (cfsplit.Splitting, error) {
	switch {
	case a == nil:
		return cfsplit.Splitting{}, ErrNilMatrix
	case a.Rows != a.Cols:
		return cfsplit.Splitting{}, fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	case pw.Passes < 1:
		return cfsplit.Splitting{}, fmt.Errorf("%w: got %d", ErrBadPasses, pw.Passes)
	case pw.StrongCoupled <= 0:
		return cfsplit.Splitting{}, ErrBadCoupling
	case pw.QualityBound <= 0:
		return cfsplit.Splitting{}, ErrBadQuality
	}

	// Matching reads diagonals constantly, so keep them in front. The
	// clone protects the caller's row ordering.
	cur := a.Clone()
	if err := cur.DiagFirst(); err != nil {
		return cfsplit.Splitting{}, fmt.Errorf("pairwise aggregation: %w", err)
	}

	var total []int
	for pass := 0; pass < pw.Passes; pass++ {
		assign, count := matchOnce(cur, pw.StrongCoupled, pw.QualityBound)
		if total == nil {
			total = assign
		} else {
			for i := range total {
				total[i] = assign[total[i]]
			}
		}

		// All singletons means the matching has converged; further rounds
		// cannot merge anything.
		if pass+1 == pw.Passes || count == cur.Rows {
			break
		}

		next, err := quotient(cur, assign, count)
		if err != nil {
			return cfsplit.Splitting{}, fmt.Errorf("pairwise aggregation: %w", err)
		}
		cur = next
	}

	sp := normalize(total)
	if sp.NumCoarse == 0 {
		return sp, ErrNoAggregates
	}

	return sp, nil
}

// matchOnce pairs vertices in ascending order with their strongest
// remaining coupling. Unmatched vertices become singletons. Requires
// diagonal-first row ordering.
func matchOnce(cur *sparse.CSR, sc, bound float64) (assign []int, count int) {
	n := cur.Rows
	assign = make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for i := 0; i < n; i++ {
		if assign[i] >= 0 {
			continue
		}
		di := cur.Val[cur.RowPtr[i]]
		cols, vals := cur.Row(i)

		best, bestVal := -1, 0.0
		for k, j := range cols {
			if j == i || assign[j] >= 0 {
				continue
			}
			v := vals[k]
			dj := cur.Val[cur.RowPtr[j]]
			if di <= 0 || dj <= 0 || v > -sc*math.Sqrt(di*dj) {
				continue
			}
			if (di+dj)/(-2*v) > bound {
				continue
			}
			if v < bestVal {
				best, bestVal = j, v
			}
		}

		assign[i] = count
		if best >= 0 {
			assign[best] = count
		}
		count++
	}

	return assign, count
}

// quotient collapses cur onto the aggregates: Q = P₀ᵗ·cur·P₀ with the unit
// tentative P₀. The result keeps its diagonal in front for the next round.
func quotient(cur *sparse.CSR, assign []int, count int) (*sparse.CSR, error) {
	n := cur.Rows
	rowPtr := make([]int, n+1)
	colInd := make([]int, n)
	val := make([]float64, n)
	for i := 0; i < n; i++ {
		rowPtr[i+1] = i + 1
		colInd[i] = assign[i]
		val[i] = 1
	}
	p0 := &sparse.CSR{Rows: n, Cols: count, RowPtr: rowPtr, ColInd: colInd, Val: val}

	ap, err := cur.Mul(p0)
	if err != nil {
		return nil, err
	}
	next, err := p0.Transpose().Mul(ap)
	if err != nil {
		return nil, err
	}
	if err := next.DiagFirst(); err != nil {
		return nil, err
	}

	return next, nil
}

// normalize renumbers aggregates by ascending lowest member, labels that
// member Coarse and the rest Fine, and wraps everything in a Splitting.
// Vertices outside every aggregate become Isolated.
func normalize(aggr []int) cfsplit.Splitting {
	maxID := -1
	for _, a := range aggr {
		if a > maxID {
			maxID = a
		}
	}
	remap := make([]int, maxID+1)
	for i := range remap {
		remap[i] = -1
	}

	labels := make([]cfsplit.Label, len(aggr))
	next := 0
	for i, a := range aggr {
		if a < 0 {
			labels[i] = cfsplit.Isolated
			continue
		}
		if remap[a] < 0 {
			remap[a] = next
			next++
			labels[i] = cfsplit.Coarse
		} else {
			labels[i] = cfsplit.Fine
		}
		aggr[i] = remap[a]
	}

	return cfsplit.Splitting{Labels: labels, NumCoarse: next, Aggregate: aggr}
}
