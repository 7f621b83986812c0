package strength

import (
	"math"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// tiny guards divisions by a vanishing diagonal in the row-sum test.
const tiny = 1e-20

// Build classifies every coupling of a and returns the compacted strength
// graph. The returned error is ErrNoStrongEdges when classification leaves
// the graph empty; the graph itself is still valid in that case.
//
// Complexity: O(nnz) time, two passes over the operator.
func Build(a *sparse.CSR, opts Options, pol parallel.Policy) (*Graph, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.Rows != a.Cols {
		return nil, ErrNotSquare
	}
	if opts.Threshold <= 0 || opts.Threshold >= 1 {
		return nil, ErrBadThreshold
	}

	n := a.Rows
	rowPtr := make([]int, n+1)

	// Pass 1: count the strong entries of each row. The rule is cheap, so
	// pass 2 simply evaluates it again instead of buffering decisions.
	parallel.For(pol, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rowPtr[i+1] = countStrong(a, i, opts)
		}
	})
	for i := 0; i < n; i++ {
		rowPtr[i+1] += rowPtr[i]
	}

	// Pass 2: fill the adjacency lists. Rows write disjoint segments, so
	// the fill parallelizes without coordination.
	colInd := make([]int, rowPtr[n])
	parallel.For(pol, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			fillStrong(a, i, opts, colInd[rowPtr[i]:rowPtr[i+1]])
		}
	})

	pat, err := sparse.NewPattern(n, n, rowPtr, colInd)
	if err != nil {
		return nil, err
	}
	g := &Graph{N: n, S: pat}
	if g.EdgeCount() == 0 {
		return g, ErrNoStrongEdges
	}

	return g, nil
}

// rowCutoff returns the strength cutoff for row i and whether the row is
// classified entirely weak. A coupling a_ij is strong iff j != i and
// a_ij < cutoff.
func rowCutoff(a *sparse.CSR, i int, opts Options) (cutoff float64, allWeak bool) {
	cols, vals := a.Row(i)

	diag := 0.0
	sum := 0.0
	rowMin := math.Inf(1)
	for k, j := range cols {
		v := vals[k]
		sum += v
		if j == i {
			diag = v
		}
		if v < rowMin {
			rowMin = v
		}
	}
	if len(cols) == 0 {
		return 0, true
	}

	// Diagonally non-dominated rows carry no useful directional
	// information; drop all their couplings when the check is enabled.
	if opts.MaxRowSum < 1 {
		if math.Abs(sum)/math.Max(tiny, math.Abs(diag)) > opts.MaxRowSum {
			return 0, true
		}
	}

	return opts.Threshold * rowMin, false
}

func countStrong(a *sparse.CSR, i int, opts Options) int {
	cutoff, allWeak := rowCutoff(a, i, opts)
	if allWeak {
		return 0
	}
	cols, vals := a.Row(i)
	cnt := 0
	for k, j := range cols {
		if j != i && vals[k] < cutoff {
			cnt++
		}
	}

	return cnt
}

func fillStrong(a *sparse.CSR, i int, opts Options, dst []int) {
	cutoff, allWeak := rowCutoff(a, i, opts)
	if allWeak {
		return
	}
	cols, vals := a.Row(i)
	k := 0
	for m, j := range cols {
		if j != i && vals[m] < cutoff {
			dst[k] = j
			k++
		}
	}
}
