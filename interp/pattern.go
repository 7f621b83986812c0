package interp

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// checkInputs applies the validation shared by every scheme.
func checkInputs(a *sparse.CSR, g *strength.Graph, sp cfsplit.Splitting) error {
	switch {
	case a == nil:
		return ErrNilMatrix
	case g == nil:
		return ErrNilGraph
	case g.Order() != a.Rows:
		return fmt.Errorf("%w: graph order %d, matrix order %d", ErrOrderMismatch, g.Order(), a.Rows)
	case len(sp.Labels) != a.Rows:
		return fmt.Errorf("%w: %d labels for %d rows", ErrBadSplitting, len(sp.Labels), a.Rows)
	case sp.NumCoarse <= 0:
		return ErrNoCoarse
	}

	return nil
}

// directPattern lays out P row by row: the strong Coarse neighbors for a
// Fine row, the point itself for a Coarse row, nothing for an isolated
// one. Columns stay in fine numbering; renumberCols maps them down later.
func directPattern(g *strength.Graph, labels []cfsplit.Label) *sparse.Pattern {
	n := g.Order()
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, n)
	for i := 0; i < n; i++ {
		switch labels[i] {
		case cfsplit.Coarse:
			colInd = append(colInd, i)
		case cfsplit.Fine, cfsplit.Undecided:
			for _, j := range g.Neighbors(i) {
				if labels[j] == cfsplit.Coarse {
					colInd = append(colInd, j)
				}
			}
		}
		rowPtr[i+1] = len(colInd)
	}

	return &sparse.Pattern{Rows: n, Cols: n, RowPtr: rowPtr, ColInd: colInd}
}

// standardPattern enlarges the direct pattern with the strong Coarse
// neighbors of every strong Fine neighbor, the distance-two closure that
// standard interpolation routes its eliminated couplings through. An epoch
// stamp keeps each coarse point at most once per row.
func standardPattern(g *strength.Graph, labels []cfsplit.Label) *sparse.Pattern {
	n := g.Order()
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, 2*n)
	stamp := make([]int, n)
	for i := range stamp {
		stamp[i] = -1
	}

	for i := 0; i < n; i++ {
		start := len(colInd)
		switch labels[i] {
		case cfsplit.Coarse:
			colInd = append(colInd, i)
		case cfsplit.Fine, cfsplit.Undecided:
			for _, k := range g.Neighbors(i) {
				switch {
				case labels[k] == cfsplit.Coarse:
					if stamp[k] != i {
						stamp[k] = i
						colInd = append(colInd, k)
					}
				case labels[k] == cfsplit.Fine && k != i:
					for _, h := range g.Neighbors(k) {
						if labels[h] == cfsplit.Coarse && stamp[h] != i {
							stamp[h] = i
							colInd = append(colInd, h)
						}
					}
				}
			}
			sort.Ints(colInd[start:])
		}
		rowPtr[i+1] = len(colInd)
	}

	return &sparse.Pattern{Rows: n, Cols: n, RowPtr: rowPtr, ColInd: colInd}
}

// renumberCols rewrites fine column indices into the dense coarse
// numbering and shrinks the column count. Ascending coarse indices follow
// ascending fine indices, so rows stay sorted.
func renumberCols(p *sparse.CSR, sp cfsplit.Splitting) {
	coarse := sp.CoarseIndex()
	for k, j := range p.ColInd {
		p.ColInd[k] = coarse[j]
	}
	p.Cols = sp.NumCoarse
}

// patternValues gathers the operator values behind one pattern row by
// merging the sorted pattern row with the sorted matrix row. Pattern
// entries the matrix does not carry read as zero.
func patternValues(a *sparse.CSR, i int, prow []int, out []float64) {
	cols, vals := a.Row(i)
	k := 0
	for t, j := range prow {
		for k < len(cols) && cols[k] < j {
			k++
		}
		if k < len(cols) && cols[k] == j {
			out[t] = vals[k]
		} else {
			out[t] = 0
		}
	}
}
