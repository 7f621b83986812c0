package interp

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// EnergyMin recomputes the weights of the direct pattern by minimizing
// the energy of the resulting coarse basis. Each coarse column keeps the
// rows of the direct pattern; the values come from the local inverse of
// the operator block over those rows, scaled by the solution of one
// global auxiliary system. Tol and MaxIter control the inner
// diagonally-preconditioned CG solve of that system.
type EnergyMin struct {
	Tol     float64
	MaxIter int
}

// RoutesThroughFine reports that the pattern stops at distance one, like
// the direct scheme it inherits its sparsity from.
func (EnergyMin) RoutesThroughFine() bool { return false }

// Interpolate assembles the energy-minimal prolongation. The result is
// not truncated: dropping entries would break the minimality the scheme
// pays for.
func (e EnergyMin) Interpolate(a *sparse.CSR, g *strength.Graph, sp cfsplit.Splitting, pol parallel.Policy) (*sparse.CSR, error) {
	if err := checkInputs(a, g, sp); err != nil {
		return nil, err
	}
	tol := e.Tol
	if tol <= 0 {
		tol = 1e-3
	}
	maxIter := e.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}

	pat := directPattern(g, sp.Labels)
	p := &sparse.CSR{
		Rows:   a.Rows,
		Cols:   a.Rows,
		RowPtr: pat.RowPtr,
		ColInd: pat.ColInd,
		Val:    make([]float64, pat.NNZ()),
	}

	// 1) Group the pattern by coarse column. Row-major traversal keeps
	//    every group ascending, and the slot list ties each group member
	//    back to its nonzero in P.
	n := a.Rows
	nc := sp.NumCoarse
	coarse := sp.CoarseIndex()
	colRows := make([][]int, nc)
	colSlots := make([][]int, nc)
	var isolated []int
	for i := 0; i < n; i++ {
		if p.RowNNZ(i) == 0 {
			isolated = append(isolated, i)
			continue
		}
		for s := p.RowPtr[i]; s < p.RowPtr[i+1]; s++ {
			c := coarse[p.ColInd[s]]
			colRows[c] = append(colRows[c], i)
			colSlots[c] = append(colSlots[c], s)
		}
	}

	// 2) Invert each local block and spread the inverses onto the
	//    auxiliary operator. Offsets are precomputed so the workers write
	//    disjoint segments.
	off := make([]int, nc+1)
	for c := 0; c < nc; c++ {
		m := len(colRows[c])
		off[c+1] = off[c] + m*m
	}
	entries := make([]sparse.Entry, off[nc]+len(isolated))
	invs := make([]*mat.Dense, nc)

	var eg errgroup.Group
	limit := pol.Workers
	if limit < 1 {
		limit = 1
	}
	eg.SetLimit(limit)
	for c := 0; c < nc; c++ {
		c := c
		eg.Go(func() error {
			rows := colRows[c]
			block := localBlock(a, rows)
			var inv mat.Dense
			if err := inv.Inverse(block); err != nil {
				if cond, ok := err.(mat.Condition); !ok || math.IsInf(float64(cond), 1) {
					return fmt.Errorf("%w: coarse column %d: %v", ErrSingularBlock, c, err)
				}
			}
			invs[c] = &inv
			w := off[c]
			for r := range rows {
				for s := range rows {
					entries[w] = sparse.Entry{Row: rows[r], Col: rows[s], Val: inv.At(r, s)}
					w++
				}
			}

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for idx, i := range isolated {
		entries[off[nc]+idx] = sparse.Entry{Row: i, Col: i, Val: 1}
	}

	// 3) Solve the auxiliary system T·σ = 1 and push σ through each local
	//    inverse to obtain the column values.
	t, err := sparse.FromEntries(n, n, entries)
	if err != nil {
		return nil, err
	}
	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = 1
	}
	sigma := make([]float64, n)
	pcgDiag(t, rhs, sigma, tol, maxIter, pol)

	for c := 0; c < nc; c++ {
		rows := colRows[c]
		x := mat.NewVecDense(len(rows), nil)
		for r, i := range rows {
			x.SetVec(r, sigma[i])
		}
		var out mat.VecDense
		out.MulVec(invs[c], x)
		for r := range rows {
			p.Val[colSlots[c][r]] = out.AtVec(r)
		}
	}

	renumberCols(p, sp)

	return p, nil
}

// localBlock extracts the dense operator block over the sorted row set.
func localBlock(a *sparse.CSR, rows []int) *mat.Dense {
	m := len(rows)
	block := mat.NewDense(m, m, nil)
	for r, i := range rows {
		cols, vals := a.Row(i)
		for k, j := range cols {
			if s := sort.SearchInts(rows, j); s < m && rows[s] == j {
				block.Set(r, s, vals[k])
			}
		}
	}

	return block
}
