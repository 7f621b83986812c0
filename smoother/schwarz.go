package smoother

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// Schwarz applies overlapping block relaxation. Blocks are grown by
// breadth-first search on the symmetrized pattern, dense-factored once
// at setup, and their residual corrections are summed with
// partition-of-unity weights on the overlap each sweep. Direction is
// ignored: the combination is additive.
type Schwarz struct {
	// Depth is the breadth-first radius of one block.
	Depth int
	// MaxBlock caps the number of rows in one block.
	MaxBlock int

	n      int
	blocks [][]int
	lus    []*mat.LU
	weight []float64 // reciprocal of the cover count per row

	r, upd, rhs, sol []float64
}

// SetupSchwarz grows and factorizes the blocks of a. Non-positive depth
// or block cap fall back to DefaultSchwarzDepth and DefaultSchwarzBlock.
// Every row is covered: each row not reached by an earlier block seeds
// its own, so the sweep never leaves a component of x untouched.
func SetupSchwarz(a *sparse.CSR, depth, maxBlock int) (*Schwarz, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.Rows != a.Cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, a.Rows, a.Cols)
	}
	if depth <= 0 {
		depth = DefaultSchwarzDepth
	}
	if maxBlock <= 0 {
		maxBlock = DefaultSchwarzBlock
	}

	sym, err := a.SymPart()
	if err != nil {
		return nil, fmt.Errorf("smoother: Schwarz setup: %w", err)
	}

	// 1) Grow one block per uncovered seed, ascending. The stamp array
	//    carries the block id, so rows stay shareable across blocks.
	n := a.Rows
	covered := make([]bool, n)
	stamp := make([]int, n)
	for i := range stamp {
		stamp[i] = -1
	}
	count := make([]int, n)
	var blocks [][]int
	for seed := 0; seed < n; seed++ {
		if covered[seed] {
			continue
		}
		rows := growBlock(sym, seed, depth, maxBlock, stamp, len(blocks))
		sort.Ints(rows)
		for _, i := range rows {
			covered[i] = true
			count[i]++
		}
		blocks = append(blocks, rows)
	}

	// 2) Factorize each block densely and derive the overlap weights.
	lus := make([]*mat.LU, len(blocks))
	maxm := 0
	for bi, rows := range blocks {
		if len(rows) > maxm {
			maxm = len(rows)
		}
		var lu mat.LU
		lu.Factorize(denseBlock(a, rows))
		lus[bi] = &lu
	}
	weight := make([]float64, n)
	for i, c := range count {
		weight[i] = 1 / float64(c)
	}

	return &Schwarz{
		Depth:    depth,
		MaxBlock: maxBlock,
		n:        n,
		blocks:   blocks,
		lus:      lus,
		weight:   weight,
		r:        make([]float64, n),
		upd:      make([]float64, n),
		rhs:      make([]float64, maxm),
		sol:      make([]float64, maxm),
	}, nil
}

// Blocks returns a copy of the block row sets, each ascending. Exposed
// for coverage diagnostics.
func (s *Schwarz) Blocks() [][]int {
	out := make([][]int, len(s.blocks))
	for i, rows := range s.blocks {
		out[i] = append([]int(nil), rows...)
	}

	return out
}

// Smooth runs sweeps additive block corrections.
func (s *Schwarz) Smooth(a *sparse.CSR, b, x []float64, sweeps int, _ Direction) error {
	if err := checkSystem(a, b, x); err != nil {
		return err
	}
	if a.Rows != s.n || s.blocks == nil {
		return fmt.Errorf("%w: matrix order %d, setup order %d", ErrSetupMismatch, a.Rows, s.n)
	}

	for sw := 0; sw < sweeps; sw++ {
		if err := s.sweep(a, b, x); err != nil {
			return err
		}
	}

	return nil
}

// sweep solves every block against the current residual and applies the
// weighted sum of the corrections.
func (s *Schwarz) sweep(a *sparse.CSR, b, x []float64) error {
	if err := a.Residual(parallel.Policy{}, b, x, s.r); err != nil {
		return err
	}
	clear(s.upd)
	for bi, rows := range s.blocks {
		m := len(rows)
		for k, i := range rows {
			s.rhs[k] = s.r[i]
		}
		rhs := mat.NewVecDense(m, s.rhs[:m])
		e := mat.NewVecDense(m, s.sol[:m])
		if err := s.lus[bi].SolveVecTo(e, false, rhs); err != nil {
			// Ill conditioning still yields a usable correction; only a
			// genuinely singular block stops the sweep.
			if cond, ok := err.(mat.Condition); !ok || math.IsInf(float64(cond), 1) {
				return fmt.Errorf("%w: block %d: %v", ErrSingularBlock, bi, err)
			}
		}
		for k, i := range rows {
			s.upd[i] += s.sol[k]
		}
	}
	for i := range x {
		x[i] += s.weight[i] * s.upd[i]
	}

	return nil
}

// growBlock collects the ball of radius depth around seed, capped at
// maxBlock rows. The stamp array marks membership for this block id, so
// rows already claimed by other blocks remain reachable.
func growBlock(sym *sparse.CSR, seed, depth, maxBlock int, stamp []int, id int) []int {
	rows := make([]int, 0, maxBlock)
	rows = append(rows, seed)
	stamp[seed] = id

	start := 0
	for lvl := 0; lvl < depth && len(rows) < maxBlock; lvl++ {
		end := len(rows)
		for q := start; q < end && len(rows) < maxBlock; q++ {
			i := rows[q]
			for k := sym.RowPtr[i]; k < sym.RowPtr[i+1]; k++ {
				j := sym.ColInd[k]
				if j == i || stamp[j] == id {
					continue
				}
				stamp[j] = id
				rows = append(rows, j)
				if len(rows) == maxBlock {
					break
				}
			}
		}
		start = end
	}

	return rows
}

// denseBlock gathers the principal submatrix over rows, which must be
// sorted ascending.
func denseBlock(a *sparse.CSR, rows []int) *mat.Dense {
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
