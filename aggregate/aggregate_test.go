package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/amg/aggregate"
	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// stencil1D builds the Dirichlet 1D Laplacian: 2 on the diagonal, -1 on
// both off-diagonals.
func stencil1D(t *testing.T, n int) *sparse.CSR {
	t.Helper()
	entries := make([]sparse.Entry, 0, 3*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			entries = append(entries, sparse.Entry{Row: i, Col: i - 1, Val: -1})
		}
		entries = append(entries, sparse.Entry{Row: i, Col: i, Val: 2})
		if i < n-1 {
			entries = append(entries, sparse.Entry{Row: i, Col: i + 1, Val: -1})
		}
	}
	a, err := sparse.FromEntries(n, n, entries)
	require.NoError(t, err)

	return a
}

func TestPairwise_SinglePassPairsNeighbors(t *testing.T) {
	a := stencil1D(t, 6)
	pw := aggregate.NewPairwise()
	pw.Passes = 1

	sp, err := pw.Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1, 2, 2}, sp.Aggregate)
	assert.Equal(t, 3, sp.NumCoarse)
	want := []cfsplit.Label{
		cfsplit.Coarse, cfsplit.Fine, cfsplit.Coarse,
		cfsplit.Fine, cfsplit.Coarse, cfsplit.Fine,
	}
	assert.Equal(t, want, sp.Labels)
}

func TestPairwise_TwoPassesMergePairs(t *testing.T) {
	a := stencil1D(t, 6)
	sp, err := aggregate.NewPairwise().Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)

	// The quotient of the pair operator is again tridiagonal, so the
	// second round merges the first two pairs and leaves the last one.
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1}, sp.Aggregate)
	assert.Equal(t, 2, sp.NumCoarse)
	assert.Equal(t, cfsplit.Coarse, sp.Labels[0])
	assert.Equal(t, cfsplit.Coarse, sp.Labels[4])
}

func TestPairwise_QualityBoundRejectsWeakPairs(t *testing.T) {
	// Coupling -0.18 passes the strength test (0.18 > 0.08*2) but its
	// pair quality (2+2)/0.36 = 11.1 exceeds the default bound of 10,
	// so both vertices stay singletons.
	a, err := sparse.FromEntries(2, 2, []sparse.Entry{
		{Row: 0, Col: 0, Val: 2}, {Row: 0, Col: 1, Val: -0.18},
		{Row: 1, Col: 0, Val: -0.18}, {Row: 1, Col: 1, Val: 2},
	})
	require.NoError(t, err)

	pw := aggregate.NewPairwise()
	pw.Passes = 1
	sp, err := pw.Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, sp.Aggregate)
	assert.Equal(t, 2, sp.NumCoarse)

	// Relaxing the bound admits the same pair.
	pw.QualityBound = 12
	sp, err = pw.Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, sp.Aggregate)
	assert.Equal(t, 1, sp.NumCoarse)
}

func TestVMB_Line7(t *testing.T) {
	a := stencil1D(t, 7)
	sp, err := aggregate.NewVMB().Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1, 1, 2, 2}, sp.Aggregate)
	assert.Equal(t, 3, sp.NumCoarse)
	want := []cfsplit.Label{
		cfsplit.Coarse, cfsplit.Fine, cfsplit.Coarse, cfsplit.Fine,
		cfsplit.Fine, cfsplit.Coarse, cfsplit.Fine,
	}
	assert.Equal(t, want, sp.Labels)
}

func TestVMB_MaxSizeCapsAggregates(t *testing.T) {
	a := stencil1D(t, 7)
	v := aggregate.NewVMB()
	v.MaxSize = 2

	sp, err := v.Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)

	// Vertex 5 seeds {5,4} before reaching 6, which the cap then locks
	// out of sweep two and leaves as a singleton.
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3}, sp.Aggregate)
	assert.Equal(t, 4, sp.NumCoarse)
	for id := 0; id < sp.NumCoarse; id++ {
		members := 0
		for _, ag := range sp.Aggregate {
			if ag == id {
				members++
			}
		}
		assert.LessOrEqual(t, members, 2)
	}
}

func TestVMB_CoversEveryVertex(t *testing.T) {
	const nx, ny = 6, 5
	entries := []sparse.Entry{}
	id := func(x, y int) int { return y*nx + x }
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			entries = append(entries, sparse.Entry{Row: id(x, y), Col: id(x, y), Val: 4})
			if x > 0 {
				entries = append(entries, sparse.Entry{Row: id(x, y), Col: id(x - 1, y), Val: -1})
			}
			if x+1 < nx {
				entries = append(entries, sparse.Entry{Row: id(x, y), Col: id(x + 1, y), Val: -1})
			}
			if y > 0 {
				entries = append(entries, sparse.Entry{Row: id(x, y), Col: id(x, y-1), Val: -1})
			}
			if y+1 < ny {
				entries = append(entries, sparse.Entry{Row: id(x, y), Col: id(x, y+1), Val: -1})
			}
		}
	}
	a, err := sparse.FromEntries(nx*ny, nx*ny, entries)
	require.NoError(t, err)

	sp, err := aggregate.NewVMB().Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)

	for i, ag := range sp.Aggregate {
		assert.GreaterOrEqual(t, ag, 0, "vertex %d not aggregated", i)
		assert.Less(t, ag, sp.NumCoarse)
	}
	assert.Greater(t, sp.NumCoarse, 0)
	assert.Less(t, sp.NumCoarse, nx*ny)
}

func TestStrategies_Validation(t *testing.T) {
	a := stencil1D(t, 4)

	_, err := aggregate.Pairwise{Passes: 0, StrongCoupled: 0.08, QualityBound: 10}.
		Coarsen(a, nil, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrBadPasses)

	_, err = aggregate.Pairwise{Passes: 1, StrongCoupled: 0, QualityBound: 10}.
		Coarsen(a, nil, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrBadCoupling)

	_, err = aggregate.Pairwise{Passes: 1, StrongCoupled: 0.08, QualityBound: 0}.
		Coarsen(a, nil, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrBadQuality)

	_, err = aggregate.VMB{StrongCoupled: 0.08, MaxSize: 1}.Coarsen(a, nil, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrBadMaxSize)

	_, err = aggregate.NewVMB().Coarsen(nil, nil, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrNilMatrix)
}

func TestTentative_ConstantKernel(t *testing.T) {
	a := stencil1D(t, 6)
	pw := aggregate.NewPairwise()
	pw.Passes = 1
	sp, err := pw.Coarsen(a, nil, parallel.Serial())
	require.NoError(t, err)

	p, err := aggregate.Tentative{}.Interpolate(a, nil, sp, parallel.Serial())
	require.NoError(t, err)

	assert.Equal(t, 6, p.Rows)
	assert.Equal(t, 3, p.Cols)
	assert.Equal(t, 6, p.NNZ())
	for i := 0; i < 6; i++ {
		assert.Equal(t, 1.0, p.At(i, sp.Aggregate[i]))
	}

	// Column sums count aggregate members: three pairs of two.
	sums := make([]float64, 3)
	ones := []float64{1, 1, 1, 1, 1, 1}
	require.NoError(t, p.Transpose().MulVec(parallel.Serial(), ones, sums))
	assert.Equal(t, []float64{2, 2, 2}, sums)
}

func TestTentative_CustomKernel(t *testing.T) {
	a := stencil1D(t, 4)
	sp := cfsplit.Splitting{
		Labels: []cfsplit.Label{
			cfsplit.Coarse, cfsplit.Fine, cfsplit.Coarse, cfsplit.Fine,
		},
		NumCoarse: 2,
		Aggregate: []int{0, 0, 1, 1},
	}
	kernel := []float64{1, 2, 3, 4}

	p, err := aggregate.Tentative{NearKernel: kernel}.Interpolate(a, nil, sp, parallel.Serial())
	require.NoError(t, err)
	for i, w := range kernel {
		assert.Equal(t, w, p.At(i, sp.Aggregate[i]))
	}
}

func TestTentative_Validation(t *testing.T) {
	a := stencil1D(t, 3)

	_, err := aggregate.Tentative{}.Interpolate(a, nil, cfsplit.Splitting{}, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrNoAggregates)

	sp := cfsplit.Splitting{
		Labels:    make([]cfsplit.Label, 3),
		NumCoarse: 1,
		Aggregate: []int{0, 0, 0},
	}
	_, err = aggregate.Tentative{NearKernel: []float64{1}}.Interpolate(a, nil, sp, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrKernelLength)

	bad := cfsplit.Splitting{
		Labels:    make([]cfsplit.Label, 3),
		NumCoarse: 1,
		Aggregate: []int{0, 0, 5},
	}
	_, err = aggregate.Tentative{}.Interpolate(a, nil, bad, parallel.Serial())
	assert.ErrorIs(t, err, aggregate.ErrBadAggregate)
}

func TestTentative_IsolatedVertexGetsEmptyRow(t *testing.T) {
	a := stencil1D(t, 3)
	sp := cfsplit.Splitting{
		Labels: []cfsplit.Label{
			cfsplit.Coarse, cfsplit.Fine, cfsplit.Isolated,
		},
		NumCoarse: 1,
		Aggregate: []int{0, 0, -1},
	}

	p, err := aggregate.Tentative{}.Interpolate(a, nil, sp, parallel.Serial())
	require.NoError(t, err)
	assert.Equal(t, 2, p.NNZ())
	assert.Zero(t, p.RowNNZ(2))
}
