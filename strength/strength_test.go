package strength_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

func lap1D(t *testing.T, n int) *sparse.CSR {
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

func TestBuild_Laplacian1D(t *testing.T) {
	a := lap1D(t, 8)
	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)

	assert.Equal(t, 8, g.Order())
	// Every off-diagonal -1 beats 0.25 times the row minimum, so the
	// strength graph reproduces the tridiagonal neighborhood structure.
	assert.Equal(t, 2*7, g.EdgeCount())
	assert.Equal(t, []int{1}, g.Neighbors(0))
	assert.Equal(t, []int{2, 4}, g.Neighbors(3))
	assert.Equal(t, []int{6}, g.Neighbors(7))
}

func TestBuild_AnisotropicRowKeepsDominantCoupling(t *testing.T) {
	// Row 0 couples strongly to 1 (-1) and barely to 2 (-0.01).
	// Cutoff is 0.25 * (-1) = -0.25, so only the -1 edge survives.
	a, err := sparse.FromEntries(3, 3, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1.01}, {Row: 0, Col: 1, Val: -1}, {Row: 0, Col: 2, Val: -0.01},
		{Row: 1, Col: 0, Val: -1}, {Row: 1, Col: 1, Val: 1},
		{Row: 2, Col: 0, Val: -0.01}, {Row: 2, Col: 2, Val: 0.01},
	})
	require.NoError(t, err)

	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, g.Neighbors(0))
	assert.Equal(t, []int{0}, g.Neighbors(1))
	assert.Equal(t, []int{0}, g.Neighbors(2))
}

func TestBuild_PositiveOffDiagonalsNeverStrong(t *testing.T) {
	// The cutoff is signed: row 0 cuts at 0.25*(-2) = -0.5, so the +1
	// coupling fails it despite its magnitude, while row 1 has only
	// positive couplings and a positive cutoff nothing falls under.
	a, err := sparse.FromEntries(4, 4, []sparse.Entry{
		{Row: 0, Col: 0, Val: 2}, {Row: 0, Col: 1, Val: 1}, {Row: 0, Col: 2, Val: -1}, {Row: 0, Col: 3, Val: -2},
		{Row: 1, Col: 0, Val: 1}, {Row: 1, Col: 1, Val: 2}, {Row: 1, Col: 2, Val: 1},
		{Row: 2, Col: 0, Val: -1}, {Row: 2, Col: 2, Val: 2}, {Row: 2, Col: 3, Val: -1},
		{Row: 3, Col: 0, Val: -2}, {Row: 3, Col: 2, Val: -1}, {Row: 3, Col: 3, Val: 2},
	})
	require.NoError(t, err)

	opts := strength.Options{Threshold: 0.25, MaxRowSum: 1.5}
	g, err := strength.Build(a, opts, parallel.Serial())
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, g.Neighbors(0))
	assert.Empty(t, g.Neighbors(1))
	assert.Equal(t, []int{0, 3}, g.Neighbors(2))
	assert.Equal(t, []int{0, 2}, g.Neighbors(3))
}

func TestBuild_RowSumBoundDropsRow(t *testing.T) {
	// Row 0 sums to 2 against a unit diagonal; ratio 2 exceeds the 0.9
	// bound, so the whole row is weak even though -0.5 would pass the
	// cutoff test on its own.
	entries := []sparse.Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 0, Col: 1, Val: 1.5}, {Row: 0, Col: 2, Val: -0.5},
		{Row: 1, Col: 0, Val: -1}, {Row: 1, Col: 1, Val: 2}, {Row: 1, Col: 2, Val: -1},
		{Row: 2, Col: 1, Val: -1}, {Row: 2, Col: 2, Val: 2},
	}
	a, err := sparse.FromEntries(3, 3, entries)
	require.NoError(t, err)

	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	assert.Empty(t, g.Neighbors(0))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))

	// Raising MaxRowSum past 1 disables the bound and the edge returns.
	opts := strength.Options{Threshold: 0.25, MaxRowSum: 1.5}
	g, err = strength.Build(a, opts, parallel.Serial())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, g.Neighbors(0))
}

func TestBuild_NoStrongEdges(t *testing.T) {
	// A diagonal operator has no couplings at all.
	a := sparse.Identity(5)
	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	assert.ErrorIs(t, err, strength.ErrNoStrongEdges)
	require.NotNil(t, g)
	assert.Zero(t, g.EdgeCount())
	assert.Equal(t, 5, g.Order())
}

func TestBuild_ParameterValidation(t *testing.T) {
	a := lap1D(t, 4)

	_, err := strength.Build(nil, strength.DefaultOptions(), parallel.Serial())
	assert.ErrorIs(t, err, strength.ErrNilMatrix)

	for _, theta := range []float64{0, -0.1, 1, 1.5} {
		_, err = strength.Build(a, strength.Options{Threshold: theta, MaxRowSum: 0.9}, parallel.Serial())
		assert.ErrorIs(t, err, strength.ErrBadThreshold, "theta=%v", theta)
	}

	rect, err := sparse.FromEntries(2, 3, []sparse.Entry{{Row: 0, Col: 0, Val: 1}})
	require.NoError(t, err)
	_, err = strength.Build(rect, strength.DefaultOptions(), parallel.Serial())
	assert.ErrorIs(t, err, strength.ErrNotSquare)
}

func TestBuild_Transpose(t *testing.T) {
	// Nonsymmetric operator: 0 depends on 1, but 1 does not depend on 0.
	a, err := sparse.FromEntries(2, 2, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 0, Col: 1, Val: -1},
		{Row: 1, Col: 1, Val: 1},
	})
	require.NoError(t, err)

	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, g.Neighbors(0))
	assert.Empty(t, g.Neighbors(1))

	gt := g.Transpose()
	assert.Empty(t, gt.Neighbors(0))
	assert.Equal(t, []int{0}, gt.Neighbors(1))
}

func TestBuild_ParallelMatchesSerial(t *testing.T) {
	a := lap1D(t, 257)

	serial, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	par, err := strength.Build(a, strength.DefaultOptions(), parallel.Policy{Workers: 4, Threshold: 16})
	require.NoError(t, err)

	assert.Equal(t, serial.S.RowPtr, par.S.RowPtr)
	assert.Equal(t, serial.S.ColInd, par.S.ColInd)
}
