package galerkin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/amg/galerkin"
	"github.com/katalvlaran/amg/sparse"
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

// linearP builds the 7x3 linear-interpolation prolongation with coarse
// points at 1, 3, 5.
func linearP(t *testing.T) *sparse.CSR {
	t.Helper()
	p, err := sparse.FromEntries(7, 3, []sparse.Entry{
		{Row: 0, Col: 0, Val: 0.5},
		{Row: 1, Col: 0, Val: 1},
		{Row: 2, Col: 0, Val: 0.5}, {Row: 2, Col: 1, Val: 0.5},
		{Row: 3, Col: 1, Val: 1},
		{Row: 4, Col: 1, Val: 0.5}, {Row: 4, Col: 2, Val: 0.5},
		{Row: 5, Col: 2, Val: 1},
		{Row: 6, Col: 2, Val: 0.5},
	})
	require.NoError(t, err)

	return p
}

func TestAssemble_CoarseLaplacian(t *testing.T) {
	a := lap1D(t, 7)
	p := linearP(t)

	ac, err := galerkin.Assemble(p.Transpose(), a, p)
	require.NoError(t, err)

	// Linear transfer reproduces the half-weight Laplacian stencil.
	require.Equal(t, 3, ac.Rows)
	require.Equal(t, 3, ac.Cols)
	want, err := sparse.FromEntries(3, 3, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 0, Col: 1, Val: -0.5},
		{Row: 1, Col: 0, Val: -0.5}, {Row: 1, Col: 1, Val: 1}, {Row: 1, Col: 2, Val: -0.5},
		{Row: 2, Col: 1, Val: -0.5}, {Row: 2, Col: 2, Val: 1},
	})
	require.NoError(t, err)

	diff, err := ac.MaxAbsDiff(want)
	require.NoError(t, err)
	assert.Zero(t, diff)
}

func TestAssemble_KeepsSymmetry(t *testing.T) {
	a := lap1D(t, 7)
	p := linearP(t)

	ac, err := galerkin.Assemble(p.Transpose(), a, p)
	require.NoError(t, err)

	diff, err := ac.MaxAbsDiff(ac.Transpose())
	require.NoError(t, err)
	assert.InDelta(t, 0, diff, 1e-14)
}

func TestAssembleTranspose_MatchesExplicitRestriction(t *testing.T) {
	a := lap1D(t, 7)
	p := linearP(t)

	r, ac, err := galerkin.AssembleTranspose(a, p)
	require.NoError(t, err)
	require.Equal(t, 3, r.Rows)
	require.Equal(t, 7, r.Cols)

	want, err := galerkin.Assemble(p.Transpose(), a, p)
	require.NoError(t, err)

	diff, err := ac.MaxAbsDiff(want)
	require.NoError(t, err)
	assert.Zero(t, diff)
}

func TestAssemble_Validation(t *testing.T) {
	a := lap1D(t, 7)
	p := linearP(t)

	_, err := galerkin.Assemble(nil, a, p)
	assert.ErrorIs(t, err, galerkin.ErrNilOperand)

	_, err = galerkin.Assemble(p, a, p)
	assert.ErrorIs(t, err, galerkin.ErrShapeChain)
}
