package cfsplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/amg/cfsplit"
	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
	"github.com/katalvlaran/amg/strength"
)

// lapMatrix assembles the graph Laplacian of the given undirected edge
// list: degree on the diagonal, -1 per edge. Every coupling of such an
// operator classifies as strong under the default threshold.
func lapMatrix(t *testing.T, n int, edges [][2]int) *sparse.CSR {
	t.Helper()
	deg := make([]int, n)
	entries := make([]sparse.Entry, 0, n+2*len(edges))
	for _, e := range edges {
		deg[e[0]]++
		deg[e[1]]++
		entries = append(entries,
			sparse.Entry{Row: e[0], Col: e[1], Val: -1},
			sparse.Entry{Row: e[1], Col: e[0], Val: -1},
		)
	}
	for i := 0; i < n; i++ {
		entries = append(entries, sparse.Entry{Row: i, Col: i, Val: float64(deg[i])})
	}
	a, err := sparse.FromEntries(n, n, entries)
	require.NoError(t, err)

	return a
}

func pathEdges(n int) [][2]int {
	edges := make([][2]int, 0, n-1)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}

	return edges
}

func split(t *testing.T, c interface {
	Coarsen(*sparse.CSR, *strength.Graph, parallel.Policy) (cfsplit.Splitting, error)
}, a *sparse.CSR) cfsplit.Splitting {
	t.Helper()
	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	sp, err := c.Coarsen(a, g, parallel.Serial())
	require.NoError(t, err)

	return sp
}

func TestClassical_Path7(t *testing.T) {
	a := lapMatrix(t, 7, pathEdges(7))
	sp := split(t, cfsplit.Classical{}, a)

	want := []cfsplit.Label{
		cfsplit.Fine, cfsplit.Coarse, cfsplit.Fine, cfsplit.Coarse,
		cfsplit.Fine, cfsplit.Coarse, cfsplit.Fine,
	}
	assert.Equal(t, want, sp.Labels)
	assert.Equal(t, 3, sp.NumCoarse)
	assert.Nil(t, sp.Aggregate)
}

func TestClassical_EqualMeasuresPickLowestIndex(t *testing.T) {
	// Triangle: all three vertices carry measure 2, so the winner is
	// decided purely by the tie-break.
	a := lapMatrix(t, 3, [][2]int{{0, 1}, {1, 2}, {0, 2}})
	sp := split(t, cfsplit.Classical{}, a)

	assert.Equal(t, cfsplit.Coarse, sp.Labels[0])
	assert.Equal(t, cfsplit.Fine, sp.Labels[1])
	assert.Equal(t, cfsplit.Fine, sp.Labels[2])
	assert.Equal(t, 1, sp.NumCoarse)
}

func TestClassical_IsolatedVertex(t *testing.T) {
	// Vertex 2 has only its diagonal entry.
	a, err := sparse.FromEntries(3, 3, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1}, {Row: 0, Col: 1, Val: -1},
		{Row: 1, Col: 0, Val: -1}, {Row: 1, Col: 1, Val: 1},
		{Row: 2, Col: 2, Val: 1},
	})
	require.NoError(t, err)

	sp := split(t, cfsplit.Classical{}, a)
	assert.Equal(t, cfsplit.Coarse, sp.Labels[0])
	assert.Equal(t, cfsplit.Fine, sp.Labels[1])
	assert.Equal(t, cfsplit.Isolated, sp.Labels[2])
	assert.Equal(t, 1, sp.NumCoarse)
}

func TestClassical_NoUndecidedSurvives(t *testing.T) {
	grid := [][2]int{}
	const nx, ny = 5, 4
	id := func(x, y int) int { return y*nx + x }
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			if x+1 < nx {
				grid = append(grid, [2]int{id(x, y), id(x + 1, y)})
			}
			if y+1 < ny {
				grid = append(grid, [2]int{id(x, y), id(x, y+1)})
			}
		}
	}
	a := lapMatrix(t, nx*ny, grid)
	sp := split(t, cfsplit.Classical{}, a)

	coarse := 0
	for i, l := range sp.Labels {
		assert.NotEqual(t, cfsplit.Undecided, l, "vertex %d", i)
		if l == cfsplit.Coarse {
			coarse++
		}
	}
	assert.Equal(t, coarse, sp.NumCoarse)
	assert.Greater(t, sp.NumCoarse, 0)
	assert.Less(t, sp.NumCoarse, nx*ny)

	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	assertCommonCoarse(t, g, sp.Labels)
}

func TestClassical_RepairPromotesMissingCommonNeighbor(t *testing.T) {
	// Tree in which the greedy round leaves the strong pair (0,1) Fine
	// with disjoint coarse neighborhoods {2} and {3}:
	//
	//	4   5       6   7
	//	 \ /         \ /
	//	  2 --- 0-1 --- 3
	//
	// The repair pass must promote vertex 1 (the first offending
	// neighbor of vertex 0).
	edges := [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 4}, {2, 5}, {3, 6}, {3, 7}}
	a := lapMatrix(t, 8, edges)

	relaxed := split(t, cfsplit.Classical{SkipRepair: true}, a)
	assert.Equal(t, cfsplit.Fine, relaxed.Labels[0])
	assert.Equal(t, cfsplit.Fine, relaxed.Labels[1])
	assert.Equal(t, cfsplit.Coarse, relaxed.Labels[2])
	assert.Equal(t, cfsplit.Coarse, relaxed.Labels[3])
	assert.Equal(t, 2, relaxed.NumCoarse)

	repaired := split(t, cfsplit.Classical{}, a)
	assert.Equal(t, cfsplit.Coarse, repaired.Labels[1])
	assert.Equal(t, 3, repaired.NumCoarse)

	// After repair every strong Fine-Fine pair shares a coarse neighbor.
	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)
	assertCommonCoarse(t, g, repaired.Labels)
}

// assertCommonCoarse checks the two-distance property the repair pass
// guarantees.
func assertCommonCoarse(t *testing.T, g *strength.Graph, labels []cfsplit.Label) {
	t.Helper()
	for i := 0; i < g.Order(); i++ {
		if labels[i] != cfsplit.Fine {
			continue
		}
		coarse := map[int]bool{}
		for _, j := range g.Neighbors(i) {
			if labels[j] == cfsplit.Coarse {
				coarse[j] = true
			}
		}
		for _, j := range g.Neighbors(i) {
			if labels[j] != cfsplit.Fine {
				continue
			}
			shared := false
			for _, k := range g.Neighbors(j) {
				if coarse[k] {
					shared = true
					break
				}
			}
			assert.True(t, shared, "fine pair (%d,%d) has no common coarse neighbor", i, j)
		}
	}
}

func TestClassical_Validation(t *testing.T) {
	a := lapMatrix(t, 3, pathEdges(3))
	g, err := strength.Build(a, strength.DefaultOptions(), parallel.Serial())
	require.NoError(t, err)

	_, err = cfsplit.Classical{}.Coarsen(nil, g, parallel.Serial())
	assert.ErrorIs(t, err, cfsplit.ErrNilMatrix)

	_, err = cfsplit.Classical{}.Coarsen(a, nil, parallel.Serial())
	assert.ErrorIs(t, err, cfsplit.ErrNilGraph)

	other := lapMatrix(t, 4, pathEdges(4))
	_, err = cfsplit.Classical{}.Coarsen(other, g, parallel.Serial())
	assert.ErrorIs(t, err, cfsplit.ErrOrderMismatch)
}

func TestClassical_EmptyGraphNoProgress(t *testing.T) {
	a := sparse.Identity(4)
	empty, err := sparse.NewPattern(4, 4, []int{0, 0, 0, 0, 0}, nil)
	require.NoError(t, err)
	g := &strength.Graph{N: 4, S: empty}

	_, err = cfsplit.Classical{}.Coarsen(a, g, parallel.Serial())
	assert.ErrorIs(t, err, cfsplit.ErrNoProgress)
}

func TestSplitting_CoarseIndex(t *testing.T) {
	sp := cfsplit.Splitting{
		Labels: []cfsplit.Label{
			cfsplit.Fine, cfsplit.Coarse, cfsplit.Isolated, cfsplit.Coarse,
		},
		NumCoarse: 2,
	}
	assert.Equal(t, []int{-1, 0, -1, 1}, sp.CoarseIndex())
}
