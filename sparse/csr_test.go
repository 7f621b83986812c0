package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// buildArrow returns the 3x3 arrowhead matrix
//
//	[ 4 -1 -1 ]
//	[-1  4  0 ]
//	[-1  0  4 ]
func buildArrow(t *testing.T) *sparse.CSR {
	t.Helper()
	a, err := sparse.NewCSR(3, 3,
		[]int{0, 3, 5, 7},
		[]int{0, 1, 2, 0, 1, 0, 2},
		[]float64{4, -1, -1, -1, 4, -1, 4},
	)
	require.NoError(t, err)

	return a
}

func TestNewCSR_Validation(t *testing.T) {
	tests := []struct {
		name   string
		rows   int
		cols   int
		rowPtr []int
		colInd []int
		val    []float64
		want   error
	}{
		{
			name: "bad rowptr length",
			rows: 2, cols: 2,
			rowPtr: []int{0, 1},
			colInd: []int{0},
			val:    []float64{1},
			want:   sparse.ErrBadShape,
		},
		{
			name: "rowptr does not start at zero",
			rows: 1, cols: 1,
			rowPtr: []int{1, 1},
			colInd: []int{},
			val:    []float64{},
			want:   sparse.ErrBadShape,
		},
		{
			name: "decreasing rowptr",
			rows: 2, cols: 2,
			rowPtr: []int{0, 2, 1},
			colInd: []int{0, 1},
			val:    []float64{1, 2},
			want:   sparse.ErrBadShape,
		},
		{
			name: "column out of range",
			rows: 1, cols: 2,
			rowPtr: []int{0, 1},
			colInd: []int{2},
			val:    []float64{1},
			want:   sparse.ErrBadIndex,
		},
		{
			name: "val length mismatch",
			rows: 1, cols: 2,
			rowPtr: []int{0, 1},
			colInd: []int{0},
			val:    []float64{1, 2},
			want:   sparse.ErrBadShape,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sparse.NewCSR(tc.rows, tc.cols, tc.rowPtr, tc.colInd, tc.val)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestIdentity(t *testing.T) {
	id := sparse.Identity(4)
	assert.Equal(t, 4, id.NNZ())
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1.0, id.At(i, i))
	}

	x := []float64{3, 1, 4, 1}
	y := make([]float64, 4)
	require.NoError(t, id.MulVec(parallel.Serial(), x, y))
	assert.Equal(t, x, y)
}

func TestZeros(t *testing.T) {
	z := sparse.Zeros(3, 5)
	rows, cols := z.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 5, cols)
	assert.Equal(t, 0, z.NNZ())

	y := []float64{7, 7, 7}
	require.NoError(t, z.MulVec(parallel.Serial(), make([]float64, 5), y))
	assert.Equal(t, []float64{0, 0, 0}, y)
}

func TestFromEntries_SumsDuplicatesAndSorts(t *testing.T) {
	a, err := sparse.FromEntries(2, 3, []sparse.Entry{
		{Row: 1, Col: 2, Val: 5},
		{Row: 0, Col: 1, Val: 1},
		{Row: 0, Col: 0, Val: 2},
		{Row: 0, Col: 1, Val: 3}, // duplicate of (0,1)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3}, a.RowPtr)
	assert.Equal(t, []int{0, 1, 2}, a.ColInd)
	assert.Equal(t, []float64{2, 4, 5}, a.Val)
}

func TestFromEntries_RejectsOutOfRange(t *testing.T) {
	_, err := sparse.FromEntries(2, 2, []sparse.Entry{{Row: 2, Col: 0, Val: 1}})
	assert.ErrorIs(t, err, sparse.ErrBadIndex)
}

func TestMulVec(t *testing.T) {
	a := buildArrow(t)
	x := []float64{1, 2, 3}
	y := make([]float64, 3)
	require.NoError(t, a.MulVec(parallel.Serial(), x, y))
	assert.InDeltaSlice(t, []float64{4 - 2 - 3, -1 + 8, -1 + 12}, y, 1e-15)

	// Parallel execution must agree with serial bit for bit on this input.
	yp := make([]float64, 3)
	require.NoError(t, a.MulVec(parallel.Policy{Workers: 4, Threshold: 1}, x, yp))
	assert.Equal(t, y, yp)
}

func TestMulVec_LengthChecks(t *testing.T) {
	a := buildArrow(t)
	err := a.MulVec(parallel.Serial(), []float64{1, 2}, make([]float64, 3))
	assert.ErrorIs(t, err, sparse.ErrVectorLength)

	err = a.MulVec(parallel.Serial(), []float64{1, 2, 3}, make([]float64, 2))
	assert.ErrorIs(t, err, sparse.ErrVectorLength)
}

func TestResidual(t *testing.T) {
	a := buildArrow(t)
	x := []float64{1, 1, 1}
	b := []float64{5, 5, 5}
	r := make([]float64, 3)
	require.NoError(t, a.Residual(parallel.Serial(), b, x, r))
	// A·1 = (2, 3, 3), so r = (3, 2, 2).
	assert.InDeltaSlice(t, []float64{3, 2, 2}, r, 1e-15)
}

func TestClone_Independent(t *testing.T) {
	a := buildArrow(t)
	b := a.Clone()
	b.Val[0] = 99

	assert.Equal(t, 4.0, a.At(0, 0))
	assert.Equal(t, 99.0, b.At(0, 0))
}
