package poisson

import (
	"math/rand"

	"github.com/katalvlaran/amg/sparse"
)

// Lap1D returns the n×n second-difference operator on a uniform 1D grid
// with homogeneous Dirichlet boundaries: 2 on the diagonal, -1 towards
// both grid neighbours. Rows come out with ascending column indices.
// It panics if n < 1.
func Lap1D(n int) *sparse.CSR {
	if n < 1 {
		panic("poisson: grid size must be positive")
	}

	nnz := 3*n - 2
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, nnz)
	val := make([]float64, 0, nnz)
	for i := 0; i < n; i++ {
		if i > 0 {
			colInd = append(colInd, i-1)
			val = append(val, -1)
		}
		colInd = append(colInd, i)
		val = append(val, 2)
		if i < n-1 {
			colInd = append(colInd, i+1)
			val = append(val, -1)
		}
		rowPtr[i+1] = len(colInd)
	}

	return &sparse.CSR{Rows: n, Cols: n, RowPtr: rowPtr, ColInd: colInd, Val: val}
}

// Lap2D returns the five-point Laplacian on an nx×ny uniform grid with
// homogeneous Dirichlet boundaries, vertices numbered row by row: 4 on
// the diagonal, -1 towards the four grid neighbours. It panics if
// nx < 1 or ny < 1.
func Lap2D(nx, ny int) *sparse.CSR {
	if nx < 1 || ny < 1 {
		panic("poisson: grid size must be positive")
	}

	n := nx * ny
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, 5*n)
	val := make([]float64, 0, 5*n)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := y*nx + x
			if y > 0 {
				colInd = append(colInd, i-nx)
				val = append(val, -1)
			}
			if x > 0 {
				colInd = append(colInd, i-1)
				val = append(val, -1)
			}
			colInd = append(colInd, i)
			val = append(val, 4)
			if x < nx-1 {
				colInd = append(colInd, i+1)
				val = append(val, -1)
			}
			if y < ny-1 {
				colInd = append(colInd, i+nx)
				val = append(val, -1)
			}
			rowPtr[i+1] = len(colInd)
		}
	}

	return &sparse.CSR{Rows: n, Cols: n, RowPtr: rowPtr, ColInd: colInd, Val: val}
}

// Ones returns the length-n all-ones vector, the constant right-hand
// side of the model problems and the default near-kernel candidate.
func Ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}

	return v
}

// Rand returns a length-n vector of uniform [0,1) entries drawn from a
// deterministic seed, for right-hand sides that mix every frequency.
func Rand(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64()
	}

	return v
}
