package sparse_test

import (
	"testing"

	"github.com/katalvlaran/amg/parallel"
	"github.com/katalvlaran/amg/sparse"
)

// lap1D builds the n-node 1D Laplacian stencil (2 on the diagonal, -1 off)
// without going through FromEntries, so benchmarks measure only the
// operation under test.
func lap1D(n int) *sparse.CSR {
	rowPtr := make([]int, n+1)
	colInd := make([]int, 0, 3*n)
	val := make([]float64, 0, 3*n)
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
	a, err := sparse.NewCSR(n, n, rowPtr, colInd, val)
	if err != nil {
		panic(err)
	}

	return a
}

var (
	sinkCSR *sparse.CSR
	sinkF64 float64
)

func BenchmarkMulVec(b *testing.B) {
	const n = 1 << 14
	a := lap1D(n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i % 7)
	}
	pol := parallel.Serial()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.MulVec(pol, x, y)
	}
	sinkF64 = y[0]
}

func BenchmarkMulVec_Parallel(b *testing.B) {
	const n = 1 << 16
	a := lap1D(n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i % 7)
	}
	pol := parallel.Default()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.MulVec(pol, x, y)
	}
	sinkF64 = y[0]
}

func BenchmarkTranspose(b *testing.B) {
	a := lap1D(1 << 14)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sinkCSR = a.Transpose()
	}
}

func BenchmarkMul_Tridiagonal(b *testing.B) {
	a := lap1D(1 << 12)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := a.Mul(a)
		if err != nil {
			b.Fatal(err)
		}
		sinkCSR = c
	}
}
