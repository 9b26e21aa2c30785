package blas

// Dusmm (dense matrix / sparse matrix multiply) multiplies the sparse matrix
// a by the dense matrix b (stored row major with row stride ldb) and adds the
// result, scaled by alpha, into the dense matrix c (stored row major with
// row stride ldc).  It is implemented as a sequence of Dusmv calls, one per
// column of b/c.
func Dusmm(transA bool, alpha float64, a *SparseMatrix, b []float64, bc int, ldb int, c []float64, ldc int) {
	x := make([]float64, ldb)
	y := make([]float64, ldc)
	for col := 0; col < bc; col++ {
		for i := range x {
			x[i] = b[i*ldb+col]
		}
		for i := range y {
			y[i] = c[i*ldc+col]
		}
		Dusmv(transA, alpha, a, x, 1, y, 1)
		for i := range y {
			c[i*ldc+col] = y[i]
		}
	}
}

// Dusgemm multiplies two sparse matrices x (m x k) and y (k x n) using
// Gustavson's row-wise algorithm with a dense accumulator row reused between
// rows, and returns the product as a new row-compressed SparseMatrix.  It is
// the raw-array counterpart used to implement the Galerkin triple product
// R*A*P one factor at a time: Dusgemm(R, A) followed by Dusgemm(that, P).
func Dusgemm(x, y *SparseMatrix) *SparseMatrix {
	if x.J != y.I {
		panic("sparse/blas: index out of range")
	}

	m, n := x.I, y.J
	indptr := make([]int, m+1)
	var ind []int
	var data []float64

	acc := make([]float64, n)
	touched := make([]int, 0, n)
	marked := make([]bool, n)

	for i := 0; i < m; i++ {
		touched = touched[:0]
		for xk := x.Indptr[i]; xk < x.Indptr[i+1]; xk++ {
			k := x.Ind[xk]
			xv := x.Data[xk]
			if xv == 0 {
				continue
			}
			for yk := y.Indptr[k]; yk < y.Indptr[k+1]; yk++ {
				j := y.Ind[yk]
				if !marked[j] {
					marked[j] = true
					touched = append(touched, j)
				}
				acc[j] += xv * y.Data[yk]
			}
		}

		indptr[i] = len(ind)
		for _, j := range touched {
			if v := acc[j]; v != 0 {
				ind = append(ind, j)
				data = append(data, v)
			}
			acc[j] = 0
			marked[j] = false
		}
	}
	indptr[m] = len(ind)

	return &SparseMatrix{I: m, J: n, Indptr: indptr, Ind: ind, Data: data}
}
