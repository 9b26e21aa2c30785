package sparse

import (
	"gonum.org/v1/gonum/mat"
)

// DIA matrix type is a specialised matrix designed to store DIAgonal values of
// (typically square, but not necessarily) matrices (all zero values except
// along the diagonal running top left to bottom right).  The DIA matrix type
// is specifically designed to take advantage of the sparsity pattern of
// diagonal operators such as scaling/mass matrices used by AMG smoothers.
type DIA struct {
	m, n int
	data []float64
}

// NewDIA creates a new DIAgonal format sparse matrix of size r * c (rows *
// columns) with the specified slice containing its diagonal values.  The
// diagonal slice must have length min(r, c) and is used as the backing slice
// to the matrix so changes to values of the slice will be reflected in the
// matrix.
func NewDIA(r, c int, diagonal []float64) *DIA {
	mn := r
	if c < mn {
		mn = c
	}
	if uint(r) < 0 || uint(c) < 0 || mn != len(diagonal) {
		panic(mat.ErrRowAccess)
	}

	return &DIA{m: r, n: c, data: diagonal}
}

// Dims returns the size of the matrix as the number of rows and columns
func (d *DIA) Dims() (int, int) {
	return d.m, d.n
}

// At returns the element of the matrix located at row i and column j.  At will panic if specified values
// for i or j fall outside the dimensions of the matrix.
func (d *DIA) At(i, j int) float64 {
	if uint(i) < 0 || uint(i) >= uint(d.m) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) < 0 || uint(j) >= uint(d.n) {
		panic(mat.ErrColAccess)
	}

	if i == j && i < len(d.data) {
		return d.data[i]
	}
	return 0
}

// T returns the matrix transposed.  For a rectangular DIA this swaps the
// reported dimensions; the diagonal entries themselves are unaffected by
// transposition.
func (d *DIA) T() mat.Matrix {
	if d.m == d.n {
		return d
	}
	return &DIA{m: d.n, n: d.m, data: d.data}
}

// NNZ returns the Number of Non Zero elements in the sparse matrix.
func (d *DIA) NNZ() int {
	return len(d.data)
}

// Diagonal returns the diagonal values of the matrix from top left to bottom right.
// The values are returned as a slice backed by the same array as backing the receiver
// so changes to values in the returned slice will be reflected in the receiver.
func (d *DIA) Diagonal() []float64 {
	return d.data
}

// RowView slices the matrix and returns a view of row i as a sparse Vector
// with at most one non-zero element (the diagonal entry).
func (d *DIA) RowView(i int) mat.Vector {
	if uint(i) < 0 || uint(i) >= uint(d.m) {
		panic(mat.ErrRowAccess)
	}
	if i < len(d.data) {
		if v := d.data[i]; v != 0 {
			return NewVector(d.n, []int{i}, []float64{v})
		}
	}
	return NewVector(d.n, nil, nil)
}

// ColView slices the matrix and returns a view of column j as a sparse Vector
// with at most one non-zero element (the diagonal entry).
func (d *DIA) ColView(j int) mat.Vector {
	if uint(j) < 0 || uint(j) >= uint(d.n) {
		panic(mat.ErrColAccess)
	}
	if j < len(d.data) {
		if v := d.data[j]; v != 0 {
			return NewVector(d.m, []int{j}, []float64{v})
		}
	}
	return NewVector(d.m, nil, nil)
}
