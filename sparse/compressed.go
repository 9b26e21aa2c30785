package sparse

import (
	"github.com/james-bowman/amg/blas"
	"gonum.org/v1/gonum/mat"
)

// BlasCompatibleSparser is implemented by sparse types able to expose a
// blas.SparseMatrix (CSR and CSC, which store one directly, and COO), making
// their raw arrays available
// for use by the blas sparse BLAS kernels, as well as being usable as an
// Operator by smoothers and Krylov solvers.
type BlasCompatibleSparser interface {
	Sparser
	Operator
	RawMatrix() *blas.SparseMatrix
}

// CSR is a Compressed Sparse Row format sparse matrix implementation (sometimes called Compressed Row
// Storage (CRS) format) and implements the Matrix interface from gonum/mat.  This allows large sparse
// (mostly zero values) matrices to be stored efficiently in memory (only storing non-zero values).
// CSR matrices are poor for constructing sparse matrices incrementally but very good for arithmetic
// operations. CSR, and their sibling CSC, matrices are similar to COOrdinate matrices except the row
// index slice is compressed.  Rather than storing the row indices of each non zero value (length == NNZ)
// each element, i, of the slice contains the cumulative count of non zero values in the matrix up to
// row i-1 of the matrix.  It should be clear that CSR is like CSC except the slices are row major order
// rather than column major and CSC is essentially the transpose of a CSR.
// As this type implements the gonum mat.Matrix interface, it may be used with any of the Gonum mat
// functions that accept Matrix types as parameters in place of other matrix types included in the Gonum
// mat package e.g. mat.Dense.
type CSR struct {
	matrix blas.SparseMatrix
}

// NewCSR creates a new Compressed Sparse Row format sparse matrix.
// The matrix is initialised to the size of the specified r * c dimensions (rows * columns)
// with the specified slices containing row pointers and cols indexes of non-zero elements
// and the non-zero data values themselves respectively.  The supplied slices will be used as the
// backing storage to the matrix so changes to values of the slices will be reflected in the created matrix
// and vice versa.
func NewCSR(r int, c int, ia []int, ja []int, data []float64) *CSR {
	if uint(r) < 0 {
		panic(mat.ErrRowAccess)
	}
	if uint(c) < 0 {
		panic(mat.ErrColAccess)
	}

	return &CSR{
		matrix: blas.SparseMatrix{
			I: r, J: c,
			Indptr: ia,
			Ind:    ja,
			Data:   data,
		},
	}
}

// NNZ returns the Number of Non Zero elements in the sparse matrix.
func (c *CSR) NNZ() int {
	return len(c.matrix.Data)
}

// Dims returns the size of the matrix as the number of rows and columns
func (c *CSR) Dims() (int, int) {
	return c.matrix.I, c.matrix.J
}

// At returns the element of the matrix located at row i and column j.  At will panic if specified values
// for i or j fall outside the dimensions of the matrix.
func (c *CSR) At(i, j int) float64 {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.I) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) < 0 || uint(j) >= uint(c.matrix.J) {
		panic(mat.ErrColAccess)
	}
	return c.matrix.At(i, j)
}

// Set sets the element of the matrix located at row i and column j to v, inserting
// into the sparsity pattern if necessary.
func (c *CSR) Set(i, j int, v float64) {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.I) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) < 0 || uint(j) >= uint(c.matrix.J) {
		panic(mat.ErrColAccess)
	}
	c.matrix.Set(i, j, v)
}

// RawMatrix returns a pointer to the underlying blas sparse matrix, exposing the
// raw row pointer/index/data arrays for use with the blas sparse BLAS kernels.
func (c *CSR) RawMatrix() *blas.SparseMatrix {
	return &c.matrix
}

// RowNNZ returns the Number of Non Zero values in the specified row i.  RowNNZ will panic if i is out of range.
func (c *CSR) RowNNZ(i int) int {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.I) {
		panic(mat.ErrRowAccess)
	}
	return c.matrix.Indptr[i+1] - c.matrix.Indptr[i]
}

// RowView returns a sparse Vector view of row i of the receiver, sharing the
// underlying storage.  Mutating the returned Vector's values mutates the receiver.
func (c *CSR) RowView(i int) mat.Vector {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.I) {
		panic(mat.ErrRowAccess)
	}
	start, end := c.matrix.Indptr[i], c.matrix.Indptr[i+1]
	return NewVector(c.matrix.J, c.matrix.Ind[start:end:end], c.matrix.Data[start:end:end])
}

// DoNonZero calls the function fn for each of the non-zero elements of the receiver.
// The function fn takes a row/column index and the element value.
func (c *CSR) DoNonZero(fn func(i, j int, v float64)) {
	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			fn(i, c.matrix.Ind[j], c.matrix.Data[j])
		}
	}
}

// DoRowNonZero calls the function fn for each of the non-zero elements of row i of the receiver.
func (c *CSR) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.I) {
		panic(mat.ErrRowAccess)
	}
	for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
		fn(i, c.matrix.Ind[j], c.matrix.Data[j])
	}
}

// T transposes the matrix creating a new CSC matrix sharing the same backing data storage but switching
// column and row sizes and index & index pointer slices i.e. rows become columns and columns become rows.
func (c *CSR) T() mat.Matrix {
	return NewCSC(c.matrix.J, c.matrix.I, c.matrix.Indptr, c.matrix.Ind, c.matrix.Data)
}

// ToDense returns a mat.Dense dense format version of the matrix.  The returned mat.Dense
// matrix will not share underlying storage with the receiver nor is the receiver modified by this call.
func (c *CSR) ToDense() *mat.Dense {
	d := mat.NewDense(c.matrix.I, c.matrix.J, nil)

	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			d.Set(i, c.matrix.Ind[j], c.matrix.Data[j])
		}
	}

	return d
}

// ToDOK returns a DOK (Dictionary Of Keys) sparse format version of the matrix.  The returned DOK
// matrix will not share underlying storage with the receiver nor is the receiver modified by this call.
func (c *CSR) ToDOK() *DOK {
	dok := NewDOK(c.matrix.I, c.matrix.J)
	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			dok.Set(i, c.matrix.Ind[j], c.matrix.Data[j])
		}
	}

	return dok
}

// ToCOO returns a COOrdinate sparse format version of the matrix.  The returned COO matrix will
// not share underlying storage with the receiver nor is the receiver modified by this call.
func (c *CSR) ToCOO() *COO {
	rows := make([]int, c.NNZ())
	cols := make([]int, c.NNZ())
	data := make([]float64, c.NNZ())

	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			rows[j] = i
		}
	}

	copy(cols, c.matrix.Ind)
	copy(data, c.matrix.Data)

	return NewCOO(c.matrix.I, c.matrix.J, rows, cols, data)
}

// ToCSR returns the receiver
func (c *CSR) ToCSR() *CSR {
	return c
}

// ToCSC returns a Compressed Sparse Column sparse format version of the matrix.  The returned CSC matrix
// will not share underlying storage with the receiver nor is the receiver modified by this call.
// NB, the current implementation uses COO as an intermediate format so converts to COO before converting
// to CSC.
func (c *CSR) ToCSC() *CSC {
	return c.ToCOO().ToCSC()
}

// ToType returns an alternative format version fo the matrix in the format specified.
func (c *CSR) ToType(matType MatrixType) mat.Matrix {
	return matType.Convert(c)
}

// From sets the receiver to be a CSR copy of the sparsity pattern and values of m.
func (c *CSR) From(m mat.Matrix) {
	if csr, ok := m.(*CSR); ok {
		c.matrix.I, c.matrix.J = csr.matrix.I, csr.matrix.J
		c.matrix.Indptr = append([]int(nil), csr.matrix.Indptr...)
		c.matrix.Ind = append([]int(nil), csr.matrix.Ind...)
		c.matrix.Data = append([]float64(nil), csr.matrix.Data...)
		return
	}

	r, cl := m.Dims()
	coo := NewCOO(r, cl, nil, nil, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < cl; j++ {
			if v := m.At(i, j); v != 0 {
				coo.Set(i, j, v)
			}
		}
	}
	*c = *coo.ToCSR()
}

// CSC is a Compressed Sparse Column format sparse matrix implementation (sometimes called Compressed Column
// Storage (CCS) format) and implements the Matrix interface from gonum/mat.  This allows large sparse
// (mostly zero values) matrices to be stored efficiently in memory (only storing non-zero values).
// CSC matrices are poor for constructing sparse matrices incrementally but very good for arithmetic
// operations. CSC, and their sibling CSR, matrices are similar to COOrdinate matrices except the column
// index slice is compressed. CSC is essentially the transpose of a CSR.
// As this type implements the gonum mat.Matrix interface, it may be used with any of the Gonum mat functions
// that accept Matrix types as parameters in place of other matrix types included in the Gonum mat package
// e.g. mat.Dense.
type CSC struct {
	matrix blas.SparseMatrix
}

// NewCSC creates a new Compressed Sparse Column format sparse matrix.
// The matrix is initialised to the size of the specified r * c dimensions (rows * columns)
// with the specified slices containing column pointers and row indexes of non-zero elements
// and the non-zero data values themselves respectively.  The supplied slices will be used as the
// backing storage to the matrix so changes to values of the slices will be reflected in the created matrix
// and vice versa.
func NewCSC(r int, c int, indptr []int, ind []int, data []float64) *CSC {
	if uint(r) < 0 {
		panic(mat.ErrRowAccess)
	}
	if uint(c) < 0 {
		panic(mat.ErrColAccess)
	}

	return &CSC{
		matrix: blas.SparseMatrix{
			I: c, J: r,
			Indptr: indptr,
			Ind:    ind,
			Data:   data,
		},
	}
}

// NNZ returns the Number of Non Zero elements in the sparse matrix.
func (c *CSC) NNZ() int {
	return len(c.matrix.Data)
}

// Dims returns the size of the matrix as the number of rows and columns
func (c *CSC) Dims() (int, int) {
	return c.matrix.J, c.matrix.I
}

// At returns the element of the matrix located at row i and column j.  At will panic if specified values
// for i or j fall outside the dimensions of the matrix.
func (c *CSC) At(i, j int) float64 {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.J) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) < 0 || uint(j) >= uint(c.matrix.I) {
		panic(mat.ErrColAccess)
	}
	return c.matrix.At(j, i)
}

// Set sets the element of the matrix located at row i and column j to v.
func (c *CSC) Set(i, j int, v float64) {
	if uint(i) < 0 || uint(i) >= uint(c.matrix.J) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) < 0 || uint(j) >= uint(c.matrix.I) {
		panic(mat.ErrColAccess)
	}
	c.matrix.Set(j, i, v)
}

// RawMatrix returns a pointer to the underlying blas sparse matrix (stored column major -
// I is the column count, J the row count - matching the CSR/CSC transpose relationship).
func (c *CSC) RawMatrix() *blas.SparseMatrix {
	return &c.matrix
}

// ColNNZ returns the Number of Non Zero values in the specified column j.
func (c *CSC) ColNNZ(j int) int {
	if uint(j) < 0 || uint(j) >= uint(c.matrix.I) {
		panic(mat.ErrColAccess)
	}
	return c.matrix.Indptr[j+1] - c.matrix.Indptr[j]
}

// DoColNonZero calls the function fn for each of the non-zero elements of column j of the receiver.
func (c *CSC) DoColNonZero(j int, fn func(i, j int, v float64)) {
	if uint(j) < 0 || uint(j) >= uint(c.matrix.I) {
		panic(mat.ErrColAccess)
	}
	for k := c.matrix.Indptr[j]; k < c.matrix.Indptr[j+1]; k++ {
		fn(c.matrix.Ind[k], j, c.matrix.Data[k])
	}
}

// T transposes the matrix creating a new CSR matrix sharing the same backing data storage but switching
// column and row sizes and index & index pointer slices i.e. rows become columns and columns become rows.
func (c *CSC) T() mat.Matrix {
	return NewCSR(c.matrix.I, c.matrix.J, c.matrix.Indptr, c.matrix.Ind, c.matrix.Data)
}

// ToDense returns a mat.Dense dense format version of the matrix.  The returned mat.Dense
// matrix will not share underlying storage with the receiver nor is the receiver modified by this call.
func (c *CSC) ToDense() *mat.Dense {
	d := mat.NewDense(c.matrix.J, c.matrix.I, nil)

	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			d.Set(c.matrix.Ind[j], i, c.matrix.Data[j])
		}
	}

	return d
}

// ToDOK returns a DOK (Dictionary Of Keys) sparse format version of the matrix.
func (c *CSC) ToDOK() *DOK {
	dok := NewDOK(c.matrix.J, c.matrix.I)
	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			dok.Set(c.matrix.Ind[j], i, c.matrix.Data[j])
		}
	}

	return dok
}

// ToCOO returns a COOrdinate sparse format version of the matrix.
func (c *CSC) ToCOO() *COO {
	rows := make([]int, c.NNZ())
	cols := make([]int, c.NNZ())
	data := make([]float64, c.NNZ())

	for i := 0; i < c.matrix.I; i++ {
		for j := c.matrix.Indptr[i]; j < c.matrix.Indptr[i+1]; j++ {
			cols[j] = i
		}
	}

	copy(rows, c.matrix.Ind)
	copy(data, c.matrix.Data)

	return NewCOO(c.matrix.J, c.matrix.I, rows, cols, data)
}

// ToCSR returns a Compressed Sparse Row sparse format version of the matrix.  The returned CSR matrix
// will not share underlying storage with the receiver nor is the receiver modified by this call.
// NB, the current implementation uses COO as an intermediate format so converts to COO before converting
// to CSR.
func (c *CSC) ToCSR() *CSR {
	return c.ToCOO().ToCSR()
}

// ToCSC returns the receiver
func (c *CSC) ToCSC() *CSC {
	return c
}

// ToType returns an alternative format version fo the matrix in the format specified.
func (c *CSC) ToType(matType MatrixType) mat.Matrix {
	return matType.Convert(c)
}
