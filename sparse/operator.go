package sparse

import (
	"github.com/james-bowman/amg/blas"
	"gonum.org/v1/gonum/mat"
)

// Operator is the common interface smoothers and Krylov methods are written
// against, rather than against a specific sparse storage format.  It exposes
// just enough of a linear operator's behaviour - its shape, the ability to
// apply it (or its transpose) to a vector, and access to its diagonal - for
// the smoothing and Krylov layers to share one implementation instead of one
// per concrete matrix format.
type Operator interface {
	mat.Matrix

	// MulVecTo computes dst += A*x (or dst += A^T*x if trans is true) and
	// stores the result in dst.
	MulVecTo(dst []float64, trans bool, x []float64)

	// Diagonal returns the diagonal elements of the operator.  The returned
	// slice is a new copy and safe to mutate.
	Diagonal() []float64
}

var (
	_ Operator = (*CSR)(nil)
	_ Operator = (*CSC)(nil)
	_ Operator = (*COO)(nil)
	_ Operator = (*DIA)(nil)
)

// MulMatRawVec computes y = A*x for the receiver operating directly on raw
// float64 slices, bypassing the mat.Vector/mat.VecDense wrapping MulMatVec
// requires.  y is overwritten, not accumulated into.
func MulMatRawVec(a Operator, x []float64, y []float64) {
	for i := range y {
		y[i] = 0
	}
	a.MulVecTo(y, false, x)
}

// MulMatVec computes y = alpha*A*x (or alpha*A^T*x if transA) + y and returns
// the result as a *mat.VecDense.  If y is nil it is treated as the zero
// vector.  This is a dense-result convenience wrapper around Operator's
// accumulating MulVecTo, used where callers need a BLAS gemv-style call
// rather than direct access to a pre-allocated workspace.
func MulMatVec(transA bool, alpha float64, a BlasCompatibleSparser, x mat.Vector, y *mat.VecDense) *mat.VecDense {
	ar, ac := a.Dims()
	n := ar
	if transA {
		n = ac
	}

	xd := make([]float64, x.Len())
	for i := range xd {
		xd[i] = alpha * x.AtVec(i)
	}

	dst := make([]float64, n)
	if y != nil {
		for i := range dst {
			dst[i] = y.AtVec(i)
		}
	}

	a.MulVecTo(dst, transA, xd)

	return mat.NewVecDense(n, dst)
}

// MulMatMat computes C = alpha*A*B (or alpha*A^T*B if transA) + C and returns
// the result as a *mat.Dense.  If c is nil it is treated as the zero matrix.
// It is the dense-result counterpart to blas.Dusmm, applying Operator's
// MulVecTo one column of B at a time.
func MulMatMat(transA bool, alpha float64, a BlasCompatibleSparser, b mat.Matrix, c *mat.Dense) *mat.Dense {
	ar, ac := a.Dims()
	n, k := ar, ac
	if transA {
		n, k = ac, ar
	}

	br, bc := b.Dims()
	if br != k {
		panic(mat.ErrShape)
	}

	if c == nil {
		c = mat.NewDense(n, bc, nil)
	}

	x := make([]float64, br)
	dst := make([]float64, n)
	for col := 0; col < bc; col++ {
		for i := 0; i < br; i++ {
			x[i] = alpha * b.At(i, col)
		}
		for i := 0; i < n; i++ {
			dst[i] = c.At(i, col)
		}
		a.MulVecTo(dst, transA, x)
		for i := 0; i < n; i++ {
			c.Set(i, col, dst[i])
		}
	}

	return c
}

// MulVecTo computes dst += A*x (or dst += A^T*x if trans) for the receiver.
func (c *CSR) MulVecTo(dst []float64, trans bool, x []float64) {
	if trans {
		if c.matrix.J != len(dst) || c.matrix.I != len(x) {
			panic(mat.ErrShape)
		}
		for i := 0; i < c.matrix.I; i++ {
			xi := x[i]
			if xi == 0 {
				continue
			}
			for k := c.matrix.Indptr[i]; k < c.matrix.Indptr[i+1]; k++ {
				dst[c.matrix.Ind[k]] += c.matrix.Data[k] * xi
			}
		}
		return
	}

	if c.matrix.J != len(x) || c.matrix.I != len(dst) {
		panic(mat.ErrShape)
	}
	blas.Dusmv(false, 1, &c.matrix, x, 1, dst, 1)
}

// Diagonal returns a copy of the diagonal elements of the receiver.  The
// matrix need not be square only up to min(rows, cols) entries are returned.
func (c *CSR) Diagonal() []float64 {
	n := c.matrix.I
	if c.matrix.J < n {
		n = c.matrix.J
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = c.At(i, i)
	}
	return d
}

// MulVecTo computes dst += A*x (or dst += A^T*x if trans) for the receiver.
func (c *CSC) MulVecTo(dst []float64, trans bool, x []float64) {
	c.ToCSR().MulVecTo(dst, !trans, x)
}

// Diagonal returns a copy of the diagonal elements of the receiver.
func (c *CSC) Diagonal() []float64 {
	r, cl := c.Dims()
	n := r
	if cl < n {
		n = cl
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = c.At(i, i)
	}
	return d
}

// MulVecTo computes dst += A*x (or dst += A^T*x if trans) for the receiver.
func (d *DIA) MulVecTo(dst []float64, trans bool, x []float64) {
	r, c := d.m, d.n
	if trans {
		r, c = c, r
	}
	if c != len(x) || r != len(dst) {
		panic(mat.ErrShape)
	}
	for i, v := range d.data {
		dst[i] += v * x[i]
	}
}

// Diagonal returns a copy of the diagonal elements of the receiver.
func (c *COO) Diagonal() []float64 {
	n := c.r
	if c.c < n {
		n = c.c
	}
	d := make([]float64, n)
	for i := 0; i < len(c.data); i++ {
		if c.rows[i] == c.cols[i] && c.rows[i] < n {
			d[c.rows[i]] += c.data[i]
		}
	}
	return d
}
