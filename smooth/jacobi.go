// Package smooth implements the AMG smoother suite (spec §4.2): weighted
// Jacobi, Gauss-Seidel/SOR/SSOR (with restricted and ordering variants),
// polynomial (Chebyshev-like), ILU-as-smoother, and additive Schwarz. Jacobi
// and Polynomial operate against sparse.Operator; the Gauss-Seidel family,
// the restricted variants, ILU and the Schwarz block setup take a
// *sparse.CSR.
package smooth

import (
	"errors"

	"github.com/james-bowman/amg/sparse"
)

// ErrSingularPivot is returned by smoothers that divide by a diagonal or
// triangular pivot when that pivot is (numerically) zero.
var ErrSingularPivot = errors.New("smooth: singular pivot")

// Jacobi applies nu sweeps of weighted Jacobi relaxation in place:
//
//	x <- x + omega * D^-1 * (b - A*x)
//
// to x, given a's diagonal diag (as returned by sparse.Operator.Diagonal).
// Jacobi requires a scratch vector of the same length as x; scratch is
// reused across sweeps and may be supplied by the caller to avoid repeated
// allocation (pass nil to allocate internally).
func Jacobi(a sparse.Operator, diag []float64, b, x []float64, omega float64, nu int, scratch []float64) error {
	n := len(x)
	if cap(scratch) < n {
		scratch = make([]float64, n)
	}
	scratch = scratch[:n]
	r := make([]float64, n)

	for sweep := 0; sweep < nu; sweep++ {
		for i := range scratch {
			scratch[i] = -x[i]
		}
		for i := range r {
			r[i] = b[i]
		}
		a.MulVecTo(r, false, scratch)
		for i := range r {
			if diag[i] == 0 {
				return ErrSingularPivot
			}
			x[i] += omega * r[i] / diag[i]
		}
	}
	return nil
}
