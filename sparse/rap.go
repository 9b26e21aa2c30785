package sparse

import (
	"github.com/james-bowman/amg/blas"
)

// RAP computes the Galerkin triple product R*A*P (restriction * fine operator *
// prolongation) and returns the resulting coarse-level operator as a CSR matrix.
// This is the central operation of the AMG setup phase: given a fine-level
// operator A and a prolongation operator P (with restriction R, conventionally
// R = P^T for symmetric problems), it builds the coarse-level operator used by
// the next level of the hierarchy.
//
// RAP is computed as two sparse matrix products (R*A then (RA)*P) using
// Gustavson's row-wise algorithm (blas.Dusgemm), which builds each output row
// in a single pass through a dense accumulator.
func RAP(r, a, p *CSR) *CSR {
	ra := blas.Dusgemm(r.RawMatrix(), a.RawMatrix())
	rap := blas.Dusgemm(ra, p.RawMatrix())
	return NewCSR(rap.I, rap.J, rap.Indptr, rap.Ind, rap.Data)
}

// RAPAgg computes the Galerkin triple product where P (and R = P^T) is a
// boolean (0/1) aggregation operator, i.e. each row of P has exactly one
// non-zero entry of value 1.  In this case R*A*P reduces to summing blocks of
// A's rows and columns according to the aggregate each fine node belongs to,
// which is substantially cheaper than the general sparse-sparse product used
// by RAP. aggregate[i] gives the coarse aggregate index fine node i belongs
// to, and nAgg is the number of aggregates (coarse dimension).
func RAPAgg(a *CSR, aggregate []int, nAgg int) *CSR {
	coo := NewCOO(nAgg, nAgg, nil, nil, nil)
	a.DoNonZero(func(i, j int, v float64) {
		if v == 0 {
			return
		}
		coo.Set(aggregate[i], aggregate[j], v)
	})
	return coo.ToCSR()
}
