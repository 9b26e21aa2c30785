package smooth

import (
	"math"

	"github.com/james-bowman/amg/sparse"
)

// Polynomial applies a degree-d truncated Chebyshev-style polynomial
// smoother in D^-1*A (spec §4.2), targeting the spectral interval
// [lambdaMin, lambdaMax] of the diagonally-scaled operator (supplied by the
// caller; the hierarchy passes a Gershgorin bound as lambdaMax and
// lambdaMax/4 as lambdaMin). It runs degree weighted-Jacobi
// correction steps
//
//	x <- x + w_k * D^-1 * (b - A*x)
//
// whose weights w_k = 1/(theta - delta*cos((2k-1)*pi/(2*degree))), k=1..d,
// are the reciprocals of the degree roots of the Chebyshev polynomial T_d
// mapped from [-1,1] onto [lambdaMin, lambdaMax] (theta, delta the interval
// midpoint/half-width) - so, unlike a single sweep of plain weighted
// Jacobi, the overall degree-d correction damps the whole spectral interval
// rather than just the unweighted high-frequency end, while remaining as
// embarrassingly parallel as Jacobi (no row-to-row dependency).
func Polynomial(a sparse.Operator, diag []float64, b, x []float64, lambdaMin, lambdaMax float64, degree int) error {
	if degree < 1 {
		return nil
	}
	theta := (lambdaMax + lambdaMin) / 2
	delta := (lambdaMax - lambdaMin) / 2

	n := len(x)
	r := make([]float64, n)
	neg := make([]float64, n)

	for k := 1; k <= degree; k++ {
		root := theta - delta*math.Cos((2*float64(k)-1)*math.Pi/(2*float64(degree)))
		if root == 0 {
			return ErrSingularPivot
		}
		w := 1 / root

		for i := range neg {
			neg[i] = -x[i]
		}
		copy(r, b)
		a.MulVecTo(r, false, neg)

		for i := range x {
			if diag[i] == 0 {
				return ErrSingularPivot
			}
			x[i] += w * r[i] / diag[i]
		}
	}

	return nil
}
