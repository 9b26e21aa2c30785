package smooth

import (
	"errors"

	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/mat"
)

// ErrNotFactored is returned when an ILU smoother is applied through an ILU
// that NewILU did not build (for example a nil *ILU).
var ErrNotFactored = errors.New("smooth: ILU not factored")

// ILU is a no-fill incomplete LU factorization (ILU(0), Saad's dot-product
// variant restricted to the sparsity pattern of the factored matrix) used as
// a smoother: a smoothing step is one forward-then-backward triangular solve
// against the current residual, added to x (spec §4.2). Unlike the
// Cholesky factorization this module's coarsest-level direct solver uses,
// ILU(0) does not require symmetry or positive-definiteness and keeps the
// sparsity pattern of the original matrix (no extra fill), making it cheap
// enough to run once per level as a relaxation step rather than as an exact
// solve.
type ILU struct {
	l, u *sparse.CSR
	n    int
}

// NewILU factorizes a into L (unit lower triangular) and U (upper
// triangular) restricted to a's own nonzero pattern, following the same
// "sparse dot product" structure as the Cholesky factorization this module
// builds on, generalized to the asymmetric case.
func NewILU(a *sparse.CSR) (*ILU, error) {
	n, m := a.Dims()
	if n != m {
		panic(mat.ErrShape)
	}

	rows := make([]map[int]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make(map[int]float64, a.RowNNZ(i)+1)
		a.DoRowNonZero(i, func(_, j int, v float64) {
			rows[i][j] = v
		})
	}

	for i := 0; i < n; i++ {
		for k := 0; k < i; k++ {
			v, ok := rows[i][k]
			if !ok || v == 0 {
				continue
			}
			ukk, ok := rows[k][k]
			if !ok || ukk == 0 {
				return nil, ErrSingularPivot
			}
			factor := v / ukk
			rows[i][k] = factor
			for j, ukj := range rows[k] {
				if j <= k {
					continue
				}
				if _, inPattern := rows[i][j]; inPattern {
					rows[i][j] -= factor * ukj
				}
			}
		}
	}

	lcoo := sparse.NewCOO(n, n, nil, nil, nil)
	ucoo := sparse.NewCOO(n, n, nil, nil, nil)
	for i := 0; i < n; i++ {
		lcoo.Set(i, i, 1)
		for j, v := range rows[i] {
			switch {
			case j < i:
				lcoo.Set(i, j, v)
			case j == i:
				if v == 0 {
					return nil, ErrSingularPivot
				}
				ucoo.Set(i, j, v)
			default:
				ucoo.Set(i, j, v)
			}
		}
	}

	return &ILU{l: lcoo.ToCSR(), u: ucoo.ToCSR(), n: n}, nil
}

// Smooth applies one ILU smoothing sweep in place: solve L*U*e = r for the
// current residual r = b - A*x, then x <- x + e.
func (f *ILU) Smooth(a sparse.Operator, b, x []float64) error {
	if f == nil || f.l == nil || f.u == nil {
		return ErrNotFactored
	}

	r := make([]float64, f.n)
	neg := make([]float64, f.n)
	for i := range x {
		neg[i] = -x[i]
	}
	copy(r, b)
	a.MulVecTo(r, false, neg)

	y := make([]float64, f.n)
	for i := 0; i < f.n; i++ {
		sum := 0.0
		f.l.DoRowNonZero(i, func(_, j int, v float64) {
			if j < i {
				sum += v * y[j]
			}
		})
		y[i] = r[i] - sum
	}

	e := make([]float64, f.n)
	for i := f.n - 1; i >= 0; i-- {
		var sum, uii float64
		f.u.DoRowNonZero(i, func(_, j int, v float64) {
			switch {
			case j == i:
				uii = v
			case j > i:
				sum += v * e[j]
			}
		})
		if uii == 0 {
			return ErrSingularPivot
		}
		e[i] = (y[i] - sum) / uii
	}

	for i := range x {
		x[i] += e[i]
	}
	return nil
}
