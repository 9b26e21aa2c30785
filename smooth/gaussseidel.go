package smooth

import "github.com/james-bowman/amg/sparse"

// Order selects the row traversal order of a Gauss-Seidel/SOR sweep.
type Order int

const (
	// Forward sweeps rows 0..n-1.
	Forward Order = iota
	// Backward sweeps rows n-1..0.
	Backward
)

// GaussSeidel applies nu sweeps of (forward or backward) SOR relaxation in
// place to x, requiring a must expose CSR-style row access (RowNNZ/
// DoRowNonZero) since the update for row i needs the already-updated values
// of other rows in the same sweep:
//
//	x_i <- (1-omega)*x_i + omega*(b_i - sum_{j!=i} a_ij*x_j)/a_ii
//
// omega = 1 gives plain Gauss-Seidel.
func GaussSeidel(a *sparse.CSR, b, x []float64, omega float64, nu int, order Order) error {
	n, _ := a.Dims()
	for sweep := 0; sweep < nu; sweep++ {
		if order == Forward {
			for i := 0; i < n; i++ {
				if err := relaxRow(a, b, x, omega, i); err != nil {
					return err
				}
			}
		} else {
			for i := n - 1; i >= 0; i-- {
				if err := relaxRow(a, b, x, omega, i); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// SSOR applies nu "full" symmetric SOR iterations (each a forward SOR sweep
// immediately followed by a backward SOR sweep, per spec §4.2) in place.
func SSOR(a *sparse.CSR, b, x []float64, omega float64, nu int) error {
	n, _ := a.Dims()
	for sweep := 0; sweep < nu; sweep++ {
		for i := 0; i < n; i++ {
			if err := relaxRow(a, b, x, omega, i); err != nil {
				return err
			}
		}
		for i := n - 1; i >= 0; i-- {
			if err := relaxRow(a, b, x, omega, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// Restricted applies nu forward SOR sweeps but only updates rows whose
// index is in the supplied active set (C-only or F-only "restricted
// Gauss-Seidel" per spec §4.2); all other rows' values are left untouched
// but still contribute to the residual sums of active rows.
func Restricted(a *sparse.CSR, b, x []float64, omega float64, nu int, active []bool) error {
	n, _ := a.Dims()
	for sweep := 0; sweep < nu; sweep++ {
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			if err := relaxRow(a, b, x, omega, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func relaxRow(a *sparse.CSR, b, x []float64, omega float64, i int) error {
	var sigma, aii float64
	a.DoRowNonZero(i, func(_, j int, v float64) {
		if j == i {
			aii = v
			return
		}
		sigma += v * x[j]
	})
	if aii == 0 {
		return ErrSingularPivot
	}
	x[i] = (1-omega)*x[i] + omega*(b[i]-sigma)/aii
	return nil
}
