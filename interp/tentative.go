package interp

import "github.com/james-bowman/amg/sparse"

// Tentative builds the boolean tentative prolongation operator for
// unsmoothed aggregation (spec §4.6): p_ij = 1 iff fine unknown i belongs to
// aggregate j, so P has exactly one nonzero per row. If kernel is non-nil it
// is used as a near-kernel basis vector (one entry per fine unknown): row i's
// entry is kernel[i] instead of 1, so P applied to the coarse constant
// vector reproduces kernel, preserving the supplied null-space mode (rows
// where kernel[i] is 0 are left empty).
func Tentative(agg []int, nAgg int, kernel []float64) *sparse.CSR {
	n := len(agg)
	coo := sparse.NewCOO(n, nAgg, nil, nil, nil)
	for i, a := range agg {
		v := 1.0
		if kernel != nil {
			v = kernel[i]
		}
		if v != 0 {
			coo.Set(i, a, v)
		}
	}
	return coo.ToCSR()
}
