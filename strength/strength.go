// Package strength computes the strength-of-connection graph S used to
// steer both classical Ruge-Stuben coarsening and aggregation: a pattern-only
// CSR graph pruning A down to the off-diagonal couplings judged "strong"
// under a threshold rule.
package strength

import (
	"errors"
	"math"

	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/floats"
)

// ErrNoStrongConnections is returned by Compute when every row of A produces
// an empty strength neighbourhood - the resulting graph S would have no
// edges at all, so the caller must abort coarsening at this level.
var ErrNoStrongConnections = errors.New("strength: no strong connections")

// Rule selects which of the two threshold tests in spec §4.3 classifies an
// off-diagonal entry as strong.
type Rule int

const (
	// Classical applies the M-matrix-like rule a_ij <= theta * row_scale,
	// where row_scale = min_j a_ij (appropriate for the common case of
	// negative off-diagonal entries, e.g. discretized diffusion operators).
	Classical Rule = iota
	// Absolute applies |a_ij| >= theta * max_{k != i} |a_ik|, appropriate
	// for operators without a consistent sign pattern.
	Absolute
)

// Options bundles strength-of-connection parameters.
type Options struct {
	// Rule selects the threshold test (Classical or Absolute).
	Rule Rule
	// Theta is the strong-threshold theta_str in (0, 1].
	Theta float64
	// Theta2 is the row-sum bound theta_2 in [0, 1); Theta2 >= 1 disables
	// the row-sum weak-row test entirely.
	Theta2 float64
}

// DefaultOptions returns the conventional classical-rule parameters used
// throughout the AMG literature (theta=0.25, theta2 disabled).
func DefaultOptions() Options {
	return Options{Rule: Classical, Theta: 0.25, Theta2: 1}
}

const epsilon = 1e-30

// Compute builds the strength-of-connection graph S for operator a under the
// given options. S is a pattern-only CSR: stored entries are always 1 and
// only their positions carry information. Compute returns
// ErrNoStrongConnections if every row ends up with zero strong neighbours.
func Compute(a *sparse.CSR, opts Options) (*sparse.CSR, error) {
	n, m := a.Dims()
	coo := sparse.NewCOO(n, m, nil, nil, nil)

	row := make([]float64, 0, 16)
	cols := make([]int, 0, 16)
	nnz := 0

	for i := 0; i < n; i++ {
		row = row[:0]
		cols = cols[:0]
		var aii float64
		a.DoRowNonZero(i, func(_, j int, v float64) {
			if j == i {
				aii = v
				return
			}
			row = append(row, v)
			cols = append(cols, j)
		})

		if len(row) == 0 {
			continue
		}

		rowSum := floats.Sum(row) + aii
		if opts.Theta2 < 1 {
			denom := math.Max(epsilon, math.Abs(aii))
			if math.Abs(rowSum)/denom > opts.Theta2 {
				// weak row: declare every off-diagonal neighbour weak
				continue
			}
		}

		switch opts.Rule {
		case Absolute:
			rowMax := 0.0
			for _, v := range row {
				if math.Abs(v) > rowMax {
					rowMax = math.Abs(v)
				}
			}
			thresh := opts.Theta * rowMax
			for k, v := range row {
				if math.Abs(v) >= thresh {
					coo.Set(i, cols[k], 1)
					nnz++
				}
			}
		default:
			rowScale := floats.Min(row)
			if rowScale > 0 {
				rowScale = 0
			}
			thresh := opts.Theta * rowScale
			for k, v := range row {
				if v <= thresh {
					coo.Set(i, cols[k], 1)
					nnz++
				}
			}
		}
	}

	if nnz == 0 {
		return nil, ErrNoStrongConnections
	}

	return coo.ToCSR(), nil
}
