// Package interp synthesizes the prolongation operator P from a C/F
// splitting or aggregate map plus the strength graph S (spec §4.6): direct,
// standard, unsmoothed-tentative and energy-minimizing interpolation, all
// sharing the same truncation-by-fraction postprocessing.
package interp

import "github.com/james-bowman/amg/sparse"

// TruncateByFraction implements spec §4.6's shared postprocessing: for each
// row of p, entries smaller in magnitude than epsTr times that row's max
// positive (for positive entries) or max-magnitude negative (for negative
// entries) are dropped, and the surviving positive and negative entries are
// rescaled separately so the row's positive-sum and negative-sum are
// preserved. epsTr <= 0 disables truncation (TruncateByFraction is then a
// no-op).
func TruncateByFraction(p *sparse.CSR, epsTr float64) {
	if epsTr <= 0 {
		return
	}

	n, m := p.Dims()
	type entry struct {
		col int
		val float64
	}
	row := make([]entry, 0, 8)
	result := sparse.NewCOO(n, m, nil, nil, nil)

	for i := 0; i < n; i++ {
		row = row[:0]
		p.DoRowNonZero(i, func(_, j int, v float64) {
			row = append(row, entry{j, v})
		})
		if len(row) == 0 {
			continue
		}

		maxPos, maxNegAbs := 0.0, 0.0
		posSum, negSum := 0.0, 0.0
		for _, e := range row {
			if e.val > 0 {
				posSum += e.val
				if e.val > maxPos {
					maxPos = e.val
				}
			} else if e.val < 0 {
				negSum += e.val
				if -e.val > maxNegAbs {
					maxNegAbs = -e.val
				}
			}
		}

		posThresh := epsTr * maxPos
		negThresh := epsTr * maxNegAbs

		keptPosSum, keptNegSum := 0.0, 0.0
		kept := row[:0:0]
		for _, e := range row {
			if e.val > 0 {
				if e.val < posThresh {
					continue
				}
				keptPosSum += e.val
			} else if e.val < 0 {
				if -e.val < negThresh {
					continue
				}
				keptNegSum += e.val
			} else {
				continue
			}
			kept = append(kept, e)
		}

		posScale := 1.0
		if keptPosSum != 0 {
			posScale = posSum / keptPosSum
		}
		negScale := 1.0
		if keptNegSum != 0 {
			negScale = negSum / keptNegSum
		}

		for _, e := range kept {
			if e.val > 0 {
				result.Set(i, e.col, e.val*posScale)
			} else {
				result.Set(i, e.col, e.val*negScale)
			}
		}
	}

	p.From(result.ToCSR())
}
