package interp

import (
	"github.com/james-bowman/amg/coarsen"
	"github.com/james-bowman/amg/sparse"
)

// Direct builds the direct interpolation operator of spec §4.6 from
// operator a, strength graph s and C/F splitting status. Coarse rows get a
// single 1.0 entry (the point interpolates from itself); fine row i splits
// its strong neighbours into positive (P+) and negative (P-) sets and sets
//
//	alpha = N-/sum_{P-} a_ij      beta = N+/sum_{P+} a_ij
//	p_ij = -alpha*a_ij/a_ii  for j in P-
//	p_ij = -beta*a_ij/a_ii   for j in P+
//
// where N+/N- are the off-diagonal sums over ALL positive/negative
// neighbours of i (not just the strong ones). If P+ is empty, beta is
// forced to 0 and a_ii absorbs N+ instead (per spec §4.6).
func Direct(a, s *sparse.CSR, status []coarsen.Status) *sparse.CSR {
	n, _ := a.Dims()

	coarseIdx := make([]int, n)
	nCoarse := 0
	for i, st := range status {
		if st == coarsen.Coarse {
			coarseIdx[i] = nCoarse
			nCoarse++
		} else {
			coarseIdx[i] = -1
		}
	}

	coo := sparse.NewCOO(n, nCoarse, nil, nil, nil)

	for i := 0; i < n; i++ {
		if status[i] == coarsen.Coarse {
			coo.Set(i, coarseIdx[i], 1)
			continue
		}
		if status[i] == coarsen.Isolated {
			continue
		}

		var aii, nPos, nNeg, sumStrongPos, sumStrongNeg float64
		strongPos := make(map[int]float64, 4)
		strongNeg := make(map[int]float64, 4)

		a.DoRowNonZero(i, func(_, j int, v float64) {
			if j == i {
				aii = v
				return
			}
			if v > 0 {
				nPos += v
			} else {
				nNeg += v
			}
		})

		s.DoRowNonZero(i, func(_, j int, _ float64) {
			if status[j] != coarsen.Coarse {
				return
			}
			v := a.At(i, j)
			if v > 0 {
				strongPos[j] = v
				sumStrongPos += v
			} else if v < 0 {
				strongNeg[j] = v
				sumStrongNeg += v
			}
		})

		if aii == 0 {
			continue
		}

		alpha := 0.0
		if sumStrongNeg != 0 {
			alpha = nNeg / sumStrongNeg
		}
		beta := 0.0
		effAii := aii
		if len(strongPos) > 0 && sumStrongPos != 0 {
			beta = nPos / sumStrongPos
		} else {
			effAii += nPos
		}
		if effAii == 0 {
			continue
		}

		for j, v := range strongNeg {
			coo.Set(i, coarseIdx[j], -alpha*v/effAii)
		}
		for j, v := range strongPos {
			coo.Set(i, coarseIdx[j], -beta*v/effAii)
		}
	}

	return coo.ToCSR()
}
