package interp

import (
	"github.com/james-bowman/amg/coarsen"
	"github.com/james-bowman/amg/sparse"
)

// Standard builds the standard interpolation operator of spec §4.6: support
// for each fine row i is first extended to coarse neighbours at distance 2
// (reachable through a strong fine intermediary k), modifying the
// coefficients as
//
//	a_hat_ij = a_ij - sum_k a_ik*a_kj/a_kk   for j coarse, k fine strong neighbour of i
//
// and then the same direct-style positive/negative normalization as Direct
// is applied to a_hat in place of a.
func Standard(a, s *sparse.CSR, status []coarsen.Status) *sparse.CSR {
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

		ahat := make(map[int]float64, 8)
		var aii float64
		a.DoRowNonZero(i, func(_, j int, v float64) {
			if j == i {
				aii = v
				return
			}
			ahat[j] += v
		})

		s.DoRowNonZero(i, func(_, k int, _ float64) {
			if status[k] != coarsen.Fine || k == i {
				return
			}
			akk := a.At(k, k)
			if akk == 0 {
				return
			}
			aik := a.At(i, k)
			if aik == 0 {
				return
			}
			a.DoRowNonZero(k, func(_, j int, akj float64) {
				if status[j] != coarsen.Coarse {
					return
				}
				ahat[j] -= aik * akj / akk
			})
			delete(ahat, k)
		})

		var nPos, nNeg, sumStrongPos, sumStrongNeg float64
		strongPos := make(map[int]float64, 4)
		strongNeg := make(map[int]float64, 4)
		for j, v := range ahat {
			if v > 0 {
				nPos += v
			} else {
				nNeg += v
			}
			if status[j] != coarsen.Coarse {
				continue
			}
			if v > 0 {
				strongPos[j] = v
				sumStrongPos += v
			} else if v < 0 {
				strongNeg[j] = v
				sumStrongNeg += v
			}
		}

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
