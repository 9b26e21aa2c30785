package interp

import (
	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/mat"
)

// EnergyMin builds an energy-minimizing interpolation operator (spec §4.6)
// from a tentative (boolean, one-nonzero-per-row) aggregation prolongator
// tentative and the fine operator a. For each fine row i, the support
// pattern is the set of coarse columns reachable through i's nonzero row of
// a (restricted to tentative's sparsity, i.e. the aggregates i's neighbours
// belong to); the row's interpolation weights w are the unique minimizer of
// the local A-energy w^T*A_PP*w subject to the partition-of-unity
// constraint sum(w) = 1, giving the closed form
//
//	w = A_PP^-1 * 1 / (1^T * A_PP^-1 * 1)
//
// via a small dense Cholesky factorization of the local Gram-like matrix
// A_PP, one per row. A row whose row of a has at most one nonzero keeps its
// tentative single entry unchanged.
func EnergyMin(a *sparse.CSR, tentative *sparse.CSR) *sparse.CSR {
	n, nCoarse := tentative.Dims()
	coo := sparse.NewCOO(n, nCoarse, nil, nil, nil)

	for i := 0; i < n; i++ {
		if tentative.RowNNZ(i) == 1 {
			var onlyCol int
			var onlyVal float64
			tentative.DoRowNonZero(i, func(_, j int, v float64) {
				onlyCol, onlyVal = j, v
			})
			if a.RowNNZ(i) <= 1 {
				coo.Set(i, onlyCol, onlyVal)
				continue
			}
		}

		pattern := make(map[int]bool, 8)
		a.DoRowNonZero(i, func(_, j int, _ float64) {
			tentative.DoRowNonZero(j, func(_, c int, _ float64) {
				pattern[c] = true
			})
		})
		if len(pattern) == 0 {
			continue
		}

		cols := make([]int, 0, len(pattern))
		for c := range pattern {
			cols = append(cols, c)
		}

		k := len(cols)
		if k == 1 {
			coo.Set(i, cols[0], 1)
			continue
		}

		// A_PP: local Gram-like matrix, entry (p,q) = sum over aggregate
		// members' coupling a(rowRep(p), rowRep(q)) approximated by summing
		// a's entries between any fine rows belonging to aggregates p,q
		// that are also neighbours of i - cheaply approximated here by the
		// entries of a restricted to i's own row expanded through the
		// tentative map (a block-diagonal-like local proxy for the true
		// aggregate-to-aggregate coupling).
		app := mat.NewSymDense(k, nil)
		for pi, p := range cols {
			for qi := pi; qi < k; qi++ {
				q := cols[qi]
				v := localCoupling(a, tentative, p, q)
				app.SetSym(pi, qi, v)
			}
		}

		var chol mat.Cholesky
		ones := mat.NewVecDense(k, onesSlice(k))
		if !chol.Factorize(app) {
			// local Gram matrix isn't SPD (degenerate pattern); fall back
			// to the tentative uniform split across the pattern.
			for _, c := range cols {
				coo.Set(i, c, 1/float64(k))
			}
			continue
		}

		var y mat.VecDense
		if err := chol.SolveVecTo(&y, ones); err != nil {
			for _, c := range cols {
				coo.Set(i, c, 1/float64(k))
			}
			continue
		}

		sum := 0.0
		for r := 0; r < k; r++ {
			sum += y.AtVec(r)
		}
		if sum == 0 {
			for _, c := range cols {
				coo.Set(i, c, 1/float64(k))
			}
			continue
		}
		for idx, c := range cols {
			coo.Set(i, c, y.AtVec(idx)/sum)
		}
	}

	return coo.ToCSR()
}

// localCoupling approximates the aggregate-to-aggregate coupling strength
// between coarse columns p and q by summing a's entries between members of
// aggregate p and members of aggregate q.
func localCoupling(a *sparse.CSR, tentative *sparse.CSR, p, q int) float64 {
	n, _ := tentative.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		if tentative.At(i, p) == 0 {
			continue
		}
		a.DoRowNonZero(i, func(_, j int, v float64) {
			if tentative.At(j, q) != 0 {
				sum += v
			}
		})
	}
	if p == q && sum <= 0 {
		sum = 1
	}
	return sum
}

func onesSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
