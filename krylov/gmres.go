package krylov

import (
	"math"

	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/floats"
)

// GMRES runs restarted GMRES(m) (spec §4.9) against the (possibly
// nonsymmetric) operator a. The preconditioner is applied right and
// flexibly: a fresh correction z_j = M(v_j) is computed and stored for
// every Arnoldi vector instead of collapsing the whole subspace through one
// fixed operator, so the preconditioner is free to vary between iterations
// (this is the "variable-preconditioner" / FGMRES variant named in spec
// §4.9; a stationary preconditioner is simply the special case where every
// z_j happens to come from the same callable).
func GMRES(a sparse.Operator, m Preconditioner, b, x []float64, opts Options) Result {
	n := len(x)
	restart := opts.Restart
	if restart <= 0 || restart > n {
		restart = n
	}

	bNorm := norm2(b)
	var xBest []float64
	bestNorm := math.Inf(1)

	r := make([]float64, n)
	residual(a, b, x, r)
	status := MaxIterReached
	totalIter := 0
	restarts := 0
	stagCount := 0

	for outer := 0; ; outer++ {
		rNorm := norm2(r)
		if opts.SafeNet {
			xBest, bestNorm = trackBest(xBest, bestNorm, x, rNorm)
		}
		xNorm := norm2(x)
		if converged(opts, rNorm, xNorm, bNorm, rNorm) || totalIter >= opts.MaxIter {
			if converged(opts, rNorm, xNorm, bNorm, rNorm) {
				status = Converged
			}
			break
		}

		v := make([][]float64, restart+1)
		z := make([][]float64, restart)
		h := make([][]float64, restart+1)
		for i := range h {
			h[i] = make([]float64, restart)
		}
		cs := make([]float64, restart)
		sn := make([]float64, restart)
		g := make([]float64, restart+1)

		v[0] = make([]float64, n)
		copy(v[0], r)
		floats.Scale(1/rNorm, v[0])
		g[0] = rNorm

		k := 0
		for ; k < restart && totalIter < opts.MaxIter; k++ {
			z[k] = make([]float64, n)
			if err := applyPrecond(m, z[k], v[k]); err != nil {
				break
			}

			w := make([]float64, n)
			a.MulVecTo(w, false, z[k])

			for i := 0; i <= k; i++ {
				h[i][k] = floats.Dot(w, v[i])
				floats.AddScaled(w, -h[i][k], v[i])
			}
			h[k+1][k] = norm2(w)

			v[k+1] = make([]float64, n)
			if h[k+1][k] > epsMinres {
				copy(v[k+1], w)
				floats.Scale(1/h[k+1][k], v[k+1])
			}

			for i := 0; i < k; i++ {
				t := cs[i]*h[i][k] + sn[i]*h[i+1][k]
				h[i+1][k] = -sn[i]*h[i][k] + cs[i]*h[i+1][k]
				h[i][k] = t
			}
			denom := math.Hypot(h[k][k], h[k+1][k])
			if denom == 0 {
				denom = epsMinres
			}
			cs[k] = h[k][k] / denom
			sn[k] = h[k+1][k] / denom
			h[k][k] = denom
			h[k+1][k] = 0

			g[k+1] = -sn[k] * g[k]
			g[k] = cs[k] * g[k]

			totalIter++
			residNorm := math.Abs(g[k+1])
			if converged(opts, residNorm, norm2(x), bNorm, residNorm) {
				k++
				break
			}
		}
		if k == 0 {
			break
		}

		y := make([]float64, k)
		for i := k - 1; i >= 0; i-- {
			sum := g[i]
			for j := i + 1; j < k; j++ {
				sum -= h[i][j] * y[j]
			}
			if h[i][i] == 0 {
				status = Stagnation
				break
			}
			y[i] = sum / h[i][i]
		}

		stepNorm := 0.0
		for i := 0; i < k; i++ {
			floats.AddScaled(x, y[i], z[i])
			stepNorm += math.Abs(y[i])
		}

		residual(a, b, x, r)
		xNorm := norm2(x)
		if xNorm != 0 && stepNorm/xNorm < opts.StagRatio*opts.Tol {
			stagCount++
			if stagCount >= opts.MaxStag {
				restarts++
				if restarts > opts.MaxRestart {
					status = Stagnation
					break
				}
				stagCount = 0
			}
		} else {
			stagCount = 0
		}

		if totalIter >= opts.MaxIter {
			status = MaxIterReached
			break
		}
	}

	finalNorm := norm2(r)
	if opts.SafeNet {
		xBest, bestNorm = trackBest(xBest, bestNorm, x, finalNorm)
	}
	status = finalize(opts, x, xBest, bestNorm, finalNorm, status)
	return Result{X: x, Iterations: totalIter, ResidualNorm: finalNorm, Status: status}
}
