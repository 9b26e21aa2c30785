package krylov

import (
	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/floats"
)

// CG runs the preconditioned conjugate gradient method (spec §4.9) against
// the symmetric positive-definite operator a, starting from x (updated in
// place) and returns once the configured stop type is satisfied or the
// iteration budget is exhausted. With opts.SafeNet set this is the "spcg"
// safe-net variant: the lowest true-residual iterate seen is restored at
// the end if the final iterate regressed past the stagnation tolerance.
func CG(a sparse.Operator, m Preconditioner, b, x []float64, opts Options) Result {
	n := len(x)
	r := make([]float64, n)
	z := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	residual(a, b, x, r)
	bNorm := norm2(b)

	var xBest []float64
	bestNorm := norm2(r)
	if opts.SafeNet {
		xBest, bestNorm = trackBest(nil, bestNorm, x, bestNorm)
	}

	if err := applyPrecond(m, z, r); err != nil {
		return Result{X: x, Status: MaxIterReached, ResidualNorm: norm2(r)}
	}
	copy(p, z)
	rzOld := floats.Dot(r, z)

	stagCount := 0
	restarts := 0

	status := MaxIterReached
	iter := 0
	for ; iter < opts.MaxIter; iter++ {
		for i := range ap {
			ap[i] = 0
		}
		a.MulVecTo(ap, false, p)

		pap := floats.Dot(p, ap)
		if pap == 0 {
			status = Stagnation
			break
		}
		alpha := rzOld / pap

		step := make([]float64, n)
		copy(step, p)
		floats.Scale(alpha, step)
		stepNorm := norm2(step)

		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		curNorm := norm2(r)
		if opts.SafeNet {
			xBest, bestNorm = trackBest(xBest, bestNorm, x, curNorm)
		}

		precNorm := curNorm
		if m != nil {
			if err := applyPrecond(m, z, r); err == nil {
				precNorm = norm2(z)
			}
		} else {
			copy(z, r)
		}

		xNorm := norm2(x)
		if converged(opts, curNorm, xNorm, bNorm, precNorm) {
			residual(a, b, x, r)
			trueNorm := norm2(r)
			if converged(opts, trueNorm, xNorm, bNorm, trueNorm) {
				status = Converged
				break
			}
			restarts++
			if restarts > opts.MaxRestart {
				status = ToleranceTooSmall
				break
			}
		}

		if xNorm != 0 && stepNorm/xNorm < opts.StagRatio*opts.Tol {
			stagCount++
			if stagCount >= opts.MaxStag {
				residual(a, b, x, r)
				if !converged(opts, norm2(r), xNorm, bNorm, norm2(r)) {
					restarts++
					if restarts > opts.MaxRestart {
						status = Stagnation
						break
					}
					copy(p, r)
				}
				stagCount = 0
			}
		} else {
			stagCount = 0
		}

		rzNew := floats.Dot(r, z)
		beta := rzNew / rzOld
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rzOld = rzNew
	}

	finalNorm := norm2(r)
	status = finalize(opts, x, xBest, bestNorm, finalNorm, status)
	return Result{X: x, Iterations: iter, ResidualNorm: finalNorm, Status: status}
}
