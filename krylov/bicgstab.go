package krylov

import (
	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/floats"
)

// BiCGSTAB runs the preconditioned stabilized biconjugate gradient method
// (spec §4.9) against the (possibly nonsymmetric) operator a. With
// opts.SafeNet set this is the "spbcgs" safe-net variant.
func BiCGSTAB(a sparse.Operator, m Preconditioner, b, x []float64, opts Options) Result {
	n := len(x)
	r := make([]float64, n)
	residual(a, b, x, r)
	bNorm := norm2(b)

	rHat := make([]float64, n)
	copy(rHat, r)

	rho, alpha, omega := 1.0, 1.0, 1.0
	v := make([]float64, n)
	p := make([]float64, n)

	var xBest []float64
	bestNorm := norm2(r)
	if opts.SafeNet {
		xBest, bestNorm = trackBest(nil, bestNorm, x, bestNorm)
	}

	y := make([]float64, n)
	sVec := make([]float64, n)
	sHat := make([]float64, n)
	t := make([]float64, n)
	av := make([]float64, n)
	at := make([]float64, n)

	status := MaxIterReached
	stagCount := 0
	restarts := 0
	iter := 0

	for ; iter < opts.MaxIter; iter++ {
		rhoNew := floats.Dot(rHat, r)
		if rhoNew == 0 {
			status = Stagnation
			break
		}
		if iter == 0 {
			copy(p, r)
		} else {
			beta := (rhoNew / rho) * (alpha / omega)
			for i := range p {
				p[i] = r[i] + beta*(p[i]-omega*v[i])
			}
		}
		rho = rhoNew

		if err := applyPrecond(m, y, p); err != nil {
			status = MaxIterReached
			break
		}
		for i := range av {
			av[i] = 0
		}
		a.MulVecTo(av, false, y)
		copy(v, av)

		rHatV := floats.Dot(rHat, v)
		if rHatV == 0 {
			status = Stagnation
			break
		}
		alpha = rho / rHatV

		copy(sVec, r)
		floats.AddScaled(sVec, -alpha, v)

		sNorm := norm2(sVec)
		xNormHalf := norm2(x)
		if converged(opts, sNorm, xNormHalf, bNorm, sNorm) {
			floats.AddScaled(x, alpha, y)
			residual(a, b, x, r)
			trueNorm := norm2(r)
			if opts.SafeNet {
				xBest, bestNorm = trackBest(xBest, bestNorm, x, trueNorm)
			}
			if converged(opts, trueNorm, norm2(x), bNorm, trueNorm) {
				status = Converged
				break
			}
			restarts++
			if restarts > opts.MaxRestart {
				status = ToleranceTooSmall
				break
			}
			continue
		}

		if err := applyPrecond(m, sHat, sVec); err != nil {
			status = MaxIterReached
			break
		}
		for i := range at {
			at[i] = 0
		}
		a.MulVecTo(at, false, sHat)
		copy(t, at)

		tt := floats.Dot(t, t)
		if tt == 0 {
			status = Stagnation
			break
		}
		omega = floats.Dot(t, sVec) / tt

		floats.AddScaled(x, alpha, y)
		floats.AddScaled(x, omega, sHat)

		copy(r, sVec)
		floats.AddScaled(r, -omega, t)

		curNorm := norm2(r)
		xNorm := norm2(x)
		if opts.SafeNet {
			xBest, bestNorm = trackBest(xBest, bestNorm, x, curNorm)
		}
		if converged(opts, curNorm, xNorm, bNorm, curNorm) {
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

		stepNorm := absF(alpha)*norm2(y) + absF(omega)*norm2(sHat)
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

		if omega == 0 {
			status = Stagnation
			break
		}
	}

	finalNorm := norm2(r)
	status = finalize(opts, x, xBest, bestNorm, finalNorm, status)
	return Result{X: x, Iterations: iter, ResidualNorm: finalNorm, Status: status}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
