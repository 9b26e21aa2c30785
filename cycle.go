package amg

import (
	"math"

	"github.com/james-bowman/amg/coarsen"
	"github.com/james-bowman/amg/krylov"
	"github.com/james-bowman/amg/smooth"
	"gonum.org/v1/gonum/floats"
)

// Cycle executes one recursive V/W/AMLI/nonlinear-AMLI traversal of the
// hierarchy starting at level (spec §4.8), solving A_level*x ~= b
// approximately in place: x is the initial guess on entry and the
// corrected iterate on return.
func (h *Hierarchy) Cycle(level int, x, b []float64) error {
	lvl := h.Levels[level]

	if level == len(h.Levels)-1 {
		return h.CoarseSolver.Solve(b, x)
	}

	copy(lvl.B, b)
	copy(lvl.X, x)
	if err := h.smoothLevel(lvl, h.Config.PreSmoothIter); err != nil {
		return err
	}
	copy(x, lvl.X)

	r := lvl.W
	neg := make([]float64, len(x))
	for i := range neg {
		neg[i] = -x[i]
	}
	copy(r, b)
	lvl.A.MulVecTo(r, false, neg)

	next := h.Levels[level+1]
	for i := range next.B {
		next.B[i] = 0
	}
	lvl.R.MulVecTo(next.B, false, r)
	for i := range next.X {
		next.X[i] = 0
	}

	switch h.Config.CycleType {
	case CycleAMLI:
		if err := h.amliStep(level); err != nil {
			return err
		}
	case CycleNonlinearAMLI:
		if err := h.nonlinearAMLIStep(level); err != nil {
			return err
		}
	default:
		for rep := 0; rep < lvl.Gamma; rep++ {
			if err := h.Cycle(level+1, next.X, next.B); err != nil {
				return err
			}
		}
	}

	correction := make([]float64, len(x))
	lvl.P.MulVecTo(correction, false, next.X)

	alpha := 1.0
	if h.Config.CoarseScaling {
		aw := make([]float64, len(x))
		lvl.A.MulVecTo(aw, false, correction)
		den := floats.Dot(correction, aw)
		if den != 0 {
			alpha = floats.Dot(r, correction) / den
		}
	}
	for i := range x {
		x[i] += alpha * correction[i]
	}

	copy(lvl.B, b)
	copy(lvl.X, x)
	if err := h.smoothLevel(lvl, h.Config.PostSmoothIter); err != nil {
		return err
	}
	copy(x, lvl.X)

	return nil
}

// amliStep implements the AMLI cycle variant of spec §4.8: instead of
// recursing gamma times into level+1, it runs a fixed-degree
// polynomial-in-coarse-operator Richardson iteration on A_{level+1}, using
// one cycle started at level+1 as the action approximating A_{level+1}'s
// inverse at each polynomial step.
func (h *Hierarchy) amliStep(level int) error {
	next := h.Levels[level+1]
	if level+1 == len(h.Levels)-1 {
		return h.CoarseSolver.Solve(next.B, next.X)
	}

	lmin, lmax := spectralBounds(next)
	theta := (lmax + lmin) / 2
	delta := (lmax - lmin) / 2
	degree := h.Config.AMLIDegree
	if degree < 1 {
		degree = 1
	}

	n := len(next.X)
	r := make([]float64, n)
	neg := make([]float64, n)
	z := make([]float64, n)
	// the cycle at level+1 reuses next.B/next.X as scratch, so iterate on copies
	b := append([]float64(nil), next.B...)
	xk := append([]float64(nil), next.X...)

	for k := 1; k <= degree; k++ {
		root := theta - delta*math.Cos((2*float64(k)-1)*math.Pi/(2*float64(degree)))
		if root == 0 {
			return ErrSingularPivot
		}
		w := 1 / root

		for i := range neg {
			neg[i] = -xk[i]
		}
		copy(r, b)
		next.A.MulVecTo(r, false, neg)

		for i := range z {
			z[i] = 0
		}
		if err := h.Cycle(level+1, z, r); err != nil {
			return err
		}
		for i := range xk {
			xk[i] += w * z[i]
		}
	}
	copy(next.X, xk)
	return nil
}

// nonlinearAMLIStep implements the nonlinear-AMLI cycle variant of spec
// §4.8: instead of recursing gamma times into level+1, it runs a small
// fixed number (Config.NLAMLIKrylovIters) of iterations of the configured
// Krylov method on A_{level+1}, preconditioned by one cycle started at
// level+1.
func (h *Hierarchy) nonlinearAMLIStep(level int) error {
	next := h.Levels[level+1]
	if level+1 == len(h.Levels)-1 {
		return h.CoarseSolver.Solve(next.B, next.X)
	}

	precond := func(z, r []float64) error {
		for i := range z {
			z[i] = 0
		}
		return h.Cycle(level+1, z, r)
	}
	// the cycle at level+1 reuses next.B/next.X as scratch, so solve on copies
	b := append([]float64(nil), next.B...)
	x := append([]float64(nil), next.X...)

	opts := krylov.DefaultOptions()
	opts.MaxIter = h.Config.NLAMLIKrylovIters
	if opts.MaxIter < 1 {
		opts.MaxIter = 2
	}
	opts.Tol = 0
	opts.SafeNet = false

	switch h.Config.NLAMLIKrylovType {
	case SolverMINRES:
		krylov.MINRES(next.A, precond, b, x, opts)
	case SolverBiCGSTAB:
		krylov.BiCGSTAB(next.A, precond, b, x, opts)
	case SolverGMRES, SolverVariableGMRES:
		krylov.GMRES(next.A, precond, b, x, opts)
	default:
		krylov.CG(next.A, precond, b, x, opts)
	}
	copy(next.X, x)
	return nil
}

// smoothLevel applies lvl's effective smoother (after any setup-time
// demotion) for nu sweeps, honoring Config.SmoothOrder where applicable.
func (h *Hierarchy) smoothLevel(lvl *Level, nu int) error {
	cfg := h.Config

	switch lvl.EffectiveSmoother {
	case SmootherJacobi:
		return smooth.Jacobi(lvl.A, lvl.Diag, lvl.B, lvl.X, cfg.Relaxation, nu, nil)

	case SmootherSSOR:
		return smooth.SSOR(lvl.A, lvl.B, lvl.X, cfg.Relaxation, nu)

	case SmootherPolynomial:
		lmin, lmax := spectralBounds(lvl)
		return smooth.Polynomial(lvl.A, lvl.Diag, lvl.B, lvl.X, lmin, lmax, nu)

	case SmootherILU:
		if lvl.ilu == nil {
			return smooth.GaussSeidel(lvl.A, lvl.B, lvl.X, 1.0, nu, smooth.Forward)
		}
		for i := 0; i < nu; i++ {
			if err := lvl.ilu.Smooth(lvl.A, lvl.B, lvl.X); err != nil {
				return err
			}
		}
		return nil

	case SmootherSchwarz:
		if lvl.schwarz == nil {
			return smooth.GaussSeidel(lvl.A, lvl.B, lvl.X, 1.0, nu, smooth.Forward)
		}
		return smooth.Schwarz(lvl.A, lvl.schwarz, lvl.B, lvl.X, nu)

	default: // SmootherGS, SmootherSOR
		omega := cfg.Relaxation
		if lvl.EffectiveSmoother == SmootherGS {
			omega = 1.0
		}
		switch cfg.SmoothOrder {
		case OrderBackward:
			return smooth.GaussSeidel(lvl.A, lvl.B, lvl.X, omega, nu, smooth.Backward)
		case OrderCThenF, OrderFThenC:
			if lvl.CStatus == nil {
				return smooth.GaussSeidel(lvl.A, lvl.B, lvl.X, omega, nu, smooth.Forward)
			}
			cMask := activeMask(lvl.CStatus, coarsen.Coarse)
			fMask := activeMask(lvl.CStatus, coarsen.Fine)
			first, second := cMask, fMask
			if cfg.SmoothOrder == OrderFThenC {
				first, second = fMask, cMask
			}
			for s := 0; s < nu; s++ {
				if err := smooth.Restricted(lvl.A, lvl.B, lvl.X, omega, 1, first); err != nil {
					return err
				}
				if err := smooth.Restricted(lvl.A, lvl.B, lvl.X, omega, 1, second); err != nil {
					return err
				}
			}
			return nil
		default:
			return smooth.GaussSeidel(lvl.A, lvl.B, lvl.X, omega, nu, smooth.Forward)
		}
	}
}

// activeMask builds the boolean row-selector smooth.Restricted expects from
// a classical C/F splitting, true for every unknown whose status is want.
func activeMask(status []coarsen.Status, want coarsen.Status) []bool {
	mask := make([]bool, len(status))
	for i, s := range status {
		mask[i] = s == want
	}
	return mask
}

// spectralBounds estimates the spectral interval [lambdaMin, lambdaMax] of
// lvl's diagonally-scaled operator: lambdaMax is a Gershgorin bound and
// lambdaMin is taken as a quarter of lambdaMax. It is used by the
// polynomial smoother and the AMLI cycle's Richardson iteration (spec §4.2,
// §4.8: "estimated from hierarchy coarsening factors" - this build uses the
// cheaper, always-available Gershgorin estimate rather than an eigenvalue
// solve).
func spectralBounds(lvl *Level) (lambdaMin, lambdaMax float64) {
	n, _ := lvl.A.Dims()
	for i := 0; i < n; i++ {
		if lvl.Diag[i] == 0 {
			continue
		}
		rowSum := 0.0
		lvl.A.DoRowNonZero(i, func(_, j int, v float64) {
			rowSum += math.Abs(v)
		})
		est := rowSum / lvl.Diag[i]
		if est > lambdaMax {
			lambdaMax = est
		}
	}
	if lambdaMax == 0 {
		lambdaMax = 2
	}
	return 0.25 * lambdaMax, lambdaMax
}

// Precondition adapts the Hierarchy to krylov.Preconditioner: one full
// cycle starting from a zero initial guess, exactly the "apply(input
// residual, output correction)" signature spec §4.9 requires for Krylov
// outer methods to compose with the multigrid cycle.
func (h *Hierarchy) Precondition(z, r []float64) error {
	for i := range z {
		z[i] = 0
	}
	return h.Cycle(0, z, r)
}

// Solve runs the hierarchy as a standalone iterative solver (spec §6
// "solver_type=AMG/full-MG"): repeated cycles from the supplied initial
// guess x until the relative residual drops below tol or maxIter cycles
// have run.
func (h *Hierarchy) Solve(b, x []float64, maxIter int, tol float64) (iterations int, relResidual float64, err error) {
	a := h.Levels[0].A
	n := len(x)
	r := make([]float64, n)
	neg := make([]float64, n)

	bNorm := floats.Norm(b, 2)

	for iterations = 0; iterations < maxIter; iterations++ {
		for i := range neg {
			neg[i] = -x[i]
		}
		copy(r, b)
		a.MulVecTo(r, false, neg)
		relResidual = residNorm(r, bNorm)
		if relResidual <= tol {
			return iterations, relResidual, nil
		}
		if err = h.Cycle(0, x, b); err != nil {
			return iterations, relResidual, err
		}
	}

	for i := range neg {
		neg[i] = -x[i]
	}
	copy(r, b)
	a.MulVecTo(r, false, neg)
	relResidual = residNorm(r, bNorm)
	return iterations, relResidual, nil
}

func residNorm(r []float64, bNorm float64) float64 {
	rn := floats.Norm(r, 2)
	if bNorm == 0 {
		return rn
	}
	return rn / bNorm
}
