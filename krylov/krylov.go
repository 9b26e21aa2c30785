// Package krylov implements the preconditioned Krylov subspace outer
// methods (spec §4.9): CG (with a safe-net variant), MINRES, GMRES (with a
// flexible/variable-preconditioner variant), and BiCGSTAB. Every method is
// written against sparse.Operator so it runs unchanged whether the system
// matrix is a CSR, CSC, COO or DIA, and against a Preconditioner callable so
// the multigrid cycle executor in package amg composes with these methods
// exactly like any other preconditioner (spec §4.9's "accept any
// preconditioner conforming to the call signature apply(input_residual,
// output_correction)").
package krylov

import (
	"errors"

	"github.com/james-bowman/amg/sparse"
	"gonum.org/v1/gonum/floats"
)

// ErrShape is returned when the operand shapes are inconsistent.
var ErrShape = errors.New("krylov: operand shape mismatch")

// Preconditioner applies an approximate inverse to r, writing the result
// into z. A nil Preconditioner is treated as the identity (unpreconditioned
// iteration).
type Preconditioner func(z, r []float64) error

// StopType selects how the relative residual is measured against Tol (spec
// §4.9's "stop-type options").
type StopType int

const (
	// RelResidual stops on ||r|| / ||b||.
	RelResidual StopType = iota
	// RelPrecResidual stops on ||B*r|| (the preconditioned residual norm,
	// unnormalised - matches the source's "relative preconditioned
	// residual" stop type).
	RelPrecResidual
	// ModifiedRelResidual stops on ||r|| / ||x||.
	ModifiedRelResidual
)

// Status reports why a Krylov method returned.
type Status int

const (
	// Converged means the stopping criterion was satisfied.
	Converged Status = iota
	// MaxIterReached means the iteration budget was exhausted first.
	MaxIterReached
	// Stagnation means the safeguard in spec §4.9 detected no further
	// progress after exhausting its restart budget.
	Stagnation
	// ToleranceTooSmall means false convergence was detected (the
	// iterative residual dropped below Tol but the recomputed true
	// residual did not) and restarts were exhausted.
	ToleranceTooSmall
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "Converged"
	case MaxIterReached:
		return "MaxIterReached"
	case Stagnation:
		return "Stagnation"
	case ToleranceTooSmall:
		return "ToleranceTooSmall"
	default:
		return "Unknown"
	}
}

// Options configures every method in this package uniformly.
type Options struct {
	Tol        float64
	MaxIter    int
	StopType   StopType
	StagRatio  float64
	MaxStag    int
	MaxRestart int
	// SafeNet enables x_best tracking (the spcg/spbcgs/spminres variants):
	// the iterate with the lowest true-residual norm ever observed is
	// restored if the final iterate's residual is materially worse.
	SafeNet bool
	// Restart is GMRES's restart length; ignored by the other methods. 0
	// means "never restart" (full GMRES).
	Restart int
}

// DefaultOptions returns the defaults used throughout the test suite and by
// amg.Config when the caller does not override them.
func DefaultOptions() Options {
	return Options{
		Tol:        1e-8,
		MaxIter:    1000,
		StopType:   RelResidual,
		StagRatio:  1e-3,
		MaxStag:    3,
		MaxRestart: 3,
		SafeNet:    true,
		Restart:    30,
	}
}

// Result is the outcome of a Krylov solve.
type Result struct {
	X          []float64
	Iterations int
	ResidualNorm float64
	Status     Status
}

func residual(a sparse.Operator, b, x, r []float64) {
	n := len(r)
	neg := make([]float64, n)
	for i := range neg {
		neg[i] = -x[i]
	}
	copy(r, b)
	a.MulVecTo(r, false, neg)
}

func norm2(x []float64) float64 {
	return floats.Norm(x, 2)
}

func applyPrecond(m Preconditioner, z, r []float64) error {
	if m == nil {
		copy(z, r)
		return nil
	}
	return m(z, r)
}

// converged evaluates the configured stop type (spec §4.9) given the
// current true-residual norm, the current iterate's norm, ||b||, and (for
// RelPrecResidual) the preconditioned residual norm ||B*r||.
func converged(opts Options, residNorm, xNorm, bNorm, precondResidNorm float64) bool {
	switch opts.StopType {
	case RelPrecResidual:
		return precondResidNorm <= opts.Tol
	case ModifiedRelResidual:
		if xNorm == 0 {
			return residNorm <= opts.Tol
		}
		return residNorm/xNorm <= opts.Tol
	default:
		if bNorm == 0 {
			return residNorm <= opts.Tol
		}
		return residNorm/bNorm <= opts.Tol
	}
}

// trackBest updates xBest/bestNorm in place (the safe-net bookkeeping
// shared by every method's SafeNet option) and returns the possibly-updated
// pair.
func trackBest(xBest []float64, bestNorm float64, x []float64, curNorm float64) ([]float64, float64) {
	if xBest == nil || curNorm < bestNorm {
		if xBest == nil {
			xBest = make([]float64, len(x))
		}
		copy(xBest, x)
		return xBest, curNorm
	}
	return xBest, bestNorm
}

func finalize(opts Options, x, xBest []float64, bestNorm, curNorm float64, status Status) Status {
	if opts.SafeNet && xBest != nil && curNorm > bestNorm+opts.StagRatio*opts.Tol {
		copy(x, xBest)
	}
	return status
}
