package amg

import (
	"github.com/james-bowman/amg/krylov"
	"github.com/james-bowman/amg/sparse"
)

// Result is the outcome of a top-level Solve call: the final iterate,
// iteration count, residual norm and status. ResidualNorm is ||b-A*x||/||b||
// for SolverAMG and SolverFullMG, and the unscaled 2-norm of b-A*x returned
// by the Krylov method for the other solver types (spec §7 "a failed solve
// returns an iteration count and a status; the iterate vector is defined").
type Result struct {
	X            []float64
	Iterations   int
	ResidualNorm float64
	Status       krylov.Status
	Hierarchy    *Hierarchy
}

// Solve builds whatever hierarchy the configured preconditioner/solver
// needs and runs the configured outer method against a*x = b, starting
// from x0 (copied, not mutated) per spec §1/§6: this is the library's
// single entry point tying the setup pipeline (Setup) to the cycle
// executor (Hierarchy.Cycle) and the Krylov outer methods (package
// krylov), exactly the composition spec §4.9 describes ("Krylov methods
// call the multigrid cycle as an opaque preconditioner").
func Solve(a *sparse.CSR, b, x0 []float64, cfg Config) (Result, error) {
	n, _ := a.Dims()
	if len(b) != n || len(x0) != n {
		return Result{}, ErrDimensionMismatch
	}

	x := make([]float64, n)
	copy(x, x0)

	var hier *Hierarchy
	needsHierarchy := cfg.PrecondType == PrecondAMG ||
		cfg.SolverType == SolverAMG || cfg.SolverType == SolverFullMG
	if needsHierarchy {
		var err error
		hier, err = Setup(a, cfg)
		if err != nil {
			return Result{X: x}, err
		}
	}

	if cfg.SolverType == SolverAMG || cfg.SolverType == SolverFullMG {
		iters, relResid, err := hier.Solve(b, x, cfg.MaxIter, cfg.Tol)
		status := krylov.Converged
		if relResid > cfg.Tol {
			status = krylov.MaxIterReached
		}
		return Result{X: x, Iterations: iters, ResidualNorm: relResid, Status: status, Hierarchy: hier}, err
	}

	precond, err := buildPreconditioner(a, cfg, hier)
	if err != nil {
		return Result{X: x}, err
	}

	opts := krylov.Options{
		Tol:        cfg.Tol,
		MaxIter:    cfg.MaxIter,
		StopType:   cfg.StopType,
		StagRatio:  krylov.DefaultOptions().StagRatio,
		MaxStag:    krylov.DefaultOptions().MaxStag,
		MaxRestart: krylov.DefaultOptions().MaxRestart,
		SafeNet:    true,
		Restart:    cfg.Restart,
	}

	var res krylov.Result
	switch cfg.SolverType {
	case SolverMINRES:
		res = krylov.MINRES(a, precond, b, x, opts)
	case SolverBiCGSTAB:
		res = krylov.BiCGSTAB(a, precond, b, x, opts)
	case SolverGMRES, SolverVariableGMRES:
		res = krylov.GMRES(a, precond, b, x, opts)
	default:
		res = krylov.CG(a, precond, b, x, opts)
	}

	return Result{
		X:            res.X,
		Iterations:   res.Iterations,
		ResidualNorm: res.ResidualNorm,
		Status:       res.Status,
		Hierarchy:    hier,
	}, nil
}

// buildPreconditioner adapts cfg.PrecondType into a krylov.Preconditioner
// callable (spec §4.9's "accept any preconditioner conforming to the call
// signature apply(input_residual, output_correction)").
func buildPreconditioner(a *sparse.CSR, cfg Config, hier *Hierarchy) (krylov.Preconditioner, error) {
	switch cfg.PrecondType {
	case PrecondNone:
		return nil, nil
	case PrecondAMG:
		return hier.Precondition, nil
	case PrecondDiagonal:
		diag := a.Diagonal()
		return func(z, r []float64) error {
			for i := range z {
				if diag[i] == 0 {
					z[i] = r[i]
					continue
				}
				z[i] = r[i] / diag[i]
			}
			return nil
		}, nil
	case PrecondILU:
		ilu, err := newSmootherILU(a)
		if err != nil {
			return nil, err
		}
		return func(z, r []float64) error {
			for i := range z {
				z[i] = 0
			}
			return ilu(r, z)
		}, nil
	case PrecondSchwarz:
		blocks, err := newSmootherSchwarz(a, cfg)
		if err != nil {
			return nil, err
		}
		return func(z, r []float64) error {
			for i := range z {
				z[i] = 0
			}
			return blocks(r, z)
		}, nil
	default:
		return nil, ErrUnrecognizedOption
	}
}
