package amg

import (
	"testing"

	"github.com/james-bowman/amg/krylov"
)

func TestSolveCGWithAMGPreconditioner(t *testing.T) {
	a := laplacian1D(300)
	n := 300
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.CoarseDOF = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("CG+AMG: %d iterations, residual %v, status %v", res.Iterations, res.ResidualNorm, res.Status)
	if res.Status != krylov.Converged {
		t.Errorf("expected CG+AMG to converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveMINRESWithAMGPreconditioner(t *testing.T) {
	a := laplacian1D(150)
	n := 150
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.SolverType = SolverMINRES
	cfg.CoarseDOF = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("MINRES+AMG: %d iterations, residual %v, status %v", res.Iterations, res.ResidualNorm, res.Status)
	if res.Status != krylov.Converged {
		t.Errorf("expected MINRES+AMG to converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveBiCGSTABWithAMGPreconditioner(t *testing.T) {
	a := laplacian1D(150)
	n := 150
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.SolverType = SolverBiCGSTAB
	cfg.CoarseDOF = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("BiCGSTAB+AMG: %d iterations, residual %v, status %v", res.Iterations, res.ResidualNorm, res.Status)
	if res.Status != krylov.Converged {
		t.Errorf("expected BiCGSTAB+AMG to converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveGMRESWithAMGPreconditioner(t *testing.T) {
	a := laplacian1D(150)
	n := 150
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.SolverType = SolverGMRES
	cfg.Restart = 20
	cfg.CoarseDOF = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("GMRES+AMG: %d iterations, residual %v, status %v", res.Iterations, res.ResidualNorm, res.Status)
	if res.Status != krylov.Converged {
		t.Errorf("expected GMRES+AMG to converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveStandaloneAMG(t *testing.T) {
	a := laplacian1D(150)
	n := 150
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.SolverType = SolverAMG
	cfg.CoarseDOF = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("standalone AMG: %d iterations, residual %v", res.Iterations, res.ResidualNorm)
	if res.Status != krylov.Converged {
		t.Errorf("expected standalone AMG to converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveDiagonalPreconditioner(t *testing.T) {
	a := laplacian1D(100)
	n := 100
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.PrecondType = PrecondDiagonal
	cfg.MaxIter = 500

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("CG+Jacobi: %d iterations, residual %v, status %v", res.Iterations, res.ResidualNorm, res.Status)
	if res.Status != krylov.Converged {
		t.Errorf("expected CG+Jacobi to converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveUnpreconditioned(t *testing.T) {
	a := laplacian1D(60)
	n := 60
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.PrecondType = PrecondNone
	cfg.MaxIter = 500

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	t.Logf("unpreconditioned CG: %d iterations, residual %v, status %v", res.Iterations, res.ResidualNorm, res.Status)
	if res.Status != krylov.Converged {
		t.Errorf("expected unpreconditioned CG to eventually converge, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
}

func TestSolveRejectsMismatchedDimensions(t *testing.T) {
	a := laplacian1D(10)
	b := make([]float64, 5)
	x0 := make([]float64, 10)

	_, err := Solve(a, b, x0, DefaultConfig())
	if err != ErrDimensionMismatch {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}
