package amg

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/james-bowman/amg/krylov"
	"github.com/james-bowman/amg/sparse"
)

// randomSPDMMatrix builds a reproducible, unstructured symmetric diagonally
// dominant M-matrix of size n: strictly negative, randomly placed
// off-diagonal couplings (degree neighboursPerRow per row, symmetrized) with
// a diagonal set to the row's absolute off-diagonal sum plus one, matching
// the "unstructured M-matrix" seed scenario of spec §8 scenario 3. Indices
// are drawn with sampleuv.WithoutReplacement so no row picks the same
// neighbour twice.
func randomSPDMMatrix(n, neighboursPerRow int, seed int64) *sparse.CSR {
	src := rand.New(rand.NewSource(seed))
	coo := sparse.NewCOO(n, n, nil, nil, nil)
	rowSum := make([]float64, n)

	idxs := make([]int, neighboursPerRow)
	for i := 0; i < n; i++ {
		if neighboursPerRow >= n {
			continue
		}
		sampleuv.WithoutReplacement(idxs, n, src)
		for _, j := range idxs {
			if j == i {
				continue
			}
			w := -(0.1 + src.Float64())
			coo.Set(i, j, w)
			coo.Set(j, i, w)
			rowSum[i] += -w
			rowSum[j] += -w
		}
	}
	for i := 0; i < n; i++ {
		coo.Set(i, i, rowSum[i]+1)
	}
	return coo.ToCSR()
}

// TestSolveUnstructuredMMatrixAggregation exercises spec §8 seed scenario 3:
// an unstructured symmetric M-matrix solved with unsmoothed pairwise
// aggregation and a nonlinear-AMLI cycle under a MINRES outer iteration.
func TestSolveUnstructuredMMatrixAggregation(t *testing.T) {
	a := randomSPDMMatrix(500, 6, 1)
	n, _ := a.Dims()

	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.SolverType = SolverMINRES
	cfg.PrecondType = PrecondAMG
	cfg.AMGType = UnsmoothedAggregation
	cfg.AggregationType = Pairwise
	cfg.PairNumber = 2
	cfg.CycleType = CycleNonlinearAMLI
	cfg.Tol = 1e-6
	cfg.MaxIter = 60
	cfg.MaxLevels = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(res.X) != n {
		t.Fatalf("expected solution of length %d, got %d", n, len(res.X))
	}
	if res.Iterations > 40 {
		t.Fatalf("expected convergence within 40 outer iterations, took %d", res.Iterations)
	}
	if res.Status != krylov.Converged {
		t.Errorf("expected convergence, got status %v (residual %v)", res.Status, res.ResidualNorm)
	}
	t.Logf("converged in %d iterations, residual norm %.3e", res.Iterations, res.ResidualNorm)
}

// TestSolveIdentityConvergesImmediately exercises spec §8 seed scenario 6:
// for the identity matrix, any configuration should drop the relative
// residual below tolerance in a single outer iteration, and setup should
// build exactly one level (no strong connections to coarsen against).
func TestSolveIdentityConvergesImmediately(t *testing.T) {
	n := 1000
	a := identity(n)
	src := rand.New(rand.NewSource(2))
	b := make([]float64, n)
	for i := range b {
		b[i] = src.Float64()
	}
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Iterations > 1 {
		t.Errorf("expected convergence in <= 1 iteration for the identity matrix, took %d", res.Iterations)
	}
	if res.Hierarchy != nil && len(res.Hierarchy.Levels) != 1 {
		t.Errorf("expected exactly one level for the identity matrix, got %d", len(res.Hierarchy.Levels))
	}
}

// TestSolveSingularSystemZeroRHS exercises spec §8 seed scenario 4's first
// half: a singular system (constant null-space, from a 1D Poisson operator
// with Neumann-like zero row-sum) with a zero right-hand side stays at the
// zero solution after a cycle, to machine precision.
func TestSolveSingularSystemZeroRHS(t *testing.T) {
	n := 1024
	a := neumannLaplacian1D(n)
	b := make([]float64, n)
	x0 := make([]float64, n)

	cfg := DefaultConfig()
	cfg.PrecondType = PrecondAMG
	cfg.CoarseDOF = 10

	res, err := Solve(a, b, x0, cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i, v := range res.X {
		if v != 0 {
			t.Fatalf("expected the zero right-hand side to stay at the zero solution, x[%d] = %v", i, v)
		}
	}
}

// neumannLaplacian1D builds the singular 1D Poisson operator with free
// (Neumann) boundaries, whose null-space is the constant vector: every row
// sums to zero.
func neumannLaplacian1D(n int) *sparse.CSR {
	coo := sparse.NewCOO(n, n, nil, nil, nil)
	for i := 0; i < n; i++ {
		deg := 0.0
		if i > 0 {
			coo.Set(i, i-1, -1)
			deg++
		}
		if i < n-1 {
			coo.Set(i, i+1, -1)
			deg++
		}
		coo.Set(i, i, deg)
	}
	return coo.ToCSR()
}
