package amg

import (
	"io"

	"github.com/james-bowman/amg/krylov"
)

// SolverType selects the outer method (spec §6 "solver_type").
type SolverType int

const (
	// SolverCG runs preconditioned conjugate gradients.
	SolverCG SolverType = iota
	// SolverMINRES runs preconditioned MINRES.
	SolverMINRES
	// SolverBiCGSTAB runs preconditioned BiCGSTAB.
	SolverBiCGSTAB
	// SolverGMRES runs preconditioned (restarted) GMRES.
	SolverGMRES
	// SolverVariableGMRES runs GMRES allowing the preconditioner to vary
	// between iterations (a flexible/FGMRES-style inner loop); this build
	// runs the same restarted GMRES kernel since its preconditioner
	// callable is already re-evaluated fresh each application.
	SolverVariableGMRES
	// SolverAMG runs the multigrid hierarchy as a standalone iterative
	// solver (no outer Krylov acceleration).
	SolverAMG
	// SolverFullMG runs the same standalone AMG solve as SolverAMG
	// (Hierarchy.Solve from the supplied initial guess); no
	// coarsest-to-finest nested iteration or coarse-level seeding is
	// performed.
	SolverFullMG
)

// PrecondType selects the preconditioner applied to the outer Krylov method
// (spec §6 "precond_type").
type PrecondType int

const (
	// PrecondNone runs unpreconditioned Krylov iteration.
	PrecondNone PrecondType = iota
	// PrecondDiagonal applies a Jacobi (diagonal-scaling) preconditioner.
	PrecondDiagonal
	// PrecondAMG applies one multigrid cycle per preconditioner call.
	PrecondAMG
	// PrecondILU applies one ILU(0) smoothing sweep per preconditioner
	// call.
	PrecondILU
	// PrecondSchwarz applies one additive Schwarz sweep per preconditioner
	// call.
	PrecondSchwarz
)

// AMGType selects which coarsening/interpolation family builds the
// hierarchy (spec §6 "AMG_type").
type AMGType int

const (
	// ClassicalRS builds the hierarchy with Ruge-Stuben C/F coarsening.
	ClassicalRS AMGType = iota
	// SmoothedAggregation builds tentative aggregation prolongation and
	// then replaces it with energy-minimizing interpolation over the
	// tentative operator (interp.EnergyMin); no weighted-Jacobi
	// prolongator smoothing is applied.
	SmoothedAggregation
	// UnsmoothedAggregation builds boolean tentative aggregation
	// prolongation directly.
	UnsmoothedAggregation
)

// CoarseningType selects the classical-coarsening variant (spec §6
// "coarsening_type"); only meaningful when AMGType is ClassicalRS.
type CoarseningType int

const (
	// ModifiedRS is the standard two-phase classical coarsening of spec
	// §4.4.
	ModifiedRS CoarseningType = iota
	// AggressiveCoarsening runs classical coarsening's path-length-2
	// variant.
	AggressiveCoarsening
	// CompatibleRelaxation is named in spec §6 but not implemented by this
	// build (see DESIGN.md); requesting it demotes to ModifiedRS with a
	// logged warning rather than failing setup.
	CompatibleRelaxation
)

// InterpolationType selects how P is synthesized from a classical C/F
// splitting (spec §6 "interpolation_type"); unsmoothed aggregation always
// uses tentative interpolation regardless of this field.
type InterpolationType int

const (
	// InterpDirect uses direct interpolation (spec §4.6).
	InterpDirect InterpolationType = iota
	// InterpStandard uses standard (distance-2) interpolation.
	InterpStandard
	// InterpEnergyMin names energy-minimizing interpolation. With
	// ClassicalRS, setup demotes it to standard interpolation with a logged
	// warning; energy-min is only built from a tentative aggregation
	// operator (SmoothedAggregation).
	InterpEnergyMin
)

// AggregationType selects the aggregate-construction algorithm (spec §6
// "aggregation_type").
type AggregationType int

const (
	// VMB uses the VMB greedy aggregation algorithm.
	VMB AggregationType = iota
	// Pairwise uses iterated pairwise matching.
	Pairwise
)

// SmootherType selects the relaxation scheme applied at every level (spec
// §6 "smoother").
type SmootherType int

const (
	// SmootherJacobi applies weighted Jacobi.
	SmootherJacobi SmootherType = iota
	// SmootherGS applies Gauss-Seidel (omega=1 SOR).
	SmootherGS
	// SmootherSOR applies SOR with Config.Relaxation.
	SmootherSOR
	// SmootherSSOR applies one forward+backward SOR sweep pair.
	SmootherSSOR
	// SmootherPolynomial applies the Chebyshev-style polynomial smoother.
	SmootherPolynomial
	// SmootherILU applies one ILU(0) smoothing sweep.
	SmootherILU
	// SmootherSchwarz applies one additive Schwarz sweep.
	SmootherSchwarz
)

// SmoothOrder selects the row traversal order of a relaxation sweep (spec
// §6 "smooth_order").
type SmoothOrder int

const (
	// OrderForward sweeps rows 0..n-1.
	OrderForward SmoothOrder = iota
	// OrderBackward sweeps rows n-1..0.
	OrderBackward
	// OrderCThenF restricts a sweep to C-points then F-points (two
	// Restricted passes).
	OrderCThenF
	// OrderFThenC restricts a sweep to F-points then C-points.
	OrderFThenC
)

// CycleType selects the recursive traversal scheme (spec §6 "cycle_type").
type CycleType int

const (
	// CycleV is the standard V-cycle (one recursive call per level).
	CycleV CycleType = iota
	// CycleW is the W-cycle (two recursive calls per level).
	CycleW
	// CycleAMLI replaces the recursive call with a fixed-degree
	// polynomial-in-coarse-operator Richardson iteration.
	CycleAMLI
	// CycleNonlinearAMLI replaces the recursive call with a few Krylov
	// iterations on the coarse system, preconditioned by the next-lower
	// cycle.
	CycleNonlinearAMLI
	// CycleAdaptive derives each level's recursive-call count from the
	// gamma_l recurrence of spec §4.7 instead of a fixed V or W count,
	// yielding an adaptive V/W mix that bounds operator complexity.
	CycleAdaptive
)

// CoarseSolverType selects the coarsest-level solve (spec §6
// "coarse_solver").
type CoarseSolverType int

const (
	// CoarseDirect factorizes the coarsest operator with sparse Cholesky
	// (spec §1: pluggable direct back-ends are collaborators, not
	// reimplemented; this build ships the one in-tree implementation).
	CoarseDirect CoarseSolverType = iota
	// CoarseIterative solves the coarsest level with many (50) forward
	// Gauss-Seidel sweeps from a zero guess; CoarseDirect falls back to the
	// same solve when factorization fails.
	CoarseIterative
)

// ILUType selects the level-of-fill strategy for the ILU smoother/
// preconditioner (spec §6 "ILU_type"). This build implements ILU(0) only
// (see smooth.ILU); ILUT is accepted as a configuration value but setup
// demotes it to ILU(0) with a logged warning.
type ILUType int

const (
	// ILUZeroFill is no-fill ILU(0).
	ILUZeroFill ILUType = iota
	// ILUThreshold names ILUT (drop-tolerance ILU); demoted to ILU(0).
	ILUThreshold
)

// SchwarzType selects the overlap-construction strategy for additive
// Schwarz (spec §6 "Schwarz_type"). Setup does not read this field: both
// values build the same blocks, contiguous chunks of SchwarzMMSize
// unknowns (32 when SchwarzMMSize is below 1) each grown by SchwarzMaxLvl
// layers of graph expansion (smooth.BuildBlocks).
type SchwarzType int

const (
	// SchwarzByLevel selects the block construction described above.
	SchwarzByLevel SchwarzType = iota
	// SchwarzByMatchSize builds the same blocks as SchwarzByLevel.
	SchwarzByMatchSize
)

// Config bundles every option in spec §6's configuration table. Use
// DefaultConfig to obtain sane defaults and override only the fields a
// caller cares about.
type Config struct {
	// Outer solver selection.
	SolverType  SolverType
	PrecondType PrecondType
	StopType    krylov.StopType
	Tol         float64
	MaxIter     int
	Restart     int

	// Hierarchy construction.
	AMGType           AMGType
	CoarseningType    CoarseningType
	Aggressive        bool
	InterpolationType InterpolationType
	AggregationType   AggregationType
	PairNumber        int
	QualityBound      float64
	StrongThreshold   float64
	MaxRowSum         float64
	TruncationThreshold float64
	MaxAggregation    int
	MaxLevels         int
	CoarseDOF         int
	CoarseSolver      CoarseSolverType

	// Smoothing.
	Smoother       SmootherType
	SmoothOrder    SmoothOrder
	PreSmoothIter  int
	PostSmoothIter int
	Relaxation     float64

	// Cycle.
	CycleType    CycleType
	// CoarseScaling enables the optional line-search correction scaling of
	// spec §4.8 step 6: alpha minimizing the A-norm of the error along the
	// prolongated correction direction.
	CoarseScaling bool
	AMLIDegree    int
	// NLAMLIKrylovType selects the inner Krylov method the
	// nonlinear-AMLI cycle runs on the coarse system (spec §6
	// "nl_amli_krylov_type"); the open question in spec §9 of this not
	// being exposed at every call site is resolved by standardizing it
	// here, used at every nonlinear-AMLI recursion.
	NLAMLIKrylovType  SolverType
	NLAMLIKrylovIters int

	// ILU controls (spec §6).
	ILUType    ILUType
	ILULfil    int
	ILUDroptol float64
	ILURelax   float64
	ILUPermtol float64

	// Schwarz controls (spec §6).
	SchwarzType       SchwarzType
	SchwarzMaxLvl     int
	SchwarzMMSize     int
	SchwarzBlockSolver CoarseSolverType

	// Diagnostics.
	PrintLevel PrintLevel
	Output     io.Writer
}

// DefaultConfig returns the conventional parameter set used by the
// end-to-end seed scenarios in spec §8: classical RS coarsening with direct
// interpolation, V(1,1) cycle, Gauss-Seidel smoothing, and a
// safe-net CG outer iteration.
func DefaultConfig() Config {
	return Config{
		SolverType:  SolverCG,
		PrecondType: PrecondAMG,
		StopType:    krylov.RelResidual,
		Tol:         1e-8,
		MaxIter:     100,
		Restart:     30,

		AMGType:             ClassicalRS,
		CoarseningType:      ModifiedRS,
		InterpolationType:   InterpDirect,
		AggregationType:     VMB,
		PairNumber:          2,
		QualityBound:        0.5,
		StrongThreshold:     0.25,
		MaxRowSum:           0.9,
		TruncationThreshold: 0.2,
		MaxAggregation:      9,
		MaxLevels:           25,
		CoarseDOF:           20,
		CoarseSolver:        CoarseDirect,

		Smoother:       SmootherGS,
		SmoothOrder:    OrderForward,
		PreSmoothIter:  1,
		PostSmoothIter: 1,
		Relaxation:     1.0,

		CycleType:         CycleV,
		AMLIDegree:        2,
		NLAMLIKrylovType:  SolverGMRES,
		NLAMLIKrylovIters: 2,

		ILUType:    ILUZeroFill,
		ILULfil:    0,
		ILUDroptol: 1e-3,
		ILURelax:   0,
		ILUPermtol: 0.1,

		SchwarzType:        SchwarzByLevel,
		SchwarzMaxLvl:      1,
		SchwarzMMSize:      64,
		SchwarzBlockSolver: CoarseDirect,

		PrintLevel: PrintNone,
	}
}
