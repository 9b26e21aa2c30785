// Package amg drives the AMG setup and solve pipeline of spec §4.7/§4.8:
// building a hierarchy of progressively coarser Galerkin operators from a
// single fine-level sparse matrix, and applying it as a standalone
// iterative solver or as a preconditioner to a Krylov outer method. It ties
// together the leaves-first stack of sibling packages - sparse (the CSR
// kernel and triple product), strength, coarsen, aggregate, interp, smooth
// and krylov - exactly as the source's monolithic setup routine does,
// generalized behind package boundaries per the "multiple matrix-format
// duplication" and "macros for debug prints" re-architecture notes in
// spec §9.
package amg

import (
	"math"

	"github.com/james-bowman/amg/aggregate"
	"github.com/james-bowman/amg/coarsen"
	"github.com/james-bowman/amg/interp"
	"github.com/james-bowman/amg/smooth"
	"github.com/james-bowman/amg/sparse"
	"github.com/james-bowman/amg/strength"
)

const (
	// regDiagEps is the magnitude below which a diagonal entry is treated
	// as numerically tiny and replaced during the setup-time regdiag pass
	// (spec §4.2 "Failure semantics").
	regDiagEps = 1e-14
	// regDiagSafe is the safe value a tiny diagonal is replaced with.
	regDiagSafe = 1e-10
	// maxCoarseningRatio is MAX_CRATE from spec §4.4: a level whose
	// coarsening ratio n_coarse/n_fine exceeds this is judged "too
	// aggressive" (S too weak) and discarded.
	maxCoarseningRatio = 0.9
)

// Level holds everything the cycle executor needs at one level of the
// hierarchy (spec §3 "AMG hierarchy"): the operator, the inter-level
// transfer operators (nil on the coarsest level), per-level scratch
// vectors, and whatever smoother state (ILU factors, Schwarz blocks) setup
// managed to build for it.
type Level struct {
	A *sparse.CSR
	P *sparse.CSR
	R *sparse.CSR

	// Diag is a's cached diagonal, reused by Jacobi/polynomial smoothing
	// every cycle instead of recomputing it.
	Diag []float64

	// Gamma is the per-level cycle-repeat count consumed by Cycle's
	// recursive traversal: fixed (1 or 2) for CycleV/CycleW, or derived
	// from the gamma_l recurrence of spec §4.7 for CycleAdaptive.
	Gamma int

	// CStatus is the classical C/F splitting for this level (nil for
	// aggregation-based levels), used to build C-then-F/F-then-C smoother
	// orderings.
	CStatus []coarsen.Status

	// EffectiveSmoother is the smoother actually usable on this level
	// after any setup-time demotion (e.g. ILU factorization failed).
	EffectiveSmoother SmootherType
	ilu               *smooth.ILU
	schwarz           []smooth.Block

	// B, X, W are per-level scratch vectors sized to this level (spec §3):
	// right-hand side, iterate, and a general work vector reused by
	// smoothers and the cycle executor's residual computation.
	B, X, W []float64
}

func (l *Level) size() int {
	n, _ := l.A.Dims()
	return n
}

// Hierarchy is the result of Setup: an ordered sequence of levels plus the
// coarsest-level direct solver and a trail of non-fatal demotions recorded
// along the way (spec §3 "AMG hierarchy", §7 "User-visible failure
// behavior").
type Hierarchy struct {
	Levels       []*Level
	Config       Config
	CoarseSolver DirectSolver
	Warnings     []LevelWarning

	log *logger
}

func (h *Hierarchy) warn(level int, err error, msg string) {
	h.Warnings = append(h.Warnings, LevelWarning{Level: level, Err: err, Msg: msg})
	h.log.logf(PrintMin+1, "amg: level %d: %s: %v", level, msg, err)
}

// OperatorComplexity returns sum(nnz(A_l)) / nnz(A_0), the cost proxy of
// spec's glossary ("Operator complexity").
func (h *Hierarchy) OperatorComplexity() float64 {
	if len(h.Levels) == 0 {
		return 0
	}
	total := 0
	for _, l := range h.Levels {
		total += l.A.NNZ()
	}
	return float64(total) / float64(h.Levels[0].A.NNZ())
}

// Setup builds the AMG hierarchy for operator a per spec §4.7: repeatedly
// coarsening, interpolating and forming the Galerkin operator until a
// coarse-DOF or max-levels limit is reached, then preparing the coarsest-
// level solver. A non-square a is rejected up front with
// ErrDimensionMismatch. A failure while building a level releases every
// partial allocation implicitly (nothing outlives the returned error; the
// caller simply discards it) and
// returns a SetupError identifying the level and underlying condition (spec
// §7 "a failed setup returns a distinguished code and a partial hierarchy
// in a well-defined state").
func Setup(a *sparse.CSR, cfg Config) (*Hierarchy, error) {
	n, m := a.Dims()
	if n != m {
		return nil, ErrDimensionMismatch
	}

	h := &Hierarchy{Config: cfg, log: newLogger(cfg.PrintLevel, cfg.Output)}

	cur := a.ToCSR()
	cur.SortIndices()

	quality := cfg.QualityBound

	for len(h.Levels) < cfg.MaxLevels-1 {
		lvl := h.size0(cur)

		if err := regDiag(cur); err != nil {
			return nil, &SetupError{Level: len(h.Levels), Err: err}
		}

		lvl.EffectiveSmoother = cfg.Smoother
		h.setupSmootherState(lvl, cfg)

		nFine, _ := cur.Dims()
		if nFine <= cfg.CoarseDOF {
			h.Levels = append(h.Levels, lvl)
			break
		}

		var p *sparse.CSR
		var cstatus []coarsen.Status
		var boolP bool
		var agg *aggregate.Map

		switch cfg.AMGType {
		case ClassicalRS:
			sOpts := strength.Options{Rule: strength.Classical, Theta: cfg.StrongThreshold, Theta2: cfg.MaxRowSum}
			s, err := strength.Compute(cur, sOpts)
			if err != nil {
				h.warn(len(h.Levels), err, "empty strength graph, stopping coarsening")
				h.Levels = append(h.Levels, lvl)
				goto coarsest
			}

			coarseningType := cfg.CoarseningType
			if coarseningType == CompatibleRelaxation {
				h.warn(len(h.Levels), nil, "compatible-relaxation coarsening not implemented, demoting to modified RS")
				coarseningType = ModifiedRS
			}

			split := coarsen.Run(cur, s, coarsen.Options{
				Aggressive: cfg.Aggressive || coarseningType == AggressiveCoarsening,
			})
			cstatus = split.Status

			if split.NumCoarse() < 1 || float64(split.NumCoarse())/float64(nFine) > maxCoarseningRatio {
				h.warn(len(h.Levels), nil, "coarsening ratio too aggressive, stopping")
				h.Levels = append(h.Levels, lvl)
				goto coarsest
			}

			switch cfg.InterpolationType {
			case InterpStandard:
				p = interp.Standard(cur, s, cstatus)
			case InterpEnergyMin:
				h.warn(len(h.Levels), nil, "energy-min interpolation requires a tentative operator, demoting to standard")
				p = interp.Standard(cur, s, cstatus)
			default:
				p = interp.Direct(cur, s, cstatus)
			}
			interp.TruncateByFraction(p, cfg.TruncationThreshold)

		default:
			sOpts := strength.Options{Rule: strength.Classical, Theta: quality, Theta2: cfg.MaxRowSum}
			s, err := strength.Compute(cur, sOpts)
			if err != nil {
				h.warn(len(h.Levels), err, "empty strength graph, stopping aggregation")
				h.Levels = append(h.Levels, lvl)
				goto coarsest
			}

			agg, quality, err = h.runAggregation(cur, s, cfg, quality, len(h.Levels))
			if err != nil {
				h.warn(len(h.Levels), err, "aggregation failed, stopping")
				h.Levels = append(h.Levels, lvl)
				goto coarsest
			}

			boolP = true
			tentative := interp.Tentative(agg.Agg, agg.N, nil)
			if cfg.AMGType == SmoothedAggregation {
				p = interp.EnergyMin(cur, tentative)
				boolP = false
			} else {
				p = tentative
			}
		}

		_, pm := p.Dims()
		if pm < 1 || pm >= nFine || float64(pm)/float64(nFine) > maxCoarseningRatio {
			h.warn(len(h.Levels), nil, "prolongation produced too few or too many coarse columns, stopping")
			h.Levels = append(h.Levels, lvl)
			goto coarsest
		}

		r := p.T().(*sparse.CSC).ToCSR()
		r.SortIndices()

		var next *sparse.CSR
		if boolP {
			next = sparse.RAPAgg(cur, agg.Agg, agg.N)
		} else {
			next = sparse.RAP(r, cur, p)
		}
		next.SortIndices()
		if err := next.DiagonalPreference(); err != nil {
			h.warn(len(h.Levels), err, "coarse operator has a structurally zero diagonal row; regdiag will inject a safe value")
		}

		lvl.P = p
		lvl.R = r
		lvl.CStatus = cstatus
		h.Levels = append(h.Levels, lvl)

		cur = next
	}

	if len(h.Levels) == 0 || h.Levels[len(h.Levels)-1].A != cur {
		lvl := h.size0(cur)
		if err := regDiag(cur); err != nil {
			return nil, &SetupError{Level: len(h.Levels), Err: err}
		}
		lvl.EffectiveSmoother = cfg.Smoother
		h.setupSmootherState(lvl, cfg)
		h.Levels = append(h.Levels, lvl)
	}

coarsest:
	assignGammas(h.Levels, cfg.CycleType)

	coarse := h.Levels[len(h.Levels)-1]
	var solver DirectSolver
	if cfg.CoarseSolver == CoarseDirect {
		cs := newCholeskySolver()
		if err := cs.Factorize(coarse.A); err != nil {
			h.warn(len(h.Levels)-1, err, "coarsest-level direct factorization failed, falling back to iterative solve")
			solver = newIterativeSolver(50)
			_ = solver.Factorize(coarse.A)
		} else {
			solver = cs
		}
	} else {
		solver = newIterativeSolver(50)
		_ = solver.Factorize(coarse.A)
	}
	h.CoarseSolver = solver

	h.log.logf(PrintSetup, "amg: built %d levels, operator complexity=%.3f", len(h.Levels), h.OperatorComplexity())

	return h, nil
}

// size0 allocates a fresh Level for operator a, including its scratch
// vectors and cached diagonal.
func (h *Hierarchy) size0(a *sparse.CSR) *Level {
	n, _ := a.Dims()
	return &Level{
		A:    a,
		Diag: a.Diagonal(),
		B:    make([]float64, n),
		X:    make([]float64, n),
		W:    make([]float64, n),
	}
}

// regDiag implements spec §4.2's setup-time regdiag pass: replace any
// numerically tiny diagonal entry by a safe value, and abort the whole
// setup if any diagonal entry is negative (the M-matrix-like assumption the
// rest of the pipeline depends on).
func regDiag(a *sparse.CSR) error {
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		d := a.At(i, i)
		if d < 0 {
			return ErrNegativeDiagonal
		}
		if d < regDiagEps {
			a.Set(i, i, regDiagSafe)
		}
	}
	return nil
}

// runAggregation dispatches to VMB or pairwise matching per cfg, applying
// spec §4.5's adaptive quality-bound retry: if a pass produces an
// aggregate count outside the target window, the threshold is nudged and
// the pass retried (bounded retries; per DESIGN.md's resolution of the
// §9 open question, the starting bound for each level is always
// cfg.QualityBound, not the previous level's adapted value). VMB does not
// take the bound, so a VMB retry repeats the same pass. If every retry
// stays outside the window, ErrAggregateSizeBound is returned.
func (h *Hierarchy) runAggregation(a, s *sparse.CSR, cfg Config, quality float64, level int) (*aggregate.Map, float64, error) {
	n, _ := a.Dims()
	targetMin := n / (4 * maxi(cfg.MaxAggregation, 1))
	targetMax := n / 2

	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		var m *aggregate.Map
		var err error
		switch cfg.AggregationType {
		case Pairwise:
			m, err = aggregate.Pairwise(a, s, aggregate.PairwiseOptions{
				PairNumber:   cfg.PairNumber,
				QualityBound: quality,
			})
		default:
			m, err = aggregate.VMB(s)
		}
		if err != nil {
			lastErr = err
			quality /= 2
			continue
		}

		if m.N < targetMin && quality > 1e-6 {
			quality /= 2
			h.warn(level, nil, "too few aggregates, lowering quality bound and retrying")
			continue
		}
		if m.N > targetMax && quality < 0.95 {
			quality *= 2
			if quality > 1 {
				quality = 1
			}
			h.warn(level, nil, "too many aggregates, raising quality bound and retrying")
			continue
		}
		return m, cfg.QualityBound, nil
	}
	if lastErr != nil {
		return nil, cfg.QualityBound, lastErr
	}
	return nil, cfg.QualityBound, ErrAggregateSizeBound
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// setupSmootherState optionally factorizes an ILU or builds Schwarz blocks
// for lvl, per cfg's smoother selection and spec §4.7 step 1 ("Optionally
// setup ILU and/or Schwarz smoother on level l (failure demotes to a
// simpler smoother and logs a warning; not fatal)").
func (h *Hierarchy) setupSmootherState(lvl *Level, cfg Config) {
	if cfg.ILUType == ILUThreshold && (cfg.Smoother == SmootherILU || cfg.PrecondType == PrecondILU) {
		h.warn(len(h.Levels), nil, "ILUT not implemented, demoting to ILU(0)")
	}
	switch cfg.Smoother {
	case SmootherILU:
		ilu, err := smooth.NewILU(lvl.A)
		if err != nil {
			h.warn(len(h.Levels), err, "ILU factorization failed, demoting level smoother to Gauss-Seidel")
			lvl.EffectiveSmoother = SmootherGS
			return
		}
		lvl.ilu = ilu
	case SmootherSchwarz:
		blockSize := cfg.SchwarzMMSize
		if blockSize < 1 {
			blockSize = 32
		}
		blocks, err := smooth.BuildBlocks(lvl.A, blockSize, cfg.SchwarzMaxLvl)
		if err != nil {
			h.warn(len(h.Levels), err, "Schwarz block setup failed, demoting level smoother to Gauss-Seidel")
			lvl.EffectiveSmoother = SmootherGS
			return
		}
		lvl.schwarz = blocks
	}

	if cfg.PrecondType == PrecondILU && lvl.ilu == nil && cfg.Smoother != SmootherILU {
		if ilu, err := smooth.NewILU(lvl.A); err == nil {
			lvl.ilu = ilu
		}
	}
	if cfg.PrecondType == PrecondSchwarz && lvl.schwarz == nil && cfg.Smoother != SmootherSchwarz {
		blockSize := cfg.SchwarzMMSize
		if blockSize < 1 {
			blockSize = 32
		}
		if blocks, err := smooth.BuildBlocks(lvl.A, blockSize, cfg.SchwarzMaxLvl); err == nil {
			lvl.schwarz = blocks
		}
	}
}

// assignGammas computes the adaptive gamma_l recurrence of spec §4.7:
//
//	gamma_l = floor(xi^l / (eta * rho_l * gammaProd)) clamped to [1, 2]
//
// where rho_l = nnz(A_l)/nnz(A_0). For CycleAdaptive this recurrence
// actually drives lvl.Gamma (the adaptive V/W mix spec §4.7 describes);
// the fixed cycle types keep their own fixed repeat count (V=1, W=2,
// AMLI/nonlinear-AMLI=1, since those replace the recursive call outright)
// regardless of what the recurrence would have produced.
func assignGammas(levels []*Level, cycleType CycleType) {
	if len(levels) == 0 {
		return
	}
	const xi = 0.6
	eta := 1.0 / float64(len(levels))
	nnz0 := float64(levels[0].A.NNZ())

	gammaProd := 1.0
	for l, lvl := range levels {
		rho := float64(lvl.A.NNZ()) / nnz0
		if rho <= 0 {
			rho = 1
		}
		g := math.Floor(math.Pow(xi, float64(l)) / (eta * rho * gammaProd))
		if g < 1 {
			g = 1
		}
		if g > 2 {
			g = 2
		}
		gammaProd *= g

		switch cycleType {
		case CycleAdaptive:
			lvl.Gamma = int(g)
		case CycleW:
			lvl.Gamma = 2
		case CycleAMLI, CycleNonlinearAMLI:
			lvl.Gamma = 1
		default:
			lvl.Gamma = 1
		}
	}
}
