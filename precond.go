package amg

import (
	"github.com/james-bowman/amg/smooth"
	"github.com/james-bowman/amg/sparse"
)

// newSmootherILU factorizes a's ILU(0) once and returns a closure applying
// one smoothing sweep against whatever (b, x) pair it's given, used by
// buildPreconditioner to turn the ILU smoother into a stand-alone
// krylov.Preconditioner (spec §6 "precond_type: ILU").
func newSmootherILU(a *sparse.CSR) (func(b, x []float64) error, error) {
	ilu, err := smooth.NewILU(a)
	if err != nil {
		return nil, err
	}
	return func(b, x []float64) error {
		return ilu.Smooth(a, b, x)
	}, nil
}

// newSmootherSchwarz partitions a into overlapping blocks once and returns
// a closure applying one additive-Schwarz sweep, used by
// buildPreconditioner for spec §6 "precond_type: Schwarz".
func newSmootherSchwarz(a *sparse.CSR, cfg Config) (func(b, x []float64) error, error) {
	blockSize := cfg.SchwarzMMSize
	if blockSize < 1 {
		blockSize = 32
	}
	blocks, err := smooth.BuildBlocks(a, blockSize, cfg.SchwarzMaxLvl)
	if err != nil {
		return nil, err
	}
	return func(b, x []float64) error {
		return smooth.Schwarz(a, blocks, b, x, 1)
	}, nil
}
