package interp

import (
	"testing"

	"github.com/james-bowman/amg/aggregate"
	"github.com/james-bowman/amg/coarsen"
	"github.com/james-bowman/amg/sparse"
	"github.com/james-bowman/amg/strength"
)

func laplacian1D(n int) *sparse.CSR {
	coo := sparse.NewCOO(n, n, nil, nil, nil)
	for i := 0; i < n; i++ {
		coo.Set(i, i, 2)
		if i > 0 {
			coo.Set(i, i-1, -1)
		}
		if i < n-1 {
			coo.Set(i, i+1, -1)
		}
	}
	return coo.ToCSR()
}

func TestTentativeOneNonzeroPerRow(t *testing.T) {
	agg := []int{0, 0, 1, 1, 2}
	p := Tentative(agg, 3, nil)
	for i := range agg {
		if p.RowNNZ(i) != 1 {
			t.Errorf("row %d: expected exactly one nonzero, got %d", i, p.RowNNZ(i))
		}
		if p.At(i, agg[i]) != 1 {
			t.Errorf("row %d: expected 1.0 at aggregate %d", i, agg[i])
		}
	}
}

func TestDirectRowSums(t *testing.T) {
	a := laplacian1D(10)
	s, err := strength.Compute(a, strength.DefaultOptions())
	if err != nil {
		t.Fatalf("strength.Compute: %v", err)
	}
	sp := coarsen.Run(a, s, coarsen.Options{})

	p := Direct(a, s, sp.Status)
	r, c := p.Dims()
	t.Logf("P is %dx%d with %d coarse points", r, c, sp.NumCoarse())

	for i, st := range sp.Status {
		if st == coarsen.Coarse {
			continue
		}
		if st == coarsen.Isolated {
			continue
		}
		sum := 0.0
		p.DoRowNonZero(i, func(_, j int, v float64) {
			sum += v
		})
		if sum < 0 || sum > 1.5 {
			t.Errorf("row %d: unexpected interpolation weight sum %v", i, sum)
		}
	}
}

func TestTruncateByFractionPreservesRowSums(t *testing.T) {
	coo := sparse.NewCOO(1, 4, nil, nil, nil)
	coo.Set(0, 0, 0.5)
	coo.Set(0, 1, 0.4)
	coo.Set(0, 2, 0.001)
	coo.Set(0, 3, -0.3)
	p := coo.ToCSR()

	before := 0.0
	p.DoRowNonZero(0, func(_, j int, v float64) {
		if v > 0 {
			before += v
		}
	})

	TruncateByFraction(p, 0.2)

	after := 0.0
	p.DoRowNonZero(0, func(_, j int, v float64) {
		if v > 0 {
			after += v
		}
	})
	t.Logf("positive sum before=%v after=%v", before, after)
	if diff := before - after; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("truncation must preserve positive row sum: before=%v after=%v", before, after)
	}
	if p.At(0, 2) != 0 {
		t.Errorf("expected small entry (0,2) to be truncated, got %v", p.At(0, 2))
	}
}

func TestEnergyMinPreservesPattern(t *testing.T) {
	a := laplacian1D(12)
	s, err := strength.Compute(a, strength.DefaultOptions())
	if err != nil {
		t.Fatalf("strength.Compute: %v", err)
	}
	m, err := aggregate.VMB(s)
	if err != nil {
		t.Fatalf("aggregate.VMB: %v", err)
	}
	tentative := Tentative(m.Agg, m.N, nil)

	p := EnergyMin(a, tentative)
	r, c := p.Dims()
	if r != 12 || c != m.N {
		t.Fatalf("unexpected P dimensions: got %dx%d want %dx%d", r, c, 12, m.N)
	}
	for i := 0; i < r; i++ {
		if p.RowNNZ(i) == 0 {
			t.Errorf("row %d: energy-min interpolation produced no support", i)
		}
	}
}
