// Package aggregate builds an aggregate map (unknown -> aggregate id) for
// unsmoothed aggregation coarsening, either by VMB greedy traversal or by
// iterated pairwise matching (spec §4.5).
package aggregate

import (
	"errors"

	"github.com/james-bowman/amg/sparse"
)

// Unaggregated is the sentinel value for an unknown not yet assigned to any
// aggregate.
const Unaggregated = -1

// ErrNoAggregates is returned when a pass produces zero aggregates (every
// unknown remained unaggregated), signalling the caller should adjust its
// strength threshold and retry per spec §4.5.
var ErrNoAggregates = errors.New("aggregate: no aggregates formed")

// Map is the result of aggregation: Agg[i] is the aggregate id owning
// unknown i, and N is the number of aggregates.
type Map struct {
	Agg []int
	N   int
}

// VMB builds an aggregate map from strength graph s using the VMB
// ("vertex-marking, breadth") greedy algorithm of spec §4.5: traverse
// unknowns in natural order, opening a new aggregate from any unaggregated
// unknown whose entire strong neighbourhood is itself unaggregated; in a
// second sweep, attach any still-unaggregated unknown to its strongest
// already-aggregated neighbour, or else start a singleton aggregate for it.
func VMB(s *sparse.CSR) (*Map, error) {
	n, _ := s.Dims()
	agg := make([]int, n)
	for i := range agg {
		agg[i] = Unaggregated
	}

	next := 0
	for i := 0; i < n; i++ {
		if agg[i] != Unaggregated {
			continue
		}
		allFree := true
		s.DoRowNonZero(i, func(_, j int, _ float64) {
			if agg[j] != Unaggregated {
				allFree = false
			}
		})
		if !allFree {
			continue
		}

		agg[i] = next
		s.DoRowNonZero(i, func(_, j int, _ float64) {
			agg[j] = next
		})
		next++
	}

	for i := 0; i < n; i++ {
		if agg[i] != Unaggregated {
			continue
		}
		best := Unaggregated
		bestWeight := 0.0
		s.DoRowNonZero(i, func(_, j int, v float64) {
			if agg[j] == Unaggregated {
				return
			}
			if best == Unaggregated || v > bestWeight {
				best = agg[j]
				bestWeight = v
			}
		})
		if best != Unaggregated {
			agg[i] = best
		} else {
			agg[i] = next
			next++
		}
	}

	if next == 0 {
		return nil, ErrNoAggregates
	}
	return &Map{Agg: agg, N: next}, nil
}

// PairwiseOptions configures iterated pairwise matching.
type PairwiseOptions struct {
	// PairNumber is the number of matching passes to run; each pass at most
	// doubles aggregate size, so the resulting aggregates have size up to
	// 2^PairNumber.
	PairNumber int
	// QualityBound is the minimum coupling strength a pair must exceed to
	// be matched.
	QualityBound float64
}

// Pairwise builds an aggregate map by iterated maximum-weight matching on
// strength graph s (weighted by the negated entries of a on s's pattern, so
// the negative off-diagonal couplings of an M-matrix count as strong): in
// each pass every still-unmatched unknown is greedily paired with its
// strongest unmatched neighbour whose coupling exceeds the quality bound;
// pairs become aggregates for the next pass, unpaired unknowns propagate
// alone. Returns the final aggregate map after opts.PairNumber passes.
func Pairwise(a, s *sparse.CSR, opts PairwiseOptions) (*Map, error) {
	n, _ := a.Dims()

	// agg[i] tracks the current-pass aggregate id of original unknown i;
	// initialised as singletons.
	agg := make([]int, n)
	for i := range agg {
		agg[i] = i
	}
	numAgg := n

	for pass := 0; pass < opts.PairNumber; pass++ {
		// Build the coarse-weighted graph for this pass: coarse node c's
		// neighbours and strongest coupling to each other coarse node,
		// derived from summing the negated entries of a between constituent
		// unknowns restricted to s's pattern.
		weight := make(map[[2]int]float64, numAgg)
		s.DoNonZero(func(i, j int, _ float64) {
			ci, cj := agg[i], agg[j]
			if ci == cj {
				return
			}
			w := -a.At(i, j)
			key := [2]int{ci, cj}
			if ci > cj {
				key = [2]int{cj, ci}
			}
			weight[key] += w
		})

		adj := make(map[int]map[int]float64, numAgg)
		for key, w := range weight {
			if adj[key[0]] == nil {
				adj[key[0]] = map[int]float64{}
			}
			if adj[key[1]] == nil {
				adj[key[1]] = map[int]float64{}
			}
			adj[key[0]][key[1]] = w
			adj[key[1]][key[0]] = w
		}

		matched := make(map[int]bool, numAgg)
		newID := make(map[int]int, numAgg)
		nNew := 0

		for c := 0; c < numAgg; c++ {
			if matched[c] {
				continue
			}
			best := Unaggregated
			bestW := opts.QualityBound
			for nb, w := range adj[c] {
				if matched[nb] {
					continue
				}
				if w > bestW {
					best = nb
					bestW = w
				}
			}
			if best != Unaggregated {
				matched[c] = true
				matched[best] = true
				newID[c] = nNew
				newID[best] = nNew
			} else {
				matched[c] = true
				newID[c] = nNew
			}
			nNew++
		}

		for i := range agg {
			agg[i] = newID[agg[i]]
		}
		numAgg = nNew
	}

	if numAgg == 0 {
		return nil, ErrNoAggregates
	}
	return &Map{Agg: agg, N: numAgg}, nil
}
