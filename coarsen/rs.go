// Package coarsen implements classical Ruge-Stuben coarsening: building a
// coarse/fine (C/F) splitting of the unknowns of a strength-of-connection
// graph S, with an optional aggressive (path-length-2) variant producing a
// sparser C-set.
package coarsen

import (
	"github.com/james-bowman/amg/sparse"
)

// Status of an unknown after coarsening.
type Status int

const (
	// Undecided unknowns have not yet been classified; Split never returns
	// this value but it is the zero-value used internally during phase 1.
	Undecided Status = iota
	// Coarse unknowns are kept on the next (coarser) level.
	Coarse
	// Fine unknowns are eliminated and interpolated from coarse neighbours.
	Fine
	// Isolated unknowns have no (or a trivial) strong neighbourhood and are
	// assigned trivially - they neither interpolate from nor contribute to
	// any other unknown.
	Isolated
)

// Options configures classical coarsening.
type Options struct {
	// Aggressive enables the path-length-2 variant (spec §4.4): phase 1 runs
	// over an augmented strength graph S^2 instead of S, and instead of
	// phase 2 a sweep promotes every fine unknown that has no coarse unknown
	// within distance 2 in S.
	Aggressive bool
	// AnyPath selects, when Aggressive is set, whether S^2's edge (i,j)
	// requires only one length-2 path i -> k -> j in S (true) or at least
	// two distinct intermediate vertices k (false).
	AnyPath bool
}

// Split is the result of classical coarsening: a per-unknown Status plus the
// strength graph S it was computed from (callers need S again to build the
// interpolation operator).
type Split struct {
	Status []Status
	S      *sparse.CSR
}

// NumCoarse returns the number of unknowns marked Coarse.
func (sp *Split) NumCoarse() int {
	n := 0
	for _, s := range sp.Status {
		if s == Coarse {
			n++
		}
	}
	return n
}

// Run performs classical Ruge-Stuben coarsening of operator a given its
// precomputed strength graph s, returning the C/F splitting. a is used only
// to detect isolated unknowns (degree <= 1); all measure/propagation logic
// operates on s.
func Run(a, s *sparse.CSR, opts Options) *Split {
	n, _ := a.Dims()

	workS := s
	if opts.Aggressive {
		workS = aggressiveGraph(s, opts.AnyPath)
	}

	status := make([]Status, n)
	for i := 0; i < n; i++ {
		if a.RowNNZ(i) <= 1 {
			status[i] = Isolated
		}
	}

	sT := workS.T().(*sparse.CSC).ToCSR()

	lambda := make([]int, n)
	for i := 0; i < n; i++ {
		if status[i] == Isolated {
			continue
		}
		lambda[i] = sT.RowNNZ(i)
	}

	maxLambda := 0
	for _, l := range lambda {
		if l > maxLambda {
			maxLambda = l
		}
	}
	// headroom for re-bucketing as lambda grows during phase 1
	bl := newBuckets[int](n, maxLambda+n)
	for i := 0; i < n; i++ {
		if status[i] != Isolated {
			bl.Insert(i, lambda[i])
		}
	}

	phase1(status, lambda, workS, sT, bl)
	if opts.Aggressive {
		// phase 3: a fine unknown with no coarse unknown within distance 2
		// in s is promoted to coarse.
		for i := range status {
			near := status[i] != Fine
			s.DoRowNonZero(i, func(_, j int, _ float64) {
				near = near || status[j] == Coarse
				s.DoRowNonZero(j, func(_, k int, _ float64) { near = near || status[k] == Coarse })
			})
			if !near {
				status[i] = Coarse
			}
		}
	} else {
		phase2(status, s)
	}

	return &Split{Status: status, S: s}
}

// phase1 implements spec §4.4 phase 1: greedy selection of coarse points by
// descending measure, immediately demoting strongly-dependent neighbours to
// fine and updating measures of their undecided neighbours.
func phase1(status []Status, lambda []int, s, sT *sparse.CSR, bl *buckets[int]) {
	for {
		m, ok := bl.PopMax()
		if !ok {
			break
		}
		if status[m] != Undecided {
			continue
		}
		status[m] = Coarse

		sT.DoRowNonZero(m, func(_, j int, _ float64) {
			if status[j] != Undecided || !bl.Contains(j) {
				return
			}
			status[j] = Fine
			bl.Remove(j)
			s.DoRowNonZero(j, func(_, k int, _ float64) {
				if status[k] == Undecided && bl.Contains(k) {
					lambda[k]++
					bl.Rekey(k, lambda[k])
				}
			})
		})

		s.DoRowNonZero(m, func(_, j int, _ float64) {
			if status[j] != Undecided || !bl.Contains(j) {
				return
			}
			lambda[j]--
			if lambda[j] <= 0 {
				status[j] = Fine
				bl.Remove(j)
			} else {
				bl.Rekey(j, lambda[j])
			}
		})
	}

	// any remaining Undecided unknown (isolated within S despite a nonzero
	// row in A, or left over from bucket exhaustion) defaults to Fine;
	// the Isolated status for truly disconnected unknowns was set before
	// phase 1 even began and is untouched here.
	for i := range status {
		if status[i] == Undecided {
			status[i] = Fine
		}
	}
}

// phase2 implements spec §4.4 phase 2 (C-i-nonempty completion): for every
// fine unknown, every strongly-connected fine neighbour must share a common
// coarse strong neighbour with it; offending neighbours (or, failing that,
// the unknown itself) are promoted to coarse.
func phase2(status []Status, s *sparse.CSR) {
	n, _ := s.Dims()
	neighC := make(map[int]bool, 8)

	for i := 0; i < n; i++ {
		if status[i] != Fine {
			continue
		}

		for k := range neighC {
			delete(neighC, k)
		}
		s.DoRowNonZero(i, func(_, j int, _ float64) {
			if status[j] == Coarse {
				neighC[j] = true
			}
		})

		var offender = -1
		s.DoRowNonZero(i, func(_, j int, _ float64) {
			if offender != -1 || status[j] != Fine {
				return
			}
			shared := false
			s.DoRowNonZero(j, func(_, k int, _ float64) {
				if neighC[k] {
					shared = true
				}
			})
			if !shared {
				offender = j
			}
		})

		if offender != -1 {
			status[offender] = Coarse
		}
	}
}

// aggressiveGraph builds the path-length-2 augmented strength graph S^2 per
// spec §4.4: edge (i,j) exists iff there is a path i -> k -> j in S (k != i,
// j) through at least one common neighbour k, with anyPath selecting
// whether one such k suffices (true) or two disjoint paths are required
// (false, implemented as requiring at least two distinct witnesses k).
func aggressiveGraph(s *sparse.CSR, anyPath bool) *sparse.CSR {
	n, _ := s.Dims()
	coo := sparse.NewCOO(n, n, nil, nil, nil)

	witness := make(map[int]int, 16)
	for i := 0; i < n; i++ {
		for k := range witness {
			delete(witness, k)
		}
		s.DoRowNonZero(i, func(_, k int, _ float64) {
			s.DoRowNonZero(k, func(_, j int, _ float64) {
				if j == i {
					return
				}
				witness[j]++
			})
		})
		for j, count := range witness {
			if anyPath || count >= 2 {
				coo.Set(i, j, 1)
			}
		}
	}

	return coo.ToCSR()
}
