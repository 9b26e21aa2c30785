package sparse

import (
	"errors"
	"math"
)

// ErrMissingDiagonal is returned by DiagonalPreference when a row of the
// receiver has no stored diagonal entry at all (spec §4.1: diagonal
// preference "fails with MissingDiagonal if absent"). The row is left
// untouched; callers that can tolerate a structurally singular row (e.g.
// the hierarchy builder's regDiag pass, which subsequently injects a safe
// diagonal value) may treat this as a warning rather than a hard failure.
var ErrMissingDiagonal = errors.New("sparse: row has no stored diagonal entry")

// SortIndices sorts the column indices (and associated data) of each row of
// the receiver into ascending order in place.  Many of the coarsening and
// interpolation operations in the amg package assume rows are stored with
// ascending column indices (e.g. to merge two rows with a single linear
// scan); CSR rows built up via repeated Set calls are not guaranteed to be
// in that order (see blas.SparseMatrix.Set, which always inserts at the end
// of a row's range rather than maintaining sort order), so this is run once
// after construction is complete and before such algorithms are applied.
func (c *CSR) SortIndices() {
	for i := 0; i < c.matrix.I; i++ {
		start, end := c.matrix.Indptr[i], c.matrix.Indptr[i+1]
		ind := c.matrix.Ind[start:end]
		data := c.matrix.Data[start:end]
		sortRow(ind, data)
	}
}

// sortRow sorts ind and the parallel data slice into ascending order of ind
// using a simple insertion sort - rows are typically short (a handful of
// non-zeros per row for the sparse operators this package deals with) so an
// insertion sort avoids the overhead of sort.Sort's interface dispatch.
func sortRow(ind []int, data []float64) {
	for i := 1; i < len(ind); i++ {
		j := i
		for j > 0 && ind[j-1] > ind[j] {
			ind[j-1], ind[j] = ind[j], ind[j-1]
			data[j-1], data[j] = data[j], data[j-1]
			j--
		}
	}
}

// Permute reorders the rows and columns of the receiver according to the
// supplied permutation p (p[i] gives the new index of old row/column i) and
// returns the result as a new CSR matrix.  Columns are permuted only when the
// receiver is square; otherwise only the rows are reordered.
func (c *CSR) Permute(p []int) *CSR {
	r, cl := c.Dims()
	if len(p) != r {
		panic("sparse: permutation length mismatch")
	}

	coo := NewCOO(r, cl, nil, nil, nil)
	c.DoNonZero(func(i, j int, v float64) {
		nj := j
		if cl == r {
			nj = p[j]
		}
		coo.Set(p[i], nj, v)
	})
	return coo.ToCSR()
}

// DiagonalPreference reorders the column indices (and data) of each row of a
// square CSR matrix so that, where present, the diagonal entry is the first
// entry stored in each row. Several smoothers (Gauss-Seidel, SOR, ILU) scan
// a row looking for its diagonal entry on every sweep; putting it first
// turns that into an O(1) lookup for the common case of a structurally
// non-singular operator. It is safe to call on a matrix whose rows are not
// otherwise sorted; DiagonalPreference only moves the diagonal entry, if
// any. DiagonalPreference is idempotent: calling it again on an
// already-preferred matrix is a no-op. If any row has no stored diagonal
// entry, that row is left unmodified and ErrMissingDiagonal is returned
// after every other row has still been processed.
func (c *CSR) DiagonalPreference() error {
	n, cl := c.Dims()
	if n != cl {
		panic("sparse: DiagonalPreference requires a square matrix")
	}
	missing := false
	for i := 0; i < n; i++ {
		start, end := c.matrix.Indptr[i], c.matrix.Indptr[i+1]
		found := false
		for k := start; k < end; k++ {
			if c.matrix.Ind[k] == i {
				if k != start {
					c.matrix.Ind[k], c.matrix.Ind[start] = c.matrix.Ind[start], c.matrix.Ind[k]
					c.matrix.Data[k], c.matrix.Data[start] = c.matrix.Data[start], c.matrix.Data[k]
				}
				found = true
				break
			}
		}
		if !found {
			missing = true
		}
	}
	if missing {
		return ErrMissingDiagonal
	}
	return nil
}

// ScaleSymmetricDiagonal scales the receiver in place by D^-1/2 * A * D^-1/2
// where D is the diagonal of A, producing a symmetrically-scaled matrix with
// a unit diagonal.  This is used ahead of strength-of-connection measures
// that assume a symmetrically-scaled operator (spec strength-of-connection
// definitions are stated in terms of the scaled matrix).
func (c *CSR) ScaleSymmetricDiagonal() {
	diag := c.Diagonal()
	scale := make([]float64, len(diag))
	for i, v := range diag {
		if v > 0 {
			scale[i] = 1 / math.Sqrt(v)
		}
	}
	c.DoNonZero(func(i, j int, v float64) {
		if i < len(scale) && j < len(scale) {
			c.Set(i, j, v*scale[i]*scale[j])
		}
	})
}

// ShiftIndices adds delta to every stored column index of the receiver in
// place.  This is used when concatenating interpolation blocks built
// independently per aggregate/coarse-grid-point into a single matrix.
func (c *CSR) ShiftIndices(delta int) {
	for i := range c.matrix.Ind {
		c.matrix.Ind[i] += delta
	}
}
