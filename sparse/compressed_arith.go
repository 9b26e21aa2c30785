package sparse

import (
	"gonum.org/v1/gonum/mat"
)

// Mul takes the matrix product (Dot product) of the supplied matrices a and b and stores the result
// in the receiver.  If the number of columns does not equal the number of rows in b, Mul will panic.
func (c *CSR) Mul(a, b mat.Matrix) {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	if ac != br {
		panic(mat.ErrShape)
	}

	if dia, ok := a.(*DIA); ok {
		// handle case where matrix A is a DIA
		c.mulDIA(dia, b, false)
		return
	}
	if dia, ok := b.(*DIA); ok {
		// handle case where matrix B is a DIA
		c.mulDIA(dia, a, true)
		return
	}

	c.matrix.Indptr = make([]int, ar+1)
	c.matrix.I, c.matrix.J = ar, bc
	c.matrix.Ind = c.matrix.Ind[:0]
	c.matrix.Data = c.matrix.Data[:0]
	t := 0

	lhs, isCsr := a.(*CSR)

	if isCsr {
		if rhs, isCSC := b.(*CSC); isCSC {
			// handle case where matrix A is CSR and matrix B is CSC
			c.mulCSRCSC(lhs, rhs)
			return
		}
		// handle case where matrix A is CSR (matrix B can be any implementation of mat.Matrix)
		for i := 0; i < ar; i++ {
			c.matrix.Indptr[i] = t
			for j := 0; j < bc; j++ {
				var v float64
				for k := lhs.matrix.Indptr[i]; k < lhs.matrix.Indptr[i+1]; k++ {
					v += lhs.matrix.Data[k] * b.At(lhs.matrix.Ind[k], j)
				}
				if v != 0 {
					t++
					c.matrix.Ind = append(c.matrix.Ind, j)
					c.matrix.Data = append(c.matrix.Data, v)
				}
			}
		}
	} else {
		// handle any implementation of mat.Matrix for both matrix A and B
		row := make([]float64, ac)
		for i := 0; i < ar; i++ {
			c.matrix.Indptr[i] = t
			for ci := range row {
				row[ci] = a.At(i, ci)
			}
			for j := 0; j < bc; j++ {
				var v float64
				for ci, e := range row {
					v += e * b.At(ci, j)
				}
				if v != 0 {
					t++
					c.matrix.Ind = append(c.matrix.Ind, j)
					c.matrix.Data = append(c.matrix.Data, v)
				}
			}
		}
	}

	c.matrix.Indptr[c.matrix.I] = t
}

// mulCSRCSC handles the special case of matrix multiplication (dot product) where the LHS matrix
// (A) is CSR format and the RHS matrix (B) is CSC format
func (c *CSR) mulCSRCSC(lhs *CSR, rhs *CSC) {
	t := 0
	for i := 0; i < c.matrix.I; i++ {
		c.matrix.Indptr[i] = t
		for j := 0; j < c.matrix.J; j++ {
			var v float64
			rhsStart := rhs.matrix.Indptr[j]
			rhsEnd := rhs.matrix.Indptr[j+1] - 1
			b := rhsStart

			for k := lhs.matrix.Indptr[i]; k < lhs.matrix.Indptr[i+1]; k++ {
				var bi int
				for bi = b; bi < rhsEnd && rhs.matrix.Ind[bi] < lhs.matrix.Ind[k]; bi++ {
				}
				b = bi
				if lhs.matrix.Ind[k] == rhs.matrix.Ind[bi] {
					v += lhs.matrix.Data[k] * rhs.matrix.Data[bi]
				}
			}
			if v != 0 {
				t++
				c.matrix.Ind = append(c.matrix.Ind, j)
				c.matrix.Data = append(c.matrix.Data, v)
			}
		}
	}
	c.matrix.Indptr[c.matrix.I] = t
}

// mulDIA takes the matrix product of the diagonal matrix dia and an other matrix, other and stores the result
// in the receiver.  This method caters for the specialised case of multiplying by a diagonal matrix where
// significant optimisation is possible due to the sparsity pattern of the matrix.  If trans is true, the method
// will assume that other was the LHS (Left Hand Side) operand and that dia was the RHS.
func (c *CSR) mulDIA(dia *DIA, other mat.Matrix, trans bool) {
	var csMat *CSR
	isCS := false

	if csr, ok := other.(*CSR); ok {
		csMat = csr
		isCS = true
		c.matrix.Ind = make([]int, len(csMat.matrix.Ind))
		c.matrix.Data = make([]float64, len(csMat.matrix.Data))
	}

	if trans {
		c.matrix.I, _ = other.Dims()
		_, c.matrix.J = dia.Dims()
	} else {
		c.matrix.I, _ = dia.Dims()
		_, c.matrix.J = other.Dims()
	}
	c.matrix.Indptr = make([]int, c.matrix.I+1)
	t := 0
	raw := dia.Diagonal()

	for i := 0; i < c.matrix.I; i++ {
		c.matrix.Indptr[i] = t
		var v float64
		if !trans && i >= len(raw) {
			continue
		}

		if isCS {
			for k := csMat.matrix.Indptr[i]; k < csMat.matrix.Indptr[i+1]; k++ {
				var rawval float64
				if trans {
					if csMat.matrix.Ind[k] >= len(raw) {
						continue
					}
					rawval = raw[csMat.matrix.Ind[k]]
				} else {
					rawval = raw[i]
				}
				v = csMat.matrix.Data[k] * rawval
				if v != 0 {
					c.matrix.Ind[t] = csMat.matrix.Ind[k]
					c.matrix.Data[t] = v
					t++
				}
			}
		} else {
			for k := 0; k < c.matrix.J; k++ {
				var rawval float64
				if trans {
					if k >= len(raw) {
						continue
					}
					rawval = raw[k]
				} else {
					rawval = raw[i]
				}
				v = other.At(i, k) * rawval
				if v != 0 {
					c.matrix.Ind = append(c.matrix.Ind, k)
					c.matrix.Data = append(c.matrix.Data, v)
					t++
				}
			}
		}
	}

	c.matrix.Indptr[c.matrix.I] = t
}

// Add adds matrices a and b together and stores the result in the receiver.
// If matrices a and b are not the same shape then the method will panic.
func (c *CSR) Add(a, b mat.Matrix) {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	if ar != br || ac != bc {
		panic(mat.ErrShape)
	}

	// take a copy of the largest (higher NNZ if sparse or copy if dense) matrix
	// then iterate over NZ values of smaller matrix (lower NNZ) and add elements
	// in-place to corresponding element in copied matrix.
	lCsr, lIsCsr := a.(*CSR)
	rCsr, rIsCsr := b.(*CSR)
	var other *CSR

	if lIsCsr && rIsCsr {
		c.addCSR(lCsr, rCsr)
		return
	} else if lIsCsr {
		c.From(b)
		other = lCsr
	} else if rIsCsr {
		c.From(a)
		other = rCsr
	} else {
		// dumb addition with no sparsity optimisations/savings
		c.matrix.I, c.matrix.J = ar, ac
		c.matrix.Indptr = make([]int, c.matrix.I+1)
		for i := 0; i < ar; i++ {
			for j := 0; j < ac; j++ {
				c.Set(i, j, a.At(i, j)+b.At(i, j))
			}
		}
		return
	}

	for i := 0; i < other.matrix.I; i++ {
		for j := other.matrix.Indptr[i]; j < other.matrix.Indptr[i+1]; j++ {
			c.Set(i, other.matrix.Ind[j], other.matrix.Data[j]+c.At(i, other.matrix.Ind[j]))
		}
	}
}

// Sub subtracts matrix b from matrix a and stores the result in the
// receiver.  If matrices a and b are not the same shape then the method will
// panic.  It is implemented in terms of Add by negating b's values, reusing
// the same sparsity-aware merge logic rather than duplicating it.
func (c *CSR) Sub(a, b mat.Matrix) {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	if ar != br || ac != bc {
		panic(mat.ErrShape)
	}

	neg := NewDOK(br, bc)
	for i := 0; i < br; i++ {
		for j := 0; j < bc; j++ {
			if v := b.At(i, j); v != 0 {
				neg.Set(i, j, -v)
			}
		}
	}

	c.Add(a, neg.ToCSR())
}

func (c *CSR) addCSR(a, b *CSR) {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	if ar != br || ac != bc {
		panic(mat.ErrShape)
	}

	larger := a.NNZ()
	if b.NNZ() > larger {
		larger = b.NNZ()
	}
	c.matrix.I, c.matrix.J = ar, ac
	c.matrix.Data = make([]float64, 0, larger)
	c.matrix.Indptr = make([]int, a.matrix.I+1)
	c.matrix.Ind = make([]int, 0, larger)

	for row, start1 := range a.matrix.Indptr[0 : len(a.matrix.Indptr)-1] {
		c.matrix.Indptr[row+1] = c.matrix.Indptr[row]
		start2 := b.matrix.Indptr[row]
		end1 := a.matrix.Indptr[row+1]
		end2 := b.matrix.Indptr[row+1]
		if start1 == end1 {
			if start2 == end2 {
				continue
			}
			for k := start2; k < end2; k++ {
				c.matrix.Data = append(c.matrix.Data, b.matrix.Data[k])
				c.matrix.Ind = append(c.matrix.Ind, b.matrix.Ind[k])
				c.matrix.Indptr[row+1]++
			}
			continue
		} else if start2 == end2 {
			for k := start1; k < end1; k++ {
				c.matrix.Data = append(c.matrix.Data, a.matrix.Data[k])
				c.matrix.Ind = append(c.matrix.Ind, a.matrix.Ind[k])
				c.matrix.Indptr[row+1]++
			}
			continue
		}
		i := start1
		j := start2
		for {
			if i == end1 && j == end2 {
				break
			} else if i == end1 {
				for k := j; k < end2; k++ {
					c.matrix.Data = append(c.matrix.Data, b.matrix.Data[k])
					c.matrix.Ind = append(c.matrix.Ind, b.matrix.Ind[k])
					c.matrix.Indptr[row+1]++
				}
				break
			} else if j == end2 {
				for k := i; k < end1; k++ {
					c.matrix.Data = append(c.matrix.Data, a.matrix.Data[k])
					c.matrix.Ind = append(c.matrix.Ind, a.matrix.Ind[k])
					c.matrix.Indptr[row+1]++
				}
				break
			}
			if a.matrix.Ind[i] == b.matrix.Ind[j] {
				val := a.matrix.Data[i] + b.matrix.Data[j]
				c.matrix.Data = append(c.matrix.Data, val)
				c.matrix.Ind = append(c.matrix.Ind, a.matrix.Ind[i])
				c.matrix.Indptr[row+1]++
				i++
				j++
			} else if a.matrix.Ind[i] < b.matrix.Ind[j] {
				c.matrix.Data = append(c.matrix.Data, a.matrix.Data[i])
				c.matrix.Ind = append(c.matrix.Ind, a.matrix.Ind[i])
				c.matrix.Indptr[row+1]++
				i++
			} else {
				c.matrix.Data = append(c.matrix.Data, b.matrix.Data[j])
				c.matrix.Ind = append(c.matrix.Ind, b.matrix.Ind[j])
				c.matrix.Indptr[row+1]++
				j++
			}
		}
	}
}
