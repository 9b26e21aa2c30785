package sparse

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrBadMatrixHeader is returned by ReadCSR when the row/nonzero counts in a
// binary matrix file are negative or absurdly large, which this package
// treats as a signal that the file was written with the opposite byte order.
var ErrBadMatrixHeader = errors.New("sparse: binary matrix header implausible in both byte orders")

// maxPlausibleDim bounds the row/nnz counts ReadCSR will accept without
// byte-swapping first; headers outside this range are assumed to have been
// written in the other endianness.
const maxPlausibleDim = 1 << 31

// WriteCSR writes a to w in the binary matrix format: a 32-bit row count, a
// 32-bit nonzero count, the nnz values as 64-bit floats, the n+1 row
// pointers as 32-bit integers, then the nnz column indices as 32-bit
// integers. order selects the byte order of every multi-byte field.
// oneBased shifts every written row pointer and column index up by one, so
// the file uses 1-based indices as spec'd for this format's canonical
// producer.
func WriteCSR(w io.Writer, a *CSR, order binary.ByteOrder, oneBased bool) error {
	r, _ := a.Dims()
	raw := a.RawMatrix()
	nnz := len(raw.Data)

	shift := 0
	if oneBased {
		shift = 1
	}

	hdr := make([]byte, 8)
	order.PutUint32(hdr[0:4], uint32(r))
	order.PutUint32(hdr[4:8], uint32(nnz))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for _, v := range raw.Data {
		order.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	buf = buf[:4]
	for _, p := range raw.Indptr {
		order.PutUint32(buf, uint32(p+shift))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	for _, j := range raw.Ind {
		order.PutUint32(buf, uint32(j+shift))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// ReadCSR reads a matrix previously written by WriteCSR (or an equivalent
// external producer) from r. order is the byte order the caller believes the
// file was written in; if the header's row/nonzero counts are implausible
// under order, ReadCSR retries with the opposite byte order before giving
// up with ErrBadMatrixHeader, so files round-trip correctly even when a
// caller guesses wrong about which machine produced them. oneBased tells
// ReadCSR whether the stored row pointers/column indices start at 1 (spec's
// default for this format) or 0; when true every stored index is
// decremented on the way in.
func ReadCSR(r io.Reader, order binary.ByteOrder, oneBased bool) (*CSR, error) {
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}

	n, nnz, swapped := decodeHeader(hdr, order)
	if swapped {
		order = otherOrder(order)
	}
	if n < 0 || nnz < 0 || n > maxPlausibleDim || nnz > maxPlausibleDim {
		return nil, ErrBadMatrixHeader
	}

	shift := 0
	if oneBased {
		shift = 1
	}

	data := make([]float64, nnz)
	buf := make([]byte, 8)
	for i := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		data[i] = math.Float64frombits(order.Uint64(buf))
	}

	buf = buf[:4]
	indptr := make([]int, n+1)
	for i := range indptr {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		indptr[i] = int(order.Uint32(buf)) - shift
	}

	ind := make([]int, nnz)
	for i := range ind {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		ind[i] = int(order.Uint32(buf)) - shift
	}

	return NewCSR(n, n, indptr, ind, data), nil
}

// decodeHeader parses a row/nnz header under order, falling back to the
// opposite byte order when the parsed values look implausible (negative or
// absurdly large), reporting whether it had to swap.
func decodeHeader(hdr []byte, order binary.ByteOrder) (n, nnz int, swapped bool) {
	n = int(int32(order.Uint32(hdr[0:4])))
	nnz = int(int32(order.Uint32(hdr[4:8])))
	if n >= 0 && nnz >= 0 && n <= maxPlausibleDim && nnz <= maxPlausibleDim {
		return n, nnz, false
	}

	alt := otherOrder(order)
	altN := int(int32(alt.Uint32(hdr[0:4])))
	altNNZ := int(int32(alt.Uint32(hdr[4:8])))
	return altN, altNNZ, true
}

func otherOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.LittleEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
