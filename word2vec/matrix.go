package word2vec

import "math/rand"

// Matrix is a dense, row-major table of parameters.
//
// Training workers read and write the same Matrix at the
// same time without any synchronization. Two workers may
// update one row concurrently, in which case one of the
// increments can be lost or partially applied. SGD only
// sees this as extra noise, so rows are never locked.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// NewMatrix creates a zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]float32, rows*cols),
	}
}

// NewRandomMatrix creates a matrix whose entries are
// uniformly distributed in [-0.5/cols, 0.5/cols).
func NewRandomMatrix(rows, cols int, rng *rand.Rand) *Matrix {
	res := NewMatrix(rows, cols)
	for i := range res.Data {
		res.Data[i] = (rng.Float32() - 0.5) / float32(cols)
	}
	return res
}

// Row returns a slice aliasing the i-th row.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}
