package word2vec

import (
	"math"

	"github.com/gonum/blas/blas32"
)

const (
	// ExpTableSize is the number of precomputed sigmoid
	// values.
	ExpTableSize = 1000

	// MaxExp bounds the domain of the sigmoid table.
	// Inputs outside [-MaxExp, MaxExp] are clamped.
	MaxExp = 6
)

var sigmoidTable = makeSigmoidTable()

func makeSigmoidTable() []float32 {
	res := make([]float32, ExpTableSize)
	for i := range res {
		e := math.Exp((float64(i)/ExpTableSize*2 - 1) * MaxExp)
		res[i] = float32(e / (e + 1))
	}
	return res
}

// sigmoid looks up the logistic function of x in the
// precomputed table.
func sigmoid(x float32) float32 {
	idx := int((x + MaxExp) * (float32(ExpTableSize) / (2 * MaxExp)))
	if idx < 0 {
		idx = 0
	} else if idx >= ExpTableSize {
		idx = ExpTableSize - 1
	}
	return sigmoidTable[idx]
}

func dot(v1, v2 []float32) float32 {
	return blas32.Dot(len(v1), vector(v1), vector(v2))
}

// axpy adds scale*x to y.
func axpy(scale float32, x, y []float32) {
	blas32.Axpy(len(x), scale, vector(x), vector(y))
}

func vector(row []float32) blas32.Vector {
	return blas32.Vector{Inc: 1, Data: row}
}
