package word2vec

import "math/rand"

// An Optimizer performs the output-side gradient step for
// a single target token.
//
// Update reads the hidden vector, adjusts the rows of the
// output matrix that predict the target, and adds the
// gradient with respect to hidden to errBuf.
// The caller is responsible for applying errBuf to the
// input vectors that produced hidden.
//
// An Optimizer keeps no per-call state, so one instance
// may be shared by all training workers as long as each
// worker passes its own rng.
type Optimizer interface {
	// OutputRows returns the number of rows the output
	// matrix needs.
	OutputRows() int

	Update(out *Matrix, hidden, errBuf []float32, target int, alpha float32,
		rng *rand.Rand)
}

// logisticStep performs one step of logistic regression
// of label against hidden·row.
func logisticStep(row, hidden, errBuf []float32, label, alpha float32) {
	g := (label - sigmoid(dot(hidden, row))) * alpha
	axpy(g, row, errBuf)
	axpy(g, hidden, row)
}
