package word2vec

import "github.com/unixpickle/depvec/vocab"

// skipGram predicts the target at pos from each context
// token separately, updating each context vector right
// after its own step.
func (w *worker) skipGram(chunk []slot, pos, width int, alpha float32) {
	target := chunk[pos].Out
	start, end := contextWindow(len(chunk), pos, width)
	for c := start; c <= end; c++ {
		if c == pos || chunk[c].In == vocab.NotFound {
			continue
		}
		row := w.t.In.Row(chunk[c].In)
		clear(w.errBuf)
		w.t.Optimizer.Update(w.t.Out, row, w.errBuf, target, alpha, w.rng)
		axpy(1, w.errBuf, row)
	}
}

// cbow predicts the target at pos from the mean of the
// context vectors and applies the resulting error to
// every context vector.
func (w *worker) cbow(chunk []slot, pos, width int, alpha float32) {
	start, end := contextWindow(len(chunk), pos, width)
	clear(w.hidden)
	var count int
	for c := start; c <= end; c++ {
		if c == pos || chunk[c].In == vocab.NotFound {
			continue
		}
		axpy(1, w.t.In.Row(chunk[c].In), w.hidden)
		count++
	}
	if count == 0 {
		return
	}
	scale := 1 / float32(count)
	for i := range w.hidden {
		w.hidden[i] *= scale
	}

	clear(w.errBuf)
	w.t.Optimizer.Update(w.t.Out, w.hidden, w.errBuf, chunk[pos].Out, alpha, w.rng)
	for c := start; c <= end; c++ {
		if c == pos || chunk[c].In == vocab.NotFound {
			continue
		}
		axpy(1, w.errBuf, w.t.In.Row(chunk[c].In))
	}
}
