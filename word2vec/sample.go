package word2vec

import "math"

// A slot is one kept token of a sentence, identified by
// its input and output vocabulary indices.
// Either index may be vocab.NotFound.
type slot struct {
	In  int
	Out int
}

// contextWindow returns the inclusive range of positions
// around pos within width of it, clipped to a sentence of
// n tokens.
// The range includes pos itself, which callers skip.
func contextWindow(n, pos, width int) (start, end int) {
	start = pos - width
	if start < 0 {
		start = 0
	}
	end = pos + width
	if end > n-1 {
		end = n - 1
	}
	return
}

// keepProbability computes the probability of keeping an
// occurrence of a token seen count times out of total.
//
// Tokens whose frequency is below sample are always kept.
func keepProbability(count, total int64, sample float64) float64 {
	threshold := sample * float64(total)
	if count <= 0 || threshold == 0 {
		return 1
	}
	c := float64(count)
	return (math.Sqrt(c/threshold) + 1) * threshold / c
}
