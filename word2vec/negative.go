package word2vec

import (
	"math"
	"math/rand"

	"github.com/unixpickle/depvec/vocab"
)

// DefaultTableSize is the size of the unigram table used
// to draw negative samples.
const DefaultTableSize = 100000000

// samplingPower is the exponent applied to counts when
// building the unigram table.
const samplingPower = 0.75

// NegativeSampling contrasts the target token with
// randomly drawn noise tokens.
//
// Noise tokens are drawn from the unigram distribution
// raised to the 3/4 power.
// The output matrix has one row per vocabulary entry.
type NegativeSampling struct {
	// Negative is the number of noise tokens per update.
	Negative int

	numWords int
	table    []int32
}

// NewNegativeSampling builds the unigram table for the
// vocabulary.
//
// A tableSize of 0 selects DefaultTableSize.
func NewNegativeSampling(v *vocab.Vocabulary, negative, tableSize int) (*NegativeSampling, error) {
	if v.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}
	if tableSize <= 0 {
		tableSize = DefaultTableSize
	}
	return &NegativeSampling{
		Negative: negative,
		numWords: v.Len(),
		table:    unigramTable(v, tableSize),
	}, nil
}

// unigramTable fills a table by walking the cumulative
// distribution once.
// Slots left over after the last word are filled with the
// last index.
func unigramTable(v *vocab.Vocabulary, size int) []int32 {
	var total float64
	for i := 0; i < v.Len(); i++ {
		total += math.Pow(float64(v.Word(i).Count), samplingPower)
	}
	table := make([]int32, size)
	if total == 0 {
		return table
	}
	word := 0
	cumulative := math.Pow(float64(v.Word(0).Count), samplingPower) / total
	for i := range table {
		table[i] = int32(word)
		if float64(i)/float64(size) > cumulative && word < v.Len()-1 {
			word++
			cumulative += math.Pow(float64(v.Word(word).Count), samplingPower) / total
		}
	}
	return table
}

// OutputRows returns the vocabulary size.
func (n *NegativeSampling) OutputRows() int {
	return n.numWords
}

// Sample draws a noise token.
//
// Index 0 is reserved for the sentence sentinel, so a
// draw of 0 is replaced by a uniform draw over the
// remaining indices.
func (n *NegativeSampling) Sample(rng *rand.Rand) int {
	idx := int(n.table[rng.Intn(len(n.table))])
	if idx == 0 && n.numWords > 1 {
		idx = rng.Intn(n.numWords-1) + 1
	}
	return idx
}

// Update trains the target against label 1 and Negative
// noise tokens against label 0.
// Noise tokens equal to the target are skipped.
func (n *NegativeSampling) Update(out *Matrix, hidden, errBuf []float32, target int,
	alpha float32, rng *rand.Rand) {
	logisticStep(out.Row(target), hidden, errBuf, 1, alpha)
	for i := 0; i < n.Negative; i++ {
		noise := n.Sample(rng)
		if noise == target {
			continue
		}
		logisticStep(out.Row(noise), hidden, errBuf, 0, alpha)
	}
}
