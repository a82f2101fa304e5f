package word2vec

import (
	"math/rand"

	"github.com/unixpickle/depvec/vocab"
	"github.com/unixpickle/essentials"
)

// HierarchicalSoftmax predicts a token by walking its
// Huffman code, making one binary decision per internal
// node of the tree.
//
// The output matrix has one row per internal node.
type HierarchicalSoftmax struct {
	vocab *vocab.Vocabulary
}

// NewHierarchicalSoftmax generates the Huffman codes for
// a sorted vocabulary and creates an optimizer over them.
func NewHierarchicalSoftmax(v *vocab.Vocabulary) (*HierarchicalSoftmax, error) {
	if v.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}
	if err := v.GenerateHuffmanCodes(); err != nil {
		return nil, essentials.AddCtx("hierarchical softmax", err)
	}
	return &HierarchicalSoftmax{vocab: v}, nil
}

// OutputRows returns the number of internal tree nodes.
func (h *HierarchicalSoftmax) OutputRows() int {
	return essentials.MaxInt(h.vocab.Len()-1, 1)
}

// Update trains every node on the path to target.
//
// A code bit of 0 is treated as the positive label, so
// the node output approximates the probability of
// branching to the 0 side.
func (h *HierarchicalSoftmax) Update(out *Matrix, hidden, errBuf []float32, target int,
	alpha float32, rng *rand.Rand) {
	word := h.vocab.Word(target)
	for i, node := range word.Point {
		label := 1 - float32(word.Code[i])
		logisticStep(out.Row(node), hidden, errBuf, label, alpha)
	}
}
