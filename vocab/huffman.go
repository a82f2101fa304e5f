package vocab

// MaxCodeLength is the longest Huffman code that
// GenerateHuffmanCodes will assign.
const MaxCodeLength = 40

// GenerateHuffmanCodes assigns a Huffman code and a node
// path to every entry.
//
// The vocabulary must be sorted, since the tree is built
// with the linear two-cursor merge, which relies on the
// leaves being ordered by descending count.
//
// A vocabulary with a single entry gets an empty code.
func (v *Vocabulary) GenerateHuffmanCodes() error {
	if !v.sorted {
		return ErrNotSorted
	}
	if len(v.words) == 0 {
		return ErrEmpty
	}
	tree := buildHuffman(v.words)
	for i, w := range v.words {
		code, point := tree.Path(i)
		if len(code) > MaxCodeLength {
			return ErrCodeTooLong
		}
		w.Code = code
		w.Point = point
	}
	return nil
}

// huffmanTree stores a tree over n leaves and n-1
// internal nodes.
// Node i < n is the leaf for word i; node n+j is the
// j-th internal node, and the root is node 2n-2.
type huffmanTree struct {
	numLeaves int
	parent    []int
	branch    []byte
}

func buildHuffman(words []*Word) *huffmanTree {
	n := len(words)
	t := &huffmanTree{
		numLeaves: n,
		parent:    make([]int, 2*n-1),
		branch:    make([]byte, 2*n-1),
	}
	if n == 1 {
		return t
	}

	counts := make([]int64, 2*n-1)
	for i, w := range words {
		counts[i] = w.Count
	}

	// leaf walks the leaves from the smallest count up and
	// node walks the internal nodes in creation order.
	// On equal counts, the internal node is taken first.
	leaf := n - 1
	node := n
	pop := func(created int) int {
		if leaf >= 0 && (node >= created || counts[leaf] < counts[node]) {
			leaf--
			return leaf + 1
		}
		node++
		return node - 1
	}

	for created := n; created < 2*n-1; created++ {
		min1 := pop(created)
		min2 := pop(created)
		counts[created] = counts[min1] + counts[min2]
		t.parent[min1] = created
		t.parent[min2] = created
		t.branch[min2] = 1
	}
	return t
}

// Path returns the code and node indices for a leaf, both
// ordered from the root down.
func (h *huffmanTree) Path(leafIdx int) (code []byte, point []int) {
	root := 2*h.numLeaves - 2
	for node := leafIdx; node != root; node = h.parent[node] {
		code = append(code, h.branch[node])
		point = append(point, h.parent[node]-h.numLeaves)
	}
	for i, j := 0, len(code)-1; i < j; i, j = i+1, j-1 {
		code[i], code[j] = code[j], code[i]
		point[i], point[j] = point[j], point[i]
	}
	return
}
