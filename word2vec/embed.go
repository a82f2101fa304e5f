package word2vec

import (
	"bufio"
	"io"
	"strconv"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/depvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"github.com/unixpickle/splaytree"
)

func init() {
	var e Embed
	serializer.RegisterTypedDeserializer(e.SerializerType(), DeserializeEmbed)
}

// Embed is a finished table of trained vectors.
type Embed struct {
	// Tokens maps tokens to row indices.
	Tokens *depvec.TokenSet

	// Vectors contains one row per token ID.
	Vectors *anyvec.Matrix
}

var _ depvec.Embedding = (*Embed)(nil)

// NewEmbed creates an Embed from a list of tokens and the
// row-major data for their vectors.
func NewEmbed(tokens []string, data []float32) *Embed {
	cols := 0
	if len(tokens) > 0 {
		cols = len(data) / len(tokens)
	}
	return &Embed{
		Tokens: depvec.NewTokenSet(tokens),
		Vectors: &anyvec.Matrix{
			Data: anyvec32.MakeVectorData(append([]float32{}, data...)),
			Rows: len(tokens),
			Cols: cols,
		},
	}
}

// DeserializeEmbed deserializes an Embed.
func DeserializeEmbed(d []byte) (*Embed, error) {
	var res Embed
	var rows, cols int
	var data *anyvecsave.S
	if err := serializer.DeserializeAny(d, &res.Tokens, &rows, &cols, &data); err != nil {
		return nil, essentials.AddCtx("deserialize Embed", err)
	}
	res.Vectors = &anyvec.Matrix{
		Data: data.Vector,
		Rows: rows,
		Cols: cols,
	}
	return &res, nil
}

// Dim returns the dimensionality of the vectors.
func (e *Embed) Dim() int {
	return e.Vectors.Cols
}

// Token returns the token for a row index.
func (e *Embed) Token(id int) string {
	return e.Tokens.Token(id)
}

// Embed returns the vector for the token, or nil if the
// token has no vector.
func (e *Embed) Embed(token string) anyvec.Vector {
	id := e.Tokens.ID(token)
	if id == e.Tokens.Len() {
		return nil
	}
	return e.EmbedID(id)
}

// EmbedID returns a copy of the vector in the given row.
func (e *Embed) EmbedID(id int) anyvec.Vector {
	idx := e.Vectors.Cols * id
	return e.Vectors.Data.Slice(idx, idx+e.Vectors.Cols).Copy()
}

// Normalize scales every vector to unit length.
func (e *Embed) Normalize() {
	anyvec.ScaleChunks(e.Vectors.Data, e.inverseNorms())
}

func (e *Embed) inverseNorms() anyvec.Vector {
	c := e.Vectors.Data.Creator()
	squares := e.Vectors.Data.Copy()
	anyvec.Pow(squares, c.MakeNumeric(2))
	norms := anyvec.SumCols(squares, e.Vectors.Rows)
	anyvec.Pow(norms, c.MakeNumeric(-0.5))
	return norms
}

// Lookup finds the n rows with the highest cosine
// similarity to vec, most similar first.
// For each ID, it also returns the similarity.
//
// If n is greater than the number of rows, then there
// will be fewer than n results.
func (e *Embed) Lookup(vec anyvec.Vector, n int) ([]int, []anyvec.Numeric) {
	if vec.Len() != e.Vectors.Cols {
		panic("incorrect vector length")
	}
	c := e.Vectors.Data.Creator()

	scaled := e.Vectors.Data.Copy()
	anyvec.ScaleChunks(scaled, e.inverseNorms())
	unit := vec.Copy()
	unit.Scale(c.NumOps().Div(c.MakeNumeric(1), anyvec.Norm(vec)))
	anyvec.ScaleRepeated(scaled, unit)
	dots := anyvec.SumCols(scaled, e.Vectors.Rows)

	tree := &splaytree.Tree{}
	var size int
	for id, sim := range floats(dots) {
		tree.Insert(neighbor{ID: id, Similarity: sim})
		size++
		if size > n {
			deleteMin(tree)
			size--
		}
	}

	var ids []int
	var sims []anyvec.Numeric
	descend(tree.Root, func(nb neighbor) {
		ids = append(ids, nb.ID)
		sims = append(sims, c.MakeNumeric(nb.Similarity))
	})
	return ids, sims
}

// WriteText writes one line per token, with the token
// and the vector components separated by tabs.
func (e *Embed) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	data := floats(e.Vectors.Data)
	cols := e.Vectors.Cols
	for i := 0; i < e.Vectors.Rows; i++ {
		bw.WriteString(e.Tokens.Token(i))
		for _, x := range data[i*cols : (i+1)*cols] {
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(x, 'g', -1, 32))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return essentials.AddCtx("write vectors", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return essentials.AddCtx("write vectors", err)
	}
	return nil
}

// SerializerType returns the unique ID used to serialize
// an Embed with the serializer package.
func (e *Embed) SerializerType() string {
	return "github.com/unixpickle/depvec/word2vec.Embed"
}

// Serialize serializes the Embed.
func (e *Embed) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		e.Tokens,
		e.Vectors.Rows,
		e.Vectors.Cols,
		&anyvecsave.S{Vector: e.Vectors.Data},
	)
}

func floats(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float64:
		return data
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	default:
		panic("unsupported numeric type")
	}
}

// neighbor is a splay tree entry ordered by similarity.
// Equal similarities order lower IDs last, so they rank
// first.
type neighbor struct {
	ID         int
	Similarity float64
}

func (n neighbor) Compare(v2 splaytree.Value) int {
	n2 := v2.(neighbor)
	if n.Similarity < n2.Similarity {
		return -1
	} else if n.Similarity > n2.Similarity {
		return 1
	}
	if n.ID > n2.ID {
		return -1
	} else if n.ID < n2.ID {
		return 1
	}
	return 0
}

func deleteMin(t *splaytree.Tree) {
	n := t.Root
	for n.Left != nil {
		n = n.Left
	}
	t.Delete(n.Value)
}

func descend(n *splaytree.Node, f func(nb neighbor)) {
	if n == nil {
		return
	}
	descend(n.Right, f)
	f(n.Value.(neighbor))
	descend(n.Left, f)
}
