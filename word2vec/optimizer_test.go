package word2vec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/depvec/vocab"
)

const gradPrec = 1e-2

func TestSigmoid(t *testing.T) {
	if s := sigmoid(0); math.Abs(float64(s)-0.5) > 1e-2 {
		t.Errorf("expected 0.5 but got %f", s)
	}
	if sigmoid(100) != sigmoidTable[ExpTableSize-1] {
		t.Error("large inputs should clamp to the last entry")
	}
	if sigmoid(-100) != sigmoidTable[0] {
		t.Error("small inputs should clamp to the first entry")
	}
	last := float32(0)
	for x := float32(-MaxExp); x <= MaxExp; x += 0.01 {
		s := sigmoid(x)
		if s < last {
			t.Fatalf("sigmoid decreased at %f", x)
		}
		if math.Abs(float64(s)-1/(1+math.Exp(-float64(x)))) > 1e-2 {
			t.Fatalf("bad approximation at %f: %f", x, s)
		}
		last = s
	}
}

func TestVectorOps(t *testing.T) {
	x := []float32{1, -2, 3}
	y := []float32{4, 5, -6}
	if d := dot(x, y); d != -24 {
		t.Errorf("expected -24 but got %f", d)
	}
	axpy(2, x, y)
	expected := []float32{6, 1, 0}
	for i, a := range y {
		if a != expected[i] {
			t.Errorf("expected %v but got %v", expected, y)
			break
		}
	}
	if x[0] != 1 || x[1] != -2 || x[2] != 3 {
		t.Errorf("axpy modified its input: %v", x)
	}

	// Rows of a matrix are windows into one backing slice.
	m := &Matrix{Rows: 2, Cols: 2, Data: []float32{1, 2, 3, 4}}
	axpy(-1, m.Row(1), m.Row(0))
	if m.Data[0] != -2 || m.Data[1] != -2 || m.Data[2] != 3 || m.Data[3] != 4 {
		t.Errorf("unexpected matrix data %v", m.Data)
	}
	if d := dot(m.Row(0), m.Row(1)); d != -14 {
		t.Errorf("expected -14 but got %f", d)
	}
}

func TestHierarchicalSoftmaxGradient(t *testing.T) {
	v := testVocab(map[string]int{"a": 4, "b": 2, "c": 1, "d": 1})
	hs, err := NewHierarchicalSoftmax(v)
	if err != nil {
		t.Fatal(err)
	}
	if hs.OutputRows() != 3 {
		t.Fatalf("expected 3 rows but got %d", hs.OutputRows())
	}

	rng := rand.New(rand.NewSource(1337))
	out := randomMatrix(rng, hs.OutputRows(), 5)
	hidden := randomVector(rng, 5)
	target := v.IndexOf("c")
	word := v.Word(target)

	var logits, labels []float32
	for i, node := range word.Point {
		logits = append(logits, dot(hidden, out.Row(node)))
		labels = append(labels, 1-float32(word.Code[i]))
	}
	checkUpdate(t, hs, out, hidden, target, word.Point, logits, labels)
}

func TestNegativeSamplingGradient(t *testing.T) {
	v := testVocab(map[string]int{"a": 3, "b": 2, "c": 1})
	ns, err := NewNegativeSampling(v, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1337))
	out := randomMatrix(rng, ns.OutputRows(), 5)
	hidden := randomVector(rng, 5)
	target := v.IndexOf("b")
	logits := []float32{dot(hidden, out.Row(target))}
	checkUpdate(t, ns, out, hidden, target, []int{target}, logits, []float32{1})
}

func TestNegativeSamplingTable(t *testing.T) {
	v := testVocab(map[string]int{"a": 1, "b": 1})
	ns, err := NewNegativeSampling(v, 5, 100)
	if err != nil {
		t.Fatal(err)
	}
	var seen [2]bool
	for _, idx := range ns.table {
		seen[idx] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("table should contain both indices: %v", seen)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if idx := ns.Sample(rng); idx != 1 {
			t.Fatalf("expected sample 1 but got %d", idx)
		}
	}
}

func TestNegativeSamplingSentinel(t *testing.T) {
	v := vocab.NewWithSentinel(vocab.EndOfSentence)
	for _, w := range []string{"a", "b", "b", "c", "c", "c"} {
		v.Add(w)
	}
	v.Add(vocab.EndOfSentence)
	v.Sort(0)
	ns, err := NewNegativeSampling(v, 20, 1000)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	out := randomMatrix(rng, ns.OutputRows(), 4)
	before := append([]float32{}, out.Row(0)...)
	hidden := randomVector(rng, 4)
	errBuf := make([]float32, 4)
	for i := 0; i < 10; i++ {
		ns.Update(out, hidden, errBuf, v.IndexOf("c"), 0.1, rng)
	}
	for i, x := range out.Row(0) {
		if x != before[i] {
			t.Fatal("sentinel row should never be sampled")
		}
	}
}

func TestEmptyVocabulary(t *testing.T) {
	v := vocab.New()
	v.Sort(0)
	if _, err := NewNegativeSampling(v, 5, 10); err != ErrEmptyVocabulary {
		t.Errorf("expected ErrEmptyVocabulary but got %v", err)
	}
	if _, err := NewHierarchicalSoftmax(v); err != ErrEmptyVocabulary {
		t.Errorf("expected ErrEmptyVocabulary but got %v", err)
	}
}

// checkUpdate runs one update with alpha 1 and compares
// it to the gradient of the sigmoid cross-entropy of the
// given logits.
func checkUpdate(t *testing.T, opt Optimizer, out *Matrix, hidden []float32, target int,
	rows []int, logits, labels []float32) {
	grad := sigmoidCEGrad(logits, labels)

	orig := &Matrix{Rows: out.Rows, Cols: out.Cols, Data: append([]float32{}, out.Data...)}
	expectedErr := make([]float32, len(hidden))
	for i, row := range rows {
		axpy(-grad[i], orig.Row(row), expectedErr)
	}

	errBuf := make([]float32, len(hidden))
	opt.Update(out, hidden, errBuf, target, 1, rand.New(rand.NewSource(0)))

	if !vectorsClose(errBuf, expectedErr, gradPrec) {
		t.Errorf("error buffer: expected %v but got %v", expectedErr, errBuf)
	}
	for i, row := range rows {
		expected := append([]float32{}, orig.Row(row)...)
		axpy(-grad[i], hidden, expected)
		if !vectorsClose(out.Row(row), expected, gradPrec) {
			t.Errorf("row %d: expected %v but got %v", row, expected, out.Row(row))
		}
	}
}

func sigmoidCEGrad(logits, labels []float32) []float32 {
	actual := anydiff.NewVar(anyvec32.MakeVectorData(append([]float32{}, logits...)))
	desired := anydiff.NewConst(anyvec32.MakeVectorData(append([]float32{}, labels...)))
	cost := anynet.SigmoidCE{}.Cost(desired, actual, 1)

	ones := make([]float32, cost.Output().Len())
	for i := range ones {
		ones[i] = 1
	}
	grad := anydiff.NewGrad(actual)
	cost.Propagate(anyvec32.MakeVectorData(ones), grad)
	return grad[actual].Data().([]float32)
}

func testVocab(counts map[string]int) *vocab.Vocabulary {
	v := vocab.New()
	for _, form := range []string{"a", "b", "c", "d", "e"} {
		if n, ok := counts[form]; ok {
			v.AddCount(form, int64(n))
		}
	}
	v.Sort(0)
	return v
}

func randomMatrix(rng *rand.Rand, rows, cols int) *Matrix {
	res := NewMatrix(rows, cols)
	for i := range res.Data {
		res.Data[i] = rng.Float32() - 0.5
	}
	return res
}

func randomVector(rng *rand.Rand, n int) []float32 {
	return randomMatrix(rng, 1, n).Data
}

func vectorsClose(v1, v2 []float32, prec float64) bool {
	if len(v1) != len(v2) {
		return false
	}
	for i, x := range v1 {
		if math.Abs(float64(x-v2[i])) > prec {
			return false
		}
	}
	return true
}
