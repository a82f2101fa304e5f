package word2vec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
)

func TestEmbedLookup(t *testing.T) {
	e := NewEmbed([]string{"x", "y", "xy", "negx"}, []float32{
		1, 0,
		0, 2,
		3, 3,
		-1, 0,
	})
	ids, sims := e.Lookup(anyvec32.MakeVectorData([]float32{2, 0.1}), 3)
	if !reflect.DeepEqual(ids, []int{0, 2, 1}) {
		t.Errorf("unexpected neighbors %v", ids)
	}
	last := float32(2)
	for _, s := range sims {
		if s.(float32) > last {
			t.Errorf("similarities should be descending: %v", sims)
		}
		last = s.(float32)
	}

	ids, _ = e.Lookup(anyvec32.MakeVectorData([]float32{1, 0}), 10)
	if len(ids) != 4 {
		t.Errorf("expected 4 results but got %d", len(ids))
	}
	if ids, _ := e.Lookup(anyvec32.MakeVectorData([]float32{1, 0}), 0); len(ids) != 0 {
		t.Errorf("expected no results but got %v", ids)
	}
}

func TestEmbedLookupTies(t *testing.T) {
	e := NewEmbed([]string{"a", "b", "c"}, []float32{1, 0, 1, 0, 0, 1})
	ids, _ := e.Lookup(anyvec32.MakeVectorData([]float32{1, 0}), 2)
	if !reflect.DeepEqual(ids, []int{0, 1}) {
		t.Errorf("expected [0 1] but got %v", ids)
	}
}

func TestEmbedText(t *testing.T) {
	e := NewEmbed([]string{"</s>", "cat"}, []float32{0.5, -1, 0.25, 2})
	var buf bytes.Buffer
	if err := e.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	expected := "</s>\t0.5\t-1\ncat\t0.25\t2\n"
	if buf.String() != expected {
		t.Errorf("expected %q but got %q", expected, buf.String())
	}
}

func TestEmbedNormalize(t *testing.T) {
	e := NewEmbed([]string{"a", "b"}, []float32{3, 4, 0, 2})
	e.Normalize()
	actual := e.Vectors.Data.Data().([]float32)
	expected := []float32{0.6, 0.8, 0, 1}
	if !vectorsClose(actual, expected, 1e-5) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
	if e.Embed("missing") != nil {
		t.Error("expected nil for a missing token")
	}
	if vec := e.Embed("b").Data().([]float32); !vectorsClose(vec, []float32{0, 1}, 1e-5) {
		t.Errorf("unexpected vector %v", vec)
	}
}

func TestEmbedSerialize(t *testing.T) {
	e := NewEmbed([]string{"a", "b", "c"}, []float32{1, 2, 3, 4, 5, 6})
	data, err := serializer.SerializeAny(e)
	if err != nil {
		t.Fatal(err)
	}
	var e1 *Embed
	if err := serializer.DeserializeAny(data, &e1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e, e1) {
		t.Error("invalid result")
	}
}
