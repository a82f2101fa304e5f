package depvec

import (
	"reflect"
	"testing"
)

func TestTokenizeSeparate(t *testing.T) {
	tok := &Tokenizer{}
	actual := tok.Tokenize("Hello, World! (it's)")
	expected := []string{"hello", ",", "world", "!", "(", "it", "'", "s", ")"}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
}

func TestTokenizeDrop(t *testing.T) {
	tok := &Tokenizer{PunctuationMode: DropPunctuation, PreserveCase: true}
	actual := tok.Tokenize("Don't -- stop.")
	expected := []string{"Dont", "stop"}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
}

func TestTokenizeNormalize(t *testing.T) {
	tok := &Tokenizer{PunctuationMode: IncludePunctuation}
	actual := tok.Tokenize("café CAFÉ")
	expected := []string{"café", "café"}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %q but got %q", expected, actual)
	}
}
