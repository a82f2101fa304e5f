package depvec

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// PunctuationMode is a way to deal with punctuation and
// other symbols when tokenizing strings.
type PunctuationMode int

const (
	// Treat each piece of punctuation as its own token.
	SeparatePunctuation PunctuationMode = iota

	// Remove all punctuation.
	DropPunctuation

	// Treat punctuation as just another character.
	IncludePunctuation
)

// A Tokenizer separates raw sentences into word tokens.
//
// By default, a Tokenizer converts text to Unicode NFC,
// lowercases every token, and treats punctuation as its
// own token.
//
// A Tokenizer can be used as the tokenizer of a
// corpus.LineFormat.
type Tokenizer struct {
	// PunctuationMode is used to decide how to treat
	// punctuation.
	PunctuationMode PunctuationMode

	// PreserveCase, if true, indicates that fields should
	// not automatically be converted to lowercase.
	PreserveCase bool

	// SkipNormalization, if true, leaves the Unicode
	// representation of the text untouched.
	SkipNormalization bool
}

// Tokenize produces tokens for the string.
func (t *Tokenizer) Tokenize(s string) []string {
	if !t.SkipNormalization {
		s = norm.NFC.String(s)
	}
	var res []string
	for _, field := range strings.Fields(s) {
		if !t.PreserveCase {
			field = strings.ToLower(field)
		}
		res = append(res, splitPunctuation(t.PunctuationMode, field)...)
	}
	return res
}

func splitPunctuation(m PunctuationMode, field string) []string {
	switch m {
	case SeparatePunctuation:
		var res []string
		start := 0
		for i, ch := range field {
			if !unicode.IsPunct(ch) {
				continue
			}
			if i > start {
				res = append(res, field[start:i])
			}
			end := i + len(string(ch))
			res = append(res, field[i:end])
			start = end
		}
		if start < len(field) {
			res = append(res, field[start:])
		}
		return res
	case DropPunctuation:
		stripped := strings.Map(func(ch rune) rune {
			if unicode.IsPunct(ch) {
				return -1
			}
			return ch
		}, field)
		if stripped == "" {
			return nil
		}
		return []string{stripped}
	case IncludePunctuation:
		return []string{field}
	}
	panic("unknown punctuation mode")
}
