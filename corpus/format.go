package corpus

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// A Format describes how lines of a file are grouped into
// sentences and how a sentence is turned into tokens.
type Format interface {
	// Boundary classifies a line with its line terminator
	// removed.
	//
	// If end is true, the line closes the current
	// sentence.
	// If content is true, the line belongs to the
	// sentence; otherwise it is only a separator.
	Boundary(line []byte) (end, content bool)

	// Parse turns the content lines of one sentence into
	// tokens.
	Parse(lines [][]byte) ([]string, error)
}

// A Tokenizer splits raw text into tokens.
type Tokenizer interface {
	Tokenize(s string) []string
}

// LineFormat treats every non-blank line as a sentence of
// whitespace-delimited tokens.
type LineFormat struct {
	// Tokenizer, if non-nil, is used instead of splitting
	// on whitespace.
	Tokenizer Tokenizer
}

// Boundary ends a sentence at every line.
func (l *LineFormat) Boundary(line []byte) (end, content bool) {
	return true, len(bytes.TrimSpace(line)) > 0
}

// Parse tokenizes the line.
func (l *LineFormat) Parse(lines [][]byte) ([]string, error) {
	var res []string
	for _, line := range lines {
		if l.Tokenizer != nil {
			res = append(res, l.Tokenizer.Tokenize(string(line))...)
		} else {
			res = append(res, strings.Fields(string(line))...)
		}
	}
	return res, nil
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
