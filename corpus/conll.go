package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRow is returned for dependency rows that
// cannot be parsed.
var ErrMalformedRow = errors.New("malformed dependency row")

// MinCoNLLFields is the number of tab-separated columns a
// dependency row must have: ID, FORM, LEMMA, CPOSTAG,
// POSTAG, FEATS, HEAD and DEPREL.
const MinCoNLLFields = 8

// A Row is one token of a dependency-parsed sentence.
type Row struct {
	ID     int
	Form   string
	Lemma  string
	POS    string
	Feats  string
	Head   int
	DepRel string
}

// A Feature maps the token at index i of a parsed
// sentence to a label.
// An empty label drops the token.
type Feature func(sentence []Row, i int) string

// FormFeature labels a token by its lowercased form.
func FormFeature(sentence []Row, i int) string {
	return strings.ToLower(sentence[i].Form)
}

// LemmaFeature labels a token by its lemma.
func LemmaFeature(sentence []Row, i int) string {
	return sentence[i].Lemma
}

// POSFeature labels a token by its part-of-speech tag.
func POSFeature(sentence []Row, i int) string {
	return sentence[i].POS
}

// LemmaPOSFeature labels a token as "lemma_POS".
func LemmaPOSFeature(sentence []Row, i int) string {
	return sentence[i].Lemma + "_" + sentence[i].POS
}

// DependencyFeature labels a token by its dependency
// relation and the lemma of its head, as in "nsubj:eat".
// Tokens attached to the root are labeled "deprel:root".
func DependencyFeature(sentence []Row, i int) string {
	row := sentence[i]
	head := "root"
	if row.Head > 0 && row.Head <= len(sentence) {
		head = sentence[row.Head-1].Lemma
	}
	return row.DepRel + ":" + head
}

// CoNLLFormat reads tab-separated dependency rows with
// sentences separated by blank lines.
type CoNLLFormat struct {
	// Feature produces the token for each row.
	// If nil, FormFeature is used.
	Feature Feature
}

// Boundary ends a sentence at each blank line.
// Comment lines starting with '#' are neither content nor
// boundaries.
func (c *CoNLLFormat) Boundary(line []byte) (end, content bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return true, false
	}
	return false, trimmed[0] != '#'
}

// Parse parses the rows and applies the Feature.
func (c *CoNLLFormat) Parse(lines [][]byte) ([]string, error) {
	rows, err := ParseRows(lines)
	if err != nil {
		return nil, err
	}
	feature := c.Feature
	if feature == nil {
		feature = FormFeature
	}
	res := make([]string, 0, len(rows))
	for i := range rows {
		if label := feature(rows, i); label != "" {
			res = append(res, label)
		}
	}
	return res, nil
}

// ParseRows parses the dependency rows of one sentence.
//
// Rows whose ID is a range ("3-4") or a decimal ("5.1")
// are skipped.
func ParseRows(lines [][]byte) ([]Row, error) {
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(string(line), "\t")
		if len(fields) < MinCoNLLFields {
			return nil, fmt.Errorf("%w: %d fields in %q", ErrMalformedRow, len(fields), line)
		}
		if strings.ContainsAny(fields[0], "-.") {
			// Multi-word token ranges and empty nodes.
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", ErrMalformedRow, fields[0])
		}
		head, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("%w: bad head %q", ErrMalformedRow, fields[6])
		}
		rows = append(rows, Row{
			ID:     id,
			Form:   fields[1],
			Lemma:  fields[2],
			POS:    fields[4],
			Feats:  fields[5],
			Head:   head,
			DepRel: fields[7],
		})
	}
	return rows, nil
}
