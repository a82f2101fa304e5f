// Package vocab implements the frequency-ranked token
// table used to index embedding rows.
package vocab

import (
	"errors"
	"sort"
)

// NotFound is the index returned for forms that are not
// in a Vocabulary.
const NotFound = -1

// EndOfSentence is the conventional sentinel form which
// counts sentence boundaries.
const EndOfSentence = "</s>"

var (
	ErrNotSorted   = errors.New("vocabulary has not been sorted")
	ErrEmpty       = errors.New("vocabulary is empty")
	ErrCodeTooLong = errors.New("huffman code exceeds maximum length")
)

// A Word is a single vocabulary entry.
type Word struct {
	Form  string
	Count int64

	// Code is the Huffman code for the word, root first.
	// Each element is 0 or 1.
	Code []byte

	// Point contains, for each bit of Code, the index of
	// the internal tree node that decides the bit.
	// Internal node indices range from 0 to Len()-2, with
	// the root at Len()-2.
	Point []int
}

// A Vocabulary counts token forms and assigns each form
// an integer index.
//
// Indices are assigned in insertion order until Sort is
// called, after which they are ranked by count.
// Any operation that removes entries invalidates
// previously returned indices.
//
// A Vocabulary is not safe for concurrent use.
// Parallel counting should use one Vocabulary per
// goroutine and merge them with AddAll.
type Vocabulary struct {
	words     []*Word
	index     map[string]int
	total     int64
	minReduce int64
	sentinel  string
	sorted    bool
}

// New creates an empty Vocabulary.
func New() *Vocabulary {
	return &Vocabulary{index: map[string]int{}, minReduce: 1}
}

// NewWithSentinel creates a Vocabulary whose first entry
// is permanently the given form.
//
// The sentinel entry starts with a count of zero and is
// never removed by Reduce or Sort.
func NewWithSentinel(form string) *Vocabulary {
	v := New()
	v.sentinel = form
	v.words = append(v.words, &Word{Form: form})
	v.index[form] = 0
	return v
}

// Sentinel returns the reserved form, or "" if there is
// none.
func (v *Vocabulary) Sentinel() string {
	return v.sentinel
}

// Add counts one occurrence of the form.
func (v *Vocabulary) Add(form string) *Word {
	return v.AddCount(form, 1)
}

// AddCount counts n occurrences of the form.
func (v *Vocabulary) AddCount(form string, n int64) *Word {
	v.total += n
	if idx, ok := v.index[form]; ok {
		w := v.words[idx]
		w.Count += n
		return w
	}
	w := &Word{Form: form, Count: n}
	v.index[form] = len(v.words)
	v.words = append(v.words, w)
	v.sorted = false
	return w
}

// AddAll adds every count from other into v.
//
// Merging is commutative on counts, so a set of private
// vocabularies can be merged in any order.
func (v *Vocabulary) AddAll(other *Vocabulary) {
	for _, w := range other.words {
		if w.Count == 0 && w.Form == other.sentinel {
			continue
		}
		v.AddCount(w.Form, w.Count)
	}
}

// IndexOf returns the index of the form, or NotFound.
func (v *Vocabulary) IndexOf(form string) int {
	if idx, ok := v.index[form]; ok {
		return idx
	}
	return NotFound
}

// Word returns the entry at the index.
func (v *Vocabulary) Word(idx int) *Word {
	return v.words[idx]
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// TotalCount returns the sum of all entry counts.
func (v *Vocabulary) TotalCount() int64 {
	return v.total
}

// Sorted reports whether Sort has run since the last
// structural change.
func (v *Vocabulary) Sorted() bool {
	return v.sorted
}

// Forms returns every form in index order.
func (v *Vocabulary) Forms() []string {
	res := make([]string, len(v.words))
	for i, w := range v.words {
		res[i] = w.Form
	}
	return res
}

// Reduce removes every entry whose count is at most the
// current reduction threshold and then raises the
// threshold by one.
//
// It is meant to bound memory while counting unbounded
// streams.
// It returns the number of removed entries.
func (v *Vocabulary) Reduce() int {
	removed := v.filter(func(w *Word) bool {
		return w.Count > v.minReduce
	})
	if removed > 0 {
		v.sorted = false
	}
	v.minReduce++
	return removed
}

// Sort removes entries with a count below minCount,
// orders the remaining entries by descending count, and
// rebuilds the index.
//
// Entries with equal counts keep their relative order.
// The sentinel, if any, stays at index 0.
// Sort returns the total count of the retained entries.
func (v *Vocabulary) Sort(minCount int64) int64 {
	v.filter(func(w *Word) bool {
		return w.Count >= minCount
	})
	rest := v.words
	if v.sentinel != "" {
		rest = rest[1:]
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Count > rest[j].Count
	})
	v.reindex()
	for _, w := range v.words {
		w.Code = nil
		w.Point = nil
	}
	v.sorted = true
	return v.total
}

// filter keeps the entries for which keep returns true,
// plus the sentinel.
// It preserves order and returns the number of dropped
// entries.
func (v *Vocabulary) filter(keep func(w *Word) bool) int {
	var kept []*Word
	var total int64
	for i, w := range v.words {
		if (i == 0 && v.sentinel != "") || keep(w) {
			kept = append(kept, w)
			total += w.Count
		}
	}
	removed := len(v.words) - len(kept)
	if removed > 0 {
		v.words = kept
		v.reindex()
	}
	v.total = total
	return removed
}

func (v *Vocabulary) reindex() {
	v.index = make(map[string]int, len(v.words))
	for i, w := range v.words {
		v.index[w.Form] = i
	}
}
