// Package corpus streams tokenized sentences from text
// files in a way that can be sharded across workers.
package corpus

import (
	"errors"
)

// ErrDesync is returned when two aligned readers produce
// sentences of different lengths.
var ErrDesync = errors.New("aligned readers are out of sync")

// A Reader produces sentences from a contiguous range of
// a corpus.
type Reader interface {
	// Next returns the next sentence.
	//
	// At the end of the range, it returns io.EOF.
	// Any other error means the underlying data could not
	// be read or parsed.
	Next() ([]string, error)

	// Restart seeks back to the start of the range.
	// The following reads reproduce the same sentences as
	// the first pass.
	Restart() error

	// Split partitions the range into n contiguous
	// Readers which together cover the range exactly.
	// The last Reader absorbs any remainder.
	//
	// The returned Readers are independent of r and of
	// each other.
	Split(n int) ([]Reader, error)

	// Progress returns the percentage of the range that
	// has been consumed in the current pass.
	Progress() float64

	// Close releases any open files.
	// A closed Reader may be restarted.
	Close() error
}

// ReadAll reads the remaining sentences from r.
func ReadAll(r Reader) ([][]string, error) {
	var res [][]string
	for {
		sentence, err := r.Next()
		if err != nil {
			if isEOF(err) {
				return res, nil
			}
			return res, err
		}
		res = append(res, sentence)
	}
}
