package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/unixpickle/essentials"
)

const readBufferSize = 1 << 16

// indexStride is the number of sentences between two
// recorded offsets in a file's index.
const indexStride = 1024

// A FileReader reads sentences from a list of files.
//
// When it is opened, every file is scanned once to count
// its sentences and record the byte offset of every
// 1024th one.
// This index lets any sentence range be read by seeking
// to the nearest recorded offset and skipping forward,
// and is shared by all the Readers produced by Split.
type FileReader struct {
	index  *fileIndex
	format Format

	start int
	end   int
	pos   int

	file    int
	handle  *os.File
	scanner *sentenceScanner
}

// Open indexes the files and returns a Reader over all of
// their sentences, in the order the paths are given.
func Open(format Format, paths ...string) (*FileReader, error) {
	return openStride(format, indexStride, paths...)
}

func openStride(format Format, stride int, paths ...string) (*FileReader, error) {
	index, err := buildIndex(format, paths, stride)
	if err != nil {
		return nil, err
	}
	return &FileReader{
		index:  index,
		format: format,
		end:    index.NumSentences(),
		file:   -1,
	}, nil
}

// WithFormat creates a Reader over the same sentence
// range which parses sentences with a different Format.
//
// The new Format must group lines into sentences the same
// way as the original one, since the index is reused.
// This is how two Readers that produce different
// features for the same tokens are kept aligned.
func (f *FileReader) WithFormat(format Format) *FileReader {
	return &FileReader{
		index:  f.index,
		format: format,
		start:  f.start,
		end:    f.end,
		pos:    f.start,
		file:   -1,
	}
}

// Len returns the number of sentences in the range.
func (f *FileReader) Len() int {
	return f.end - f.start
}

// Paths returns the files backing the Reader.
func (f *FileReader) Paths() []string {
	return append([]string{}, f.index.paths...)
}

// Next reads the next sentence.
//
// A sentence whose lines produce no tokens is returned as
// an empty slice.
func (f *FileReader) Next() ([]string, error) {
	if f.pos >= f.end {
		return nil, io.EOF
	}
	file, local := f.index.Locate(f.pos)
	if file != f.file {
		if err := f.seek(file, local); err != nil {
			return nil, err
		}
	}
	path := f.index.paths[file]
	lines, _, err := f.scanner.Next(true)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, essentials.AddCtx("read corpus: "+path, err)
	}
	f.pos++
	tokens, err := f.format.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %s: sentence %d: %w", path, local+1, err)
	}
	return tokens, nil
}

// Restart seeks back to the first sentence in the range.
func (f *FileReader) Restart() error {
	f.pos = f.start
	return f.Close()
}

// Split partitions the range into n FileReaders.
//
// Each part gets Len()/n sentences and the last part also
// gets the remainder.
// If there are fewer sentences than parts, the leading
// parts get one sentence each and the rest are empty.
func (f *FileReader) Split(n int) ([]Reader, error) {
	if n < 1 {
		return nil, fmt.Errorf("split corpus: invalid part count %d", n)
	}
	size := f.Len() / n
	if size == 0 {
		size = 1
	}
	res := make([]Reader, n)
	for i := range res {
		start := essentials.MinInt(f.start+i*size, f.end)
		end := essentials.MinInt(start+size, f.end)
		if i == n-1 {
			end = f.end
		}
		res[i] = &FileReader{
			index:  f.index,
			format: f.format,
			start:  start,
			end:    end,
			pos:    start,
			file:   -1,
		}
	}
	return res, nil
}

// Progress returns the percentage of sentences read in
// the current pass.
func (f *FileReader) Progress() float64 {
	if f.end == f.start {
		return 100
	}
	return 100 * float64(f.pos-f.start) / float64(f.end-f.start)
}

// Close closes the currently open file, if any.
func (f *FileReader) Close() error {
	f.file = -1
	f.scanner = nil
	if f.handle == nil {
		return nil
	}
	err := f.handle.Close()
	f.handle = nil
	return err
}

func (f *FileReader) seek(file, local int) error {
	if err := f.Close(); err != nil {
		return err
	}
	path := f.index.paths[file]
	handle, err := os.Open(path)
	if err != nil {
		return essentials.AddCtx("read corpus", err)
	}
	offset := f.index.checkpoints[file][local/f.index.stride]
	if _, err := handle.Seek(offset, io.SeekStart); err != nil {
		handle.Close()
		return essentials.AddCtx("read corpus: "+path, err)
	}
	scanner := newSentenceScanner(handle, f.format, offset)
	for i := 0; i < local%f.index.stride; i++ {
		if _, _, err := scanner.Next(false); err != nil {
			handle.Close()
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return essentials.AddCtx("read corpus: "+path, err)
		}
	}
	f.handle = handle
	f.file = file
	f.scanner = scanner
	return nil
}

type fileIndex struct {
	paths []string

	// checkpoints[i][j] is the byte offset of sentence
	// j*stride in file i.
	checkpoints [][]int64
	stride      int

	// cumulative[i] is the number of sentences in the
	// files before file i.
	cumulative []int
}

func buildIndex(format Format, paths []string, stride int) (*fileIndex, error) {
	res := &fileIndex{
		paths:       append([]string{}, paths...),
		checkpoints: make([][]int64, len(paths)),
		stride:      stride,
		cumulative:  make([]int, len(paths)+1),
	}
	for i, path := range paths {
		checkpoints, count, err := indexFile(format, path, stride)
		if err != nil {
			return nil, err
		}
		res.checkpoints[i] = checkpoints
		res.cumulative[i+1] = res.cumulative[i] + count
	}
	return res, nil
}

func indexFile(format Format, path string, stride int) (checkpoints []int64,
	count int, err error) {
	defer essentials.AddCtxTo("index corpus: "+path, &err)
	handle, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer handle.Close()
	scanner := newSentenceScanner(handle, format, 0)
	for {
		_, start, err := scanner.Next(false)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return checkpoints, count, nil
			}
			return nil, 0, err
		}
		if count%stride == 0 {
			checkpoints = append(checkpoints, start)
		}
		count++
	}
}

// NumSentences returns the total number of indexed
// sentences.
func (f *fileIndex) NumSentences() int {
	return f.cumulative[len(f.cumulative)-1]
}

// Locate finds the file containing a global sentence
// index and the sentence's index within that file.
func (f *fileIndex) Locate(sentence int) (file, local int) {
	file = sort.Search(len(f.paths), func(i int) bool {
		return f.cumulative[i+1] > sentence
	})
	return file, sentence - f.cumulative[file]
}

// A sentenceScanner groups the lines of a stream into
// sentences while tracking byte offsets.
type sentenceScanner struct {
	reader *bufio.Reader
	format Format
	offset int64
}

func newSentenceScanner(r io.Reader, format Format, offset int64) *sentenceScanner {
	return &sentenceScanner{
		reader: bufio.NewReaderSize(r, readBufferSize),
		format: format,
		offset: offset,
	}
}

// Next reads up to the end of the next sentence that has
// at least one content line.
// If keep is false, the lines are not returned.
//
// It returns io.EOF when no such sentence remains.
func (s *sentenceScanner) Next(keep bool) (lines [][]byte, start int64, err error) {
	var pending bool
	for {
		raw, readErr := s.reader.ReadBytes('\n')
		if len(raw) == 0 && readErr != nil {
			if readErr == io.EOF && pending {
				return lines, start, nil
			}
			return nil, 0, readErr
		}
		lineStart := s.offset
		s.offset += int64(len(raw))

		line := trimNewline(raw)
		end, content := s.format.Boundary(line)
		if content {
			if !pending {
				pending = true
				start = lineStart
			}
			if keep {
				lines = append(lines, line)
			}
		}
		if pending && (end || readErr != nil) {
			return lines, start, nil
		}
		if readErr != nil {
			return nil, 0, readErr
		}
	}
}

func trimNewline(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
