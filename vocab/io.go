package vocab

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var v Vocabulary
	serializer.RegisterTypedDeserializer(v.SerializerType(), DeserializeVocabulary)
}

// WriteTo writes one "form\tcount" line per entry, in
// index order.
func (v *Vocabulary) WriteTo(w io.Writer) (n int64, err error) {
	defer essentials.AddCtxTo("write vocabulary", &err)
	bw := bufio.NewWriter(w)
	for _, word := range v.words {
		k, err := fmt.Fprintf(bw, "%s\t%d\n", word.Form, word.Count)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// ReadFrom reads lines written by WriteTo and adds their
// counts to v.
//
// Existing entries are kept, so reading into a non-empty
// Vocabulary merges the two.
// The caller must call Sort again before training.
func (v *Vocabulary) ReadFrom(r io.Reader) (n int64, err error) {
	defer essentials.AddCtxTo("read vocabulary", &err)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		n += int64(len(line)) + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		sep := strings.LastIndexByte(line, '\t')
		if sep < 0 {
			return n, fmt.Errorf("line %d: missing count", lineNum)
		}
		count, err := strconv.ParseInt(line[sep+1:], 10, 64)
		if err != nil {
			return n, fmt.Errorf("line %d: %v", lineNum, err)
		}
		v.AddCount(line[:sep], count)
	}
	return n, scanner.Err()
}

// DeserializeVocabulary deserializes a Vocabulary.
//
// Huffman codes are not stored; the result is sorted only
// if the serialized Vocabulary was.
func DeserializeVocabulary(d []byte) (res *Vocabulary, err error) {
	defer essentials.AddCtxTo("deserialize Vocabulary", &err)
	var header serializer.Bytes
	var counts []int
	if err := serializer.DeserializeAny(d, &header, &counts); err != nil {
		return nil, err
	}
	var h vocabHeader
	if err := json.Unmarshal(header, &h); err != nil {
		return nil, err
	}
	if len(h.Forms) != len(counts) {
		return nil, fmt.Errorf("have %d forms but %d counts", len(h.Forms), len(counts))
	}
	if h.Sentinel != "" {
		res = NewWithSentinel(h.Sentinel)
	} else {
		res = New()
	}
	for i, form := range h.Forms {
		res.AddCount(form, int64(counts[i]))
	}
	res.minReduce = h.MinReduce
	res.sorted = h.Sorted
	return res, nil
}

// SerializerType returns the unique ID used to serialize
// a Vocabulary with the serializer package.
func (v *Vocabulary) SerializerType() string {
	return "github.com/unixpickle/depvec/vocab.Vocabulary"
}

// Serialize serializes the Vocabulary.
func (v *Vocabulary) Serialize() ([]byte, error) {
	counts := make([]int, len(v.words))
	for i, w := range v.words {
		counts[i] = int(w.Count)
	}
	header, err := json.Marshal(&vocabHeader{
		Forms:     v.Forms(),
		Sentinel:  v.sentinel,
		MinReduce: v.minReduce,
		Sorted:    v.sorted,
	})
	if err != nil {
		return nil, err
	}
	return serializer.SerializeAny(serializer.Bytes(header), counts)
}

type vocabHeader struct {
	Forms     []string
	Sentinel  string
	MinReduce int64
	Sorted    bool
}
