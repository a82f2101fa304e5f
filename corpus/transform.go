package corpus

// MapSentences wraps a Reader so that every sentence is
// passed through f.
//
// The wrapper only changes output: Restart, Progress and
// Close go straight to r, and Split wraps each part of r.
func MapSentences(r Reader, f func(sentence []string) []string) Reader {
	return &mappedReader{Reader: r, f: f}
}

// MapTokens wraps a Reader so that every token is passed
// through f.
// Tokens mapped to "" are dropped.
func MapTokens(r Reader, f func(token string) string) Reader {
	return MapSentences(r, func(sentence []string) []string {
		res := make([]string, 0, len(sentence))
		for _, tok := range sentence {
			if mapped := f(tok); mapped != "" {
				res = append(res, mapped)
			}
		}
		return res
	})
}

// Filter wraps a Reader so that only tokens for which
// keep returns true are produced.
//
// Filtering one side of an Aligned pair will desync it.
func Filter(r Reader, keep func(token string) bool) Reader {
	return MapSentences(r, func(sentence []string) []string {
		res := make([]string, 0, len(sentence))
		for _, tok := range sentence {
			if keep(tok) {
				res = append(res, tok)
			}
		}
		return res
	})
}

type mappedReader struct {
	Reader
	f func([]string) []string
}

func (m *mappedReader) Next() ([]string, error) {
	sentence, err := m.Reader.Next()
	if err != nil {
		return nil, err
	}
	return m.f(sentence), nil
}

func (m *mappedReader) Split(n int) ([]Reader, error) {
	parts, err := m.Reader.Split(n)
	if err != nil {
		return nil, err
	}
	for i, part := range parts {
		parts[i] = &mappedReader{Reader: part, f: m.f}
	}
	return parts, nil
}
