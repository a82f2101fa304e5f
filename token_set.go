package depvec

import (
	"encoding/json"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var t TokenSet
	serializer.RegisterTypedDeserializer(t.SerializerType(), DeserializeTokenSet)
}

// A TokenSet translates between tokens and token IDs.
//
// Each token's ID is its position in the list the set was
// created from.
// The ID Len() is used as a placeholder for tokens not in
// the set.
type TokenSet struct {
	tokens []string
	ids    map[string]int
}

// NewTokenSet creates a TokenSet from a list of distinct
// tokens.
func NewTokenSet(tokens []string) *TokenSet {
	res := &TokenSet{
		tokens: append([]string{}, tokens...),
		ids:    make(map[string]int, len(tokens)),
	}
	for i, tok := range res.tokens {
		res.ids[tok] = i
	}
	return res
}

// DeserializeTokenSet deserializes a TokenSet.
func DeserializeTokenSet(d []byte) (*TokenSet, error) {
	var tokens []string
	if err := json.Unmarshal(d, &tokens); err != nil {
		return nil, essentials.AddCtx("deserialize TokenSet", err)
	}
	return NewTokenSet(tokens), nil
}

// Len returns the number of tokens.
func (t *TokenSet) Len() int {
	return len(t.tokens)
}

// ID gets an ID for the token.
func (t *TokenSet) ID(token string) int {
	if id, ok := t.ids[token]; ok {
		return id
	}
	return len(t.tokens)
}

// IDs computes the ID for each token.
func (t *TokenSet) IDs(tokens []string) []int {
	res := make([]int, len(tokens))
	for i, tok := range tokens {
		res[i] = t.ID(tok)
	}
	return res
}

// Token gets the token for the given ID.
//
// If the token ID corresponds to an absent token, then ""
// is returned.
func (t *TokenSet) Token(id int) string {
	if id < 0 || id >= len(t.tokens) {
		return ""
	}
	return t.tokens[id]
}

// Tokens returns the tokens in ID order.
func (t *TokenSet) Tokens() []string {
	return append([]string{}, t.tokens...)
}

// SerializerType returns the unique ID used to serialize
// a TokenSet with the serializer package.
func (t *TokenSet) SerializerType() string {
	return "github.com/unixpickle/depvec.TokenSet"
}

// Serialize serializes the TokenSet.
func (t *TokenSet) Serialize() ([]byte, error) {
	return json.Marshal(t.tokens)
}
