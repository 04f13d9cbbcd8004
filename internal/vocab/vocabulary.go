// Package vocab accumulates the deduplicated token vocabulary of a corpus
// subset and persists it as the wordlist artifact.
package vocab

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Vocabulary is a set of non-empty normalized tokens.
type Vocabulary struct {
	words map[string]struct{}
}

// New returns a vocabulary holding words. Empty strings are ignored.
func New(words ...string) *Vocabulary {
	v := &Vocabulary{words: make(map[string]struct{}, len(words))}
	v.Add(words...)
	return v
}

// Add inserts tokens. The empty token is never a member: pairing it with a
// word would put every word in the concatenation index.
func (v *Vocabulary) Add(tokens ...string) {
	for _, t := range tokens {
		if t == "" {
			continue
		}
		v.words[t] = struct{}{}
	}
}

// Merge adds every word of o.
func (v *Vocabulary) Merge(o *Vocabulary) {
	for w := range o.words {
		v.words[w] = struct{}{}
	}
}

func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.words[word]
	return ok
}

func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns the members in sorted order.
func (v *Vocabulary) Words() []string {
	out := make([]string, 0, len(v.words))
	for w := range v.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Encode returns the canonical wordlist bytes: a sorted JSON array and a
// trailing newline. Equal sets always encode identically.
func (v *Vocabulary) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.Words()); err != nil {
		return nil, fmt.Errorf("encode wordlist: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses wordlist bytes.
func Decode(data []byte) (*Vocabulary, error) {
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, err
	}
	return New(words...), nil
}

// Digest is the BLAKE3 hash of the canonical encoding. The concatenation
// index records it to detect that it was built from another vocabulary.
func (v *Vocabulary) Digest() string {
	data, err := v.Encode()
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
