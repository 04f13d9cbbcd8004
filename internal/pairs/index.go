// Package pairs builds the concatenation index: every string a+b for
// vocabulary words a and b. A token that is not a dictionary word but is in
// the index is explainable as two words run together.
package pairs

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgallion1/versefix/internal/vocab"
)

// BuildOptions bounds the quadratic construction.
type BuildOptions struct {
	// MaxPairs refuses vocabularies with more than MaxPairs ordered pairs
	// unless AllowLarge is set. Zero means no bound.
	MaxPairs int64
	// WarnPairs logs a warning above this many pairs.
	WarnPairs  int64
	AllowLarge bool
	Log        *slog.Logger
}

// TooLargeError reports a vocabulary whose pair count exceeds the bound.
type TooLargeError struct {
	Words    int
	Pairs    int64
	MaxPairs int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("concatenation index would hold %d pairs for %d words (limit %d); narrow VOCAB_BOOKS or set ALLOW_LARGE_INDEX=true",
		e.Pairs, e.Words, e.MaxPairs)
}

// Index is a set of two-word concatenations tied to the vocabulary it was
// built from.
type Index struct {
	pairs  map[string]struct{}
	source string // vocabulary digest
}

// Build inserts a+b for every ordered pair of vocabulary words, self-pairs
// included. Different pairs may produce the same string; the index keeps one.
func Build(v *vocab.Vocabulary, opts BuildOptions) (*Index, error) {
	words := v.Words()
	n := int64(len(words))
	total := n * n

	if opts.MaxPairs > 0 && total > opts.MaxPairs && !opts.AllowLarge {
		return nil, &TooLargeError{Words: len(words), Pairs: total, MaxPairs: opts.MaxPairs}
	}
	if opts.Log != nil && opts.WarnPairs > 0 && total > opts.WarnPairs {
		opts.Log.Warn("concatenation index is quadratic in vocabulary size",
			"words", len(words), "pairs", total)
	}

	ix := &Index{
		pairs:  make(map[string]struct{}, int(min(total, 1<<24))),
		source: v.Digest(),
	}
	for _, a := range words {
		for _, b := range words {
			ix.pairs[a+b] = struct{}{}
		}
	}
	return ix, nil
}

// Contains reports whether candidate is a concatenation of two vocabulary
// words. The empty string never is.
func (ix *Index) Contains(candidate string) bool {
	if candidate == "" {
		return false
	}
	_, ok := ix.pairs[candidate]
	return ok
}

func (ix *Index) Len() int {
	return len(ix.pairs)
}

// Source returns the digest of the vocabulary the index was built from.
func (ix *Index) Source() string {
	return ix.source
}

// BuiltFrom reports whether the index matches v.
func (ix *Index) BuiltFrom(v *vocab.Vocabulary) bool {
	return ix.source == v.Digest()
}

func (ix *Index) sorted() []string {
	out := make([]string, 0, len(ix.pairs))
	for p := range ix.pairs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Split is one way of reading a token as two vocabulary words.
type Split struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (s Split) String() string {
	return s.Left + "+" + s.Right
}

// Splits lists every split of token into two vocabulary words, shortest
// left part first. The index cannot tell which pair produced a string, so
// this works from the vocabulary.
func Splits(token string, v *vocab.Vocabulary) []Split {
	var out []Split
	for i := 1; i < len(token); i++ {
		left, right := token[:i], token[i:]
		if v.Contains(left) && v.Contains(right) {
			out = append(out, Split{Left: left, Right: right})
		}
	}
	return out
}
