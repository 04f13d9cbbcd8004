// Package dictionary holds the ground-truth word list the scanner checks
// tokens against.
package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/dgallion1/versefix/internal/errs"
	"github.com/dgallion1/versefix/internal/tokenize"
)

// Dictionary is an immutable set of words compared by exact string.
type Dictionary struct {
	words map[string]struct{}
}

// Load reads a newline-delimited word list. A missing file is a
// *errs.MissingInputError.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &errs.MissingInputError{What: "dictionary", Path: path, Err: err}
		}
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return d, nil
}

// Parse splits r on newlines. Entries are kept verbatim; blank lines are
// skipped.
func Parse(r io.Reader) (*Dictionary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d := &Dictionary{words: make(map[string]struct{}, bytes.Count(data, []byte{'\n'})+1)}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		d.words[line] = struct{}{}
	}
	return d, nil
}

// New builds a dictionary from words.
func New(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w != "" {
			d.words[w] = struct{}{}
		}
	}
	return d
}

func (d *Dictionary) IsWord(token string) bool {
	_, ok := d.words[token]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// Unnormalized returns, sorted, the entries that tokenize.Normalize would
// change. Tokens are always normalized, so these entries can never match and
// their joined forms get over-reported.
func (d *Dictionary) Unnormalized() []string {
	var out []string
	for w := range d.words {
		if tokenize.Normalize(w) != w {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}
