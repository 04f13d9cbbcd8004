// Package canon holds the book catalog and resolves the configured corpus
// subsets into ordered chapter lists.
package canon

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed books.yaml
var booksYAML string

// All selects every book in the catalog.
const All = "all"

// Book is one catalog entry.
type Book struct {
	Name     string `yaml:"name"`
	Abbr     string `yaml:"abbr"`
	Chapters int    `yaml:"chapters"`
}

// ChapterRef identifies one chapter document.
type ChapterRef struct {
	Book    string // lowercase abbreviation, e.g. "gen"
	Chapter int
}

func (r ChapterRef) String() string {
	return fmt.Sprintf("%s %d", strings.ToUpper(r.Book), r.Chapter)
}

// Canon is an ordered book catalog.
type Canon struct {
	Books []Book `yaml:"books"`

	byAbbr map[string]int
}

// Load parses a YAML catalog.
func Load(r io.Reader) (*Canon, error) {
	var c Canon
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode book catalog: %w", err)
	}
	if len(c.Books) == 0 {
		return nil, fmt.Errorf("book catalog is empty")
	}
	c.byAbbr = make(map[string]int, len(c.Books))
	for i, b := range c.Books {
		abbr := strings.ToLower(strings.TrimSpace(b.Abbr))
		if abbr == "" {
			return nil, fmt.Errorf("book %q has no abbreviation", b.Name)
		}
		if b.Chapters <= 0 {
			return nil, fmt.Errorf("book %q has no chapters", b.Name)
		}
		if _, dup := c.byAbbr[abbr]; dup {
			return nil, fmt.Errorf("duplicate abbreviation %q", abbr)
		}
		c.Books[i].Abbr = abbr
		c.byAbbr[abbr] = i
	}
	return &c, nil
}

// Default returns the embedded 66-book catalog.
func Default() *Canon {
	c, err := Load(strings.NewReader(booksYAML))
	if err != nil {
		panic("canon: embedded catalog: " + err.Error())
	}
	return c
}

// Book looks up a book by abbreviation.
func (c *Canon) Book(abbr string) (Book, bool) {
	i, ok := c.byAbbr[strings.ToLower(strings.TrimSpace(abbr))]
	if !ok {
		return Book{}, false
	}
	return c.Books[i], true
}

// Select resolves a book selection: "all", or a comma-separated list of
// abbreviations. Listed order is kept and duplicates are dropped.
func (c *Canon) Select(selection string) ([]Book, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, fmt.Errorf("empty book selection")
	}
	if strings.EqualFold(selection, All) {
		out := make([]Book, len(c.Books))
		copy(out, c.Books)
		return out, nil
	}

	var out []Book
	seen := make(map[string]bool)
	for _, part := range strings.Split(selection, ",") {
		abbr := strings.ToLower(strings.TrimSpace(part))
		if abbr == "" || seen[abbr] {
			continue
		}
		b, ok := c.Book(abbr)
		if !ok {
			return nil, fmt.Errorf("unknown book %q", abbr)
		}
		seen[abbr] = true
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty book selection")
	}
	return out, nil
}

// Chapters expands books into chapter refs: book order, then chapter ascending.
func Chapters(books []Book) []ChapterRef {
	var refs []ChapterRef
	for _, b := range books {
		for ch := 1; ch <= b.Chapters; ch++ {
			refs = append(refs, ChapterRef{Book: b.Abbr, Chapter: ch})
		}
	}
	return refs
}
