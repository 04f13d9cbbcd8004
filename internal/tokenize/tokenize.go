// Package tokenize turns rendered verse text into normalized word tokens.
package tokenize

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	// Runs of two or more spaces are removed outright, not collapsed to one.
	// Words separated that way fuse into a single token.
	multiSpace = regexp.MustCompile(` {2,}`)
	disallowed = regexp.MustCompile(`[^a-z0-9'-]`)
)

var apostrophes = runes.Map(func(r rune) rune {
	switch r {
	case '’', '‘', 'ʼ', '′', '`':
		return '\''
	}
	return r
})

// Tokenize splits one verse's text into normalized tokens. Positions are
// preserved: a piece that normalizes to nothing yields an empty token.
func Tokenize(text string) []string {
	text = multiSpace.ReplaceAllString(text, "")
	parts := strings.Split(text, " ")
	tokens := make([]string, len(parts))
	for i, p := range parts {
		tokens[i] = Normalize(p)
	}
	return tokens
}

// Normalize lowercases word, unifies apostrophe variants, strips trailing
// apostrophes and drops every character outside [a-z0-9'-].
func Normalize(word string) string {
	w := strings.ToLower(word)
	if unified, _, err := transform.String(apostrophes, w); err == nil {
		w = unified
	}
	w = strings.TrimRight(w, "'")
	return disallowed.ReplaceAllString(w, "")
}
