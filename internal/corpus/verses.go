package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Verse is one verse element of a chapter document.
type Verse struct {
	Number int    // chapter-local label; 0 when the label has no digits
	Text   string // raw text of the content region, whitespace untouched
}

// envelope is the upstream JSON wrapper around the chapter HTML.
type envelope struct {
	Content *string `json:"content"`
}

// ErrNotChapterDocument reports a download that is not a chapter envelope,
// such as a login, captcha or redirect page served with status 200.
var ErrNotChapterDocument = errors.New("not a chapter document")

// CheckDownload accepts a downloaded body only when it is the upstream JSON
// envelope and yields at least one verse. Bare fragments are read from the
// cache but never accepted from the network.
func CheckDownload(doc []byte) error {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: body starts with %q", ErrNotChapterDocument, head(trimmed, 40))
	}
	verses, err := ParseVerses(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotChapterDocument, err)
	}
	if len(verses) == 0 {
		return fmt.Errorf("%w: no verses", ErrNotChapterDocument)
	}
	return nil
}

func head(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// DocumentHTML unwraps a stored chapter document. Documents are either the
// upstream JSON envelope or a bare HTML fragment.
func DocumentHTML(doc []byte) (string, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return string(doc), nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return "", fmt.Errorf("decode chapter envelope: %w", err)
	}
	if env.Content == nil {
		return "", fmt.Errorf("chapter envelope has no content field")
	}
	return *env.Content, nil
}

// ParseVerses extracts verses in document order.
func ParseVerses(doc []byte) ([]Verse, error) {
	markup, err := DocumentHTML(doc)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var verses []Verse
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "verse") {
			// Some upstream markup ships empty verse shells.
			if strings.TrimSpace(textContent(n)) != "" {
				verses = append(verses, Verse{
					Number: leadingInt(classText(n, "label")),
					Text:   classText(n, "content"),
				})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return verses, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// classText concatenates the text of every descendant carrying class.
func classText(n *html.Node, class string) string {
	var buf strings.Builder
	var find func(*html.Node)
	find = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, class) {
				buf.WriteString(textContent(c))
				continue
			}
			find(c)
		}
	}
	find(n)
	return buf.String()
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
