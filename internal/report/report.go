// Package report renders flagged tokens for people and spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/versefix/internal/pairs"
	"github.com/dgallion1/versefix/internal/scan"
)

// Writer is a scan.Sink that must be closed to flush buffered output.
type Writer interface {
	scan.Sink
	Close() error
}

// Formats lists the accepted REPORT_FORMAT values.
var Formats = map[string]bool{
	"text":     true,
	"csv":      true,
	"markdown": true,
	"html":     true,
}

// New returns a Writer for format that writes to w.
func New(format string, w io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextWriter{w: w}, nil
	case "csv":
		return newCSVWriter(w), nil
	case "markdown", "md":
		return &MarkdownWriter{w: w}, nil
	case "html":
		return newHTMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func bookLabel(book string) string {
	return strings.ToUpper(book)
}

func joinSplits(splits []pairs.Split, sep string) string {
	parts := make([]string, len(splits))
	for i, s := range splits {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}
