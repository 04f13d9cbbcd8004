package report

import (
	"fmt"
	"io"

	"github.com/dgallion1/versefix/internal/scan"
)

const markdownHeader = "| Book | Chapter | Verse | Position | Token | Splits |\n" +
	"|------|--------:|------:|---------:|-------|--------|\n"

// MarkdownWriter streams flags as rows of a GitHub table.
type MarkdownWriter struct {
	w           io.Writer
	wroteHeader bool
}

func (m *MarkdownWriter) header() error {
	if m.wroteHeader {
		return nil
	}
	m.wroteHeader = true
	_, err := io.WriteString(m.w, markdownHeader)
	return err
}

func (m *MarkdownWriter) Flag(f scan.FlaggedToken) error {
	if err := m.header(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(m.w, "| %s | %d | %d | %d | %s | %s |\n",
		bookLabel(f.Book), f.Chapter, f.Verse, f.Position, f.Token, joinSplits(f.Splits, ", "))
	return err
}

func (m *MarkdownWriter) Close() error {
	return m.header()
}
