package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/versefix/internal/scan"
)

// HTMLWriter collects the markdown table and renders it with goldmark on
// Close. Nothing reaches the destination before then.
type HTMLWriter struct {
	dst   io.Writer
	buf   bytes.Buffer
	table *MarkdownWriter
	md    goldmark.Markdown
	count int
}

func newHTMLWriter(w io.Writer) *HTMLWriter {
	h := &HTMLWriter{
		dst: w,
		md:  goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
	h.table = &MarkdownWriter{w: &h.buf}
	return h
}

func (h *HTMLWriter) Flag(f scan.FlaggedToken) error {
	h.count++
	return h.table.Flag(f)
}

func (h *HTMLWriter) Close() error {
	if err := h.table.Close(); err != nil {
		return err
	}
	src := fmt.Sprintf("# Joined words\n\n%d flagged.\n\n%s", h.count, h.buf.String())
	if err := h.md.Convert([]byte(src), h.dst); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
