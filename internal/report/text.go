package report

import (
	"fmt"
	"io"

	"github.com/dgallion1/versefix/internal/scan"
)

// TextWriter prints one line per flag.
type TextWriter struct {
	w io.Writer
}

func (t *TextWriter) Flag(f scan.FlaggedToken) error {
	line := fmt.Sprintf("Joined word: %s (%s %d:%d)", f.Token, bookLabel(f.Book), f.Chapter, f.Verse)
	if len(f.Splits) > 0 {
		line += " [" + joinSplits(f.Splits, " ") + "]"
	}
	_, err := fmt.Fprintln(t.w, line)
	return err
}

func (t *TextWriter) Close() error {
	return nil
}
