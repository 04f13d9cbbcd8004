package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dgallion1/versefix/internal/scan"
)

var csvHeader = []string{"book", "chapter", "verse", "position", "token", "splits"}

// CSVWriter streams flags as CSV rows under a fixed header.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func newCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) header() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	return c.w.Write(csvHeader)
}

func (c *CSVWriter) Flag(f scan.FlaggedToken) error {
	if err := c.header(); err != nil {
		return err
	}
	err := c.w.Write([]string{
		bookLabel(f.Book),
		strconv.Itoa(f.Chapter),
		strconv.Itoa(f.Verse),
		strconv.Itoa(f.Position),
		f.Token,
		joinSplits(f.Splits, " "),
	})
	if err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if err := c.header(); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
