// Package corpus provides chapter documents: read from the local document
// cache, downloaded on a miss, and parsed into verses.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/versefix/internal/cachefile"
	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/errs"
)

// Downloader retrieves a chapter document that is not cached yet.
type Downloader interface {
	Fetch(ctx context.Context, ref canon.ChapterRef) ([]byte, error)
}

// Library serves chapter documents for one translation.
type Library struct {
	dir         string
	translation string
	downloader  Downloader // nil disables fetch-on-miss
	retry       RetryPolicy
	log         *slog.Logger
}

func NewLibrary(dir, translation string, downloader Downloader, retry RetryPolicy, log *slog.Logger) *Library {
	return &Library{
		dir:         dir,
		translation: strings.ToLower(translation),
		downloader:  downloader,
		retry:       retry,
		log:         log.With("translation", strings.ToLower(translation)),
	}
}

// Path returns the cache location of a chapter: <dir>/<trans>/<BOOK>.<n>.<trans>.
func (l *Library) Path(ref canon.ChapterRef) string {
	name := fmt.Sprintf("%s.%d.%s", strings.ToUpper(ref.Book), ref.Chapter, l.translation)
	return filepath.Join(l.dir, l.translation, name)
}

// Document returns the raw chapter document, downloading it on a cache miss.
func (l *Library) Document(ctx context.Context, ref canon.ChapterRef) ([]byte, error) {
	path := l.Path(ref)

	var doc []byte
	err := l.retry.Do(ctx, l.log, "read "+ref.String(), func() error {
		var err error
		doc, err = cachefile.Read(path)
		if errs.IsResourceExhausted(err) {
			return &errs.TransientError{Op: "read " + path, Err: err}
		}
		return err
	})
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("read chapter %s: %w", ref, err)
	}

	if l.downloader == nil {
		return nil, &errs.MissingInputError{What: "chapter document " + ref.String(), Path: path, Err: err}
	}
	l.log.Debug("chapter not cached, downloading", "chapter", ref.String(), "path", path)
	doc, err = l.downloader.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := CheckDownload(doc); err != nil {
		return nil, fmt.Errorf("download chapter %s: %w", ref, err)
	}
	if err := cachefile.Write(path, doc); err != nil {
		return nil, fmt.Errorf("cache chapter %s: %w", ref, err)
	}
	return doc, nil
}

// Verses returns the parsed verses of a chapter.
func (l *Library) Verses(ctx context.Context, ref canon.ChapterRef) ([]Verse, error) {
	doc, err := l.Document(ctx, ref)
	if err != nil {
		return nil, err
	}
	verses, err := ParseVerses(doc)
	if err != nil {
		return nil, fmt.Errorf("chapter %s: %w", ref, err)
	}
	return verses, nil
}
