package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/corpus"
	"github.com/dgallion1/versefix/internal/tokenize"
)

// VerseSource yields the verses of one chapter.
type VerseSource interface {
	Verses(ctx context.Context, ref canon.ChapterRef) ([]corpus.Verse, error)
}

// Build tokenizes every verse of chapters into a fresh Vocabulary. Chapters
// are read concurrently, at most limit at a time; the first failure cancels
// the remaining reads and is returned.
func Build(ctx context.Context, src VerseSource, chapters []canon.ChapterRef, limit int, log *slog.Logger) (*Vocabulary, error) {
	var (
		mu  sync.Mutex
		out = New()
	)

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, ref := range chapters {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verses, err := src.Verses(gctx, ref)
			if err != nil {
				return fmt.Errorf("build vocabulary: %w", err)
			}
			local := New()
			for _, v := range verses {
				local.Add(tokenize.Tokenize(v.Text)...)
			}

			mu.Lock()
			out.Merge(local)
			mu.Unlock()
			log.Debug("chapter tokenized", "chapter", ref.String(), "verses", len(verses), "words", local.Len())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
