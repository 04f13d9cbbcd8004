// Package scan walks the corpus and reports tokens that are not dictionary
// words but can be read as two vocabulary words run together.
package scan

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/pairs"
	"github.com/dgallion1/versefix/internal/tokenize"
	"github.com/dgallion1/versefix/internal/vocab"
)

// Lexicon answers dictionary membership.
type Lexicon interface {
	IsWord(token string) bool
}

// Concatenations answers concatenation index membership.
type Concatenations interface {
	Contains(candidate string) bool
}

// FlaggedToken is one likely fusion of two words.
type FlaggedToken struct {
	Book     string        `json:"book"`
	Chapter  int           `json:"chapter"`
	Verse    int           `json:"verse"`
	Position int           `json:"position"`
	Token    string        `json:"token"`
	Splits   []pairs.Split `json:"splits,omitempty"`
}

// Sink receives flags in traversal order.
type Sink interface {
	Flag(FlaggedToken) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(FlaggedToken) error

func (f SinkFunc) Flag(t FlaggedToken) error {
	return f(t)
}

// ProgressSink is implemented by sinks that want to hear about each chapter
// once its flags have been emitted.
type ProgressSink interface {
	ChapterDone(ref canon.ChapterRef, done, total int)
}

// Summary counts what a run looked at.
type Summary struct {
	Chapters int `json:"chapters"`
	Verses   int `json:"verses"`
	Tokens   int `json:"tokens"`
	Flagged  int `json:"flagged"`
}

// Options configures a Scanner.
type Options struct {
	// Vocabulary, when set, is used to attach splits to each flag.
	Vocabulary *vocab.Vocabulary
	// Limit bounds concurrent chapter reads. Zero means unbounded.
	Limit int
	Log   *slog.Logger
}

// Scanner is read-only with respect to its dictionary, index and vocabulary
// and may run concurrently.
type Scanner struct {
	dict  Lexicon
	index Concatenations
	src   vocab.VerseSource
	vocab *vocab.Vocabulary
	limit int
	log   *slog.Logger
}

func New(dict Lexicon, index Concatenations, src vocab.VerseSource, opts Options) *Scanner {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		dict:  dict,
		index: index,
		src:   src,
		vocab: opts.Vocabulary,
		limit: opts.Limit,
		log:   log,
	}
}

// Joined reports whether token is absent from the dictionary and present in
// the concatenation index. The empty token never is.
func (s *Scanner) Joined(token string) bool {
	return token != "" && !s.dict.IsWord(token) && s.index.Contains(token)
}

// Explain returns the vocabulary splits of token, or nil without a
// vocabulary.
func (s *Scanner) Explain(token string) []pairs.Split {
	if s.vocab == nil {
		return nil
	}
	return pairs.Splits(token, s.vocab)
}

type chapterResult struct {
	done   chan struct{}
	ok     bool
	verses int
	tokens int
	flags  []FlaggedToken
}

// Run scans chapters and passes every flag to sink. Chapters are read
// concurrently but flags reach the sink in chapter order, then verse order,
// then token order. The first read or sink error stops the run.
func (s *Scanner) Run(ctx context.Context, chapters []canon.ChapterRef, sink Sink) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	results := make([]*chapterResult, len(chapters))
	for i := range results {
		results[i] = &chapterResult{done: make(chan struct{})}
	}

	// g.Go blocks at the limit, so chapters are launched off the emitting
	// goroutine.
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, ref := range chapters {
			res := results[i]
			g.Go(func() error {
				defer close(res.done)
				if err := gctx.Err(); err != nil {
					return err
				}
				return s.scanChapter(gctx, ref, res)
			})
		}
	}()

	progress, _ := sink.(ProgressSink)
	var (
		sum     Summary
		sinkErr error
		ctxErr  error
	)
emit:
	for i, ref := range chapters {
		res := results[i]
		select {
		case <-res.done:
		case <-gctx.Done():
			ctxErr = gctx.Err()
			break emit
		}
		if !res.ok {
			break emit
		}
		for _, f := range res.flags {
			if err := sink.Flag(f); err != nil {
				sinkErr = fmt.Errorf("emit flag %s: %w", ref, err)
				cancel()
				break emit
			}
			sum.Flagged++
		}
		sum.Chapters++
		sum.Verses += res.verses
		sum.Tokens += res.tokens
		if progress != nil {
			progress.ChapterDone(ref, i+1, len(chapters))
		}
	}

	<-launched
	waitErr := g.Wait()
	switch {
	case sinkErr != nil:
		return sum, sinkErr
	case waitErr != nil:
		return sum, waitErr
	case ctxErr != nil:
		return sum, ctxErr
	}
	s.log.Debug("scan complete",
		"chapters", sum.Chapters, "verses", sum.Verses, "tokens", sum.Tokens, "flagged", sum.Flagged)
	return sum, nil
}

func (s *Scanner) scanChapter(ctx context.Context, ref canon.ChapterRef, res *chapterResult) error {
	verses, err := s.src.Verses(ctx, ref)
	if err != nil {
		return fmt.Errorf("scan %s: %w", ref, err)
	}
	for _, v := range verses {
		tokens := tokenize.Tokenize(v.Text)
		res.tokens += len(tokens)
		for pos, tok := range tokens {
			if !s.Joined(tok) {
				continue
			}
			res.flags = append(res.flags, FlaggedToken{
				Book:     ref.Book,
				Chapter:  ref.Chapter,
				Verse:    v.Number,
				Position: pos,
				Token:    tok,
				Splits:   s.Explain(tok),
			})
		}
	}
	res.verses = len(verses)
	res.ok = true
	if len(res.flags) > 0 {
		s.log.Debug("chapter flagged", "chapter", ref.String(), "flags", len(res.flags))
	}
	return nil
}
