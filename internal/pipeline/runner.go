package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/config"
	"github.com/dgallion1/versefix/internal/corpus"
	"github.com/dgallion1/versefix/internal/dictionary"
	"github.com/dgallion1/versefix/internal/errs"
	"github.com/dgallion1/versefix/internal/pairs"
	"github.com/dgallion1/versefix/internal/scan"
	"github.com/dgallion1/versefix/internal/vocab"
)

// StaleIndexError reports a cached concatenation index built from a
// different vocabulary than the one in use.
type StaleIndexError struct {
	Path             string
	IndexDigest      string
	VocabularyDigest string
}

func (e *StaleIndexError) Error() string {
	return fmt.Sprintf("concatenation index %s was built from vocabulary %.12s, current vocabulary is %.12s; delete it or set REBUILD_STALE_INDEX=true",
		e.Path, e.IndexDigest, e.VocabularyDigest)
}

// ErrEmptyVocabulary reports a vocabulary with no words. It is never saved,
// since every later run would reuse it and flag nothing.
var ErrEmptyVocabulary = errors.New("vocabulary is empty")

// Analysis is everything a scan needs. It is read-only once prepared.
type Analysis struct {
	Dictionary *dictionary.Dictionary
	Vocabulary *vocab.Vocabulary
	Index      *pairs.Index

	VocabularyCached bool
	IndexCached      bool
}

// Runner wires the corpus, the cached artifacts and the scanner together.
type Runner struct {
	cfg     config.Config
	canon   *canon.Canon
	source  vocab.VerseSource
	fetcher *corpus.Fetcher // nil when FETCH_MISSING is off
	vocab   *vocab.Store
	pairs   *pairs.Store
	log     *slog.Logger
}

func NewRunner(cfg config.Config, log *slog.Logger) *Runner {
	retry := corpus.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		MaxDelay:   cfg.RetryMaxDelay,
	}

	var (
		fetcher    *corpus.Fetcher
		downloader corpus.Downloader
	)
	if cfg.FetchMissing {
		fetcher = corpus.NewFetcher(cfg.SourceURL, cfg.FetchTimeout, retry, log)
		downloader = fetcher
	}

	return &Runner{
		cfg:     cfg,
		canon:   canon.Default(),
		source:  corpus.NewLibrary(cfg.TransDir, cfg.Translation, downloader, retry, log),
		fetcher: fetcher,
		vocab:   vocab.NewStore(cfg.WordlistPath()),
		pairs:   pairs.NewStore(cfg.WordpairsPath()),
		log:     log,
	}
}

// Close releases the fetcher's idle connections.
func (r *Runner) Close() {
	if r.fetcher != nil {
		r.fetcher.Close()
	}
}

// Chapters resolves a book selection ("all" or "gen,exo") into chapters.
func (r *Runner) Chapters(books string) ([]canon.ChapterRef, error) {
	selected, err := r.canon.Select(books)
	if err != nil {
		return nil, err
	}
	return canon.Chapters(selected), nil
}

// Prepare loads the dictionary and loads or builds the vocabulary and the
// concatenation index. A missing artifact is rebuilt and saved; a corrupt one
// is fatal.
func (r *Runner) Prepare(ctx context.Context) (*Analysis, error) {
	start := time.Now()

	dict, err := dictionary.Load(r.cfg.DictionaryPath())
	if err != nil {
		return nil, err
	}
	if odd := dict.Unnormalized(); len(odd) > 0 {
		r.log.Warn("dictionary has entries no token can match; their fused forms will be over-reported",
			"count", len(odd), "examples", odd[:min(len(odd), 5)])
	}

	a := &Analysis{Dictionary: dict}

	a.Vocabulary, a.VocabularyCached, err = r.loadVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	a.Index, a.IndexCached, err = r.loadIndex(a.Vocabulary)
	if err != nil {
		return nil, err
	}

	r.log.Info("analysis ready",
		"dictionary", dict.Len(),
		"vocabulary", a.Vocabulary.Len(),
		"vocabulary_cached", a.VocabularyCached,
		"pairs", a.Index.Len(),
		"pairs_cached", a.IndexCached,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return a, nil
}

func (r *Runner) loadVocabulary(ctx context.Context) (*vocab.Vocabulary, bool, error) {
	v, err := r.vocab.Load()
	if err == nil && v.Len() == 0 {
		return nil, false, &errs.CorruptCacheError{Path: r.vocab.Path(), Err: ErrEmptyVocabulary}
	}
	if err == nil {
		r.log.Debug("using cached word list", "path", r.vocab.Path(), "words", v.Len())
		return v, true, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, false, err
	}

	chapters, err := r.Chapters(r.cfg.VocabBooks)
	if err != nil {
		return nil, false, fmt.Errorf("VOCAB_BOOKS: %w", err)
	}
	r.log.Info("building word list", "books", r.cfg.VocabBooks, "chapters", len(chapters))
	v, err = vocab.Build(ctx, r.source, chapters, r.cfg.MaxConcurrentReads, r.log)
	if err != nil {
		return nil, false, err
	}
	if v.Len() == 0 {
		return nil, false, fmt.Errorf("VOCAB_BOOKS %q: %w", r.cfg.VocabBooks, ErrEmptyVocabulary)
	}
	if err := r.vocab.Save(v); err != nil {
		return nil, false, err
	}
	return v, false, nil
}

func (r *Runner) loadIndex(v *vocab.Vocabulary) (*pairs.Index, bool, error) {
	ix, err := r.pairs.Load()
	switch {
	case err == nil:
		if ix.BuiltFrom(v) {
			r.log.Debug("using cached wordpair list", "path", r.pairs.Path(), "pairs", ix.Len())
			return ix, true, nil
		}
		stale := &StaleIndexError{Path: r.pairs.Path(), IndexDigest: ix.Source(), VocabularyDigest: v.Digest()}
		if !r.cfg.RebuildStaleIndex {
			return nil, false, stale
		}
		r.log.Warn("rebuilding stale wordpair list", "path", stale.Path)
	case errors.Is(err, errs.ErrNotFound):
		r.log.Info("building wordpair list", "words", v.Len())
	default:
		return nil, false, err
	}

	ix, err = pairs.Build(v, pairs.BuildOptions{
		MaxPairs:   r.cfg.MaxIndexPairs,
		WarnPairs:  r.cfg.WarnIndexPairs,
		AllowLarge: r.cfg.AllowLargeIndex,
		Log:        r.log,
	})
	if err != nil {
		return nil, false, err
	}
	if err := r.pairs.Save(ix); err != nil {
		return nil, false, err
	}
	return ix, false, nil
}

// Scanner returns a scanner over the prepared analysis.
func (r *Runner) Scanner(a *Analysis) *scan.Scanner {
	return scan.New(a.Dictionary, a.Index, r.source, scan.Options{
		Vocabulary: a.Vocabulary,
		Limit:      r.cfg.MaxConcurrentReads,
		Log:        r.log,
	})
}

// Scan runs a fresh pass over books, or SCAN_BOOKS when books is empty.
func (r *Runner) Scan(ctx context.Context, a *Analysis, books string, sink scan.Sink) (scan.Summary, error) {
	if books == "" {
		books = r.cfg.ScanBooks
	}
	chapters, err := r.Chapters(books)
	if err != nil {
		return scan.Summary{}, err
	}
	return r.Scanner(a).Run(ctx, chapters, sink)
}

// FetchStats reports download latencies. It is empty when fetching is off.
func (r *Runner) FetchStats() corpus.StatsSnapshot {
	if r.fetcher == nil {
		return corpus.StatsSnapshot{}
	}
	return r.fetcher.Stats.Snapshot()
}
