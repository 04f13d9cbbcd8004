package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/errs"
)

// maxDocumentBytes caps a single chapter download.
const maxDocumentBytes = 8 << 20

// ErrDocumentTooLarge reports a download over maxDocumentBytes. It is not retried.
var ErrDocumentTooLarge = errors.New("chapter document too large")

// Fetcher downloads chapter documents from the upstream Bible site.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	log        *slog.Logger

	Stats *LatencyStats
}

func NewFetcher(baseURL string, timeout time.Duration, retry RetryPolicy, log *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retry,
		log:   log,
		Stats: NewLatencyStats(time.Hour),
	}
}

// URL returns the upstream location of a chapter, e.g. <base>/GEN.1.json.
func (f *Fetcher) URL(ref canon.ChapterRef) string {
	return fmt.Sprintf("%s/%s.%d.json", f.baseURL, strings.ToUpper(ref.Book), ref.Chapter)
}

// Fetch downloads one chapter, retrying non-success responses with backoff.
func (f *Fetcher) Fetch(ctx context.Context, ref canon.ChapterRef) ([]byte, error) {
	var body []byte
	err := f.retry.Do(ctx, f.log, "fetch "+ref.String(), func() error {
		var err error
		body, err = f.fetchOnce(ctx, ref)
		if err != nil {
			f.Stats.RecordFailure(ref)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, ref canon.ChapterRef) ([]byte, error) {
	u := f.URL(ref)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &errs.TransientError{Op: "get " + u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &errs.TransientError{
			Op:         "get " + u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, &errs.TransientError{Op: "read " + u, Err: err}
	}
	if len(body) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrDocumentTooLarge, u, maxDocumentBytes)
	}
	f.Stats.Record(ref, time.Since(start))
	f.log.Debug("downloaded chapter", "chapter", ref.String(), "bytes", len(body))
	return body, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.httpClient.CloseIdleConnections()
}
