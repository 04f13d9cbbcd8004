package corpus

import (
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/versefix/internal/canon"
)

// attempt is one chapter download, successful or not.
type attempt struct {
	at     time.Time
	ref    canon.ChapterRef
	ms     int64
	failed bool
}

// BookLatency aggregates the downloads of one book.
type BookLatency struct {
	Downloads int     `json:"downloads"`
	Failures  int     `json:"failures"`
	AvgMs     float64 `json:"avg_ms"`
	MaxMs     int64   `json:"max_ms"`
}

// StatsSnapshot summarizes the downloads inside the window.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`

	// Slowest is the chapter behind MaxMs, e.g. "PSA 119".
	Slowest string                 `json:"slowest,omitempty"`
	Books   map[string]BookLatency `json:"books,omitempty"`
}

// LatencyStats keeps chapter download attempts for a rolling window. Attempts
// are appended in time order, so expiry trims from the front.
type LatencyStats struct {
	mu       sync.Mutex
	window   time.Duration
	attempts []attempt
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{window: window}
}

// Record notes a successful download of ref.
func (s *LatencyStats) Record(ref canon.ChapterRef, d time.Duration) {
	s.add(attempt{ref: ref, ms: max(d.Milliseconds(), 0)})
}

// RecordFailure notes a download attempt of ref that produced no document.
func (s *LatencyStats) RecordFailure(ref canon.ChapterRef) {
	s.add(attempt{ref: ref, failed: true})
}

func (s *LatencyStats) add(a attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.at = time.Now()
	s.expireLocked(a.at)
	s.attempts = append(s.attempts, a)
}

func (s *LatencyStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(time.Now())

	var (
		snap  StatsSnapshot
		ms    []int64
		sum   int64
		books = make(map[string]*bookTotals)
	)
	for _, a := range s.attempts {
		b := books[a.ref.Book]
		if b == nil {
			b = &bookTotals{}
			books[a.ref.Book] = b
		}
		if a.failed {
			snap.Failures++
			b.Failures++
			continue
		}
		b.Downloads++
		b.sumMs += a.ms
		b.MaxMs = max(b.MaxMs, a.ms)
		if len(ms) == 0 || a.ms > snap.MaxMs {
			snap.MaxMs = a.ms
			snap.Slowest = a.ref.String()
		}
		ms = append(ms, a.ms)
		sum += a.ms
	}
	if len(books) > 0 {
		snap.Books = make(map[string]BookLatency, len(books))
		for book, b := range books {
			if b.Downloads > 0 {
				b.AvgMs = float64(b.sumMs) / float64(b.Downloads)
			}
			snap.Books[book] = b.BookLatency
		}
	}
	if len(ms) == 0 {
		return snap
	}

	slices.Sort(ms)
	snap.Count = len(ms)
	snap.MinMs = ms[0]
	snap.AvgMs = float64(sum) / float64(len(ms))
	snap.P50Ms = quantile(ms, 0.50)
	snap.P95Ms = quantile(ms, 0.95)
	snap.P99Ms = quantile(ms, 0.99)
	return snap
}

type bookTotals struct {
	BookLatency
	sumMs int64
}

func (s *LatencyStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.attempts) && s.attempts[i].at.Before(cutoff) {
		i++
	}
	s.attempts = s.attempts[i:]
}

// quantile interpolates linearly between the two nearest ranks of sorted.
func quantile(sorted []int64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
