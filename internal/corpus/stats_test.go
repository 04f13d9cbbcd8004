package corpus

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/versefix/internal/canon"
)

func TestLatencyStats_Percentiles(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	for i, ms := range []int{100, 200, 500, 400, 300} {
		stats.Record(canon.ChapterRef{Book: "gen", Chapter: i + 1}, time.Duration(ms)*time.Millisecond)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 || snap.P50Ms != 300 || snap.P95Ms != 480 {
		t.Fatalf("expected avg=300 p50=300 p95=480, got %+v", snap)
	}
	if snap.Slowest != "GEN 3" {
		t.Errorf("expected GEN 3 as the slowest chapter, got %q", snap.Slowest)
	}
}

func TestLatencyStats_PerBook(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.Record(canon.ChapterRef{Book: "gen", Chapter: 1}, 100*time.Millisecond)
	stats.Record(canon.ChapterRef{Book: "gen", Chapter: 2}, 300*time.Millisecond)
	stats.RecordFailure(canon.ChapterRef{Book: "exo", Chapter: 1})
	stats.Record(canon.ChapterRef{Book: "exo", Chapter: 1}, 50*time.Millisecond)

	snap := stats.Snapshot()
	want := map[string]BookLatency{
		"gen": {Downloads: 2, AvgMs: 200, MaxMs: 300},
		"exo": {Downloads: 1, Failures: 1, AvgMs: 50, MaxMs: 50},
	}
	if diff := cmp.Diff(want, snap.Books); diff != "" {
		t.Errorf("per-book mismatch (-want +got):\n%s", diff)
	}
	if snap.Count != 3 || snap.Failures != 1 {
		t.Errorf("expected 3 downloads and 1 failure, got %+v", snap)
	}
}

func TestLatencyStats_ExpiresOldAttempts(t *testing.T) {
	stats := NewLatencyStats(10 * time.Millisecond)
	stats.Record(canon.ChapterRef{Book: "gen", Chapter: 1}, 100*time.Millisecond)
	stats.RecordFailure(canon.ChapterRef{Book: "gen", Chapter: 2})
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 || snap.Failures != 0 || snap.Books != nil {
		t.Fatalf("expected an empty window, got %+v", snap)
	}
}

func TestLatencyStats_OnlyFailures(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.RecordFailure(canon.ChapterRef{Book: "oba", Chapter: 1})
	stats.RecordFailure(canon.ChapterRef{Book: "oba", Chapter: 1})

	snap := stats.Snapshot()
	if snap.Count != 0 || snap.Failures != 2 || snap.Slowest != "" {
		t.Fatalf("expected 0 downloads and 2 failures, got %+v", snap)
	}
	if got := snap.Books["oba"]; got.Failures != 2 || got.Downloads != 0 {
		t.Errorf("unexpected per-book totals %+v", got)
	}
}
