package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/scan"
)

func TestNewJob_UniqueIDs(t *testing.T) {
	a, b := NewJob("gen", 10), NewJob("gen", 10)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if a.Status != StatusQueued {
		t.Errorf("expected queued, got %q", a.Status)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("gen,exo", 10)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusScanning, "resolving books"},
		{StatusScanning, "scanning"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("gen", 10)
	job.AddError("scan GEN 3: missing chapter document")
	job.AddError("second")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "scan GEN 3: missing chapter document" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_FlagCap(t *testing.T) {
	job := NewJob("gen", 2)
	for i := 1; i <= 5; i++ {
		if err := job.Flag(scan.FlaggedToken{Book: "gen", Chapter: 1, Verse: i, Token: "thequick"}); err != nil {
			t.Fatalf("flag: %v", err)
		}
	}
	snap := job.Snapshot()
	if len(snap.Flags) != 2 || !snap.Truncated {
		t.Errorf("expected 2 retained flags and truncation, got %d truncated=%v", len(snap.Flags), snap.Truncated)
	}
	if snap.Progress.Flagged != 5 {
		t.Errorf("expected all 5 flags counted, got %d", snap.Progress.Flagged)
	}
	if snap.Flags[1].Verse != 2 {
		t.Errorf("expected the earliest flags to be kept, got verse %d", snap.Flags[1].Verse)
	}
}

func TestJob_ChapterProgress(t *testing.T) {
	job := NewJob("gen", 10)
	job.SetTotalChapters(50)
	job.ChapterDone(canon.ChapterRef{Book: "gen", Chapter: 1}, 1, 50)
	job.ChapterDone(canon.ChapterRef{Book: "gen", Chapter: 2}, 2, 50)

	snap := job.Snapshot()
	if snap.Progress.TotalChapters != 50 || snap.Progress.ChaptersScanned != 2 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("gen", 10)
	job.Complete(scan.Summary{Chapters: 2, Verses: 3, Tokens: 12, Flagged: 1})
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Summary.Tokens != 12 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestJob_SnapshotSlicesNotNil(t *testing.T) {
	// Snapshots always carry non-nil slices so they encode as [].
	snap := NewJob("gen", 10).Snapshot()
	if snap.Progress.Errors == nil || snap.Flags == nil {
		t.Error("expected non-nil slices in snapshot")
	}
}

func TestJob_SnapshotIsACopy(t *testing.T) {
	job := NewJob("gen", 10)
	job.Flag(scan.FlaggedToken{Token: "abc"})
	snap := job.Snapshot()
	job.Flag(scan.FlaggedToken{Token: "def"})
	if len(snap.Flags) != 1 {
		t.Errorf("expected snapshot to be unaffected by later flags, got %d", len(snap.Flags))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("gen", 10)
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("gen", 10)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("exo", 10)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
