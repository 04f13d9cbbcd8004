package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/versefix/internal/canon"
	"github.com/dgallion1/versefix/internal/scan"
)

// JobStatus represents the state of a scan job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusScanning  JobStatus = "scanning"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one background scan. It is the scan's sink, so flags and
// progress land on it as the scanner emits them.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	Books string `json:"books"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress     `json:"progress"`
	Summary  scan.Summary `json:"summary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	flags     []scan.FlaggedToken
	maxFlags  int
	truncated bool
	errors    []string
}

// Progress tracks scanning progress.
type Progress struct {
	TotalChapters   int      `json:"total_chapters"`
	ChaptersScanned int      `json:"chapters_scanned"`
	Flagged         int      `json:"flagged"`
	Errors          []string `json:"errors"`
}

// NewJob returns a queued job that keeps at most maxFlags flags.
func NewJob(books string, maxFlags int) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Books:     books,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		maxFlags:  maxFlags,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalChapters records how many chapters the scan covers.
func (j *Job) SetTotalChapters(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChapters = n
	j.UpdatedAt = time.Now()
}

// Complete stores the final summary and marks the job completed.
func (j *Job) Complete(sum scan.Summary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Summary = sum
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Flag implements scan.Sink. Flags beyond the cap are counted but dropped.
func (j *Job) Flag(f scan.FlaggedToken) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Flagged++
	if j.maxFlags > 0 && len(j.flags) >= j.maxFlags {
		j.truncated = true
		return nil
	}
	j.flags = append(j.flags, f)
	return nil
}

// ChapterDone implements scan.ProgressSink.
func (j *Job) ChapterDone(_ canon.ChapterRef, done, _ int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChaptersScanned = done
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string              `json:"job_id"`
	Books     string              `json:"books"`
	Status    JobStatus           `json:"status"`
	Phase     string              `json:"phase"`
	Progress  Progress            `json:"progress"`
	Summary   scan.Summary        `json:"summary"`
	Flags     []scan.FlaggedToken `json:"flags"`
	Truncated bool                `json:"truncated"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	flags := append([]scan.FlaggedToken{}, j.flags...)
	return JobSnapshot{
		ID:     j.ID,
		Books:  j.Books,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalChapters:   j.Progress.TotalChapters,
			ChaptersScanned: j.Progress.ChaptersScanned,
			Flagged:         j.Progress.Flagged,
			Errors:          errs,
		},
		Summary:   j.Summary,
		Flags:     flags,
		Truncated: j.truncated,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
