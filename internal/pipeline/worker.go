package pipeline

import (
	"context"
	"log/slog"
)

// Worker runs scan jobs against one prepared analysis.
type Worker struct {
	runner   *Runner
	analysis *Analysis
	log      *slog.Logger
}

func NewWorker(runner *Runner, analysis *Analysis, log *slog.Logger) *Worker {
	return &Worker{
		runner:   runner,
		analysis: analysis,
		log:      log,
	}
}

// Process scans the job's books, recording flags and progress on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "books", job.Books)

	job.SetStatus(StatusScanning, "resolving books")
	books := job.Books
	if books == "" {
		books = w.runner.cfg.ScanBooks
	}
	chapters, err := w.runner.Chapters(books)
	if err != nil {
		log.Error("invalid book selection", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "resolving books")
		return
	}
	job.SetTotalChapters(len(chapters))

	job.SetStatus(StatusScanning, "scanning")
	sum, err := w.runner.Scanner(w.analysis).Run(ctx, chapters, job)
	if err != nil {
		log.Error("scan failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "scanning")
		return
	}
	job.Complete(sum)
	log.Info("scan complete", "chapters", sum.Chapters, "tokens", sum.Tokens, "flagged", sum.Flagged)
}
