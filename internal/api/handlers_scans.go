package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/versefix/internal/pipeline"
)

const maxScanRequestBytes = 64 << 10

type scanRequest struct {
	// Books is "all" or a comma-separated abbreviation list. Empty means
	// SCAN_BOOKS.
	Books string `json:"books"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	books, err := s.resolveBooks(req.Books)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := s.orchestrator.NewJob(books)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"books":    books,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/scans/%s", job.ID),
	})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleBatchScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scans []scanRequest `json:"scans"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Scans) == 0 {
		jsonError(w, "at least one scan is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, sr := range req.Scans {
		books, err := s.resolveBooks(sr.Books)
		if err != nil {
			results = append(results, map[string]any{
				"books": sr.Books,
				"error": err.Error(),
			})
			continue
		}

		job := s.orchestrator.NewJob(books)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"books": books,
				"error": err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"books":    books,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/scans/%s", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

// resolveBooks applies the SCAN_BOOKS default and rejects unknown books
// before a job is queued.
func (s *Server) resolveBooks(books string) (string, error) {
	if books == "" {
		books = s.cfg.ScanBooks
	}
	if _, err := s.orchestrator.Runner().Chapters(books); err != nil {
		return "", err
	}
	return books, nil
}

// decodeBody reads a small JSON body. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxScanRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
