package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	a := s.orchestrator.Analysis()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"translation":  s.cfg.Translation,
		"dictionary":   a.Dictionary.Len(),
		"vocabulary":   a.Vocabulary.Len(),
		"pairs":        a.Index.Len(),
		"index_source": a.Index.Source(),
		"queue_depth":  s.orchestrator.QueueDepth(),
		"fetch":        s.orchestrator.Runner().FetchStats(),
	})
}
