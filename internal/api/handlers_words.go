package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/versefix/internal/pairs"
	"github.com/dgallion1/versefix/internal/tokenize"
)

type wordResponse struct {
	Input      string        `json:"input"`
	Token      string        `json:"token"`
	Dictionary bool          `json:"dictionary"`
	Vocabulary bool          `json:"vocabulary"`
	Joined     bool          `json:"joined"`
	Splits     []pairs.Split `json:"splits"`
}

// handleWord runs the joined-word check on a single word.
func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	input := chi.URLParam(r, "word")
	token := tokenize.Normalize(input)
	a := s.orchestrator.Analysis()

	resp := wordResponse{
		Input:      input,
		Token:      token,
		Dictionary: a.Dictionary.IsWord(token),
		Vocabulary: a.Vocabulary.Contains(token),
		Joined:     s.scanner.Joined(token),
		Splits:     []pairs.Split{},
	}
	if resp.Joined {
		resp.Splits = append(resp.Splits, s.scanner.Explain(token)...)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
