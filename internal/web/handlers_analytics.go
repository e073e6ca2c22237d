package web

import (
	"encoding/json"
	"log"
	"net/http"

	"portfolio-server/internal/content"
)

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Type {
	case content.EventPageView, content.EventUniqueVisitor, content.EventBlogView:
	default:
		writeError(w, http.StatusBadRequest, "invalid tracking type")
		return
	}

	if err := s.analytics.Track(r.Context(), req.Type); err != nil {
		log.Printf("❌ failed to track %s: %v", req.Type, err)
		writeError(w, http.StatusInternalServerError, "failed to track event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats, err := s.analytics.Stats(r.Context())
	if err != nil {
		log.Printf("❌ failed to aggregate stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
