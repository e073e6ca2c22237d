package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"portfolio-server/internal/chat"
	"portfolio-server/internal/content"
	"portfolio-server/internal/llm"
	"portfolio-server/internal/prompt"
	"portfolio-server/internal/transcript"
)

const sessionCookie = "chat_session"

type chatRequest struct {
	Messages     []llm.Message `json:"messages"`
	Instructions string        `json:"instructions,omitempty"`
}

// handleChat serves one conversation turn. The full visible history arrives
// with every request; the reply (or the apology on failure) is also recorded
// in the session's server-side transcript.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	for _, m := range req.Messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			writeError(w, http.StatusBadRequest, "message roles must be user or assistant")
			return
		}
	}

	session := s.sessionKey(w, r)
	userTurn := req.Messages[len(req.Messages)-1].Content

	reply, err := s.gateway.Reply(r.Context(), req.Messages, req.Instructions)
	if err != nil {
		if errors.Is(err, chat.ErrCompletionFailed) {
			log.Printf("❌ chat completion failed: %v", err)
			transcript.Open(s.transcripts, session).FailedTurn(userTurn)
			writeError(w, http.StatusInternalServerError, "Failed to process your request")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	transcript.Open(s.transcripts, session).Turn(userTurn, reply)
	if err := s.analytics.Track(r.Context(), content.EventChatTurn); err != nil {
		log.Printf("⚠️ failed to track chat turn: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := s.sessionKey(w, r)
	msgs := transcript.Open(s.transcripts, session).Messages()
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := s.sessionKey(w, r)
	st := transcript.Open(s.transcripts, session)
	st.Clear()
	writeJSON(w, http.StatusOK, map[string]any{"messages": st.Messages()})
}

// sessionKey returns the visitor's chat session id, minting a cookie for
// first-time visitors.
func (s *Server) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int((30 * 24 * time.Hour) / time.Second),
	})
	return id
}

// handleInstructions reads (public) or saves (admin) the assistant
// instructions. The read never surfaces an internal failure: it answers 200
// with the default text so the widget always has a prompt to show.
func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		text, err := s.store.Instructions(r.Context())
		if err != nil {
			if !errors.Is(err, content.ErrNotFound) {
				log.Printf("⚠️ failed to fetch instructions: %v", err)
			}
			text = prompt.DefaultInstructions
		}
		writeJSON(w, http.StatusOK, map[string]string{"instructions": text})

	case http.MethodPut:
		s.auth.RequireSession(s.handleSaveInstructions)(w, r)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSaveInstructions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instructions string `json:"instructions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.store.SaveInstructions(r.Context(), req.Instructions)
	if err != nil {
		log.Printf("❌ failed to save instructions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save instructions")
		return
	}

	// The bump must land before the response so the next chat turn sees the
	// new text.
	ts := s.cache.Bump()
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        rec.ID,
		"timestamp": ts.UnixMilli(),
	})
}

func (s *Server) handleResetCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ts := s.cache.Bump()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"timestamp": ts.UnixMilli(),
	})
}
