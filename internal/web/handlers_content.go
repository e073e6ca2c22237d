package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"portfolio-server/internal/content"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p, err := s.store.Profile(r.Context())
	if errors.Is(err, content.ErrNotFound) {
		writeError(w, http.StatusNotFound, "profile not configured")
		return
	}
	if err != nil {
		log.Printf("❌ failed to fetch profile: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	skills, err := s.store.Skills(r.Context())
	if err != nil {
		log.Printf("❌ failed to fetch skills: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch skills")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": skills})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	projects, err := s.store.Projects(r.Context())
	if err != nil {
		log.Printf("❌ failed to fetch projects: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleSocialLinks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	links, err := s.store.SocialLinks(r.Context())
	if err != nil {
		log.Printf("❌ failed to fetch social links: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch social links")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"social_links": links})
}

func (s *Server) handleBlogList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	posts, err := s.store.Posts(r.Context(), true)
	if err != nil {
		log.Printf("❌ failed to fetch posts: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// handleBlogPost serves one published post by slug: /api/blog/{slug}.
func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/api/blog/")
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, http.StatusBadRequest, "invalid slug")
		return
	}
	post, err := s.store.PostBySlug(r.Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		log.Printf("❌ failed to fetch post %s: %v", slug, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}
	if !post.Published {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handleBlogView bumps the view counters: POST /api/blog/view/{id}. Counter
// failures are logged, not surfaced.
func (s *Server) handleBlogView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/blog/view/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "post id is required")
		return
	}
	if err := s.store.IncrementPostViews(r.Context(), id); err != nil {
		log.Printf("⚠️ failed to bump views for post %s: %v", id, err)
	}
	if err := s.analytics.Track(r.Context(), content.EventBlogView); err != nil {
		log.Printf("⚠️ failed to track blog view: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	text := fmt.Sprintf("📬 New contact message\nFrom: %s <%s>\n\n%s", req.Name, req.Email, req.Message)
	if err := s.notifier.Notify(text); err != nil {
		log.Printf("❌ failed to deliver contact message: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to deliver message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
