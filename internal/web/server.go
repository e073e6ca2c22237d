package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"portfolio-server/internal/analytics"
	"portfolio-server/internal/auth"
	"portfolio-server/internal/chat"
	"portfolio-server/internal/content"
	"portfolio-server/internal/notify"
	"portfolio-server/internal/prompt"
	"portfolio-server/internal/transcript"
	"portfolio-server/internal/uploads"
)

// Server is the JSON API for the portfolio site and its admin dashboard.
type Server struct {
	store       *content.Store
	gateway     *chat.Gateway
	cache       *prompt.Cache
	auth        *auth.Service
	analytics   *analytics.Service
	uploads     *uploads.Store
	transcripts transcript.Storage
	notifier    notify.Notifier

	server    *http.Server
	port      int
	startTime time.Time
}

type Deps struct {
	Store       *content.Store
	Gateway     *chat.Gateway
	Cache       *prompt.Cache
	Auth        *auth.Service
	Analytics   *analytics.Service
	Uploads     *uploads.Store
	Transcripts transcript.Storage
	Notifier    notify.Notifier
}

func NewServer(port int, d Deps) *Server {
	return &Server{
		store:       d.Store,
		gateway:     d.Gateway,
		cache:       d.Cache,
		auth:        d.Auth,
		analytics:   d.Analytics,
		uploads:     d.Uploads,
		transcripts: d.Transcripts,
		notifier:    d.Notifier,
		port:        port,
		startTime:   time.Now(),
	}
}

// Start blocks serving the API until Stop or a listener error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Starting portfolio server on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

// Handler builds the route table. Split out so tests can drive it directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// AI chat
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/chat/history", s.handleChatHistory)
	mux.HandleFunc("/api/chat/clear", s.handleChatClear)
	mux.HandleFunc("/api/ai/instructions", s.handleInstructions)
	mux.HandleFunc("/api/ai/reset-cache", s.handleResetCache)

	// Public content
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/skills", s.handleSkills)
	mux.HandleFunc("/api/projects", s.handleProjects)
	mux.HandleFunc("/api/social-links", s.handleSocialLinks)
	mux.HandleFunc("/api/blog", s.handleBlogList)
	mux.HandleFunc("/api/blog/view/", s.handleBlogView)
	mux.HandleFunc("/api/blog/", s.handleBlogPost)
	mux.HandleFunc("/api/contact", s.handleContact)

	// Analytics
	mux.HandleFunc("/api/analytics/track", s.handleTrack)
	mux.HandleFunc("/api/analytics/stats", s.auth.RequireSession(s.handleStats))

	// Admin
	mux.HandleFunc("/api/admin/login", s.handleLogin)
	mux.HandleFunc("/api/admin/logout", s.handleLogout)
	mux.HandleFunc("/api/admin/profile", s.auth.RequireSession(s.handleAdminProfile))
	mux.HandleFunc("/api/admin/skills", s.auth.RequireSession(s.handleAdminSkills))
	mux.HandleFunc("/api/admin/skills/", s.auth.RequireSession(s.handleAdminSkills))
	mux.HandleFunc("/api/admin/projects", s.auth.RequireSession(s.handleAdminProjects))
	mux.HandleFunc("/api/admin/projects/", s.auth.RequireSession(s.handleAdminProjects))
	mux.HandleFunc("/api/admin/social-links", s.auth.RequireSession(s.handleAdminSocialLinks))
	mux.HandleFunc("/api/admin/social-links/", s.auth.RequireSession(s.handleAdminSocialLinks))
	mux.HandleFunc("/api/admin/blog", s.auth.RequireSession(s.handleAdminBlog))
	mux.HandleFunc("/api/admin/blog/", s.auth.RequireSession(s.handleAdminBlog))
	mux.HandleFunc("/api/admin/categories", s.auth.RequireSession(s.handleAdminCategories))
	mux.HandleFunc("/api/admin/categories/", s.auth.RequireSession(s.handleAdminCategories))

	// Storage
	mux.HandleFunc("/api/storage/init", s.auth.RequireSession(s.handleStorageInit))
	mux.HandleFunc("/api/storage/upload", s.auth.RequireSession(s.handleStorageUpload))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploads.Root()))))

	mux.HandleFunc("/api/status", s.handleStatus)

	return mux
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
