package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"portfolio-server/internal/auth"
	"portfolio-server/internal/content"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ok := s.auth.Login(req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.auth.SetCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c, err := r.Cookie(auth.SessionCookie); err == nil {
		s.auth.Logout(c.Value)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAdminProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p content.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.store.SaveProfile(r.Context(), p)
	if err != nil {
		log.Printf("❌ failed to save profile: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// pathID extracts the trailing id of an admin resource path, e.g.
// /api/admin/skills/{id}.
func pathID(r *http.Request, prefix string) string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	return strings.Trim(rest, "/")
}

func (s *Server) handleAdminSkills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		var sk content.Skill
		if err := json.NewDecoder(r.Body).Decode(&sk); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := s.store.UpsertSkill(r.Context(), sk)
		if err != nil {
			log.Printf("❌ failed to save skill: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save skill")
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		id := pathID(r, "/api/admin/skills")
		if id == "" {
			writeError(w, http.StatusBadRequest, "skill id is required")
			return
		}
		if err := s.store.DeleteSkill(r.Context(), id); err != nil {
			log.Printf("❌ failed to delete skill %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to delete skill")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAdminProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		var p content.Project
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := s.store.UpsertProject(r.Context(), p)
		if err != nil {
			log.Printf("❌ failed to save project: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save project")
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		id := pathID(r, "/api/admin/projects")
		if id == "" {
			writeError(w, http.StatusBadRequest, "project id is required")
			return
		}
		if err := s.store.DeleteProject(r.Context(), id); err != nil {
			log.Printf("❌ failed to delete project %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to delete project")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAdminSocialLinks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		var l content.SocialLink
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := s.store.UpsertSocialLink(r.Context(), l)
		if err != nil {
			log.Printf("❌ failed to save social link: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save social link")
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		id := pathID(r, "/api/admin/social-links")
		if id == "" {
			writeError(w, http.StatusBadRequest, "link id is required")
			return
		}
		if err := s.store.DeleteSocialLink(r.Context(), id); err != nil {
			log.Printf("❌ failed to delete social link %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to delete social link")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAdminBlog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Admin listing includes drafts.
		posts, err := s.store.Posts(r.Context(), false)
		if err != nil {
			log.Printf("❌ failed to fetch posts: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch posts")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})

	case http.MethodPost, http.MethodPut:
		var p content.BlogPost
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if p.Slug == "" {
			writeError(w, http.StatusBadRequest, "slug is required")
			return
		}
		saved, err := s.store.UpsertPost(r.Context(), p)
		if err != nil {
			log.Printf("❌ failed to save post: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save post")
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		id := pathID(r, "/api/admin/blog")
		if id == "" {
			writeError(w, http.StatusBadRequest, "post id is required")
			return
		}
		if err := s.store.DeletePost(r.Context(), id); err != nil {
			log.Printf("❌ failed to delete post %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to delete post")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.store.Categories(r.Context())
		if err != nil {
			log.Printf("❌ failed to fetch categories: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch categories")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": cats})

	case http.MethodPost, http.MethodPut:
		var c content.BlogCategory
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := s.store.UpsertCategory(r.Context(), c)
		if err != nil {
			log.Printf("❌ failed to save category: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save category")
			return
		}
		writeJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		id := pathID(r, "/api/admin/categories")
		if id == "" {
			writeError(w, http.StatusBadRequest, "category id is required")
			return
		}
		if err := s.store.DeleteCategory(r.Context(), id); err != nil {
			log.Printf("❌ failed to delete category %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to delete category")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleStorageInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	buckets, err := s.uploads.Init()
	if err != nil {
		log.Printf("❌ storage init failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
			"buckets": buckets,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "buckets": buckets})
}

func (s *Server) handleStorageUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	bucket := r.FormValue("bucket")
	if bucket == "" {
		writeError(w, http.StatusBadRequest, "bucket is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("failed to close upload: %v", err)
		}
	}()

	url, err := s.uploads.Save(bucket, header.Filename, file)
	if err != nil {
		log.Printf("❌ upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
