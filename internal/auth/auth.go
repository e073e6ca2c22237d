package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie names the admin session cookie.
const SessionCookie = "admin_session"

const sessionTTL = 24 * time.Hour

// Service validates the admin credential and tracks issued sessions. Password
// comparison is plain equality against the configured value.
type Service struct {
	password string

	mu       sync.Mutex
	sessions map[string]time.Time
}

func New(password string) *Service {
	return &Service{
		password: password,
		sessions: make(map[string]time.Time),
	}
}

// Login checks the credential and, when it matches, issues a session token.
func (s *Service) Login(password string) (string, bool) {
	if s.password == "" || password != s.password {
		return "", false
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(sessionTTL)
	s.mu.Unlock()
	return token, true
}

// Valid reports whether token belongs to a live session.
func (s *Service) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Logout drops the session.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// SetCookie attaches the session cookie to the response.
func (s *Service) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(sessionTTL / time.Second),
	})
}

// RequireSession wraps admin-only handlers.
func (s *Service) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || !s.Valid(c.Value) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
