package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginAndSessionLifecycle(t *testing.T) {
	svc := New("s3cret")

	if _, ok := svc.Login("wrong"); ok {
		t.Fatalf("wrong password accepted")
	}

	token, ok := svc.Login("s3cret")
	if !ok {
		t.Fatalf("correct password rejected")
	}
	if !svc.Valid(token) {
		t.Fatalf("fresh session invalid")
	}

	svc.Logout(token)
	if svc.Valid(token) {
		t.Fatalf("session survived logout")
	}
}

func TestEmptyConfiguredPasswordRejectsAll(t *testing.T) {
	svc := New("")
	if _, ok := svc.Login(""); ok {
		t.Fatalf("empty configured password must reject logins")
	}
}

func TestRequireSession(t *testing.T) {
	svc := New("s3cret")
	token, _ := svc.Login("s3cret")

	handler := svc.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// No cookie.
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest("GET", "/admin", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", rr.Code)
	}

	// Valid cookie.
	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr = httptest.NewRecorder()
	handler(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with session, got %d", rr.Code)
	}
}
