package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-server/internal/analytics"
	"portfolio-server/internal/auth"
	"portfolio-server/internal/chat"
	"portfolio-server/internal/content"
	"portfolio-server/internal/llm"
	"portfolio-server/internal/prompt"
	"portfolio-server/internal/transcript"
	"portfolio-server/internal/uploads"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Generate(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.reply}, nil
}

type captureNotifier struct{ texts []string }

func (c *captureNotifier) Notify(text string) error {
	c.texts = append(c.texts, text)
	return nil
}

func newTestServer(t *testing.T, client llm.Client) (*Server, *content.Store) {
	t.Helper()
	store, err := content.NewStore(filepath.Join(t.TempDir(), "portfolio.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cache := prompt.NewCache(store)
	s := NewServer(0, Deps{
		Store:       store,
		Gateway:     chat.New(client, cache),
		Cache:       cache,
		Auth:        auth.New("s3cret"),
		Analytics:   analytics.New(store),
		Uploads:     uploads.NewStore(t.TempDir()),
		Transcripts: transcript.NewMemoryStorage(),
		Notifier:    &captureNotifier{},
	})
	return s, store
}

func postJSON(t *testing.T, h http.Handler, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChatSimulatedWithoutCredential(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rr := postJSON(t, h, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["message"] != chat.SimulatedReply {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestChatRejectsMalformedMessages(t *testing.T) {
	s, _ := newTestServer(t, &fakeLLM{reply: "ok"})
	h := s.Handler()

	rr := postJSON(t, h, "/api/chat", map[string]any{"messages": []map[string]string{}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty messages: status = %d", rr.Code)
	}

	rr = postJSON(t, h, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "system", "content": "x"}},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad role: status = %d", rr.Code)
	}
}

func TestChatTurnRecordedInHistory(t *testing.T) {
	s, _ := newTestServer(t, &fakeLLM{reply: "hello there"})
	h := s.Handler()

	rr := postJSON(t, h, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("chat: status = %d", rr.Code)
	}

	// Reuse the minted session cookie.
	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatalf("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.AddCookie(session)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)

	var hist struct {
		Messages []transcript.Message `json:"messages"`
	}
	if err := json.Unmarshal(rr2.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	// welcome + user + assistant
	if len(hist.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(hist.Messages))
	}
	last := hist.Messages[2]
	if last.Role != transcript.RoleAssistant || last.Content != "hello there" {
		t.Fatalf("unexpected last message: %+v", last)
	}

	// Clear resets to a single welcome message.
	rr3 := postJSON(t, h, "/api/chat/clear", nil, session)
	var cleared struct {
		Messages []transcript.Message `json:"messages"`
	}
	if err := json.Unmarshal(rr3.Body.Bytes(), &cleared); err != nil {
		t.Fatalf("decode clear: %v", err)
	}
	if len(cleared.Messages) != 1 || cleared.Messages[0].Content != transcript.WelcomeText {
		t.Fatalf("clear did not reset transcript: %+v", cleared.Messages)
	}
}

func TestChatFailureRecordsApology(t *testing.T) {
	s, _ := newTestServer(t, &fakeLLM{err: errors.New("upstream 500")})
	h := s.Handler()

	rr := postJSON(t, h, "/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}

	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatalf("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.AddCookie(session)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)

	var hist struct {
		Messages []transcript.Message `json:"messages"`
	}
	if err := json.Unmarshal(rr2.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	last := hist.Messages[len(hist.Messages)-1]
	if last.Content != transcript.ApologyText {
		t.Fatalf("expected apology in transcript, got %+v", last)
	}
}

func TestInstructionsAlwaysAnswers200(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/ai/instructions", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["instructions"] != prompt.DefaultInstructions {
		t.Fatalf("expected default instructions, got %q", resp["instructions"])
	}
}

func TestSaveInstructionsBumpsCacheForNextTurn(t *testing.T) {
	f := &fakeLLM{reply: "ok"}
	s, store := newTestServer(t, f)
	h := s.Handler()

	// Warm the cache with the original text.
	if _, err := store.SaveInstructions(context.Background(), "Old."); err != nil {
		t.Fatalf("seed instructions: %v", err)
	}
	if got := s.cache.Resolve(context.Background(), ""); got != "Old." {
		t.Fatalf("warmup resolve: %q", got)
	}

	// Admin saves new instructions through the API.
	admin := login(t, h)
	raw, _ := json.Marshal(map[string]string{"instructions": "Be concise."})
	req := httptest.NewRequest(http.MethodPut, "/api/ai/instructions", bytes.NewReader(raw))
	req.AddCookie(admin)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("save: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	// The next resolution must see the new text, not the cached one.
	if got := s.cache.Resolve(context.Background(), ""); got != "Be concise." {
		t.Fatalf("cache served stale instructions: %q", got)
	}
}

func TestResetCacheReturnsTimestamp(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rr := postJSON(t, h, "/api/ai/reset-cache", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Success   bool  `json:"success"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Timestamp == 0 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rr := postJSON(t, h, "/api/admin/login", map[string]string{"password": "s3cret"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status = %d", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	t.Fatalf("no session cookie in login response")
	return nil
}

func TestStatsRequireSession(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rr.Code)
	}

	// Track a page view, then read the stats as admin.
	if rr := postJSON(t, h, "/api/analytics/track", map[string]string{"type": "page_view"}); rr.Code != http.StatusOK {
		t.Fatalf("track: status = %d", rr.Code)
	}

	admin := login(t, h)
	req = httptest.NewRequest(http.MethodGet, "/api/analytics/stats", nil)
	req.AddCookie(admin)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats: status = %d", rr.Code)
	}
	var stats analytics.StatsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalPageViews != 1 {
		t.Fatalf("totalPageViews = %d, want 1", stats.TotalPageViews)
	}
}

func TestTrackRejectsUnknownType(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rr := postJSON(t, s.Handler(), "/api/analytics/track", map[string]string{"type": "bogus"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestBlogViewBumpsCounters(t *testing.T) {
	s, store := newTestServer(t, nil)
	h := s.Handler()

	post, err := store.UpsertPost(context.Background(), content.BlogPost{Title: "Hi", Slug: "hi", Published: true})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	rr := postJSON(t, h, "/api/blog/view/"+post.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	got, err := store.PostBySlug(context.Background(), "hi")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("views = %d, want 1", got.Views)
	}
}

func TestContactDeliversNotification(t *testing.T) {
	s, _ := newTestServer(t, nil)
	n := &captureNotifier{}
	s.notifier = n

	rr := postJSON(t, s.Handler(), "/api/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Hello!",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(n.texts) != 1 || !strings.Contains(n.texts[0], "Hello!") {
		t.Fatalf("notification not delivered: %v", n.texts)
	}
}

func TestStorageInitAndUploadGuarded(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	if rr := postJSON(t, h, "/api/storage/init", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rr.Code)
	}

	admin := login(t, h)
	rr := postJSON(t, h, "/api/storage/init", nil, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("init: status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool     `json:"success"`
		Buckets []string `json:"buckets"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Buckets) != len(uploads.Buckets) {
		t.Fatalf("unexpected init payload: %+v", resp)
	}
}
