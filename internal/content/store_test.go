package content

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "portfolio.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInstructionsSingletonUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Instructions(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	first, err := s.SaveInstructions(ctx, "Be helpful.")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.SaveInstructions(ctx, "Be concise.")
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second save must update the same record: %s != %s", first.ID, second.ID)
	}

	text, err := s.Instructions(ctx)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if text != "Be concise." {
		t.Fatalf("unexpected instructions: %q", text)
	}
}

func TestBlogPostLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.UpsertPost(ctx, BlogPost{Title: "Hello", Slug: "hello", Content: "world", Published: true})
	if err != nil {
		t.Fatalf("insert post: %v", err)
	}

	got, err := s.PostBySlug(ctx, "hello")
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if got.ID != p.ID || got.Title != "Hello" {
		t.Fatalf("unexpected post: %+v", got)
	}

	if err := s.IncrementPostViews(ctx, p.ID); err != nil {
		t.Fatalf("increment views: %v", err)
	}
	got, _ = s.PostBySlug(ctx, "hello")
	if got.Views != 1 {
		t.Fatalf("views = %d, want 1", got.Views)
	}

	if _, err := s.UpsertPost(ctx, BlogPost{Title: "Draft", Slug: "draft"}); err != nil {
		t.Fatalf("insert draft: %v", err)
	}
	public, err := s.Posts(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(public) != 1 {
		t.Fatalf("published listing must hide drafts, got %d posts", len(public))
	}
}

func TestTrackEventAccumulates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.TrackEvent(ctx, EventPageView); err != nil {
			t.Fatalf("track: %v", err)
		}
	}
	if err := s.TrackEvent(ctx, EventChatTurn); err != nil {
		t.Fatalf("track chat turn: %v", err)
	}
	if err := s.TrackEvent(ctx, "bogus"); err == nil {
		t.Fatalf("unknown event kind must be rejected")
	}

	totals, err := s.StatsTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.PageViews != 3 || totals.ChatTurns != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}
