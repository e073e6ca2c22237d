package analytics

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portfolio-server/internal/content"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := content.NewStore(filepath.Join(t.TempDir(), "portfolio.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store)
}

func TestStatsAggregatesTotals(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := svc.Track(ctx, content.EventPageView); err != nil {
			t.Fatalf("track: %v", err)
		}
	}
	if err := svc.Track(ctx, content.EventBlogView); err != nil {
		t.Fatalf("track blog view: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalPageViews != 5 || stats.TotalBlogViews != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if len(stats.RecentStats) != 1 {
		t.Fatalf("expected one recent day, got %d", len(stats.RecentStats))
	}
}

func TestDailyDigestIncludesCounters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if err := svc.Track(ctx, content.EventChatTurn); err != nil {
		t.Fatalf("track: %v", err)
	}

	digest, err := svc.DailyDigest(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if !strings.Contains(digest, "Chat turns: 1") {
		t.Fatalf("digest missing chat turns: %q", digest)
	}

	// A day with no record still renders a zeroed digest.
	past, err := svc.DailyDigest(ctx, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("digest for empty day: %v", err)
	}
	if !strings.Contains(past, "Page views: 0") {
		t.Fatalf("empty day digest wrong: %q", past)
	}
}
