package uploads

import (
	"strings"
	"testing"
)

func TestInitIsIdempotent(t *testing.T) {
	s := NewStore(t.TempDir())

	first, err := s.Init()
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(first) != len(Buckets) {
		t.Fatalf("expected %d buckets, got %d", len(Buckets), len(first))
	}

	// Second init is a no-op, not a failure.
	second, err := s.Init()
	if err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if len(second) != len(Buckets) {
		t.Fatalf("re-init lost buckets: %v", second)
	}
	for _, b := range Buckets {
		if !s.Has(b) {
			t.Fatalf("bucket %s missing after init", b)
		}
	}
}

func TestSaveRequiresBucket(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Save("profile-images", "me.png", strings.NewReader("img")); err == nil {
		t.Fatalf("save into missing bucket must fail")
	}

	if _, err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	url, err := s.Save("profile-images", "me.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/profile-images/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected public path: %q", url)
	}
}
