package uploads

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Buckets provisioned on init. Mirrors the public image buckets of the
// admin dashboard.
var Buckets = []string{"profile-images", "project-images", "blog-images"}

const initAttempts = 3

// Store keeps uploaded images on the local filesystem, one directory per
// bucket, served under /uploads/.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Init provisions every bucket directory. Idempotent; each bucket is retried
// a few times before the whole init is reported as failed.
func (s *Store) Init() ([]string, error) {
	var ready []string
	for _, bucket := range Buckets {
		var err error
		for attempt := 1; attempt <= initAttempts; attempt++ {
			err = os.MkdirAll(filepath.Join(s.root, bucket), 0o755)
			if err == nil {
				break
			}
			log.Printf("⚠️ bucket %s init attempt %d failed: %v", bucket, attempt, err)
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
		if err != nil {
			return ready, fmt.Errorf("init bucket %s: %w", bucket, err)
		}
		ready = append(ready, bucket)
	}
	return ready, nil
}

// Has reports whether the bucket exists.
func (s *Store) Has(bucket string) bool {
	info, err := os.Stat(filepath.Join(s.root, bucket))
	return err == nil && info.IsDir()
}

// Save writes the upload under a fresh uuid name, keeping the original
// extension, and returns the public path.
func (s *Store) Save(bucket, filename string, r io.Reader) (string, error) {
	if !s.Has(bucket) {
		return "", fmt.Errorf("bucket %s does not exist", bucket)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	dst := filepath.Join(s.root, bucket, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + bucket + "/" + name, nil
}

// Root returns the directory served under /uploads/.
func (s *Store) Root() string { return s.root }
