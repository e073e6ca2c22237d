package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// MemoryStorage is the fallback when no durable backend is available.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// FileStorage keeps all transcripts in a single JSON file, keyed by session.
// Concurrent writers are last-write-wins.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileStorage{path: path}, nil
}

func (r *FileStorage) Get(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := r.loadUnlocked()
	v, ok := data[key]
	return v, ok
}

func (r *FileStorage) Set(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data := r.loadUnlocked()
	data[key] = value
	r.saveUnlocked(data)
}

func (r *FileStorage) loadUnlocked() map[string]string {
	f, err := os.Open(r.path)
	if err != nil {
		return map[string]string{}
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var data map[string]string
	dec := json.NewDecoder(f)
	if err := dec.Decode(&data); err != nil {
		if err != io.EOF {
			return map[string]string{}
		}
		return map[string]string{}
	}
	if data == nil {
		data = map[string]string{}
	}
	return data
}

func (r *FileStorage) saveUnlocked(data map[string]string) {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}
