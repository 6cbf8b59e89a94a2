package layout

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileExt = ".json"

// FileStore keeps one JSON file per layout in a directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("layout directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layout directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// ValidName reports whether name can be used as a layout key.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func (s *FileStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("invalid layout name %q", name)
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Save writes l under name, replacing any previous layout.
func (s *FileStore) Save(ctx context.Context, name string, l Layout) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	data, err := Encode(l)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write layout %q: %w", name, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("replace layout %q: %w", name, err)
	}
	return nil
}

// Load reads the layout stored under name.
func (s *FileStore) Load(ctx context.Context, name string) (Layout, error) {
	if err := ctx.Err(); err != nil {
		return Layout{}, err
	}
	p, err := s.path(name)
	if err != nil {
		return Layout{}, err
	}
	s.mu.RLock()
	data, err := os.ReadFile(p)
	s.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return Layout{}, fmt.Errorf("load layout %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("load layout %q: %w", name, err)
	}
	return Decode(data)
}

// List returns the stored layout names in sorted order.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries, err := os.ReadDir(s.dir)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op; it satisfies Store.
func (s *FileStore) Close() error { return nil }
