package serialization

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Backend stores encoded documents by identifier.
type Backend interface {
	// Put stores data under identifier. Without overwrite, an existing
	// identifier fails with ErrExists.
	Put(ctx context.Context, identifier string, data []byte, overwrite bool) error

	// Get returns the data stored under identifier or ErrNotFound.
	Get(ctx context.Context, identifier string) ([]byte, error)

	// Exists reports whether identifier is stored.
	Exists(ctx context.Context, identifier string) (bool, error)
}

// MemoryBackend keeps documents in memory. Safe for concurrent use.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Put(_ context.Context, identifier string, data []byte, overwrite bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.docs[identifier]; ok && !overwrite {
		return fmt.Errorf("%w: %s", ErrExists, identifier)
	}
	b.docs[identifier] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Get(_ context.Context, identifier string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.docs[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Exists(_ context.Context, identifier string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.docs[identifier]
	return ok, nil
}

// FilesystemBackend stores each document as <root>/<identifier>.json.
type FilesystemBackend struct {
	root string
}

// NewFilesystemBackend creates a backend rooted at dir, which must exist.
func NewFilesystemBackend(dir string) (*FilesystemBackend, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage directory: not a directory: %s", dir)
	}
	return &FilesystemBackend{root: dir}, nil
}

func (b *FilesystemBackend) path(identifier string) (string, error) {
	if identifier == "" || strings.ContainsAny(identifier, `/\`) || identifier == "." || identifier == ".." {
		return "", fmt.Errorf("invalid identifier %q", identifier)
	}
	return filepath.Join(b.root, identifier+".json"), nil
}

func (b *FilesystemBackend) Put(_ context.Context, identifier string, data []byte, overwrite bool) error {
	path, err := b.path(identifier)
	if err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, identifier)
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (b *FilesystemBackend) Get(_ context.Context, identifier string) ([]byte, error) {
	path, err := b.path(identifier)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
	}
	return data, err
}

func (b *FilesystemBackend) Exists(_ context.Context, identifier string) (bool, error) {
	path, err := b.path(identifier)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
