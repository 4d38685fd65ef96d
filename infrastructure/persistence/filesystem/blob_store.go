// Package filesystem provides a blob store backed by one file per key
// under a per-user directory.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tangle-backend/application/ports"

	"go.uber.org/zap"
)

// BlobStore stores each blob as a file named after its key. Writes go
// through a temp file and rename so readers never observe a partial
// document.
type BlobStore struct {
	dir    string
	logger *zap.Logger
}

// NewBlobStore creates a blob store rooted at dir. The directory is
// created on first write.
func NewBlobStore(dir string, logger *zap.Logger) *BlobStore {
	return &BlobStore{dir: dir, logger: logger}
}

// Get returns the blob stored under key, or (nil, nil) when absent
func (s *BlobStore) Get(ctx context.Context, key string, opts ports.GetOptions) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key and returns the file path as the reference
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, opts ports.PutOptions) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".tmp*")
	if err != nil {
		return "", fmt.Errorf("creating temp blob: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing blob %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("storing blob %s: %w", key, err)
	}
	return path, nil
}

// pathFor maps a storage key to a file path, rejecting keys that try
// to escape the store directory.
func (s *BlobStore) pathFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
