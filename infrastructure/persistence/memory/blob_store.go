// Package memory provides an in-process blob store used by tests and
// the development configuration.
package memory

import (
	"context"
	"sync"

	"tangle-backend/application/ports"
)

// BlobStore keeps blobs in a map. Safe for concurrent use.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewBlobStore creates an empty in-memory blob store
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

// Get returns the blob stored under key, or (nil, nil) when absent
func (s *BlobStore) Get(ctx context.Context, key string, opts ports.GetOptions) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores data under key and returns the key as the reference
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, opts ports.PutOptions) (string, error) {
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.blobs[key] = stored
	s.mu.Unlock()

	return key, nil
}

// Delete removes the blob stored under key, if any
func (s *BlobStore) Delete(key string) {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
}

// Len returns the number of stored blobs
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
