// Package encrypted decorates a blob store with optional AES-GCM
// encryption, honoring the per-call encrypt/decrypt options of the
// storage contract.
package encrypted

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"tangle-backend/application/ports"
)

// Codec holds the cipher shared by every wrapped store for one key
type Codec struct {
	aead cipher.AEAD
}

// NewCodec creates a codec from a hex-encoded 32-byte key
func NewCodec(hexKey string) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Wrap decorates next with this codec
func (c *Codec) Wrap(next ports.BlobStore) *BlobStore {
	return &BlobStore{next: next, aead: c.aead}
}

// BlobStore wraps another blob store and encrypts writes that ask for
// it. Reads with the decrypt option expect a nonce-prefixed AES-GCM
// payload; everything else passes through untouched.
type BlobStore struct {
	next ports.BlobStore
	aead cipher.AEAD
}

// Get reads the blob and decrypts it when asked to
func (s *BlobStore) Get(ctx context.Context, key string, opts ports.GetOptions) ([]byte, error) {
	data, err := s.next.Get(ctx, key, opts)
	if err != nil || data == nil {
		return data, err
	}
	if !opts.Decrypt {
		return data, nil
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("blob %s too short to decrypt", key)
	}
	plain, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting blob %s: %w", key, err)
	}
	return plain, nil
}

// Put encrypts the blob when asked to, then delegates
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, opts ports.PutOptions) (string, error) {
	if !opts.Encrypt {
		return s.next.Put(ctx, key, data, opts)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, data, nil)
	return s.next.Put(ctx, key, sealed, opts)
}
