// Package ports defines the interfaces the capture store depends on.
// Implementations live under infrastructure/.
package ports

import (
	"context"

	"tangle-backend/domain/capture"
)

// GetOptions controls a blob read
type GetOptions struct {
	Decrypt bool
}

// PutOptions controls a blob write
type PutOptions struct {
	Encrypt bool
}

// BlobStore is the per-user key-value document storage the engine
// persists to. Get returns (nil, nil) when the key does not exist;
// absence is an empty-collection default, not an error.
type BlobStore interface {
	Get(ctx context.Context, key string, opts GetOptions) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, opts PutOptions) (string, error)
}

// FriendFetcher retrieves the published capture snapshots of other
// identities. Returned captures must be tagged Owner=false.
type FriendFetcher interface {
	Fetch(ctx context.Context, friends []capture.Friend) ([]capture.Capture, error)
}

// CaptureMatcher performs approximate, case-insensitive matching of a
// query against capture text, returning matches ranked best-first.
// Matching is best-effort: a failure surfaces as zero matches.
type CaptureMatcher interface {
	Match(query string, captures []capture.Capture) []capture.Capture
}
