// Package store implements the graph-derivation and synchronization
// engine: a per-user cache of captures reconciled with blob storage,
// from which tag/entity graphs and search results are derived.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"tangle-backend/application/ports"
	"tangle-backend/domain/capture"
	"tangle-backend/domain/graph"
	pkgerrors "tangle-backend/pkg/errors"
	"tangle-backend/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys, one JSON document each
const (
	capturesKey = "captures.json"
	friendsKey  = "friends.json"
)

// Dependencies holds everything a Store needs. Blobs, Builder and
// Logger are required; the rest default to reasonable values.
type Dependencies struct {
	Blobs   ports.BlobStore
	Friends ports.FriendFetcher
	Matcher ports.CaptureMatcher
	Builder *graph.Builder
	Logger  *zap.Logger
	Metrics *observability.Collector

	// EncryptAtRest enables the blob store's encryption option for the
	// owned-captures document. Published snapshots are always written
	// unencrypted.
	EncryptAtRest bool

	// Now and NewID exist so tests can pin time and identity
	Now   func() time.Time
	NewID func() string
}

// Store owns the in-memory capture cache for a single user and
// mediates every read and mutation of it. The cache is loaded lazily
// from blob storage on first use and is authoritative afterwards;
// owned captures are the only subset ever written back.
type Store struct {
	blobs   ports.BlobStore
	friends ports.FriendFetcher
	matcher ports.CaptureMatcher
	builder *graph.Builder
	logger  *zap.Logger
	metrics *observability.Collector

	encryptAtRest bool
	now           func() time.Time
	newID         func() string

	mu    sync.Mutex
	cache []capture.Capture
	warm  bool
	seq   uint64

	writeMu        sync.Mutex
	lastWrittenSeq uint64
}

// NewStore creates a capture store from its dependencies
func NewStore(deps Dependencies) *Store {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Builder == nil {
		deps.Builder = graph.NewBuilder(nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Store{
		blobs:         deps.Blobs,
		friends:       deps.Friends,
		matcher:       deps.Matcher,
		builder:       deps.Builder,
		logger:        deps.Logger,
		metrics:       deps.Metrics,
		encryptAtRest: deps.EncryptAtRest,
		now:           deps.Now,
		newID:         deps.NewID,
	}
}

// Initialize returns the graph for the current cache, performing the
// cold load from blob storage on first call. Subsequent calls are
// cache-first: they reflect the most recent mutation without touching
// storage again.
func (s *Store) Initialize(ctx context.Context) graph.Data {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	snapshot := capture.Clone(s.cache)
	s.mu.Unlock()

	return s.build(snapshot)
}

// CreateCapture constructs an owned capture from text, inserts it at
// the front of the cache and persists the owned subset. The cache is
// mutated before the write is attempted, so a write failure leaves the
// two inconsistent until a retry.
func (s *Store) CreateCapture(ctx context.Context, text string) (capture.Capture, error) {
	c, err := capture.New(s.newID(), text, s.now(), true)
	if err != nil {
		return capture.Capture{}, err
	}

	s.ensureLoaded(ctx)

	s.mu.Lock()
	s.cache = append([]capture.Capture{c}, s.cache...)
	owned, seq := s.ownedSnapshotLocked()
	s.mu.Unlock()

	if err := s.persistOwned(ctx, seq, owned); err != nil {
		return c, err
	}
	if s.metrics != nil {
		s.metrics.CapturesCreated.Inc()
	}
	return c, nil
}

// CreateCaptures inserts a pre-built batch (e.g. from a file import)
// at the front of the cache, preserving input order, and persists once
// after all insertions.
func (s *Store) CreateCaptures(ctx context.Context, batch []capture.Capture) error {
	prepared := make([]capture.Capture, 0, len(batch))
	for _, c := range batch {
		id := c.ID
		if id == "" {
			id = s.newID()
		}
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.now()
		}
		normalized, err := capture.New(id, c.Text, createdAt, true)
		if err != nil {
			return err
		}
		prepared = append(prepared, normalized)
	}
	if len(prepared) == 0 {
		return nil
	}

	s.ensureLoaded(ctx)

	s.mu.Lock()
	s.cache = append(prepared, s.cache...)
	owned, seq := s.ownedSnapshotLocked()
	s.mu.Unlock()

	if err := s.persistOwned(ctx, seq, owned); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CapturesCreated.Add(float64(len(prepared)))
	}
	return nil
}

// DeleteCapture removes the capture matching id and persists the
// owned subset. When zero or more than one entry matches, the call is
// a silent no-op and no write is issued; the guard exists so a delete
// can never remove more than the single intended record.
func (s *Store) DeleteCapture(ctx context.Context, id string) error {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	matches := 0
	for _, c := range s.cache {
		if c.ID == id {
			matches++
		}
	}
	if matches != 1 {
		s.mu.Unlock()
		s.logger.Debug("delete skipped, not exactly one match",
			zap.String("captureID", id),
			zap.Int("matches", matches),
		)
		return nil
	}

	remaining := make([]capture.Capture, 0, len(s.cache)-1)
	for _, c := range s.cache {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}
	s.cache = remaining
	owned, seq := s.ownedSnapshotLocked()
	s.mu.Unlock()

	if err := s.persistOwned(ctx, seq, owned); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CapturesDeleted.Inc()
	}
	return nil
}

// ClearAll empties the cache and persists the empty owned subset
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.cache = nil
	s.warm = true
	owned, seq := s.ownedSnapshotLocked()
	s.mu.Unlock()

	return s.persistOwned(ctx, seq, owned)
}

// Search returns the graph for the captures matching query. An empty
// query means "no filter" and yields the graph of the full cache. The
// cache itself is never mutated.
func (s *Store) Search(ctx context.Context, query string) graph.Data {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	snapshot := capture.Clone(s.cache)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SearchQueries.Inc()
	}

	if strings.TrimSpace(query) == "" {
		return s.build(snapshot)
	}
	if s.matcher == nil {
		return s.build(nil)
	}
	return s.build(s.matcher.Match(query, snapshot))
}

// Publish serializes the owned subset to a freshly named, unencrypted
// blob and returns a reference usable to retrieve it later.
func (s *Store) Publish(ctx context.Context) (string, error) {
	s.ensureLoaded(ctx)

	s.mu.Lock()
	owned := capture.OwnedOnly(s.cache)
	s.mu.Unlock()

	data, err := json.Marshal(owned)
	if err != nil {
		return "", pkgerrors.NewInternalError("encoding published captures", err)
	}

	key := "tangle-" + s.newID() + ".json"
	ref, err := s.blobs.Put(ctx, key, data, ports.PutOptions{Encrypt: false})
	if s.metrics != nil {
		s.metrics.RecordWrite(err)
	}
	if err != nil {
		return "", pkgerrors.NewStorageError("publishing captures", err)
	}
	s.logger.Info("published capture snapshot",
		zap.String("key", key),
		zap.Int("captures", len(owned)),
	)
	return ref, nil
}

// ensureLoaded performs the cold load exactly once per store: owned
// captures and the friend list from blob storage, friend captures via
// the fetch gateway, merged newest-first. Read failures and malformed
// documents degrade to empty collections.
func (s *Store) ensureLoaded(ctx context.Context) {
	s.mu.Lock()
	if s.warm {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	owned := s.loadOwned(ctx)
	friendCaps := s.fetchFriendCaptures(ctx, s.loadFriends(ctx))

	merged := append(owned, friendCaps...)
	capture.SortNewestFirst(merged)

	s.mu.Lock()
	// a concurrent initializer may have won while we were loading
	if !s.warm {
		s.cache = merged
		s.warm = true
	}
	s.mu.Unlock()
}

func (s *Store) loadOwned(ctx context.Context) []capture.Capture {
	data := s.readBlob(ctx, capturesKey, ports.GetOptions{Decrypt: s.encryptAtRest})
	if data == nil {
		return nil
	}
	var owned []capture.Capture
	if err := json.Unmarshal(data, &owned); err != nil {
		s.logger.Warn("malformed captures document, starting empty", zap.Error(err))
		return nil
	}
	for i := range owned {
		owned[i].Owner = true
	}
	return owned
}

func (s *Store) loadFriends(ctx context.Context) []capture.Friend {
	data := s.readBlob(ctx, friendsKey, ports.GetOptions{})
	if data == nil {
		return nil
	}
	var friends []capture.Friend
	if err := json.Unmarshal(data, &friends); err != nil {
		s.logger.Warn("malformed friends document, starting empty", zap.Error(err))
		return nil
	}
	return friends
}

func (s *Store) fetchFriendCaptures(ctx context.Context, friends []capture.Friend) []capture.Capture {
	if s.friends == nil || len(friends) == 0 {
		return nil
	}
	caps, err := s.friends.Fetch(ctx, friends)
	if err != nil {
		s.logger.Warn("friend capture fetch failed, continuing without",
			zap.Int("friends", len(friends)),
			zap.Error(err),
		)
		return nil
	}
	for i := range caps {
		caps[i].Owner = false
	}
	return caps
}

func (s *Store) readBlob(ctx context.Context, key string, opts ports.GetOptions) []byte {
	data, err := s.blobs.Get(ctx, key, opts)
	if s.metrics != nil {
		s.metrics.RecordRead(err)
	}
	if err != nil {
		s.logger.Warn("blob read failed, treating as empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	return data
}

// ownedSnapshotLocked captures the owned subset and a sequence number
// under the cache lock, so the snapshot and its position in the write
// order are assigned atomically. Callers must hold s.mu.
func (s *Store) ownedSnapshotLocked() ([]capture.Capture, uint64) {
	s.seq++
	return capture.OwnedOnly(s.cache), s.seq
}

// persistOwned writes a whole-collection snapshot of owned captures.
// Writes are serialized, and a snapshot older than the last one
// written is dropped rather than allowed to clobber newer state.
func (s *Store) persistOwned(ctx context.Context, seq uint64, owned []capture.Capture) error {
	if owned == nil {
		owned = []capture.Capture{}
	}
	data, err := json.Marshal(owned)
	if err != nil {
		return pkgerrors.NewInternalError("encoding captures", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq < s.lastWrittenSeq {
		s.logger.Debug("skipping stale capture write", zap.Uint64("seq", seq))
		return nil
	}

	_, err = s.blobs.Put(ctx, capturesKey, data, ports.PutOptions{Encrypt: s.encryptAtRest})
	if s.metrics != nil {
		s.metrics.RecordWrite(err)
	}
	if err != nil {
		return pkgerrors.NewStorageError("writing captures", err)
	}
	s.lastWrittenSeq = seq
	return nil
}

func (s *Store) build(captures []capture.Capture) graph.Data {
	if s.metrics != nil {
		s.metrics.GraphBuilds.Inc()
	}
	return s.builder.Build(captures)
}
