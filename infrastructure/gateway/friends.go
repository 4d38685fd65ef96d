// Package gateway holds the publish/fetch boundary to other
// identities' storage.
package gateway

import (
	"context"
	"time"

	"tangle-backend/application/ports"
	"tangle-backend/domain/capture"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// StubFriendFetcher is the current friend-capture fetcher: remote
// fetch is not implemented, so it returns an empty collection for any
// friend list. The contract (captures tagged Owner=false) is what a
// real implementation must keep.
type StubFriendFetcher struct {
	logger *zap.Logger
}

// NewStubFriendFetcher creates the stub fetcher
func NewStubFriendFetcher(logger *zap.Logger) *StubFriendFetcher {
	return &StubFriendFetcher{logger: logger}
}

// Fetch returns an empty capture collection unconditionally
func (f *StubFriendFetcher) Fetch(ctx context.Context, friends []capture.Friend) ([]capture.Capture, error) {
	if len(friends) > 0 {
		f.logger.Debug("friend capture fetch not implemented, returning empty",
			zap.Int("friends", len(friends)),
		)
	}
	return []capture.Capture{}, nil
}

// BreakerFriendFetcher wraps a fetcher with a circuit breaker so a
// misbehaving remote cannot stall initialization. Callers already
// treat fetch errors as an empty collection, so an open circuit
// degrades the same way.
type BreakerFriendFetcher struct {
	next   ports.FriendFetcher
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreakerFriendFetcher wraps next with a circuit breaker
func NewBreakerFriendFetcher(next ports.FriendFetcher, logger *zap.Logger) *BreakerFriendFetcher {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "friend-fetch",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerFriendFetcher{next: next, cb: cb, logger: logger}
}

// Fetch delegates through the circuit breaker
func (f *BreakerFriendFetcher) Fetch(ctx context.Context, friends []capture.Friend) ([]capture.Capture, error) {
	result, err := f.cb.Execute(func() (interface{}, error) {
		return f.next.Fetch(ctx, friends)
	})
	if err != nil {
		return nil, err
	}
	return result.([]capture.Capture), nil
}
