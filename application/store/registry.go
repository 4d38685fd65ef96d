package store

import "sync"

// Factory builds a Store scoped to one user identity
type Factory func(userID string) *Store

// Registry hands out one Store per user identity so a single process
// can serve many sessions in isolation. Stores live for the process
// lifetime; there is no explicit teardown.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	factory Factory
}

// NewRegistry creates a registry backed by the given factory
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		stores:  make(map[string]*Store),
		factory: factory,
	}
}

// For returns the store for userID, creating it on first use
func (r *Registry) For(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := r.factory(userID)
	r.stores[userID] = s
	return s
}
