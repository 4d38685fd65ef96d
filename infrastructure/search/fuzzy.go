// Package search implements approximate matching of queries against
// capture text.
package search

import (
	"strings"
	"sync"

	"tangle-backend/domain/capture"

	"github.com/sahilm/fuzzy"
)

// Options tunes match sensitivity
type Options struct {
	// Threshold is the minimum score a match must reach; fuzzy scores
	// can go negative for poor matches
	Threshold int
	// MaxResults caps the number of hits returned; zero means no cap
	MaxResults int
}

// FuzzyMatcher ranks captures by how closely their text matches a
// query, case-insensitively. Options can be swapped at runtime by the
// dynamic config watcher.
type FuzzyMatcher struct {
	mu   sync.RWMutex
	opts Options
}

// NewFuzzyMatcher creates a matcher with the given options
func NewFuzzyMatcher(opts Options) *FuzzyMatcher {
	return &FuzzyMatcher{opts: opts}
}

// SetOptions replaces the matcher's options
func (m *FuzzyMatcher) SetOptions(opts Options) {
	m.mu.Lock()
	m.opts = opts
	m.mu.Unlock()
}

// captureSource adapts a capture slice to the fuzzy library's Source
type captureSource []capture.Capture

func (s captureSource) String(i int) string {
	return strings.ToLower(s[i].Text)
}

func (s captureSource) Len() int {
	return len(s)
}

// Match returns the captures matching query, ranked best-first
func (m *FuzzyMatcher) Match(query string, captures []capture.Capture) []capture.Capture {
	m.mu.RLock()
	opts := m.opts
	m.mu.RUnlock()

	results := fuzzy.FindFrom(strings.ToLower(query), captureSource(captures))

	matches := make([]capture.Capture, 0, len(results))
	for _, r := range results {
		if r.Score < opts.Threshold {
			continue
		}
		matches = append(matches, captures[r.Index])
		if opts.MaxResults > 0 && len(matches) >= opts.MaxResults {
			break
		}
	}
	return matches
}
