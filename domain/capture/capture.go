package capture

import (
	"sort"
	"strings"
	"time"

	pkgerrors "tangle-backend/pkg/errors"
)

// Capture is a single user-authored text snippet, the atomic unit of
// content. Captures are immutable once created; the only mutation the
// system performs is removal.
type Capture struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Owner     bool      `json:"owner"`
}

// Friend is a reference to another identity whose published captures
// can be fetched.
type Friend struct {
	ID string `json:"id"`
}

// New creates a capture after validating its fields
func New(id, text string, createdAt time.Time, owner bool) (Capture, error) {
	if id == "" {
		return Capture{}, pkgerrors.NewValidationError("capture id cannot be empty")
	}
	if strings.TrimSpace(text) == "" {
		return Capture{}, pkgerrors.NewValidationError("capture text cannot be empty")
	}
	return Capture{
		ID:        id,
		Text:      text,
		CreatedAt: createdAt,
		Owner:     owner,
	}, nil
}

// Clone returns an independent copy of the given captures
func Clone(captures []Capture) []Capture {
	if captures == nil {
		return nil
	}
	out := make([]Capture, len(captures))
	copy(out, captures)
	return out
}

// SortNewestFirst orders captures by creation time descending. The
// sort is stable so ties keep their original relative order.
func SortNewestFirst(captures []Capture) {
	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].CreatedAt.After(captures[j].CreatedAt)
	})
}

// OwnedOnly returns the subset of captures authored by the local user
func OwnedOnly(captures []Capture) []Capture {
	owned := make([]Capture, 0, len(captures))
	for _, c := range captures {
		if c.Owner {
			owned = append(owned, c)
		}
	}
	return owned
}
