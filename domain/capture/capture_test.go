package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Success(t *testing.T) {
	// Arrange
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	c, err := New("abc-123", "Learned #rust today", createdAt, true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc-123", c.ID)
	assert.Equal(t, "Learned #rust today", c.Text)
	assert.Equal(t, createdAt, c.CreatedAt)
	assert.True(t, c.Owner)
}

func TestNew_EmptyText(t *testing.T) {
	_, err := New("abc-123", "   ", time.Now(), true)
	assert.Error(t, err)
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New("", "hello", time.Now(), true)
	assert.Error(t, err)
}

func TestSortNewestFirst_StableOnTies(t *testing.T) {
	// Arrange
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	captures := []Capture{
		{ID: "old", CreatedAt: at.Add(-time.Hour)},
		{ID: "tie-a", CreatedAt: at},
		{ID: "tie-b", CreatedAt: at},
		{ID: "new", CreatedAt: at.Add(time.Hour)},
	}

	// Act
	SortNewestFirst(captures)

	// Assert
	assert.Equal(t, "new", captures[0].ID)
	assert.Equal(t, "tie-a", captures[1].ID)
	assert.Equal(t, "tie-b", captures[2].ID)
	assert.Equal(t, "old", captures[3].ID)
}

func TestOwnedOnly(t *testing.T) {
	captures := []Capture{
		{ID: "mine", Owner: true},
		{ID: "theirs", Owner: false},
		{ID: "also-mine", Owner: true},
	}

	owned := OwnedOnly(captures)

	require.Len(t, owned, 2)
	assert.Equal(t, "mine", owned[0].ID)
	assert.Equal(t, "also-mine", owned[1].ID)
}

func TestClone_Independent(t *testing.T) {
	original := []Capture{{ID: "a", Text: "one"}}

	cloned := Clone(original)
	cloned[0].Text = "changed"

	assert.Equal(t, "one", original[0].Text)
}
