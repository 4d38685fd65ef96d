package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeDynamicFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "dynamic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultDynamic(t *testing.T) {
	cfg := DefaultDynamic()

	assert.Equal(t, 10000, cfg.Limits.MaxCaptureLength)
	assert.Equal(t, 1000, cfg.Limits.MaxImportBatch)
	assert.Equal(t, 0, cfg.Search.Threshold)
	assert.Equal(t, 100, cfg.Search.MaxResults)
}

func TestLoadDynamic_OverlaysDefaults(t *testing.T) {
	path := writeDynamicFile(t, t.TempDir(), "limits:\n  maxCaptureLength: 500\n")

	cfg, err := loadDynamicFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Limits.MaxCaptureLength)
	// untouched fields keep their defaults
	assert.Equal(t, 1000, cfg.Limits.MaxImportBatch)
	assert.Equal(t, 100, cfg.Search.MaxResults)
}

func TestLoadDynamic_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero capture length", "limits:\n  maxCaptureLength: 0\n"},
		{"negative batch", "limits:\n  maxImportBatch: -1\n"},
		{"zero max results", "search:\n  maxResults: 0\n"},
		{"not yaml", "{{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDynamicFile(t, t.TempDir(), tt.content)
			_, err := loadDynamicFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadDynamic_MissingFile(t *testing.T) {
	_, err := loadDynamicFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeDynamicFile(t, dir, "limits:\n  maxCaptureLength: 500\n")

	w, err := NewWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	require.Equal(t, 500, w.Current().Limits.MaxCaptureLength)

	reloaded := make(chan *Dynamic, 1)
	w.OnChange(func(cfg *Dynamic) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	w.Start()

	// Act
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  maxCaptureLength: 750\n"), 0o644))

	// Assert
	select {
	case cfg := <-reloaded:
		assert.Equal(t, 750, cfg.Limits.MaxCaptureLength)
	case <-time.After(3 * time.Second):
		t.Fatal("reload handler was not invoked")
	}
	assert.Equal(t, 750, w.Current().Limits.MaxCaptureLength)
}

func TestWatcher_KeepsCurrentOnInvalidReload(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeDynamicFile(t, dir, "limits:\n  maxCaptureLength: 500\n")

	w, err := NewWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()
	w.Start()

	// Act: an invalid save must not clobber the active config
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  maxCaptureLength: 0\n"), 0o644))
	time.Sleep(500 * time.Millisecond)

	// Assert
	assert.Equal(t, 500, w.Current().Limits.MaxCaptureLength)
}

func TestWatcher_MissingFileFailsFast(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent.yaml"), zap.NewNop())
	assert.Error(t, err)
}
