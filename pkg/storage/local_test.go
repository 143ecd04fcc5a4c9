package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "recordings"), nil)
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("fake video bytes"), "20240101000000_ab.mp4")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(data))

	removed, err := store.Delete(path)
	require.NoError(t, err)
	assert.True(t, removed)

	// Idempotent: deleting an absent blob is not an error.
	removed, err = store.Delete(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestNewLocalStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "recordings")
	store, err := NewLocalStore(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
