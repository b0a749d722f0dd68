package images

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretmenu/secretmenu-server/internal/id"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}

func TestNewStorage(t *testing.T) {
	t.Run("creates photos directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)

		info, err := os.Stat(filepath.Join(tmpDir, "photos"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, filepath.Join(tmpDir, "photos"), storage.Dir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("returns error for empty subdir", func(t *testing.T) {
		_, err := NewStorageWithSubdir(t.TempDir(), "")
		assert.Error(t, err)
	})
}

func TestStorage_SaveGetDelete(t *testing.T) {
	storage := setupTestStorage(t)
	name := id.PhotoFilename()
	data := []byte("jpeg bytes")

	require.NoError(t, storage.Save(name, data))
	assert.True(t, storage.Exists(name))

	got, err := storage.Get(name)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	hash, err := storage.Hash(name)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	require.NoError(t, storage.Delete(name))
	assert.False(t, storage.Exists(name))

	// Deleting again is not an error.
	require.NoError(t, storage.Delete(name))

	_, err = storage.Get(name)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestStorage_RejectsForeignNames(t *testing.T) {
	storage := setupTestStorage(t)

	for _, name := range []string{"", "../escape.jpg", "cover.png", "book-123"} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, storage.Save(name, []byte("x")), ErrInvalidFilename)
			_, err := storage.Get(name)
			assert.ErrorIs(t, err, ErrInvalidFilename)
			assert.ErrorIs(t, storage.Delete(name), ErrInvalidFilename)
			assert.False(t, storage.Exists(name))
		})
	}
}

func TestStorage_SaveEmptyData(t *testing.T) {
	storage := setupTestStorage(t)
	err := storage.Save(id.PhotoFilename(), nil)
	assert.Error(t, err)
}

func TestStorage_DeleteAll(t *testing.T) {
	storage := setupTestStorage(t)
	names := []string{id.PhotoFilename(), id.PhotoFilename()}
	for _, n := range names {
		require.NoError(t, storage.Save(n, []byte("x")))
	}
	// Unrelated files are left alone.
	other := filepath.Join(storage.Dir(), "README.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0o644))

	require.NoError(t, storage.DeleteAll())

	for _, n := range names {
		assert.False(t, storage.Exists(n))
	}
	_, err := os.Stat(other)
	assert.NoError(t, err)
}

func TestStorage_StaleFiles(t *testing.T) {
	storage := setupTestStorage(t)

	old := id.PhotoFilename()
	fresh := id.PhotoFilename()
	require.NoError(t, storage.Save(old, []byte("old")))
	require.NoError(t, storage.Save(fresh, []byte("fresh")))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(storage.Path(old), past, past))
	require.NoError(t, os.WriteFile(filepath.Join(storage.Dir(), "notes.txt"), []byte("x"), 0o644))

	stale, err := storage.StaleFiles(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{old}, stale)
}

func TestStorage_Path(t *testing.T) {
	storage := setupTestStorage(t)
	name := id.PhotoFilename()
	assert.Equal(t, filepath.Join(storage.Dir(), name), storage.Path(name))
}
