package storage_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sainam-co/jobtrack-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("measurement sketch")
	path, size, err := store.Upload(ctx, "sketch.pdf", "application/pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	body, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorage_UniquePaths(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, _, err := store.Upload(ctx, "photo.jpg", "image/jpeg", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	second, _, err := store.Upload(ctx, "photo.jpg", "image/jpeg", bytes.NewReader([]byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, _, err := store.Upload(ctx, "gone.jpg", "image/jpeg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Download(ctx, path)
	assert.Error(t, err)

	t.Run("deleting a missing file is not an error", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, path))
	})
}
