package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_Store(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "http://localhost:8080/")

	url, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/assets/"))
	require.True(t, strings.HasSuffix(url, "-logo.png"))

	name := strings.TrimPrefix(url, "http://localhost:8080/assets/")
	written, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, pngBytes, written)
}

func TestLocalStore_SameContentSameName(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")

	a, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	b, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := store.Store(context.Background(), jpegBytes, "logo.png")
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestLocalStore_SanitizesName(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "http://localhost:8080")

	url, err := store.Store(context.Background(), pngBytes, "../../etc/pass wd")
	require.NoError(t, err)
	require.NotContains(t, url, "..")
	require.NotContains(t, url, " ")

	// Nothing escaped the asset directory.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLocalStore_NoExtensionGetsSniffedOne(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")

	url, err := store.Store(context.Background(), pngBytes, "logo")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(url, ".png"))
}

func TestLocalStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logos")
	store := NewLocalStore(dir, "http://localhost:8080")

	_, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	require.DirExists(t, dir)
}
