package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackStore_PrefersRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	store := NewFallbackStore(
		NewPinStore(srv.URL, "", "https://gateway.example/ipfs"),
		NewLocalStore(t.TempDir(), "http://localhost:8080"),
	)

	url, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://gateway.example/ipfs/"))
}

func TestFallbackStore_LocalWhenUnconfigured(t *testing.T) {
	store := NewFallbackStore(
		NewPinStore("", "", "https://gateway.example/ipfs"),
		NewLocalStore(t.TempDir(), "http://localhost:8080"),
	)

	url, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/assets/"))
}

func TestFallbackStore_LocalWhenRemoteFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	store := NewFallbackStore(
		NewPinStore(srv.URL, "", "https://gateway.example/ipfs"),
		NewLocalStore(t.TempDir(), "http://localhost:8080"),
	)

	// Callers see a working URL either way.
	url, err := store.Store(context.Background(), pngBytes, "logo.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/assets/"))
}
