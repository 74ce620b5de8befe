package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes assets to a local directory served statically under
// /assets. It is the fallback when the remote pin store is unconfigured or
// failing.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a local asset store rooted at dir
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Store writes the asset to disk and returns its public URL. The filename
// is prefixed with a content digest so distinct uploads never collide.
func (s *LocalStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	digest := sha256.Sum256(data)
	name := hex.EncodeToString(digest[:8]) + "-" + sanitizeName(suggestedName)
	if filepath.Ext(name) == "" {
		name += LogoExtension(data)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}

	return s.baseURL + "/assets/" + name, nil
}

// Dir returns the directory assets are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || out == "." {
		out = "asset"
	}
	return out
}
