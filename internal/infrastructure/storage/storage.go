package storage

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	domainerrors "token-forge.backend/internal/domain/errors"
)

// MaxLogoBytes is the default logo size cap
const MaxLogoBytes = 1 << 20 // 1 MiB

// allowedLogoTypes is the fixed set of accepted image MIME types
var allowedLogoTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

// AssetStore stores a binary asset and returns a durable URL for it
type AssetStore interface {
	Store(ctx context.Context, data []byte, suggestedName string) (string, error)
}

// ValidateLogo checks size and MIME type before any storage attempt. The
// type is sniffed from content, not trusted from the upload headers.
func ValidateLogo(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return domainerrors.BadRequest("empty file")
	}
	if maxBytes <= 0 {
		maxBytes = MaxLogoBytes
	}
	if int64(len(data)) > maxBytes {
		return domainerrors.BadRequest(fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}

	detected := mimetype.Detect(data)
	for _, allowed := range allowedLogoTypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return domainerrors.BadRequest(fmt.Sprintf("unsupported file type %s, allowed: JPEG, PNG, WebP", detected.String()))
}

// LogoExtension returns the canonical file extension for the sniffed type
func LogoExtension(data []byte) string {
	return mimetype.Detect(data).Extension()
}
