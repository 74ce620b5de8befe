package repositories

import (
	"context"
	"time"

	"token-forge.backend/internal/domain/entities"
)

// SessionRepository defines temporary metadata session operations
type SessionRepository interface {
	// Upsert inserts or overwrites the session by session ID, resetting its
	// expiry on every call.
	Upsert(ctx context.Context, session *entities.MetadataSession) error
	// GetValid returns the session only while its expiry is in the future.
	GetValid(ctx context.Context, sessionID string, now time.Time) (*entities.MetadataSession, error)
	Delete(ctx context.Context, sessionID string) error
	// PurgeExpired deletes up to limit sessions past their expiry and
	// returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
