package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
)

func newSession(sessionID, creator string, expiresAt time.Time) *entities.MetadataSession {
	return &entities.MetadataSession{
		SessionID:      sessionID,
		CreatorAddress: creator,
		Name:           "Draft Token",
		Symbol:         "DRAFT",
		Description:    "pre-deployment draft",
		Website:        null.StringFrom("https://draft.example"),
		Tags:           []string{"meme"},
		ExpiresAt:      expiresAt,
	}
}

func TestSessionRepository_UpsertAndGetValid(t *testing.T) {
	db := newTestDB(t)
	createSessionTable(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	session := newSession("sess-1", "0xAAA0000000000000000000000000000000000001", now.Add(24*time.Hour))
	require.NoError(t, repo.Upsert(ctx, session))
	require.NotEmpty(t, session.ID)

	got, err := repo.GetValid(ctx, "sess-1", now)
	require.NoError(t, err)
	require.Equal(t, "Draft Token", got.Name)
	require.Equal(t, "0xaaa0000000000000000000000000000000000001", got.CreatorAddress)
	require.Equal(t, []string{"meme"}, got.Tags)

	_, err = repo.GetValid(ctx, "sess-missing", now)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSessionRepository_UpsertResetsExpiry(t *testing.T) {
	db := newTestDB(t)
	createSessionTable(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	first := newSession("sess-1", "0xaaa0000000000000000000000000000000000001", now.Add(time.Minute))
	require.NoError(t, repo.Upsert(ctx, first))

	// Same session ID again: the row is overwritten, not duplicated, and
	// the expiry moves forward.
	second := newSession("sess-1", "0xaaa0000000000000000000000000000000000001", now.Add(24*time.Hour))
	second.Name = "Draft Token v2"
	require.NoError(t, repo.Upsert(ctx, second))

	var count int64
	require.NoError(t, db.Table("temporary_metadata").Count(&count).Error)
	require.Equal(t, int64(1), count)

	got, err := repo.GetValid(ctx, "sess-1", now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, "Draft Token v2", got.Name)
	require.True(t, got.ExpiresAt.After(now.Add(23*time.Hour)))
}

func TestSessionRepository_ExpiredInvisible(t *testing.T) {
	db := newTestDB(t)
	createSessionTable(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	session := newSession("sess-1", "0xaaa0000000000000000000000000000000000001", now.Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, session))

	// Reads after the expiry instant behave as if the row never existed.
	_, err := repo.GetValid(ctx, "sess-1", now.Add(2*time.Hour))
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	createSessionTable(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	session := newSession("sess-1", "0xaaa0000000000000000000000000000000000001", now.Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, session))

	require.NoError(t, repo.Delete(ctx, "sess-1"))
	_, err := repo.GetValid(ctx, "sess-1", now)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Deleting an absent session is a no-op.
	require.NoError(t, repo.Delete(ctx, "sess-1"))
}

func TestSessionRepository_PurgeExpired(t *testing.T) {
	db := newTestDB(t)
	createSessionTable(t, db)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, newSession("dead-1", "0xaaa0000000000000000000000000000000000001", now.Add(-2*time.Hour))))
	require.NoError(t, repo.Upsert(ctx, newSession("dead-2", "0xaaa0000000000000000000000000000000000001", now.Add(-time.Hour))))
	require.NoError(t, repo.Upsert(ctx, newSession("live-1", "0xaaa0000000000000000000000000000000000001", now.Add(time.Hour))))

	purged, err := repo.PurgeExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), purged)

	_, err = repo.GetValid(ctx, "dead-1", now.Add(-3*time.Hour))
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := repo.GetValid(ctx, "live-1", now)
	require.NoError(t, err)
	require.Equal(t, "live-1", got.SessionID)

	// Limit bounds each batch.
	require.NoError(t, repo.Upsert(ctx, newSession("dead-3", "0xaaa0000000000000000000000000000000000001", now.Add(-time.Hour))))
	require.NoError(t, repo.Upsert(ctx, newSession("dead-4", "0xaaa0000000000000000000000000000000000001", now.Add(-time.Hour))))
	purged, err = repo.PurgeExpired(ctx, now, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
}
