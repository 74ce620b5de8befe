package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/internal/infrastructure/models"
)

// SessionRepository implements temporary metadata session operations
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Upsert inserts or overwrites a session by session ID. Every call resets
// expires_at, so an active draft never dies under its author.
func (r *SessionRepository) Upsert(ctx context.Context, session *entities.MetadataSession) error {
	m := r.toModel(session)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"creator_address", "name", "symbol", "description", "logo_data",
			"website", "twitter", "telegram", "discord", "whitepaper", "github",
			"tags", "expires_at", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	session.ID = m.ID
	return nil
}

// GetValid returns the session only while its expiry is in the future.
// Expired rows are indistinguishable from absent ones.
func (r *SessionRepository) GetValid(ctx context.Context, sessionID string, now time.Time) (*entities.MetadataSession, error) {
	var m models.TemporaryMetadata
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Delete removes a session by session ID
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.TemporaryMetadata{}).Error
}

// PurgeExpired deletes up to limit expired sessions
func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	sub := r.db.Model(&models.TemporaryMetadata{}).
		Select("id").
		Where("expires_at <= ?", now).
		Limit(limit)

	res := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Delete(&models.TemporaryMetadata{})
	return res.RowsAffected, res.Error
}

func (r *SessionRepository) toEntity(m *models.TemporaryMetadata) *entities.MetadataSession {
	return &entities.MetadataSession{
		ID:             m.ID,
		SessionID:      m.SessionID,
		CreatorAddress: m.CreatorAddress,
		Name:           m.Name,
		Symbol:         m.Symbol,
		Description:    m.Description,
		LogoData:       null.StringFromPtr(m.LogoData),
		Website:        null.StringFromPtr(m.Website),
		Twitter:        null.StringFromPtr(m.Twitter),
		Telegram:       null.StringFromPtr(m.Telegram),
		Discord:        null.StringFromPtr(m.Discord),
		Whitepaper:     null.StringFromPtr(m.Whitepaper),
		Github:         null.StringFromPtr(m.Github),
		Tags:           m.Tags,
		ExpiresAt:      m.ExpiresAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *SessionRepository) toModel(e *entities.MetadataSession) *models.TemporaryMetadata {
	return &models.TemporaryMetadata{
		ID:             e.ID,
		SessionID:      e.SessionID,
		CreatorAddress: strings.ToLower(e.CreatorAddress),
		Name:           e.Name,
		Symbol:         e.Symbol,
		Description:    e.Description,
		LogoData:       e.LogoData.Ptr(),
		Website:        e.Website.Ptr(),
		Twitter:        e.Twitter.Ptr(),
		Telegram:       e.Telegram.Ptr(),
		Discord:        e.Discord.Ptr(),
		Whitepaper:     e.Whitepaper.Ptr(),
		Github:         e.Github.Ptr(),
		Tags:           datatypes.NewJSONSlice(e.Tags),
		ExpiresAt:      e.ExpiresAt,
	}
}
