package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/internal/infrastructure/models"
	"token-forge.backend/pkg/utils"
)

// MetadataRepository implements token metadata data operations
type MetadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository creates a new metadata repository
func NewMetadataRepository(db *gorm.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

// GetByAddress gets a metadata record by token address, optionally scoped
// to a network. Addresses are compared in canonical lowercase form.
func (r *MetadataRepository) GetByAddress(ctx context.Context, address string, network *string) (*entities.TokenMetadata, error) {
	query := r.db.WithContext(ctx).Where("token_address = ?", strings.ToLower(address))
	if network != nil && *network != "" {
		query = query.Where("network = ?", *network)
	}

	var m models.TokenMetadata
	if err := query.Order("network").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Create inserts a fresh metadata record. A racing insert for the same
// (network, token_address) pair loses against the unique index and gets
// ErrConflict rather than a driver error.
func (r *MetadataRepository) Create(ctx context.Context, record *entities.TokenMetadata) error {
	m := r.toModel(record)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	record.ID = m.ID
	record.CreatedAt = m.CreatedAt
	record.UpdatedAt = m.UpdatedAt
	return nil
}

// isUniqueViolation matches unique-index violations from the postgres and
// sqlite drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// UpdateWithHistory overwrites the record and appends one history entry in
// a single transaction. The write is conditional on the update counter the
// caller read, so two racing updates cannot both audit the same prior row:
// the loser gets ErrConflict.
func (r *MetadataRepository) UpdateWithHistory(ctx context.Context, record, prev *entities.TokenMetadata, updatedBy string) error {
	snapshot, err := json.Marshal(prev)
	if err != nil {
		return err
	}

	updatedBy = strings.ToLower(updatedBy)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history := &models.TokenMetadataHistory{
			ID:           uuid.New(),
			TokenAddress: prev.TokenAddress,
			Network:      prev.Network,
			UpdatedBy:    updatedBy,
			PreviousData: datatypes.JSON(snapshot),
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		m := r.toModel(record)
		m.ID = prev.ID
		m.UpdateCount = prev.UpdateCount + 1
		m.LastUpdatedBy = &updatedBy

		res := tx.Model(&models.TokenMetadata{}).
			Where("id = ? AND update_count = ?", prev.ID, prev.UpdateCount).
			Select("name", "symbol", "description", "logo_url", "website", "twitter",
				"telegram", "discord", "whitepaper", "github", "tags",
				"last_updated_by", "update_count", "updated_at").
			Updates(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainerrors.ErrConflict
		}

		record.ID = prev.ID
		record.UpdateCount = m.UpdateCount
		record.LastUpdatedBy = null.StringFrom(updatedBy)
		return nil
	})
}

// SetVerified flips the verified flag
func (r *MetadataRepository) SetVerified(ctx context.Context, address, network string, verified bool) error {
	res := r.db.WithContext(ctx).Model(&models.TokenMetadata{}).
		Where("token_address = ? AND network = ?", strings.ToLower(address), network).
		Update("verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListHistory returns history entries for a token, newest first
func (r *MetadataRepository) ListHistory(ctx context.Context, address, network string, pagination utils.PaginationParams) ([]*entities.MetadataHistory, int64, error) {
	var totalCount int64
	query := r.db.WithContext(ctx).Model(&models.TokenMetadataHistory{}).
		Where("token_address = ? AND network = ?", strings.ToLower(address), network)

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var ms []models.TokenMetadataHistory
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*entities.MetadataHistory, 0, len(ms))
	for _, m := range ms {
		model := m
		entry := &entities.MetadataHistory{
			ID:           model.ID,
			TokenAddress: model.TokenAddress,
			Network:      model.Network,
			UpdatedBy:    model.UpdatedBy,
			CreatedAt:    model.CreatedAt,
		}
		var prev entities.TokenMetadata
		if err := json.Unmarshal(model.PreviousData, &prev); err == nil {
			entry.PreviousData = &prev
		}
		entries = append(entries, entry)
	}
	return entries, totalCount, nil
}

func (r *MetadataRepository) toEntity(m *models.TokenMetadata) *entities.TokenMetadata {
	return &entities.TokenMetadata{
		ID:            m.ID,
		TokenAddress:  m.TokenAddress,
		Network:       m.Network,
		Name:          m.Name,
		Symbol:        m.Symbol,
		Description:   m.Description,
		LogoURL:       null.StringFromPtr(m.LogoURL),
		Website:       null.StringFromPtr(m.Website),
		Twitter:       null.StringFromPtr(m.Twitter),
		Telegram:      null.StringFromPtr(m.Telegram),
		Discord:       null.StringFromPtr(m.Discord),
		Whitepaper:    null.StringFromPtr(m.Whitepaper),
		Github:        null.StringFromPtr(m.Github),
		Tags:          m.Tags,
		Verified:      m.Verified,
		LastUpdatedBy: null.StringFromPtr(m.LastUpdatedBy),
		UpdateCount:   m.UpdateCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *MetadataRepository) toModel(e *entities.TokenMetadata) *models.TokenMetadata {
	return &models.TokenMetadata{
		ID:            e.ID,
		TokenAddress:  strings.ToLower(e.TokenAddress),
		Network:       e.Network,
		Name:          e.Name,
		Symbol:        e.Symbol,
		Description:   e.Description,
		LogoURL:       e.LogoURL.Ptr(),
		Website:       e.Website.Ptr(),
		Twitter:       e.Twitter.Ptr(),
		Telegram:      e.Telegram.Ptr(),
		Discord:       e.Discord.Ptr(),
		Whitepaper:    e.Whitepaper.Ptr(),
		Github:        e.Github.Ptr(),
		Tags:          datatypes.NewJSONSlice(e.Tags),
		Verified:      e.Verified,
		LastUpdatedBy: e.LastUpdatedBy.Ptr(),
		UpdateCount:   e.UpdateCount,
	}
}
