package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/internal/infrastructure/models"
)

// TokenRepository implements read access to the deployed-token registry
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetByAddress gets a registered token by address, optionally scoped to a
// network
func (r *TokenRepository) GetByAddress(ctx context.Context, address string, network *string) (*entities.Token, error) {
	query := r.db.WithContext(ctx).Preload("Chain").Where("address = ?", strings.ToLower(address))
	if network != nil && *network != "" {
		query = query.Where("network = ?", *network)
	}

	var m models.Token
	if err := query.Order("network").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *TokenRepository) toEntity(m *models.Token) *entities.Token {
	e := &entities.Token{
		ID:        m.ID,
		Address:   m.Address,
		Network:   m.Network,
		Name:      m.Name,
		Symbol:    m.Symbol,
		Decimals:  m.Decimals,
		Standard:  entities.TokenStandard(m.Standard),
		CreatedAt: m.CreatedAt,
	}

	if m.Chain.Network != "" {
		e.Chain = &entities.Chain{
			ID:          m.Chain.ID,
			Network:     m.Chain.Network,
			Name:        m.Chain.Name,
			Type:        entities.ChainType(strings.ToUpper(m.Chain.ChainType)),
			RPCURL:      m.Chain.RPCURL,
			ExplorerURL: m.Chain.ExplorerURL,
			IsActive:    m.Chain.IsActive,
			CreatedAt:   m.Chain.CreatedAt,
			UpdatedAt:   m.Chain.UpdatedAt,
		}
	}

	return e
}
