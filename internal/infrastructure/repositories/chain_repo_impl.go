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

// ChainRepository implements read access to the chain registry
type ChainRepository struct {
	db *gorm.DB
}

// NewChainRepository creates a new chain repository
func NewChainRepository(db *gorm.DB) *ChainRepository {
	return &ChainRepository{db: db}
}

// GetByNetwork gets a chain by its network identifier
func (r *ChainRepository) GetByNetwork(ctx context.Context, network string) (*entities.Chain, error) {
	var m models.Chain
	if err := r.db.WithContext(ctx).Where("network = ?", network).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetAll gets all chains
func (r *ChainRepository) GetAll(ctx context.Context) ([]*entities.Chain, error) {
	var ms []models.Chain
	if err := r.db.WithContext(ctx).Order("network").Find(&ms).Error; err != nil {
		return nil, err
	}

	chains := make([]*entities.Chain, 0, len(ms))
	for _, m := range ms {
		model := m
		chains = append(chains, r.toEntity(&model))
	}
	return chains, nil
}

func (r *ChainRepository) toEntity(m *models.Chain) *entities.Chain {
	return &entities.Chain{
		ID:          m.ID,
		Network:     m.Network,
		Name:        m.Name,
		Type:        entities.ChainType(strings.ToUpper(m.ChainType)),
		RPCURL:      m.RPCURL,
		ExplorerURL: m.ExplorerURL,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
