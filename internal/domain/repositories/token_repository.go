package repositories

import (
	"context"

	"token-forge.backend/internal/domain/entities"
)

// TokenRepository defines read access to the deployed-token registry
type TokenRepository interface {
	GetByAddress(ctx context.Context, address string, network *string) (*entities.Token, error)
}

// ChainRepository defines read access to the chain registry
type ChainRepository interface {
	GetByNetwork(ctx context.Context, network string) (*entities.Chain, error)
	GetAll(ctx context.Context) ([]*entities.Chain, error)
}
