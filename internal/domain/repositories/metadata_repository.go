package repositories

import (
	"context"

	"token-forge.backend/internal/domain/entities"
	"token-forge.backend/pkg/utils"
)

// MetadataRepository defines token metadata data operations
type MetadataRepository interface {
	GetByAddress(ctx context.Context, address string, network *string) (*entities.TokenMetadata, error)
	Create(ctx context.Context, record *entities.TokenMetadata) error
	// UpdateWithHistory overwrites the record and appends one history entry
	// capturing prev, both inside a single transaction.
	UpdateWithHistory(ctx context.Context, record, prev *entities.TokenMetadata, updatedBy string) error
	SetVerified(ctx context.Context, address, network string, verified bool) error
	ListHistory(ctx context.Context, address, network string, pagination utils.PaginationParams) ([]*entities.MetadataHistory, int64, error)
}
