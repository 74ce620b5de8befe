package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TokenMetadataHistory is an append-only snapshot of a metadata row as it
// was immediately before an update. Never mutated after insert.
type TokenMetadataHistory struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TokenAddress string         `gorm:"type:varchar(64);not null;index:idx_metadata_history_lookup,priority:2"`
	Network      string         `gorm:"type:varchar(32);not null;index:idx_metadata_history_lookup,priority:1"`
	UpdatedBy    string         `gorm:"type:varchar(64);not null"`
	PreviousData datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time      `gorm:"index"`
}

func (TokenMetadataHistory) TableName() string {
	return "token_metadata_history"
}
