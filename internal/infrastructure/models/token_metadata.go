package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TokenMetadata is the permanent metadata row for a deployed token.
// Uniqueness is on (network, token_address): the same hex address can in
// principle exist on two different networks.
type TokenMetadata struct {
	ID            uuid.UUID                    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TokenAddress  string                       `gorm:"type:varchar(64);not null;uniqueIndex:idx_token_metadata_network_address,priority:2;index"`
	Network       string                       `gorm:"type:varchar(32);not null;uniqueIndex:idx_token_metadata_network_address,priority:1"`
	Name          string                       `gorm:"type:varchar(100);not null"`
	Symbol        string                       `gorm:"type:varchar(20);not null"`
	Description   string                       `gorm:"type:varchar(300)"`
	LogoURL       *string                      `gorm:"type:text"`
	Website       *string                      `gorm:"type:text"`
	Twitter       *string                      `gorm:"type:text"`
	Telegram      *string                      `gorm:"type:text"`
	Discord       *string                      `gorm:"type:text"`
	Whitepaper    *string                      `gorm:"type:text"`
	Github        *string                      `gorm:"type:text"`
	Tags          datatypes.JSONSlice[string]  `gorm:"type:jsonb;index:idx_token_metadata_tags,type:gin"`
	Verified      bool                         `gorm:"default:false"`
	LastUpdatedBy *string                      `gorm:"type:varchar(64)"`
	UpdateCount   int                          `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (TokenMetadata) TableName() string {
	return "token_metadata"
}
