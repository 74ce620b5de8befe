package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TemporaryMetadata is a pre-deployment metadata draft keyed by a
// client-generated session ID. Rows past expires_at are dead: lookups skip
// them and the sweep job removes them.
type TemporaryMetadata struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SessionID      string                      `gorm:"type:varchar(128);not null;uniqueIndex"`
	CreatorAddress string                      `gorm:"type:varchar(64);not null;index"`
	Name           string                      `gorm:"type:varchar(100);not null"`
	Symbol         string                      `gorm:"type:varchar(20);not null"`
	Description    string                      `gorm:"type:varchar(300)"`
	LogoData       *string                     `gorm:"type:text"` // inline base64 image
	Website        *string                     `gorm:"type:text"`
	Twitter        *string                     `gorm:"type:text"`
	Telegram       *string                     `gorm:"type:text"`
	Discord        *string                     `gorm:"type:text"`
	Whitepaper     *string                     `gorm:"type:text"`
	Github         *string                     `gorm:"type:text"`
	Tags           datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ExpiresAt      time.Time                   `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TemporaryMetadata) TableName() string {
	return "temporary_metadata"
}
