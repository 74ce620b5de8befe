package models

import (
	"time"

	"github.com/google/uuid"
)

// Token is a row in the deployed-token registry. Written by the deployment
// flow, read-only here.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Address   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_tokens_network_address,priority:2"`
	Network   string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_tokens_network_address,priority:1"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Symbol    string    `gorm:"type:varchar(20);not null"`
	Decimals  int       `gorm:"not null;default:18"`
	Standard  string    `gorm:"type:varchar(20);not null;default:'ERC20'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Association
	Chain Chain `gorm:"foreignKey:Network;references:Network"`
}

func (Token) TableName() string {
	return "tokens"
}
