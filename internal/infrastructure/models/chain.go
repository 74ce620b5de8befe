package models

import (
	"time"

	"github.com/google/uuid"
)

// Chain is a row in the supported-network registry
type Chain struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Network     string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name        string    `gorm:"type:varchar(100);not null"`
	ChainType   string    `gorm:"type:varchar(20);not null;default:'EVM'"`
	RPCURL      string    `gorm:"type:text;not null"`
	ExplorerURL string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Chain) TableName() string {
	return "chains"
}
