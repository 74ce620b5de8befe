package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChainType represents blockchain type
type ChainType string

const (
	ChainTypeEVM ChainType = "EVM"
	ChainTypeSVM ChainType = "SVM"
)

// Chain represents a blockchain network
type Chain struct {
	ID          uuid.UUID `json:"id"`
	Network     string    `json:"network"`
	Name        string    `json:"name"`
	Type        ChainType `json:"type"`
	RPCURL      string    `json:"rpcUrl"`
	ExplorerURL string    `json:"explorerUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
