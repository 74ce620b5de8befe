package entities

import (
	"time"

	"github.com/google/uuid"
)

// TokenStandard represents the on-chain token standard
type TokenStandard string

const (
	TokenStandardERC20 TokenStandard = "ERC20"
	TokenStandardSPL   TokenStandard = "SPL"
)

// Token represents a deployed token contract or mint known to the platform.
// The metadata service reads this registry to learn a token's network and
// never writes to it.
type Token struct {
	ID        uuid.UUID     `json:"id"`
	Address   string        `json:"address"`
	Network   string        `json:"network"`
	Name      string        `json:"name"`
	Symbol    string        `json:"symbol"`
	Decimals  int           `json:"decimals"`
	Standard  TokenStandard `json:"standard"`
	CreatedAt time.Time     `json:"createdAt"`

	// Joined field
	Chain *Chain `json:"chain,omitempty"`
}
