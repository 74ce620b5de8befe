package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MaxDescriptionLength caps the metadata description field
const MaxDescriptionLength = 300

// Category tags a token can carry
const (
	TagDeFi           = "defi"
	TagMeme           = "meme"
	TagGaming         = "gaming"
	TagNFT            = "nft"
	TagDAO            = "dao"
	TagUtility        = "utility"
	TagStablecoin     = "stablecoin"
	TagInfrastructure = "infrastructure"
)

var allowedTags = map[string]struct{}{
	TagDeFi:           {},
	TagMeme:           {},
	TagGaming:         {},
	TagNFT:            {},
	TagDAO:            {},
	TagUtility:        {},
	TagStablecoin:     {},
	TagInfrastructure: {},
}

// IsValidTag reports whether tag is part of the fixed category enumeration
func IsValidTag(tag string) bool {
	_, ok := allowedTags[strings.ToLower(tag)]
	return ok
}

// TokenMetadata is the permanent metadata record bound to a deployed token
type TokenMetadata struct {
	ID            uuid.UUID   `json:"id"`
	TokenAddress  string      `json:"tokenAddress"`
	Network       string      `json:"network"`
	Name          string      `json:"name"`
	Symbol        string      `json:"symbol"`
	Description   string      `json:"description,omitempty"`
	LogoURL       null.String `json:"logoUrl,omitempty"`
	Website       null.String `json:"website,omitempty"`
	Twitter       null.String `json:"twitter,omitempty"`
	Telegram      null.String `json:"telegram,omitempty"`
	Discord       null.String `json:"discord,omitempty"`
	Whitepaper    null.String `json:"whitepaper,omitempty"`
	Github        null.String `json:"github,omitempty"`
	Tags          []string    `json:"tags"`
	Verified      bool        `json:"verified"`
	LastUpdatedBy null.String `json:"lastUpdatedBy,omitempty"`
	UpdateCount   int         `json:"updateCount"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// MetadataSession is a temporary pre-deployment metadata draft.
// It is keyed by a client-generated session ID and consumed by LinkSession.
type MetadataSession struct {
	ID             uuid.UUID   `json:"id"`
	SessionID      string      `json:"sessionId"`
	CreatorAddress string      `json:"creatorAddress"`
	Name           string      `json:"name"`
	Symbol         string      `json:"symbol"`
	Description    string      `json:"description,omitempty"`
	LogoData       null.String `json:"logoData,omitempty"`
	Website        null.String `json:"website,omitempty"`
	Twitter        null.String `json:"twitter,omitempty"`
	Telegram       null.String `json:"telegram,omitempty"`
	Discord        null.String `json:"discord,omitempty"`
	Whitepaper     null.String `json:"whitepaper,omitempty"`
	Github         null.String `json:"github,omitempty"`
	Tags           []string    `json:"tags"`
	ExpiresAt      time.Time   `json:"expiresAt"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *MetadataSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// MetadataHistory is an append-only audit entry capturing the record state
// before a successful update.
type MetadataHistory struct {
	ID           uuid.UUID      `json:"id"`
	TokenAddress string         `json:"tokenAddress"`
	Network      string         `json:"network"`
	UpdatedBy    string         `json:"updatedBy"`
	PreviousData *TokenMetadata `json:"previousData"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// MetadataFields carries the descriptive fields shared by create, update
// and session requests.
type MetadataFields struct {
	Name        string   `json:"name"`
	Symbol      string   `json:"symbol"`
	Description string   `json:"description"`
	LogoURL     string   `json:"logoUrl"`
	Website     string   `json:"website"`
	Twitter     string   `json:"twitter"`
	Telegram    string   `json:"telegram"`
	Discord     string   `json:"discord"`
	Whitepaper  string   `json:"whitepaper"`
	Github      string   `json:"github"`
	Tags        []string `json:"tags"`
}

// CreateMetadataInput is the body of POST /metadata
type CreateMetadataInput struct {
	TokenAddress string `json:"tokenAddress"`
	Network      string `json:"network"`
	MetadataFields
}

// UpdateMetadataInput is the body of PUT /metadata/:address
type UpdateMetadataInput struct {
	Network string `json:"network"`
	MetadataFields
}

// SessionInput is the body of POST /metadata/session
type SessionInput struct {
	SessionID string `json:"sessionId" binding:"required"`
	LogoData  string `json:"logoData"`
	MetadataFields
}

// LinkSessionInput is the body of POST /metadata/session/link
type LinkSessionInput struct {
	TokenAddress string `json:"tokenAddress" binding:"required"`
	SessionID    string `json:"sessionId" binding:"required"`
	Network      string `json:"network"`
}
