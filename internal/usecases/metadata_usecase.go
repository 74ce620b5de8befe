package usecases

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/internal/domain/repositories"
	"token-forge.backend/internal/infrastructure/storage"
	"token-forge.backend/pkg/logger"
	"token-forge.backend/pkg/utils"
)

// MetadataUsecase handles token metadata business logic
type MetadataUsecase struct {
	metadataRepo  repositories.MetadataRepository
	sessionRepo   repositories.SessionRepository
	tokenRepo     repositories.TokenRepository
	ownerResolver OwnerResolver
	assetStore    storage.AssetStore
	adminAddrs    map[string]struct{}
	sessionTTL    time.Duration
	maxLogoBytes  int64
	now           func() time.Time
}

// NewMetadataUsecase creates a new metadata usecase
func NewMetadataUsecase(
	metadataRepo repositories.MetadataRepository,
	sessionRepo repositories.SessionRepository,
	tokenRepo repositories.TokenRepository,
	ownerResolver OwnerResolver,
	assetStore storage.AssetStore,
	adminAddresses []string,
	sessionTTL time.Duration,
	maxLogoBytes int64,
) *MetadataUsecase {
	admins := make(map[string]struct{}, len(adminAddresses))
	for _, addr := range adminAddresses {
		admins[strings.ToLower(addr)] = struct{}{}
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if maxLogoBytes <= 0 {
		maxLogoBytes = storage.MaxLogoBytes
	}
	return &MetadataUsecase{
		metadataRepo:  metadataRepo,
		sessionRepo:   sessionRepo,
		tokenRepo:     tokenRepo,
		ownerResolver: ownerResolver,
		assetStore:    assetStore,
		adminAddrs:    admins,
		sessionTTL:    sessionTTL,
		maxLogoBytes:  maxLogoBytes,
		now:           time.Now,
	}
}

// MaxLogoBytes reports the configured logo size cap.
func (u *MetadataUsecase) MaxLogoBytes() int64 {
	return u.maxLogoBytes
}

// Get returns the metadata record for a token address. Public read, no
// authorization.
func (u *MetadataUsecase) Get(ctx context.Context, address string, network *string) (*entities.TokenMetadata, error) {
	record, err := u.metadataRepo.GetByAddress(ctx, strings.ToLower(address), network)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("metadata not found for token " + strings.ToLower(address))
		}
		return nil, err
	}
	return record, nil
}

// CreateOrUpdate creates the metadata record for a deployed token, or
// updates it if one already exists. With a token address the caller must be
// its current on-chain owner; without one the record is a provisional
// pre-deployment draft, stored with no ownership check and no attribution.
func (u *MetadataUsecase) CreateOrUpdate(ctx context.Context, input *entities.CreateMetadataInput, callerAddress string) (*entities.TokenMetadata, error) {
	if err := validateFields(&input.MetadataFields); err != nil {
		return nil, err
	}

	address := strings.ToLower(input.TokenAddress)
	caller := strings.ToLower(callerAddress)
	network := input.Network

	attributed := address != ""
	if attributed {
		token, err := u.tokenRepo.GetByAddress(ctx, address, optional(input.Network))
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return nil, domainerrors.NotFound("token " + address + " is not registered")
			}
			return nil, err
		}
		network = token.Network

		if err := u.authorizeOwner(ctx, address, network, caller); err != nil {
			return nil, err
		}
	}

	existing, err := u.metadataRepo.GetByAddress(ctx, address, optional(network))
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}

	if existing != nil {
		record := buildRecord(address, existing.Network, &input.MetadataFields, existing)
		if err := u.metadataRepo.UpdateWithHistory(ctx, record, existing, caller); err != nil {
			if err == domainerrors.ErrConflict {
				return nil, domainerrors.Conflict("metadata was modified concurrently, retry")
			}
			return nil, err
		}
		return record, nil
	}

	record := buildRecord(address, network, &input.MetadataFields, nil)
	if attributed {
		record.LastUpdatedBy = null.StringFrom(caller)
		record.UpdateCount = 1
	}
	if err := u.metadataRepo.Create(ctx, record); err != nil {
		if err == domainerrors.ErrConflict {
			return nil, domainerrors.Conflict("metadata was created concurrently, retry")
		}
		return nil, err
	}
	return record, nil
}

// Update overwrites the supplied fields of an existing record, increments
// the update counter and writes one history entry with the prior state.
func (u *MetadataUsecase) Update(ctx context.Context, address string, input *entities.UpdateMetadataInput, callerAddress string) (*entities.TokenMetadata, error) {
	if err := validateFields(&input.MetadataFields); err != nil {
		return nil, err
	}

	address = strings.ToLower(address)
	caller := strings.ToLower(callerAddress)

	existing, err := u.metadataRepo.GetByAddress(ctx, address, optional(input.Network))
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("metadata not found for token " + address)
		}
		return nil, err
	}

	if err := u.authorizeOwner(ctx, address, existing.Network, caller); err != nil {
		return nil, err
	}

	record := buildRecord(address, existing.Network, &input.MetadataFields, existing)
	if err := u.metadataRepo.UpdateWithHistory(ctx, record, existing, caller); err != nil {
		if err == domainerrors.ErrConflict {
			return nil, domainerrors.Conflict("metadata was modified concurrently, retry")
		}
		return nil, err
	}
	return record, nil
}

// GetHistory returns the audit trail for a token, newest first. Owner only.
func (u *MetadataUsecase) GetHistory(ctx context.Context, address string, network *string, callerAddress string, pagination utils.PaginationParams) ([]*entities.MetadataHistory, int64, error) {
	address = strings.ToLower(address)
	caller := strings.ToLower(callerAddress)

	record, err := u.metadataRepo.GetByAddress(ctx, address, network)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, 0, domainerrors.NotFound("metadata not found for token " + address)
		}
		return nil, 0, err
	}

	if err := u.authorizeOwner(ctx, address, record.Network, caller); err != nil {
		return nil, 0, err
	}

	return u.metadataRepo.ListHistory(ctx, address, record.Network, pagination)
}

// Verify marks a token's metadata as verified. Restricted to the
// configured admin allow-list.
func (u *MetadataUsecase) Verify(ctx context.Context, address string, network *string, callerAddress string) (*entities.TokenMetadata, error) {
	address = strings.ToLower(address)
	caller := strings.ToLower(callerAddress)

	if _, ok := u.adminAddrs[caller]; !ok {
		return nil, domainerrors.Forbidden("caller is not on the verification allow-list")
	}

	record, err := u.metadataRepo.GetByAddress(ctx, address, network)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("metadata not found for token " + address)
		}
		return nil, err
	}

	if err := u.metadataRepo.SetVerified(ctx, address, record.Network, true); err != nil {
		return nil, err
	}
	record.Verified = true

	logger.Info(ctx, "Metadata verified",
		zap.String("token", address),
		zap.String("network", record.Network),
		zap.String("by", caller),
	)
	return record, nil
}

// CreateOrRefreshSession upserts a pre-deployment metadata draft. Every
// call, insert or refresh, resets the expiry window.
func (u *MetadataUsecase) CreateOrRefreshSession(ctx context.Context, input *entities.SessionInput, callerAddress string) (*entities.MetadataSession, error) {
	if input.SessionID == "" {
		return nil, domainerrors.BadRequest("sessionId is required")
	}
	if err := validateFields(&input.MetadataFields); err != nil {
		return nil, err
	}
	if input.LogoData != "" {
		if _, err := decodeLogoData(input.LogoData); err != nil {
			return nil, domainerrors.BadRequest("logoData is not valid base64 image data")
		}
	}

	session := &entities.MetadataSession{
		SessionID:      input.SessionID,
		CreatorAddress: strings.ToLower(callerAddress),
		Name:           input.Name,
		Symbol:         input.Symbol,
		Description:    input.Description,
		LogoData:       optionalNull(input.LogoData),
		Website:        optionalNull(input.Website),
		Twitter:        optionalNull(input.Twitter),
		Telegram:       optionalNull(input.Telegram),
		Discord:        optionalNull(input.Discord),
		Whitepaper:     optionalNull(input.Whitepaper),
		Github:         optionalNull(input.Github),
		Tags:           normalizeTags(input.Tags),
		ExpiresAt:      u.now().Add(u.sessionTTL),
	}

	if err := u.sessionRepo.Upsert(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// LinkSession binds a pre-deployment session onto a deployed token,
// producing or updating its metadata record and consuming the session.
// On any failure before the write, nothing is created, altered or deleted.
func (u *MetadataUsecase) LinkSession(ctx context.Context, input *entities.LinkSessionInput, callerAddress string) (*entities.TokenMetadata, error) {
	address := strings.ToLower(input.TokenAddress)
	caller := strings.ToLower(callerAddress)

	token, err := u.tokenRepo.GetByAddress(ctx, address, optional(input.Network))
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("token " + address + " is not registered")
		}
		return nil, err
	}

	if err := u.authorizeOwner(ctx, address, token.Network, caller); err != nil {
		return nil, err
	}

	session, err := u.sessionRepo.GetValid(ctx, input.SessionID, u.now())
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("session " + input.SessionID + " not found or expired")
		}
		return nil, err
	}
	if session.CreatorAddress != caller {
		// A session belongs to its creator; anyone else sees it as absent.
		return nil, domainerrors.NotFound("session " + input.SessionID + " not found or expired")
	}

	fields := &entities.MetadataFields{
		Name:        session.Name,
		Symbol:      session.Symbol,
		Description: session.Description,
		Website:     session.Website.String,
		Twitter:     session.Twitter.String,
		Telegram:    session.Telegram.String,
		Discord:     session.Discord.String,
		Whitepaper:  session.Whitepaper.String,
		Github:      session.Github.String,
		Tags:        session.Tags,
	}

	// Best effort: a failing asset store must not fail the link.
	if session.LogoData.Valid && session.LogoData.String != "" {
		if logoURL, err := u.materializeLogo(ctx, address, session.LogoData.String); err != nil {
			logger.Warn(ctx, "Logo materialization failed, linking without logo",
				zap.String("token", address),
				zap.Error(err),
			)
		} else {
			fields.LogoURL = logoURL
		}
	}

	existing, err := u.metadataRepo.GetByAddress(ctx, address, &token.Network)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}

	var record *entities.TokenMetadata
	if existing != nil {
		record = buildRecord(address, token.Network, fields, existing)
		if err := u.metadataRepo.UpdateWithHistory(ctx, record, existing, caller); err != nil {
			if err == domainerrors.ErrConflict {
				return nil, domainerrors.Conflict("metadata was modified concurrently, retry")
			}
			return nil, err
		}
	} else {
		record = buildRecord(address, token.Network, fields, nil)
		record.LastUpdatedBy = null.StringFrom(caller)
		record.UpdateCount = 1
		if err := u.metadataRepo.Create(ctx, record); err != nil {
			if err == domainerrors.ErrConflict {
				return nil, domainerrors.Conflict("metadata was created concurrently, retry")
			}
			return nil, err
		}
	}

	// The session is consumed exactly once; deletion failure after a
	// successful write is logged, not surfaced, since the sweep will
	// collect the leftover row.
	if err := u.sessionRepo.Delete(ctx, input.SessionID); err != nil {
		logger.Error(ctx, "Failed to delete consumed session",
			zap.String("session", input.SessionID),
			zap.Error(err),
		)
	}

	logger.Info(ctx, "Session linked to token",
		zap.String("session", input.SessionID),
		zap.String("token", address),
		zap.String("network", token.Network),
	)
	return record, nil
}

// UploadLogo validates and stores a logo image. When a token address is
// supplied the caller must be its owner and the resulting URL is persisted
// onto the record; without one the asset is provisional and only the URL
// is returned.
func (u *MetadataUsecase) UploadLogo(ctx context.Context, tokenAddress, network string, data []byte, filename, callerAddress string) (string, error) {
	if err := storage.ValidateLogo(data, u.maxLogoBytes); err != nil {
		return "", err
	}

	caller := strings.ToLower(callerAddress)
	address := strings.ToLower(tokenAddress)

	var existing *entities.TokenMetadata
	if address != "" {
		var err error
		existing, err = u.metadataRepo.GetByAddress(ctx, address, optional(network))
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return "", domainerrors.NotFound("metadata not found for token " + address)
			}
			return "", err
		}
		if err := u.authorizeOwner(ctx, address, existing.Network, caller); err != nil {
			return "", err
		}
	}

	if filename == "" {
		filename = "logo" + storage.LogoExtension(data)
	}
	logoURL, err := u.assetStore.Store(ctx, data, filename)
	if err != nil {
		return "", domainerrors.UpstreamUnavailable("failed to store logo", err)
	}

	if existing != nil {
		record := *existing
		record.LogoURL = null.StringFrom(logoURL)
		if err := u.metadataRepo.UpdateWithHistory(ctx, &record, existing, caller); err != nil {
			// The asset is already stored; surface the failed persist
			// rather than silently dropping it. The orphaned remote object
			// is a benign cost.
			if err == domainerrors.ErrConflict {
				return "", domainerrors.Conflict("metadata was modified concurrently, retry")
			}
			return "", err
		}
	}

	return logoURL, nil
}

// authorizeOwner re-resolves on-chain ownership at call time and compares
// it to the caller. Any resolver failure is fail-closed: an RPC outage
// must not grant write access.
func (u *MetadataUsecase) authorizeOwner(ctx context.Context, address, network, caller string) error {
	owner, err := u.ownerResolver.ResolveOwner(ctx, address, network)
	if err != nil {
		logger.Warn(ctx, "Owner resolution failed, denying access",
			zap.String("token", address),
			zap.String("network", network),
			zap.Error(err),
		)
		return domainerrors.Forbidden("could not verify token ownership")
	}
	if !strings.EqualFold(owner, caller) {
		return domainerrors.Forbidden("caller is not the token owner")
	}
	return nil
}

func (u *MetadataUsecase) materializeLogo(ctx context.Context, address, logoData string) (string, error) {
	data, err := decodeLogoData(logoData)
	if err != nil {
		return "", err
	}
	if err := storage.ValidateLogo(data, u.maxLogoBytes); err != nil {
		return "", err
	}
	return u.assetStore.Store(ctx, data, address+storage.LogoExtension(data))
}

// decodeLogoData decodes inline base64 image data, tolerating a data-URI
// prefix.
func decodeLogoData(logoData string) ([]byte, error) {
	if idx := strings.Index(logoData, ","); idx != -1 && strings.HasPrefix(logoData, "data:") {
		logoData = logoData[idx+1:]
	}
	return base64.StdEncoding.DecodeString(logoData)
}

// buildRecord assembles a full record from the supplied fields, carrying
// immutable attributes over from the prior state when present.
func buildRecord(address, network string, fields *entities.MetadataFields, prev *entities.TokenMetadata) *entities.TokenMetadata {
	record := &entities.TokenMetadata{
		TokenAddress: address,
		Network:      network,
		Name:         fields.Name,
		Symbol:       fields.Symbol,
		Description:  fields.Description,
		LogoURL:      optionalNull(fields.LogoURL),
		Website:      optionalNull(fields.Website),
		Twitter:      optionalNull(fields.Twitter),
		Telegram:     optionalNull(fields.Telegram),
		Discord:      optionalNull(fields.Discord),
		Whitepaper:   optionalNull(fields.Whitepaper),
		Github:       optionalNull(fields.Github),
		Tags:         normalizeTags(fields.Tags),
	}

	if prev != nil {
		record.ID = prev.ID
		record.Verified = prev.Verified
		record.CreatedAt = prev.CreatedAt
		if !record.LogoURL.Valid {
			record.LogoURL = prev.LogoURL
		}
	}
	return record
}

// validateFields enforces the field constraints shared by create, update
// and session payloads.
func validateFields(f *entities.MetadataFields) error {
	if len(f.Description) > entities.MaxDescriptionLength {
		return domainerrors.BadRequest(fmt.Sprintf("description exceeds %d characters", entities.MaxDescriptionLength))
	}

	links := map[string]string{
		"logoUrl":    f.LogoURL,
		"website":    f.Website,
		"twitter":    f.Twitter,
		"telegram":   f.Telegram,
		"discord":    f.Discord,
		"whitepaper": f.Whitepaper,
		"github":     f.Github,
	}
	for name, value := range links {
		if value != "" && !strings.HasPrefix(value, "https://") {
			return domainerrors.BadRequest(name + " must start with https://")
		}
	}

	for _, tag := range f.Tags {
		if !entities.IsValidTag(tag) {
			return domainerrors.BadRequest("unknown tag: " + tag)
		}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalNull(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
