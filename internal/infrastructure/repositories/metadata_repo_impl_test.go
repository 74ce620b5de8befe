package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/pkg/utils"
)

func newMetadataRecord(address, network string) *entities.TokenMetadata {
	return &entities.TokenMetadata{
		TokenAddress:  address,
		Network:       network,
		Name:          "Forge Token",
		Symbol:        "FORGE",
		Description:   "a test token",
		Website:       null.StringFrom("https://forge.example"),
		Tags:          []string{"defi"},
		LastUpdatedBy: null.StringFrom("0xaaa0000000000000000000000000000000000001"),
		UpdateCount:   1,
	}
}

func TestMetadataRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	record := newMetadataRecord("0xAbC0000000000000000000000000000000000001", "base")
	require.NoError(t, repo.Create(ctx, record))
	require.NotEmpty(t, record.ID)

	// Lookups are case-insensitive: the row is stored lowercased.
	got, err := repo.GetByAddress(ctx, "0xABC0000000000000000000000000000000000001", nil)
	require.NoError(t, err)
	require.Equal(t, "0xabc0000000000000000000000000000000000001", got.TokenAddress)
	require.Equal(t, "Forge Token", got.Name)
	require.Equal(t, []string{"defi"}, got.Tags)
	require.Equal(t, 1, got.UpdateCount)
	require.False(t, got.Verified)

	network := "base"
	scoped, err := repo.GetByAddress(ctx, record.TokenAddress, &network)
	require.NoError(t, err)
	require.Equal(t, got.ID, scoped.ID)

	other := "ethereum"
	_, err = repo.GetByAddress(ctx, record.TokenAddress, &other)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByAddress(ctx, "0xdead", nil)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMetadataRepository_SameAddressTwoNetworks(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	addr := "0xabc0000000000000000000000000000000000001"
	require.NoError(t, repo.Create(ctx, newMetadataRecord(addr, "base")))
	require.NoError(t, repo.Create(ctx, newMetadataRecord(addr, "ethereum")))

	// Unscoped read resolves deterministically by network order.
	got, err := repo.GetByAddress(ctx, addr, nil)
	require.NoError(t, err)
	require.Equal(t, "base", got.Network)

	network := "ethereum"
	eth, err := repo.GetByAddress(ctx, addr, &network)
	require.NoError(t, err)
	require.Equal(t, "ethereum", eth.Network)

	// Duplicate (network, address) pair surfaces as a conflict, not a raw
	// driver error.
	require.ErrorIs(t, repo.Create(ctx, newMetadataRecord(addr, "base")), domainerrors.ErrConflict)
}

func TestMetadataRepository_UpdateWithHistory(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	prev := newMetadataRecord("0xabc0000000000000000000000000000000000001", "base")
	require.NoError(t, repo.Create(ctx, prev))

	updated := newMetadataRecord(prev.TokenAddress, prev.Network)
	updated.Name = "Forge Token v2"
	updated.Description = "renamed"
	updated.Tags = []string{"defi", "dao"}

	require.NoError(t, repo.UpdateWithHistory(ctx, updated, prev, "0xBBB0000000000000000000000000000000000002"))
	require.Equal(t, 2, updated.UpdateCount)
	require.Equal(t, "0xbbb0000000000000000000000000000000000002", updated.LastUpdatedBy.String)

	got, err := repo.GetByAddress(ctx, prev.TokenAddress, nil)
	require.NoError(t, err)
	require.Equal(t, "Forge Token v2", got.Name)
	require.Equal(t, 2, got.UpdateCount)
	require.Equal(t, []string{"defi", "dao"}, got.Tags)

	// Exactly one history row, carrying the pre-update state.
	entries, total, err := repo.ListHistory(ctx, prev.TokenAddress, prev.Network, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, "0xbbb0000000000000000000000000000000000002", entries[0].UpdatedBy)
	require.NotNil(t, entries[0].PreviousData)
	require.Equal(t, "Forge Token", entries[0].PreviousData.Name)
	require.Equal(t, 1, entries[0].PreviousData.UpdateCount)
}

func TestMetadataRepository_UpdateWithHistory_StaleCounter(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	prev := newMetadataRecord("0xabc0000000000000000000000000000000000001", "base")
	require.NoError(t, repo.Create(ctx, prev))

	first := newMetadataRecord(prev.TokenAddress, prev.Network)
	first.Name = "winner"
	require.NoError(t, repo.UpdateWithHistory(ctx, first, prev, "0xaaa0000000000000000000000000000000000001"))

	// Second writer still holds the original snapshot; its conditional
	// write must lose rather than clobber the audit trail.
	second := newMetadataRecord(prev.TokenAddress, prev.Network)
	second.Name = "loser"
	err := repo.UpdateWithHistory(ctx, second, prev, "0xccc0000000000000000000000000000000000003")
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	got, err := repo.GetByAddress(ctx, prev.TokenAddress, nil)
	require.NoError(t, err)
	require.Equal(t, "winner", got.Name)
	require.Equal(t, 2, got.UpdateCount)

	// The losing transaction rolled back its history row too.
	_, total, err := repo.ListHistory(ctx, prev.TokenAddress, prev.Network, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestMetadataRepository_UpdatePreservesVerifiedAndAddress(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	prev := newMetadataRecord("0xabc0000000000000000000000000000000000001", "base")
	require.NoError(t, repo.Create(ctx, prev))
	require.NoError(t, repo.SetVerified(ctx, prev.TokenAddress, prev.Network, true))

	updated := newMetadataRecord(prev.TokenAddress, prev.Network)
	updated.Name = "renamed"
	updated.Verified = false // column is not in the update set
	require.NoError(t, repo.UpdateWithHistory(ctx, updated, prev, "0xaaa0000000000000000000000000000000000001"))

	got, err := repo.GetByAddress(ctx, prev.TokenAddress, nil)
	require.NoError(t, err)
	require.True(t, got.Verified)
	require.Equal(t, prev.TokenAddress, got.TokenAddress)
	require.Equal(t, prev.Network, got.Network)
}

func TestMetadataRepository_SetVerified(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	record := newMetadataRecord("0xabc0000000000000000000000000000000000001", "base")
	require.NoError(t, repo.Create(ctx, record))

	require.NoError(t, repo.SetVerified(ctx, "0xABC0000000000000000000000000000000000001", "base", true))
	got, err := repo.GetByAddress(ctx, record.TokenAddress, nil)
	require.NoError(t, err)
	require.True(t, got.Verified)

	err = repo.SetVerified(ctx, "0xdead", "base", true)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMetadataRepository_ListHistoryPagination(t *testing.T) {
	db := newTestDB(t)
	createMetadataTables(t, db)
	repo := NewMetadataRepository(db)
	ctx := context.Background()

	prev := newMetadataRecord("0xabc0000000000000000000000000000000000001", "base")
	require.NoError(t, repo.Create(ctx, prev))

	for i := 0; i < 3; i++ {
		updated := newMetadataRecord(prev.TokenAddress, prev.Network)
		updated.Description = "rev"
		require.NoError(t, repo.UpdateWithHistory(ctx, updated, prev, "0xaaa0000000000000000000000000000000000001"))
		prev = updated
	}

	entries, total, err := repo.ListHistory(ctx, prev.TokenAddress, prev.Network, utils.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, entries, 2)

	rest, _, err := repo.ListHistory(ctx, prev.TokenAddress, prev.Network, utils.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
}
