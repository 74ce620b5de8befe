package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
)

func TestTokenRepository_GetByAddress(t *testing.T) {
	db := newTestDB(t)
	createChainTable(t, db)
	createTokenTable(t, db)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	seedChain(t, db, uuid.New().String(), "base", "Base", "EVM", "https://rpc.base.example")
	seedToken(t, db, uuid.New().String(), "0xabc0000000000000000000000000000000000001", "base", "Forge Token", "FORGE")

	got, err := repo.GetByAddress(ctx, "0xABC0000000000000000000000000000000000001", nil)
	require.NoError(t, err)
	require.Equal(t, "FORGE", got.Symbol)
	require.Equal(t, entities.TokenStandard("ERC20"), got.Standard)
	require.NotNil(t, got.Chain)
	require.Equal(t, entities.ChainTypeEVM, got.Chain.Type)
	require.Equal(t, "https://rpc.base.example", got.Chain.RPCURL)

	network := "base"
	scoped, err := repo.GetByAddress(ctx, "0xabc0000000000000000000000000000000000001", &network)
	require.NoError(t, err)
	require.Equal(t, got.ID, scoped.ID)

	other := "ethereum"
	_, err = repo.GetByAddress(ctx, "0xabc0000000000000000000000000000000000001", &other)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByAddress(ctx, "0xdead", nil)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestChainRepository_Queries(t *testing.T) {
	db := newTestDB(t)
	createChainTable(t, db)
	repo := NewChainRepository(db)
	ctx := context.Background()

	seedChain(t, db, uuid.New().String(), "solana", "Solana", "SVM", "https://rpc.solana.example")
	seedChain(t, db, uuid.New().String(), "base", "Base", "evm", "https://rpc.base.example")

	chain, err := repo.GetByNetwork(ctx, "solana")
	require.NoError(t, err)
	require.Equal(t, entities.ChainTypeSVM, chain.Type)

	// Chain type is normalized to upper case on read.
	base, err := repo.GetByNetwork(ctx, "base")
	require.NoError(t, err)
	require.Equal(t, entities.ChainTypeEVM, base.Type)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "base", all[0].Network)

	_, err = repo.GetByNetwork(ctx, "nope")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
