package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/internal/domain/repositories"
	"token-forge.backend/internal/infrastructure/blockchain"
	"token-forge.backend/internal/metrics"
)

// OwnerResolver resolves the current on-chain owner of a token. The result
// is authoritative ground truth and is re-derived on every call; callers
// must never cache it across requests.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, tokenAddress, network string) (string, error)
}

// ChainOwnerResolver resolves ownership through the RPC endpoint recorded
// for the token's network.
type ChainOwnerResolver struct {
	chainRepo     repositories.ChainRepository
	clientFactory *blockchain.ClientFactory
	timeout       time.Duration
}

// NewChainOwnerResolver creates a new chain-backed owner resolver
func NewChainOwnerResolver(chainRepo repositories.ChainRepository, clientFactory *blockchain.ClientFactory, timeout time.Duration) *ChainOwnerResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ChainOwnerResolver{
		chainRepo:     chainRepo,
		clientFactory: clientFactory,
		timeout:       timeout,
	}
}

// ResolveOwner returns the lowercase owner address of the token contract
// or mint. Every failure path returns an error; the caller decides what
// denial looks like.
func (r *ChainOwnerResolver) ResolveOwner(ctx context.Context, tokenAddress, network string) (owner string, err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.OwnerLookupsTotal.WithLabelValues(network, outcome).Inc()
	}()

	chain, err := r.chainRepo.GetByNetwork(ctx, network)
	if err != nil {
		return "", fmt.Errorf("no chain configured for network %s: %w", network, err)
	}
	if chain.RPCURL == "" {
		return "", fmt.Errorf("chain %s has no RPC endpoint", network)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch chain.Type {
	case entities.ChainTypeEVM:
		client, err := r.clientFactory.GetEVMClient(chain.RPCURL)
		if err != nil {
			return "", err
		}
		owner, err := client.Owner(callCtx, tokenAddress)
		if err != nil {
			return "", err
		}
		return strings.ToLower(owner), nil

	case entities.ChainTypeSVM:
		client := r.clientFactory.GetSolanaClient(chain.RPCURL)
		authority, err := client.MintAuthority(callCtx, tokenAddress)
		if err != nil {
			return "", err
		}
		return strings.ToLower(authority), nil

	default:
		return "", domainerrors.ErrUnsupportedChain
	}
}
