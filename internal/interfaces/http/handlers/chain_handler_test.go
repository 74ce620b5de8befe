package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"token-forge.backend/internal/domain/entities"
)

type chainRepoStub struct {
	chains []*entities.Chain
	err    error
}

func (s *chainRepoStub) GetByNetwork(_ context.Context, network string) (*entities.Chain, error) {
	for _, c := range s.chains {
		if c.Network == network {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *chainRepoStub) GetAll(_ context.Context) ([]*entities.Chain, error) {
	return s.chains, s.err
}

func TestChainHandler_ListChains(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChainHandler(&chainRepoStub{chains: []*entities.Chain{
		{Network: "base", Name: "Base", Type: entities.ChainTypeEVM},
		{Network: "solana", Name: "Solana", Type: entities.ChainTypeSVM},
	}})

	r := gin.New()
	r.GET("/api/v1/chains", handler.ListChains)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chains", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"base"`)
	require.Contains(t, w.Body.String(), `"solana"`)
}

func TestChainHandler_ListChainsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChainHandler(&chainRepoStub{err: errors.New("db down")})

	r := gin.New()
	r.GET("/api/v1/chains", handler.ListChains)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chains", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "ERR_INTERNAL")
}
