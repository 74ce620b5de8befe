package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"token-forge.backend/internal/domain/repositories"
	"token-forge.backend/internal/interfaces/http/response"
)

// ChainHandler handles chain registry endpoints
type ChainHandler struct {
	chainRepo repositories.ChainRepository
}

// NewChainHandler creates a new chain handler
func NewChainHandler(chainRepo repositories.ChainRepository) *ChainHandler {
	return &ChainHandler{chainRepo: chainRepo}
}

// ListChains lists the supported networks
// GET /api/v1/chains
func (h *ChainHandler) ListChains(c *gin.Context) {
	chains, err := h.chainRepo.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chains": chains})
}
