package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"token-forge.backend/internal/domain/entities"
	domainerrors "token-forge.backend/internal/domain/errors"
	"token-forge.backend/internal/interfaces/http/middleware"
	"token-forge.backend/internal/interfaces/http/response"
	"token-forge.backend/internal/usecases"
	"token-forge.backend/pkg/utils"
)

// MetadataHandler handles token metadata endpoints
type MetadataHandler struct {
	metadataUsecase *usecases.MetadataUsecase
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(metadataUsecase *usecases.MetadataUsecase) *MetadataHandler {
	return &MetadataHandler{metadataUsecase: metadataUsecase}
}

// GetMetadata returns the metadata record for a token
// GET /api/v1/metadata/:address
func (h *MetadataHandler) GetMetadata(c *gin.Context) {
	record, err := h.metadataUsecase.Get(c.Request.Context(), c.Param("address"), queryNetwork(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// CreateMetadata creates or upserts the metadata record for a token
// POST /api/v1/metadata
func (h *MetadataHandler) CreateMetadata(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	var input entities.CreateMetadataInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request body"))
		return
	}

	record, err := h.metadataUsecase.CreateOrUpdate(c.Request.Context(), &input, caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, record)
}

// UpdateMetadata updates an existing metadata record
// PUT /api/v1/metadata/:address
func (h *MetadataHandler) UpdateMetadata(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	var input entities.UpdateMetadataInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request body"))
		return
	}

	record, err := h.metadataUsecase.Update(c.Request.Context(), c.Param("address"), &input, caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// GetHistory returns the metadata audit trail for a token, newest first
// GET /api/v1/metadata/:address/history
func (h *MetadataHandler) GetHistory(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	pagination := utils.GetPaginationParams(page, limit)

	entries, total, err := h.metadataUsecase.GetHistory(c.Request.Context(), c.Param("address"), queryNetwork(c), caller, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"history":    entries,
		"pagination": utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// VerifyMetadata marks a token's metadata as verified (admin allow-list)
// POST /api/v1/metadata/:address/verify
func (h *MetadataHandler) VerifyMetadata(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	record, err := h.metadataUsecase.Verify(c.Request.Context(), c.Param("address"), queryNetwork(c), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// UpsertSession creates or refreshes a pre-deployment metadata session
// POST /api/v1/metadata/session
func (h *MetadataHandler) UpsertSession(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	var input entities.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("sessionId is required"))
		return
	}

	session, err := h.metadataUsecase.CreateOrRefreshSession(c.Request.Context(), &input, caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

// LinkSession binds a session onto a deployed token
// POST /api/v1/metadata/session/link
func (h *MetadataHandler) LinkSession(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	var input entities.LinkSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("tokenAddress and sessionId are required"))
		return
	}

	record, err := h.metadataUsecase.LinkSession(c.Request.Context(), &input, caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, record)
}

// UploadLogo stores a logo image and returns its durable URL
// POST /api/v1/metadata/upload-logo (multipart)
func (h *MetadataHandler) UploadLogo(c *gin.Context) {
	caller, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("wallet address missing from context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("could not read uploaded file"))
		return
	}
	defer file.Close()

	// Read one byte past the configured cap so an oversized file is
	// reported as a validation error, not silently truncated.
	data, err := io.ReadAll(io.LimitReader(file, h.metadataUsecase.MaxLogoBytes()+1))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("could not read uploaded file"))
		return
	}

	logoURL, err := h.metadataUsecase.UploadLogo(
		c.Request.Context(),
		c.PostForm("tokenAddress"),
		c.PostForm("network"),
		data,
		fileHeader.Filename,
		caller,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logoUrl": logoURL})
}

func queryNetwork(c *gin.Context) *string {
	if network := c.Query("network"); network != "" {
		return &network
	}
	return nil
}
