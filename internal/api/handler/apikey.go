package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/api/middleware"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

type APIKeyHandler struct {
	apiKeyService *service.APIKeyService
}

func NewAPIKeyHandler(apiKeyService *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// Create 创建 API Key
// POST /api/v1/apikeys
func (h *APIKeyHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.apiKeyService.Create(userID, req.Name)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// List API Key 列表（掩码）
// GET /api/v1/apikeys
func (h *APIKeyHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	keys, err := h.apiKeyService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, keys)
}

// Revoke 吊销 API Key
// DELETE /api/v1/apikeys/:id
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	keyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid key id")
		return
	}

	if err := h.apiKeyService.Revoke(userID, keyID); err != nil {
		if errors.Is(err, service.ErrAPIKeyNotFound) {
			response.NotFoundError(c, "API key not found")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, nil)
}
