package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

type ModelsHandler struct {
	modelService *service.ModelService
}

func NewModelsHandler(modelService *service.ModelService) *ModelsHandler {
	return &ModelsHandler{modelService: modelService}
}

// List 列出可用模型
// GET /api/v1/models?type=text
func (h *ModelsHandler) List(c *gin.Context) {
	models, err := h.modelService.List(c.Query("type"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, models)
}

// Get 查询单个模型
// GET /api/v1/models/:model_id
func (h *ModelsHandler) Get(c *gin.Context) {
	m, err := h.modelService.Get(c.Param("model_id"))
	if err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			response.NotFoundError(c, "Model not found")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, m)
}
