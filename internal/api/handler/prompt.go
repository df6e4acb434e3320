package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/api/middleware"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

type PromptHandler struct {
	promptService *service.PromptService
}

func NewPromptHandler(promptService *service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// List 调用历史分页列表
// GET /api/v1/prompts?page=1&limit=10
func (h *PromptHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PromptListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.promptService.List(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, req.Page, req.Limit, items)
}
