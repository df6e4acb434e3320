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

type InvokeHandler struct {
	invokeService *service.InvokeService
}

func NewInvokeHandler(invokeService *service.InvokeService) *InvokeHandler {
	return &InvokeHandler{invokeService: invokeService}
}

// InvokeText 文本生成
// POST /api/v1/invoke/text
func (h *InvokeHandler) InvokeText(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.InvokeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.invokeService.InvokeText(c.Request.Context(), userID, middleware.GetAPIKeyID(c), &req)
	if err != nil {
		writeInvokeError(c, err)
		return
	}

	response.Success(c, resp)
}

// InvokeImage 图像生成
// POST /api/v1/invoke/image
func (h *InvokeHandler) InvokeImage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.InvokeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.invokeService.InvokeImage(c.Request.Context(), userID, middleware.GetAPIKeyID(c), &req)
	if err != nil {
		writeInvokeError(c, err)
		return
	}

	response.Success(c, resp)
}

// InvokeVideo 视频生成（异步任务）
// POST /api/v1/invoke/video
func (h *InvokeHandler) InvokeVideo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.InvokeVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.invokeService.InvokeVideo(c.Request.Context(), userID, middleware.GetAPIKeyID(c), &req)
	if err != nil {
		writeInvokeError(c, err)
		return
	}

	response.Success(c, resp)
}

// JobStatus 查询异步任务状态
// GET /api/v1/invoke/jobs/:id
func (h *InvokeHandler) JobStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid job id")
		return
	}

	resp, err := h.invokeService.JobStatus(userID, jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFoundError(c, "Job not found")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// writeInvokeError 调用链错误到响应的统一映射
func writeInvokeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFoundError(c, "User not found")
	case errors.Is(err, service.ErrModelNotFound):
		response.NotFoundError(c, "Model not found")
	case errors.Is(err, service.ErrFreeLimitReached):
		response.UsageLimitError(c, err.Error())
	case errors.Is(err, service.ErrInsufficientCredits):
		response.PermissionError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
