package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/api/middleware"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

type UsageHandler struct {
	usageService *service.UsageService
}

func NewUsageHandler(usageService *service.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

// Summary 用量汇总
// GET /api/v1/usage/summary?period=day|week|month
func (h *UsageHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	period := c.DefaultQuery("period", service.PeriodMonth)

	summary, err := h.usageService.Summarize(userID, period)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPeriod) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, summary)
}

// Records 审计记录分页列表
// GET /api/v1/usage/records?page=1&limit=20
func (h *UsageHandler) Records(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, total, err := h.usageService.ListRecords(userID, page, limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, limit, records)
}

// ModelCounts 各模型的调用计数
// GET /api/v1/usage/models
func (h *UsageHandler) ModelCounts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	counts, err := h.usageService.ListModelCounts(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, counts)
}
