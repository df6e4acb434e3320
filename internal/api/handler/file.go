package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/api/middleware"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

type FileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload 上传文件
// POST /api/v1/files (multipart form, field "file")
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "missing file")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	info, err := h.fileService.Upload(userID, fileHeader.Filename, data, contentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrFileTypeNotAllowed):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// List 文件列表
// GET /api/v1/files
func (h *FileHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	files, err := h.fileService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, files)
}

// Delete 删除文件
// DELETE /api/v1/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	fileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid file id")
		return
	}

	if err := h.fileService.Delete(userID, fileID); err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			response.NotFoundError(c, "File not found")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, nil)
}
