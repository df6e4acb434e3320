package dto

// FileInfo 文件元数据
type FileInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

// DeleteFileRequest 删除文件请求
type DeleteFileRequest struct {
	FileID int64 `json:"file_id" binding:"required"`
}
