package dto

// InvokeTextRequest 文本生成请求
type InvokeTextRequest struct {
	ModelID string `json:"model_id" binding:"required"`
	Prompt  string `json:"prompt" binding:"required"`
}

// InvokeTextResponse 文本生成响应
type InvokeTextResponse struct {
	Text     string `json:"text"`
	PromptID int64  `json:"prompt_id,omitempty"`
}

// InvokeImageRequest 图像生成请求
type InvokeImageRequest struct {
	ModelID    string `json:"model_id" binding:"required"`
	Prompt     string `json:"prompt" binding:"required"`
	Style      string `json:"style,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
}

// InvokeImageResponse 图像生成响应
type InvokeImageResponse struct {
	ImageURL string `json:"image_url"`
	PromptID int64  `json:"prompt_id,omitempty"`
}

// InvokeVideoRequest 视频生成请求（异步）
type InvokeVideoRequest struct {
	ModelID string `json:"model_id" binding:"required"`
	Prompt  string `json:"prompt" binding:"required"`
}

// InvokeVideoResponse 视频生成响应，返回任务 ID 供轮询或 WebSocket 订阅
type InvokeVideoResponse struct {
	JobID  int64  `json:"job_id"`
	Status string `json:"status"`
}

// JobStatusResponse 任务状态查询响应
type JobStatusResponse struct {
	JobID          int64  `json:"job_id"`
	Status         string `json:"status"`
	CurrentStep    string `json:"current_step,omitempty"`
	OutputURL      string `json:"output_url,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds,omitempty"`
}
