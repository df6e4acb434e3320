package dto

// PromptListRequest 历史记录分页查询
type PromptListRequest struct {
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// PromptItem 历史记录条目
type PromptItem struct {
	ID        int64  `json:"id"`
	ModelID   int64  `json:"model_id"`
	ModelName string `json:"model_name,omitempty"`
	ModelType string `json:"model_type,omitempty"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	CreatedAt string `json:"created_at"`
}
