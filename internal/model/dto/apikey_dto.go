package dto

// CreateAPIKeyRequest 创建 API Key 请求
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateAPIKeyResponse 创建响应，完整 key 只在这里返回一次
type CreateAPIKeyResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Key       string `json:"key"`
	CreatedAt string `json:"created_at"`
}

// APIKeyInfo 列表条目，key 已掩码
type APIKeyInfo struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	MaskedKey  string `json:"key"`
	IsActive   bool   `json:"is_active"`
	LastUsedAt string `json:"last_used_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}
