package model

import (
	"time"
)

// Prompt 调用历史记录，每次模型调用成功后追加一条，之后只读
type Prompt struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ModelID   int64     `gorm:"not null;index" json:"model_id"`
	Input     string    `gorm:"type:text;not null" json:"input"`
	Output    string    `gorm:"type:text" json:"output"` // 文本结果或产物 URL
	CreatedAt time.Time `json:"created_at"`

	// AIModel 自身也有 ModelID 字段，必须显式声明 belongs-to 的引用列
	Model *AIModel `gorm:"foreignKey:ModelID;references:ID" json:"model,omitempty"`
}

func (Prompt) TableName() string {
	return "prompts"
}
