package model

import (
	"time"
)

// 文件状态
const (
	FileStatusReady   = "ready"
	FileStatusDeleted = "deleted"
)

// File 用户上传或模型生成的文件元数据，实际内容存放在 OSS
type File struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	ObjectKey string     `gorm:"size:500;not null" json:"object_key"`
	URL       string     `gorm:"size:500" json:"url"`
	Size      int64      `json:"size"`
	Type      string     `gorm:"size:100" json:"type"`
	Status    string     `gorm:"size:20;default:ready" json:"status"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (File) TableName() string {
	return "files"
}
