package model

import (
	"time"
)

// 模型等级
const (
	TierFree         = "free"
	TierPremium      = "premium"
	TierUltraPremium = "ultra-premium"
)

// 模型类型
const (
	ModelTypeText  = "text"
	ModelTypeImage = "image"
	ModelTypeVideo = "video"
)

// AIModel 模型目录条目，由 cmd/seed 预置，对业务层只读
type AIModel struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:20;not null;index" json:"type"` // text, image, video
	Tier        string    `gorm:"size:20;not null" json:"tier"`       // free, premium, ultra-premium
	Provider    string    `gorm:"size:50;not null" json:"provider"`
	ModelID     string    `gorm:"column:model_id;size:100;uniqueIndex;not null" json:"model_id"` // 提供商侧的模型标识
	// 不能带 default 标签：GORM 创建时会跳过零值字段，false 将永远写不进去
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AIModel) TableName() string {
	return "models"
}
