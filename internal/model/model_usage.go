package model

import (
	"time"
)

// ModelUsage 用户对单个付费模型的累计调用计数
// 唯一键 (user_id, model_id)，首次调用成功时惰性创建，之后只增不减。
// 免费等级模型不计数，该计数只服务于免费套餐的次数上限。
type ModelUsage struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uniq_user_model" json:"user_id"`
	ModelID   int64     `gorm:"not null;uniqueIndex:uniq_user_model" json:"model_id"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ModelUsage) TableName() string {
	return "model_usages"
}
