package model

import (
	"time"
)

// UsageRecord 只追加的用量审计记录，写入后不再修改或删除，
// 是成本对账的事实来源，与 ModelUsage 计数相互独立。
type UsageRecord struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;index:idx_user_time" json:"user_id"`
	APIKeyID   *int64    `gorm:"column:api_key_id" json:"api_key_id,omitempty"`
	Service    string    `gorm:"size:50;not null" json:"service"`
	Operation  string    `gorm:"size:50;not null" json:"operation"`
	ResourceID *string   `gorm:"size:100" json:"resource_id,omitempty"`
	Units      float64   `gorm:"not null;default:1" json:"units"`
	Cost       float64   `gorm:"not null;default:0" json:"cost"`
	StatusCode *int      `json:"status_code,omitempty"`
	Timestamp  time.Time `gorm:"not null;index:idx_user_time" json:"timestamp"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}
