package model

import (
	"time"
)

// 套餐类型
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

type User struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash  *string    `gorm:"size:255" json:"-"`
	AvatarURL     string     `gorm:"size:500" json:"avatar_url"`
	GithubID      *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Plan          string     `gorm:"size:20;default:free" json:"plan"`
	Credits       int        `gorm:"default:0" json:"credits"` // 按次付费的超高级模型余额
	PlanExpiresAt *time.Time `json:"plan_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
