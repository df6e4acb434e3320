package model

import (
	"time"
)

// 任务状态
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// GenerationJob 异步生成任务（目前仅视频模型走队列）
type GenerationJob struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	ModelID        int64      `gorm:"not null" json:"model_id"`
	APIKeyID       *int64     `gorm:"column:api_key_id" json:"api_key_id,omitempty"`
	Input          string     `gorm:"type:text;not null" json:"input"`
	OutputURL      string     `gorm:"size:500" json:"output_url"`
	Status         string     `gorm:"size:20;default:queued;index" json:"status"`
	CurrentStep    string     `gorm:"size:100" json:"current_step"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (GenerationJob) TableName() string {
	return "generation_jobs"
}
