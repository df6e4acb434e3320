package repository

import (
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) Create(prompt *model.Prompt) error {
	return r.db.Create(prompt).Error
}

// ListByUser 分页查询用户历史记录，按创建时间倒序，带模型信息
func (r *PromptRepository) ListByUser(userID int64, page, limit int) ([]model.Prompt, int64, error) {
	var total int64
	if err := r.db.Model(&model.Prompt{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var prompts []model.Prompt
	err := r.db.Where("user_id = ?", userID).
		Preload("Model").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&prompts).Error
	return prompts, total, err
}
