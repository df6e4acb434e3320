package repository

import (
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

// ModelRepository 模型目录只读访问（种子数据由 cmd/seed 写入）
type ModelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

func (r *ModelRepository) GetByID(id int64) (*model.AIModel, error) {
	var m model.AIModel
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ModelRepository) GetByModelID(modelID string) (*model.AIModel, error) {
	var m model.AIModel
	err := r.db.Where("model_id = ?", modelID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActive 列出启用的模型，modelType 为空时不过滤类型
func (r *ModelRepository) ListActive(modelType string) ([]model.AIModel, error) {
	query := r.db.Where("is_active = ?", true)
	if modelType != "" {
		query = query.Where("type = ?", modelType)
	}

	var models []model.AIModel
	err := query.Order("id ASC").Find(&models).Error
	return models, err
}
