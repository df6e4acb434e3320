package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

type ModelService struct {
	modelRepo *repository.ModelRepository
}

func NewModelService(modelRepo *repository.ModelRepository) *ModelService {
	return &ModelService{modelRepo: modelRepo}
}

// List 列出启用的模型，可按类型过滤
func (s *ModelService) List(modelType string) ([]model.AIModel, error) {
	return s.modelRepo.ListActive(modelType)
}

// Get 按目录标识查询模型
func (s *ModelService) Get(modelID string) (*model.AIModel, error) {
	m, err := s.modelRepo.GetByModelID(modelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	if !m.IsActive {
		return nil, ErrModelNotFound
	}
	return m, nil
}
