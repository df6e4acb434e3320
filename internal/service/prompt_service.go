package service

import (
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

type PromptService struct {
	promptRepo *repository.PromptRepository
}

func NewPromptService(promptRepo *repository.PromptRepository) *PromptService {
	return &PromptService{promptRepo: promptRepo}
}

// List 分页查询用户的调用历史，时间倒序
func (s *PromptService) List(userID int64, req *dto.PromptListRequest) ([]dto.PromptItem, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	prompts, total, err := s.promptRepo.ListByUser(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.PromptItem, 0, len(prompts))
	for _, p := range prompts {
		item := dto.PromptItem{
			ID:        p.ID,
			ModelID:   p.ModelID,
			Input:     p.Input,
			Output:    p.Output,
			CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if p.Model != nil {
			item.ModelName = p.Model.Name
			item.ModelType = p.Model.Type
		}
		items = append(items, item)
	}
	return items, total, nil
}
