package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrModelNotFound       = errors.New("model not found")
	ErrFreeLimitReached    = errors.New("Free usage limit reached")
	ErrInsufficientCredits = errors.New("Insufficient credits for ultra-premium model")
)

// EntitlementService 模型调用的准入判定
type EntitlementService struct {
	userRepo  *repository.UserRepository
	modelRepo *repository.ModelRepository
	usageRepo *repository.UsageRepository
	cfg       *config.Config
}

func NewEntitlementService(
	userRepo *repository.UserRepository,
	modelRepo *repository.ModelRepository,
	usageRepo *repository.UsageRepository,
	cfg *config.Config,
) *EntitlementService {
	return &EntitlementService{
		userRepo:  userRepo,
		modelRepo: modelRepo,
		usageRepo: usageRepo,
		cfg:       cfg,
	}
}

// Check 判定用户能否调用指定模型
//
// 纯读操作，不修改计数器。判定与计数分两步执行，同一 (user, model)
// 的并发请求可能都读到 count == 2 并同时放行，免费额度是软限制，
// 最多多放行一次，这是接受的既定行为而不是待修复的竞态。
//
// 返回解析后的用户与模型供调用方复用；拒绝以哨兵错误表达：
// ErrUserNotFound / ErrModelNotFound / ErrFreeLimitReached /
// ErrInsufficientCredits。其他错误视为存储不可用。
func (s *EntitlementService) Check(userID int64, modelID string) (*model.User, *model.AIModel, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	m, err := s.modelRepo.GetByModelID(modelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrModelNotFound
		}
		return nil, nil, err
	}
	// 下架模型等同不存在
	if !m.IsActive {
		return nil, nil, ErrModelNotFound
	}

	// 1. 免费层模型任何人可用，不查计数器
	if m.Tier == model.TierFree {
		return user, m, nil
	}

	// 2. ultra-premium 模型按次付费，任何套餐都要求至少 1 个积分
	//    （扣减在调用成功后由计费侧处理，这里只做前置校验）
	if m.Tier == model.TierUltraPremium {
		if user.Credits < 1 {
			return nil, nil, ErrInsufficientCredits
		}
		return user, m, nil
	}

	// 3. premium 套餐不限量
	if user.Plan == model.PlanPremium {
		return user, m, nil
	}

	// 4. 免费套餐查计数器，不存在按 0 计
	count, err := s.usageRepo.GetCount(user.ID, m.ID)
	if err != nil {
		return nil, nil, err
	}
	if count >= s.cfg.Entitlement.FreeLimit() {
		return nil, nil, ErrFreeLimitReached
	}

	return user, m, nil
}
