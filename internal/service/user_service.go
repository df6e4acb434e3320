package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

var ErrInvalidPlan = errors.New("invalid plan")

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile 获取用户信息
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = *req.Username
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdatePlan 变更套餐，premium 按 30 天续期
func (s *UserService) UpdatePlan(userID int64, plan string) (*dto.UserInfo, error) {
	if plan != model.PlanFree && plan != model.PlanPremium {
		return nil, ErrInvalidPlan
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"plan": plan,
	}
	if plan == model.PlanPremium {
		expiresAt := time.Now().Add(30 * 24 * time.Hour)
		fields["plan_expires_at"] = &expiresAt
	} else {
		fields["plan_expires_at"] = nil
	}

	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return nil, err
	}

	user, err = s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}

// AddCredits 充值按次付费积分
func (s *UserService) AddCredits(userID int64, amount int) (*dto.UserInfo, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.AddCredits(userID, amount); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}
