package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        &email,
		PasswordHash: &passwordHash,
		Plan:         model.PlanFree,
		Credits:      0,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPlan 设置套餐
func WithPlan(plan string) func(*model.User) {
	return func(u *model.User) {
		u.Plan = plan
	}
}

// WithCredits 设置积分余额
func WithCredits(credits int) func(*model.User) {
	return func(u *model.User) {
		u.Credits = credits
	}
}

// WithGithubID 设置 GitHub ID
func WithGithubID(githubID string) func(*model.User) {
	return func(u *model.User) {
		u.GithubID = &githubID
	}
}

// TestModel 创建测试模型目录条目
func TestModel(t *testing.T, db *gorm.DB, opts ...func(*model.AIModel)) *model.AIModel {
	t.Helper()

	seq := nextSeq()
	m := &model.AIModel{
		Name:     fmt.Sprintf("Test Model %d", seq),
		Type:     model.ModelTypeText,
		Tier:     model.TierFree,
		Provider: "Test Provider",
		ModelID:  fmt.Sprintf("test-model-%d", seq),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}

	return m
}

// WithTier 设置模型等级
func WithTier(tier string) func(*model.AIModel) {
	return func(m *model.AIModel) {
		m.Tier = tier
	}
}

// WithType 设置模型类型
func WithType(modelType string) func(*model.AIModel) {
	return func(m *model.AIModel) {
		m.Type = modelType
	}
}

// WithProvider 设置提供商
func WithProvider(provider string) func(*model.AIModel) {
	return func(m *model.AIModel) {
		m.Provider = provider
	}
}

// WithInactive 下架模型
func WithInactive() func(*model.AIModel) {
	return func(m *model.AIModel) {
		m.IsActive = false
	}
}
