package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

var (
	ErrAPIKeyNotFound = errors.New("api key not found")
	ErrAPIKeyInvalid  = errors.New("invalid api key")
)

const apiKeyPrefix = "ak_"

type APIKeyService struct {
	apiKeyRepo *repository.APIKeyRepository
}

func NewAPIKeyService(apiKeyRepo *repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{apiKeyRepo: apiKeyRepo}
}

// Create 创建 API Key，完整 key 只在响应里出现一次
func (s *APIKeyService) Create(userID int64, name string) (*dto.CreateAPIKeyResponse, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	key := apiKeyPrefix + hex.EncodeToString(bytes)

	apiKey := &model.APIKey{
		UserID:   userID,
		Name:     name,
		Key:      key,
		IsActive: true,
	}
	if err := s.apiKeyRepo.Create(apiKey); err != nil {
		return nil, err
	}

	return &dto.CreateAPIKeyResponse{
		ID:        apiKey.ID,
		Name:      apiKey.Name,
		Key:       key,
		CreatedAt: apiKey.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// List 列出用户的 API Key，key 掩码展示
func (s *APIKeyService) List(userID int64) ([]dto.APIKeyInfo, error) {
	keys, err := s.apiKeyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.APIKeyInfo, 0, len(keys))
	for _, k := range keys {
		info := dto.APIKeyInfo{
			ID:        k.ID,
			Name:      k.Name,
			MaskedKey: maskKey(k.Key),
			IsActive:  k.IsActive,
			CreatedAt: k.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if k.LastUsedAt != nil {
			info.LastUsedAt = k.LastUsedAt.Format("2006-01-02 15:04:05")
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Revoke 吊销 API Key
func (s *APIKeyService) Revoke(userID, keyID int64) error {
	revoked, err := s.apiKeyRepo.Revoke(keyID, userID)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrAPIKeyNotFound
	}
	return nil
}

// Validate 校验 API Key，返回所属用户 ID 和 key ID
func (s *APIKeyService) Validate(key string) (int64, int64, error) {
	if key == "" {
		return 0, 0, ErrAPIKeyInvalid
	}

	apiKey, err := s.apiKeyRepo.GetByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrAPIKeyInvalid
		}
		return 0, 0, err
	}

	if !apiKey.IsActive {
		return 0, 0, ErrAPIKeyInvalid
	}
	if apiKey.ExpiresAt != nil && time.Now().After(*apiKey.ExpiresAt) {
		return 0, 0, ErrAPIKeyInvalid
	}

	// 使用时间戳尽力更新，失败不影响校验结果
	_ = s.apiKeyRepo.TouchLastUsed(apiKey.ID, time.Now())

	return apiKey.UserID, apiKey.ID, nil
}

// maskKey 只保留前缀和末四位
func maskKey(key string) string {
	if len(key) <= len(apiKeyPrefix)+4 {
		return key
	}
	return fmt.Sprintf("%s****%s", apiKeyPrefix, key[len(key)-4:])
}
