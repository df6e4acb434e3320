package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *model.APIKey) error {
	return r.db.Create(key).Error
}

func (r *APIKeyRepository) GetByKey(key string) (*model.APIKey, error) {
	var apiKey model.APIKey
	err := r.db.Where("`key` = ?", key).First(&apiKey).Error
	if err != nil {
		return nil, err
	}
	return &apiKey, nil
}

func (r *APIKeyRepository) ListByUser(userID int64) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

// Revoke 吊销指定用户名下的 key，返回是否有记录被更新
func (r *APIKeyRepository) Revoke(id, userID int64) (bool, error) {
	result := r.db.Model(&model.APIKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	return result.RowsAffected > 0, result.Error
}

// TouchLastUsed 更新最近使用时间，失败不影响主流程
func (r *APIKeyRepository) TouchLastUsed(id int64, at time.Time) error {
	return r.db.Model(&model.APIKey{}).Where("id = ?", id).
		Update("last_used_at", at).Error
}
