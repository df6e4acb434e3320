package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

// UsageRepository 调用计数与审计记录的持久化访问
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// GetCount 查询 (user, model) 的当前计数，无记录时返回 0
func (r *UsageRepository) GetCount(userID, modelID int64) (int, error) {
	var usage model.ModelUsage
	err := r.db.Where("user_id = ? AND model_id = ?", userID, modelID).First(&usage).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return usage.Count, nil
}

// Increment 原子地 "不存在则插入 count=1，存在则 count+1"，
// 单条冲突更新语句，并发调用不会丢失更新
func (r *UsageRepository) Increment(userID, modelID int64) (*model.ModelUsage, error) {
	usage := model.ModelUsage{
		UserID:  userID,
		ModelID: modelID,
		Count:   1,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "model_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&usage).Error
	if err != nil {
		return nil, err
	}

	// 回读自增后的计数
	var updated model.ModelUsage
	if err := r.db.Where("user_id = ? AND model_id = ?", userID, modelID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListCountsByUser 列出用户的全部计数
func (r *UsageRepository) ListCountsByUser(userID int64) ([]model.ModelUsage, error) {
	var usages []model.ModelUsage
	err := r.db.Where("user_id = ?", userID).Order("model_id ASC").Find(&usages).Error
	return usages, err
}

// CreateRecord 追加一条审计记录
func (r *UsageRepository) CreateRecord(record *model.UsageRecord) error {
	return r.db.Create(record).Error
}

// ListRecordsSince 查询用户指定时刻之后的全部审计记录
func (r *UsageRepository) ListRecordsSince(userID int64, since time.Time) ([]model.UsageRecord, error) {
	var records []model.UsageRecord
	err := r.db.Where("user_id = ? AND timestamp >= ?", userID, since).Find(&records).Error
	return records, err
}

// ListRecordsByUser 分页查询用户的审计记录，时间倒序
func (r *UsageRepository) ListRecordsByUser(userID int64, page, limit int) ([]model.UsageRecord, int64, error) {
	var total int64
	if err := r.db.Model(&model.UsageRecord{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.UsageRecord
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}
