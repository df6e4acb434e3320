package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *model.File) error {
	return r.db.Create(file).Error
}

// GetByIDAndUser 按 ID 查询并校验归属
func (r *FileRepository) GetByIDAndUser(id, userID int64) (*model.File, error) {
	var file model.File
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListByUser(userID int64) ([]model.File, error) {
	var files []model.File
	err := r.db.Where("user_id = ? AND status = ?", userID, model.FileStatusReady).
		Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(id int64) error {
	return r.db.Delete(&model.File{}, id).Error
}

// ListExpired 列出已过期且未删除的文件，供定时清理
func (r *FileRepository) ListExpired(now time.Time) ([]model.File, error) {
	var files []model.File
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.FileStatusReady, now).
		Find(&files).Error
	return files, err
}
