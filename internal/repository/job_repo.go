package repository

import (
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.GenerationJob) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id int64) (*model.GenerationJob, error) {
	var job model.GenerationJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) GetByIDAndUser(id, userID int64) (*model.GenerationJob, error) {
	var job model.GenerationJob
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.GenerationJob) error {
	return r.db.Save(job).Error
}
