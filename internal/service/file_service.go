package service

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

const ServiceStorage = "storage"

// FileStore 文件内容存储，生产环境为 OSS 客户端
type FileStore interface {
	UploadUserFile(userID int64, filename string, data []byte, contentType string) (string, string, error)
	Delete(objectKey string) error
}

type FileService struct {
	fileRepo *repository.FileRepository
	store    FileStore
	usage    *UsageService
	cfg      *config.Config
}

func NewFileService(
	fileRepo *repository.FileRepository,
	store FileStore,
	usage *UsageService,
	cfg *config.Config,
) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		store:    store,
		usage:    usage,
		cfg:      cfg,
	}
}

// Upload 上传用户文件，元数据落库并记一条存储用量
func (s *FileService) Upload(userID int64, filename string, data []byte, contentType string) (*dto.FileInfo, error) {
	if s.cfg.Upload.MaxSize > 0 && int64(len(data)) > s.cfg.Upload.MaxSize {
		return nil, ErrFileTooLarge
	}
	if !s.extensionAllowed(filename) {
		return nil, ErrFileTypeNotAllowed
	}

	objectKey, url, err := s.store.UploadUserFile(userID, filename, data, contentType)
	if err != nil {
		return nil, err
	}

	expireDays := s.cfg.Upload.ExpireDays
	if expireDays <= 0 {
		expireDays = 30
	}
	expiresAt := time.Now().Add(time.Duration(expireDays) * 24 * time.Hour)

	file := &model.File{
		UserID:    userID,
		Name:      filename,
		ObjectKey: objectKey,
		URL:       url,
		Size:      int64(len(data)),
		Type:      contentType,
		Status:    model.FileStatusReady,
		ExpiresAt: &expiresAt,
	}
	if err := s.fileRepo.Create(file); err != nil {
		// 元数据写入失败时回收已上传的对象
		if delErr := s.store.Delete(objectKey); delErr != nil {
			log.Printf("Failed to clean up orphaned object %s: %v", objectKey, delErr)
		}
		return nil, err
	}

	resourceID := objectKey
	s.usage.Track(&dto.TrackUsageEntry{
		UserID:     userID,
		Service:    ServiceStorage,
		Operation:  "upload",
		ResourceID: &resourceID,
		Units:      float64(file.Size) / 1024, // KB
	})

	return buildFileInfo(file), nil
}

// List 列出用户的文件
func (s *FileService) List(userID int64) ([]dto.FileInfo, error) {
	files, err := s.fileRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.FileInfo, 0, len(files))
	for i := range files {
		infos = append(infos, *buildFileInfo(&files[i]))
	}
	return infos, nil
}

// Delete 删除用户文件（OSS 对象 + 元数据）
func (s *FileService) Delete(userID, fileID int64) error {
	file, err := s.fileRepo.GetByIDAndUser(fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	if err := s.store.Delete(file.ObjectKey); err != nil {
		return err
	}
	return s.fileRepo.Delete(file.ID)
}

// CleanupExpired 清理过期文件，由定时任务调用，返回清理数量
func (s *FileService) CleanupExpired(ctx context.Context) (int, error) {
	files, err := s.fileRepo.ListExpired(time.Now())
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for i := range files {
		select {
		case <-ctx.Done():
			return cleaned, ctx.Err()
		default:
		}

		file := &files[i]
		if err := s.store.Delete(file.ObjectKey); err != nil {
			log.Printf("Failed to delete expired object %s: %v", file.ObjectKey, err)
			continue
		}
		if err := s.fileRepo.Delete(file.ID); err != nil {
			log.Printf("Failed to delete expired file record %d: %v", file.ID, err)
			continue
		}
		cleaned++
	}
	return cleaned, nil
}

func (s *FileService) extensionAllowed(filename string) bool {
	allowed := s.cfg.Upload.AllowedExtensions
	if len(allowed) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}

func buildFileInfo(file *model.File) *dto.FileInfo {
	info := &dto.FileInfo{
		ID:        file.ID,
		Name:      file.Name,
		URL:       file.URL,
		Size:      file.Size,
		Type:      file.Type,
		Status:    file.Status,
		CreatedAt: file.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if file.ExpiresAt != nil {
		info.ExpiresAt = file.ExpiresAt.Format("2006-01-02 15:04:05")
	}
	return info
}
