package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/llm"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/queue"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

var ErrJobNotFound = errors.New("job not found")

// 审计记录的服务与操作名
const (
	ServiceAI = "ai"

	OpTextGeneration  = "text_generation"
	OpImageGeneration = "image_generation"
	OpVideoGeneration = "video_generation"
)

// GeneratedImageStore 生成图片的持久化存储，生产环境为 OSS 客户端
type GeneratedImageStore interface {
	UploadGeneratedImage(userID int64, data []byte, ext string) (string, error)
}

// InvokeService 模型调用编排：准入判定在前，外部调用居中，
// 计数、审计与历史落盘殿后。记账失败不影响已产出的业务响应。
type InvokeService struct {
	entitlement *EntitlementService
	usage       *UsageService
	promptRepo  *repository.PromptRepository
	jobRepo     *repository.JobRepository
	providers   *llm.Registry
	imageStore  GeneratedImageStore
	videoQueue  *queue.Queue
}

func NewInvokeService(
	entitlement *EntitlementService,
	usage *UsageService,
	promptRepo *repository.PromptRepository,
	jobRepo *repository.JobRepository,
	providers *llm.Registry,
	imageStore GeneratedImageStore,
	videoQueue *queue.Queue,
) *InvokeService {
	return &InvokeService{
		entitlement: entitlement,
		usage:       usage,
		promptRepo:  promptRepo,
		jobRepo:     jobRepo,
		providers:   providers,
		imageStore:  imageStore,
		videoQueue:  videoQueue,
	}
}

// InvokeText 同步文本生成
func (s *InvokeService) InvokeText(ctx context.Context, userID int64, apiKeyID *int64, req *dto.InvokeTextRequest) (*dto.InvokeTextResponse, error) {
	user, m, err := s.entitlement.Check(userID, req.ModelID)
	if err != nil {
		return nil, err
	}

	text, err := s.providers.Text(m.Provider).GenerateText(ctx, m.ModelID, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	promptID := s.bookkeep(user, m, apiKeyID, OpTextGeneration, req.Prompt, text)

	return &dto.InvokeTextResponse{
		Text:     text,
		PromptID: promptID,
	}, nil
}

// InvokeImage 同步图像生成，产物上传 OSS 后返回 URL
func (s *InvokeService) InvokeImage(ctx context.Context, userID int64, apiKeyID *int64, req *dto.InvokeImageRequest) (*dto.InvokeImageResponse, error) {
	user, m, err := s.entitlement.Check(userID, req.ModelID)
	if err != nil {
		return nil, err
	}

	data, ext, err := s.providers.Image(m.Provider).GenerateImage(ctx, m.ModelID, llm.ImageRequest{
		Prompt:     req.Prompt,
		Style:      req.Style,
		Dimensions: req.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	imageURL, err := s.imageStore.UploadGeneratedImage(user.ID, data, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to store generated image: %w", err)
	}

	promptID := s.bookkeep(user, m, apiKeyID, OpImageGeneration, req.Prompt, imageURL)

	return &dto.InvokeImageResponse{
		ImageURL: imageURL,
		PromptID: promptID,
	}, nil
}

// InvokeVideo 异步视频生成：准入通过后建任务入队，由 worker 消费
func (s *InvokeService) InvokeVideo(ctx context.Context, userID int64, apiKeyID *int64, req *dto.InvokeVideoRequest) (*dto.InvokeVideoResponse, error) {
	user, m, err := s.entitlement.Check(userID, req.ModelID)
	if err != nil {
		return nil, err
	}
	if m.Type != model.ModelTypeVideo {
		return nil, ErrModelNotFound
	}

	job := &model.GenerationJob{
		UserID:   user.ID,
		ModelID:  m.ID,
		APIKeyID: apiKeyID,
		Input:    req.Prompt,
		Status:   model.JobStatusQueued,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	if err := s.videoQueue.Push(ctx, &queue.JobMessage{
		JobID:    job.ID,
		UserID:   user.ID,
		ModelID:  m.ID,
		APIKeyID: apiKeyID,
		Prompt:   req.Prompt,
	}); err != nil {
		// 入队失败的任务直接标记失败，避免永久 queued
		job.Status = model.JobStatusFailed
		job.ErrorMessage = "failed to enqueue job"
		if updateErr := s.jobRepo.Update(job); updateErr != nil {
			log.Printf("Failed to mark job %d as failed: %v", job.ID, updateErr)
		}
		return nil, fmt.Errorf("failed to enqueue video job: %w", err)
	}

	return &dto.InvokeVideoResponse{
		JobID:  job.ID,
		Status: job.Status,
	}, nil
}

// JobStatus 查询异步任务状态
func (s *InvokeService) JobStatus(userID, jobID int64) (*dto.JobStatusResponse, error) {
	job, err := s.jobRepo.GetByIDAndUser(jobID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return &dto.JobStatusResponse{
		JobID:          job.ID,
		Status:         job.Status,
		CurrentStep:    job.CurrentStep,
		OutputURL:      job.OutputURL,
		ErrorMessage:   job.ErrorMessage,
		ElapsedSeconds: job.ElapsedSeconds,
	}, nil
}

// bookkeep 调用成功后的计数、审计与历史落盘。
// 全部尽力而为：任何一步失败只记日志，不影响已经产出的结果。
func (s *InvokeService) bookkeep(user *model.User, m *model.AIModel, apiKeyID *int64, operation, input, output string) int64 {
	// 免费层模型不占免费额度计数
	if m.Tier != model.TierFree {
		if _, err := s.usage.RecordModelUsage(user.ID, m.ID); err != nil {
			log.Printf("Failed to record model usage for user %d model %d: %v", user.ID, m.ID, err)
		}
	}

	statusCode := 200
	s.usage.Track(&dto.TrackUsageEntry{
		UserID:     user.ID,
		APIKeyID:   apiKeyID,
		Service:    ServiceAI,
		Operation:  operation,
		ResourceID: &m.ModelID,
		StatusCode: &statusCode,
	})

	prompt := &model.Prompt{
		UserID:  user.ID,
		ModelID: m.ID,
		Input:   input,
		Output:  output,
	}
	if err := s.promptRepo.Create(prompt); err != nil {
		log.Printf("Failed to save prompt history for user %d: %v", user.ID, err)
		return 0
	}
	return prompt.ID
}
