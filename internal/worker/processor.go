package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/llm"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/pubsub"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/queue"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

// VideoStore 生成视频的持久化存储，生产环境为 OSS 客户端
type VideoStore interface {
	UploadGeneratedVideo(userID, jobID int64, data []byte) (string, error)
}

// Processor 视频生成任务处理器
type Processor struct {
	jobRepo    *repository.JobRepository
	modelRepo  *repository.ModelRepository
	promptRepo *repository.PromptRepository
	usage      *service.UsageService
	providers  *llm.Registry
	videoStore VideoStore
	publisher  *pubsub.Publisher
}

// NewProcessor 创建任务处理器
func NewProcessor(
	jobRepo *repository.JobRepository,
	modelRepo *repository.ModelRepository,
	promptRepo *repository.PromptRepository,
	usage *service.UsageService,
	providers *llm.Registry,
	videoStore VideoStore,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		jobRepo:    jobRepo,
		modelRepo:  modelRepo,
		promptRepo: promptRepo,
		usage:      usage,
		providers:  providers,
		videoStore: videoStore,
		publisher:  publisher,
	}
}

// Process 处理一条视频生成任务
//
// 入队时准入已经判定过，这里不再重复；计数与审计在生成成功后落盘。
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	m, err := p.modelRepo.GetByID(job.ModelID)
	if err != nil {
		return p.fail(ctx, job, pubsub.StepGenerating, fmt.Errorf("failed to get model: %w", err))
	}

	now := time.Now()
	job.Status = model.JobStatusProcessing
	job.StartedAt = &now
	job.CurrentStep = pubsub.StepGenerating
	p.jobRepo.Update(job)
	p.publishProgress(ctx, job, pubsub.StepGenerating, model.JobStatusProcessing, "", "")

	log.Printf("Job %d: generating video with %s/%s", job.ID, m.Provider, m.ModelID)
	data, err := p.providers.Video(m.Provider).GenerateVideo(ctx, m.ModelID, msg.Prompt)
	if err != nil {
		return p.fail(ctx, job, pubsub.StepGenerating, fmt.Errorf("video generation failed: %w", err))
	}

	job.CurrentStep = pubsub.StepUploading
	p.jobRepo.Update(job)
	p.publishProgress(ctx, job, pubsub.StepUploading, model.JobStatusProcessing, "", "")

	outputURL, err := p.videoStore.UploadGeneratedVideo(job.UserID, job.ID, data)
	if err != nil {
		return p.fail(ctx, job, pubsub.StepUploading, fmt.Errorf("failed to upload video: %w", err))
	}

	completedAt := time.Now()
	job.Status = model.JobStatusCompleted
	job.OutputURL = outputURL
	job.CurrentStep = pubsub.StepDone
	job.CompletedAt = &completedAt
	job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
	if err := p.jobRepo.Update(job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	p.bookkeep(job, m, outputURL)
	p.publishProgress(ctx, job, pubsub.StepDone, model.JobStatusCompleted, outputURL, "")

	log.Printf("Job %d: completed in %d seconds", job.ID, job.ElapsedSeconds)
	return nil
}

// fail 任务失败收尾
func (p *Processor) fail(ctx context.Context, job *model.GenerationJob, step string, err error) error {
	job.Status = model.JobStatusFailed
	job.ErrorMessage = err.Error()
	job.CurrentStep = step
	completedAt := time.Now()
	job.CompletedAt = &completedAt
	if job.StartedAt != nil {
		job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
	}
	p.jobRepo.Update(job)
	p.publishProgress(ctx, job, step, model.JobStatusFailed, "", err.Error())
	return err
}

// bookkeep 生成成功后的计数、审计与历史落盘，失败仅记日志
func (p *Processor) bookkeep(job *model.GenerationJob, m *model.AIModel, outputURL string) {
	if m.Tier != model.TierFree {
		if _, err := p.usage.RecordModelUsage(job.UserID, m.ID); err != nil {
			log.Printf("Failed to record model usage for user %d model %d: %v", job.UserID, m.ID, err)
		}
	}

	statusCode := 200
	p.usage.Track(&dto.TrackUsageEntry{
		UserID:     job.UserID,
		APIKeyID:   job.APIKeyID,
		Service:    service.ServiceAI,
		Operation:  service.OpVideoGeneration,
		ResourceID: &m.ModelID,
		StatusCode: &statusCode,
	})

	prompt := &model.Prompt{
		UserID:  job.UserID,
		ModelID: m.ID,
		Input:   job.Input,
		Output:  outputURL,
	}
	if err := p.promptRepo.Create(prompt); err != nil {
		log.Printf("Failed to save prompt history for user %d: %v", job.UserID, err)
	}
}

func (p *Processor) publishProgress(ctx context.Context, job *model.GenerationJob, step, status, outputURL, errMsg string) {
	if err := p.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
		UserID:    job.UserID,
		JobID:     job.ID,
		Status:    status,
		Step:      step,
		OutputURL: outputURL,
		Error:     errMsg,
	}); err != nil {
		log.Printf("Failed to publish progress for job %d: %v", job.ID, err)
	}
}
