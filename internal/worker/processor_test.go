package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/llm"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/pubsub"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/queue"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/service"
	"github.com/aihub-dev/aihub_go_server/internal/testutil"
)

type fakeVideoStore struct {
	uploads int
	err     error
}

func (f *fakeVideoStore) UploadGeneratedVideo(userID, jobID int64, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return fmt.Sprintf("https://cdn.example.com/generated/videos/%d/%d.mp4", userID, jobID), nil
}

type processorFixture struct {
	processor  *Processor
	db         *gorm.DB
	jobRepo    *repository.JobRepository
	usageRepo  *repository.UsageRepository
	promptRepo *repository.PromptRepository
	videoStore *fakeVideoStore
}

func setupProcessor(t *testing.T) *processorFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	jobRepo := repository.NewJobRepository(db)
	modelRepo := repository.NewModelRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	usage := service.NewUsageService(usageRepo, modelRepo, &config.Config{})
	videoStore := &fakeVideoStore{}

	processor := NewProcessor(
		jobRepo,
		modelRepo,
		promptRepo,
		usage,
		llm.NewRegistry(&config.ProvidersConfig{}),
		videoStore,
		pubsub.NewPublisher(rdb),
	)

	return &processorFixture{
		processor:  processor,
		db:         db,
		jobRepo:    jobRepo,
		usageRepo:  usageRepo,
		promptRepo: promptRepo,
		videoStore: videoStore,
	}
}

func createJob(t *testing.T, f *processorFixture, userID, modelID int64, prompt string) *model.GenerationJob {
	t.Helper()

	job := &model.GenerationJob{
		UserID:  userID,
		ModelID: modelID,
		Input:   prompt,
		Status:  model.JobStatusQueued,
	}
	require.NoError(t, f.jobRepo.Create(job))
	return job
}

func TestProcessor_Process(t *testing.T) {
	f := setupProcessor(t)

	user := testutil.TestUser(t, f.db)
	m := testutil.TestModel(t, f.db,
		testutil.WithType(model.ModelTypeVideo),
		testutil.WithTier(model.TierPremium),
	)
	job := createJob(t, f, user.ID, m.ID, "a cat surfing")

	err := f.processor.Process(context.Background(), &queue.JobMessage{
		JobID:   job.ID,
		UserID:  user.ID,
		ModelID: m.ID,
		Prompt:  "a cat surfing",
	})
	require.NoError(t, err)

	updated, err := f.jobRepo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, updated.Status)
	assert.NotEmpty(t, updated.OutputURL)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 1, f.videoStore.uploads)

	// 成功后计一次用量
	count, err := f.usageRepo.GetCount(user.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 历史落盘，输出为产物 URL
	prompts, total, err := f.promptRepo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "a cat surfing", prompts[0].Input)
	assert.Equal(t, updated.OutputURL, prompts[0].Output)
}

func TestProcessor_Process_FreeTierNotCounted(t *testing.T) {
	f := setupProcessor(t)

	user := testutil.TestUser(t, f.db)
	m := testutil.TestModel(t, f.db, testutil.WithType(model.ModelTypeVideo))
	job := createJob(t, f, user.ID, m.ID, "a dog skating")

	err := f.processor.Process(context.Background(), &queue.JobMessage{
		JobID:   job.ID,
		UserID:  user.ID,
		ModelID: m.ID,
		Prompt:  "a dog skating",
	})
	require.NoError(t, err)

	count, err := f.usageRepo.GetCount(user.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestProcessor_Process_UploadFailed(t *testing.T) {
	f := setupProcessor(t)
	f.videoStore.err = errors.New("oss unavailable")

	user := testutil.TestUser(t, f.db)
	m := testutil.TestModel(t, f.db,
		testutil.WithType(model.ModelTypeVideo),
		testutil.WithTier(model.TierPremium),
	)
	job := createJob(t, f, user.ID, m.ID, "a cat surfing")

	err := f.processor.Process(context.Background(), &queue.JobMessage{
		JobID:   job.ID,
		UserID:  user.ID,
		ModelID: m.ID,
		Prompt:  "a cat surfing",
	})
	require.Error(t, err)

	updated, err := f.jobRepo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, updated.Status)
	assert.Contains(t, updated.ErrorMessage, "oss unavailable")

	// 失败不计用量
	count, err := f.usageRepo.GetCount(user.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestProcessor_Process_PublishesProgress(t *testing.T) {
	f := setupProcessor(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	// 用独立的 Redis 订阅进度频道再执行任务
	f.processor.publisher = pubsub.NewPublisher(rdb)

	received := make(chan *pubsub.ProgressMessage, 8)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		_ = pubsub.NewSubscriber(rdb).Subscribe(ctx, func(msg *pubsub.ProgressMessage) {
			received <- msg
		})
	}()
	time.Sleep(50 * time.Millisecond) // 等订阅建立

	user := testutil.TestUser(t, f.db)
	m := testutil.TestModel(t, f.db,
		testutil.WithType(model.ModelTypeVideo),
		testutil.WithTier(model.TierPremium),
	)
	job := createJob(t, f, user.ID, m.ID, "a cat surfing")

	require.NoError(t, f.processor.Process(context.Background(), &queue.JobMessage{
		JobID:   job.ID,
		UserID:  user.ID,
		ModelID: m.ID,
		Prompt:  "a cat surfing",
	}))

	var steps []string
	var last *pubsub.ProgressMessage
	deadline := time.After(2 * time.Second)
	for len(steps) < 3 {
		select {
		case msg := <-received:
			steps = append(steps, msg.Step)
			last = msg
		case <-deadline:
			t.Fatalf("timed out waiting for progress messages, got %v", steps)
		}
	}

	assert.Equal(t, []string{pubsub.StepGenerating, pubsub.StepUploading, pubsub.StepDone}, steps)
	assert.Equal(t, model.JobStatusCompleted, last.Status)
	assert.NotEmpty(t, last.OutputURL)
	assert.Equal(t, 100, last.Progress)
}
