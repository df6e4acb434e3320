package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/testutil"
)

func setupUsageService(t *testing.T) (*UsageService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{}

	service := NewUsageService(
		repository.NewUsageRepository(db),
		repository.NewModelRepository(db),
		cfg,
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestUsageService_RecordModelUsage_Sequential(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	m := testutil.TestModel(t, db, testutil.WithTier(model.TierPremium))

	for i := 1; i <= 3; i++ {
		usage, err := service.RecordModelUsage(user.ID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, i, usage.Count)
	}
}

func TestUsageService_RecordModelUsage_Concurrent(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	m := testutil.TestModel(t, db, testutil.WithTier(model.TierPremium))

	const workers = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.RecordModelUsage(user.ID, m.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// 并发自增不丢更新
	count, err := repository.NewUsageRepository(db).GetCount(user.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, count)
}

func TestUsageService_Track(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	resourceID := "file-123"
	statusCode := 200
	record := service.Track(&dto.TrackUsageEntry{
		UserID:     user.ID,
		Service:    "storage",
		Operation:  "upload",
		ResourceID: &resourceID,
		Units:      512,
		Cost:       0.01,
		StatusCode: &statusCode,
	})

	require.NotNil(t, record)
	assert.NotZero(t, record.ID)
	assert.Equal(t, "storage", record.Service)
	assert.Equal(t, "upload", record.Operation)
	assert.Equal(t, float64(512), record.Units)
	assert.Equal(t, 0.01, record.Cost)
	assert.False(t, record.Timestamp.IsZero())
}

func TestUsageService_Track_DefaultUnits(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	record := service.Track(&dto.TrackUsageEntry{
		UserID:    user.ID,
		Service:   "ai",
		Operation: "text_generation",
	})

	require.NotNil(t, record)
	assert.Equal(t, float64(1), record.Units)
	assert.Equal(t, float64(0), record.Cost)
}

func TestUsageService_Track_MissingRequired(t *testing.T) {
	service, _, cleanup := setupUsageService(t)
	defer cleanup()

	assert.Nil(t, service.Track(nil))
	assert.Nil(t, service.Track(&dto.TrackUsageEntry{Service: "ai", Operation: "op"}))
	assert.Nil(t, service.Track(&dto.TrackUsageEntry{UserID: 1, Operation: "op"}))
	assert.Nil(t, service.Track(&dto.TrackUsageEntry{UserID: 1, Service: "ai"}))
}

func TestUsageService_Track_StorageFailure_ReturnsNil(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	// 关闭底层连接模拟存储不可用
	cleanup()
	_ = db

	record := service.Track(&dto.TrackUsageEntry{
		UserID:    1,
		Service:   "ai",
		Operation: "text_generation",
	})

	// 审计写入失败吞掉错误，只返回 nil
	assert.Nil(t, record)
}

func TestUsageService_Summarize_Empty(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	summary, err := service.Summarize(user.ID, PeriodDay)
	require.NoError(t, err)
	assert.Equal(t, float64(0), summary.TotalUnits)
	assert.Equal(t, float64(0), summary.TotalCost)
	assert.Empty(t, summary.Services)
}

func TestUsageService_Summarize_InvalidPeriod(t *testing.T) {
	service, _, cleanup := setupUsageService(t)
	defer cleanup()

	_, err := service.Summarize(1, "year")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestUsageService_Summarize_Breakdown(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	entries := []dto.TrackUsageEntry{
		{UserID: user.ID, Service: "ai", Operation: "text_generation", Units: 2, Cost: 0.02},
		{UserID: user.ID, Service: "ai", Operation: "text_generation", Units: 3, Cost: 0.03},
		{UserID: user.ID, Service: "ai", Operation: "image_generation", Units: 1, Cost: 0.10},
		{UserID: user.ID, Service: "storage", Operation: "upload", Units: 256, Cost: 0},
	}
	for i := range entries {
		require.NotNil(t, service.Track(&entries[i]))
	}

	summary, err := service.Summarize(user.ID, PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, float64(262), summary.TotalUnits)
	assert.InDelta(t, 0.15, summary.TotalCost, 1e-9)

	ai := summary.Services["ai"]
	require.NotNil(t, ai)
	assert.Equal(t, float64(6), ai.Units)
	assert.InDelta(t, 0.15, ai.Cost, 1e-9)
	assert.Equal(t, float64(5), ai.Operations["text_generation"].Units)
	assert.Equal(t, float64(1), ai.Operations["image_generation"].Units)

	storage := summary.Services["storage"]
	require.NotNil(t, storage)
	assert.Equal(t, float64(256), storage.Units)
	assert.Equal(t, float64(0), storage.Cost)
}

func TestUsageService_Summarize_ExcludesOldRecords(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	// 窗口外的记录直接写库
	old := &model.UsageRecord{
		UserID:    user.ID,
		Service:   "ai",
		Operation: "text_generation",
		Units:     100,
		Cost:      1,
		Timestamp: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(old).Error)

	require.NotNil(t, service.Track(&dto.TrackUsageEntry{
		UserID:    user.ID,
		Service:   "ai",
		Operation: "text_generation",
		Units:     1,
	}))

	daySummary, err := service.Summarize(user.ID, PeriodDay)
	require.NoError(t, err)
	assert.Equal(t, float64(1), daySummary.TotalUnits)

	weekSummary, err := service.Summarize(user.ID, PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, float64(101), weekSummary.TotalUnits)
}

func TestUsageService_ListRecords(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	for i := 0; i < 25; i++ {
		require.NotNil(t, service.Track(&dto.TrackUsageEntry{
			UserID:    user.ID,
			Service:   "ai",
			Operation: "text_generation",
		}))
	}

	records, total, err := service.ListRecords(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, records, 10)

	records, _, err = service.ListRecords(user.ID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, records, 5)

	// 非法分页参数回落默认值
	records, _, err = service.ListRecords(user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestUsageService_ListModelCounts(t *testing.T) {
	service, db, cleanup := setupUsageService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	freeModel := testutil.TestModel(t, db, testutil.WithTier(model.TierFree))
	premiumModel := testutil.TestModel(t, db, testutil.WithTier(model.TierPremium))

	usageRepo := repository.NewUsageRepository(db)
	_, err := usageRepo.Increment(user.ID, freeModel.ID)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = usageRepo.Increment(user.ID, premiumModel.ID)
		require.NoError(t, err)
	}

	infos, err := service.ListModelCounts(user.ID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byModel := make(map[int64]dto.ModelUsageInfo)
	for _, info := range infos {
		byModel[info.ModelID] = info
	}

	assert.Equal(t, 1, byModel[freeModel.ID].Count)
	assert.Equal(t, 0, byModel[freeModel.ID].Limit)
	assert.Equal(t, 2, byModel[premiumModel.ID].Count)
	assert.Equal(t, 3, byModel[premiumModel.ID].Limit)
}
