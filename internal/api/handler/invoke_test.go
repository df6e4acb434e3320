package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/api/middleware"
	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/llm"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/queue"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/service"
	"github.com/aihub-dev/aihub_go_server/internal/testutil"
)

type testContext struct {
	DB *gorm.DB
}

// mockAuth 跳过 JWT 校验，直接注入用户 ID
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

type stubImageStore struct{}

func (stubImageStore) UploadGeneratedImage(userID int64, data []byte, ext string) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/generated/images/%d/out%s", userID, ext), nil
}

func setupInvokeHandler(t *testing.T, userID int64) (*gin.Engine, *testContext) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	userRepo := repository.NewUserRepository(db)
	modelRepo := repository.NewModelRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	entitlement := service.NewEntitlementService(userRepo, modelRepo, usageRepo, cfg)
	usage := service.NewUsageService(usageRepo, modelRepo, cfg)
	invokeService := service.NewInvokeService(
		entitlement,
		usage,
		repository.NewPromptRepository(db),
		repository.NewJobRepository(db),
		llm.NewRegistry(&config.ProvidersConfig{}),
		stubImageStore{},
		queue.NewQueue(rdb, "test_video_jobs"),
	)
	h := NewInvokeHandler(invokeService)

	r := gin.New()
	invoke := r.Group("/invoke")
	if userID > 0 {
		invoke.Use(mockAuth(userID))
	}
	invoke.POST("/text", h.InvokeText)
	invoke.POST("/image", h.InvokeImage)
	invoke.POST("/video", h.InvokeVideo)
	invoke.GET("/jobs/:id", h.JobStatus)

	return r, &testContext{DB: db}
}

func TestInvokeHandler_Text(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 1)
	testutil.TestUser(t, ctx.DB)
	m := testutil.TestModel(t, ctx.DB)

	w := performRequest(r, http.MethodPost, "/invoke/text", gin.H{
		"model_id": m.ModelID,
		"prompt":   "hello",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["text"])
}

func TestInvokeHandler_NoAuth(t *testing.T) {
	r, _ := setupInvokeHandler(t, 0)

	w := performRequest(r, http.MethodPost, "/invoke/text", gin.H{
		"model_id": "any-model",
		"prompt":   "hello",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestInvokeHandler_MissingPrompt(t *testing.T) {
	r, _ := setupInvokeHandler(t, 1)

	w := performRequest(r, http.MethodPost, "/invoke/text", gin.H{
		"model_id": "some-model",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestInvokeHandler_ModelNotFound(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 1)
	testutil.TestUser(t, ctx.DB)

	w := performRequest(r, http.MethodPost, "/invoke/text", gin.H{
		"model_id": "no-such-model",
		"prompt":   "hello",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.Equal(t, "Model not found", resp.Message)
}

func TestInvokeHandler_UserNotFound(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 999)
	m := testutil.TestModel(t, ctx.DB)

	w := performRequest(r, http.MethodPost, "/invoke/text", gin.H{
		"model_id": m.ModelID,
		"prompt":   "hello",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.Equal(t, "User not found", resp.Message)
}

func TestInvokeHandler_FreeLimitReached(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 1)
	testutil.TestUser(t, ctx.DB)
	m := testutil.TestModel(t, ctx.DB, testutil.WithTier(model.TierPremium))

	body := gin.H{
		"model_id": m.ModelID,
		"prompt":   "hello",
	}
	for i := 0; i < 3; i++ {
		w := performRequest(r, http.MethodPost, "/invoke/text", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := performRequest(r, http.MethodPost, "/invoke/text", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeUsageLimited, resp.Code)
	assert.Equal(t, "Free usage limit reached", resp.Message)
}

func TestInvokeHandler_InsufficientCredits(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 1)
	testutil.TestUser(t, ctx.DB, testutil.WithCredits(0))
	m := testutil.TestModel(t, ctx.DB, testutil.WithTier(model.TierUltraPremium))

	w := performRequest(r, http.MethodPost, "/invoke/text", gin.H{
		"model_id": m.ModelID,
		"prompt":   "hello",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestInvokeHandler_Video(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 1)
	testutil.TestUser(t, ctx.DB, testutil.WithPlan(model.PlanPremium))
	m := testutil.TestModel(t, ctx.DB, testutil.WithType(model.ModelTypeVideo), testutil.WithTier(model.TierPremium))

	w := performRequest(r, http.MethodPost, "/invoke/video", gin.H{
		"model_id": m.ModelID,
		"prompt":   "a cat surfing",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	jobID := int64(data["job_id"].(float64))
	assert.Equal(t, model.JobStatusQueued, data["status"])

	// 任务状态可查
	w = performRequest(r, http.MethodGet, fmt.Sprintf("/invoke/jobs/%d", jobID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestInvokeHandler_JobStatus_NotFound(t *testing.T) {
	r, ctx := setupInvokeHandler(t, 1)
	testutil.TestUser(t, ctx.DB)

	w := performRequest(r, http.MethodGet, "/invoke/jobs/12345", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
