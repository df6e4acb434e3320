package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/oauth"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/service"
	"github.com/aihub-dev/aihub_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest 发起一次 JSON 请求并返回响应记录器
func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func setupAuthHandler(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.ExpireHours = 24

	authService := service.NewAuthService(repository.NewUserRepository(db), cfg)
	h := NewAuthHandler(authService, oauth.NewStateStore(rdb))

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r, db
}

func TestAuthHandler_Register(t *testing.T) {
	r, _ := setupAuthHandler(t)

	w := performRequest(r, http.MethodPost, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Greater(t, data["user_id"].(float64), float64(0))
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	r, _ := setupAuthHandler(t)

	body := gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}
	w := performRequest(r, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusOK, w.Code)

	body["username"] = "alice2"
	w = performRequest(r, http.MethodPost, "/auth/register", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "email already registered", resp.Message)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	r, _ := setupAuthHandler(t)

	// 密码太短
	w := performRequest(r, http.MethodPost, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	r, _ := setupAuthHandler(t)

	w := performRequest(r, http.MethodPost, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodPost, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])

	user, ok := data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "free", user["plan"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	r, _ := setupAuthHandler(t)

	w := performRequest(r, http.MethodPost, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodPost, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	r, _ := setupAuthHandler(t)

	w := performRequest(r, http.MethodPost, "/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
