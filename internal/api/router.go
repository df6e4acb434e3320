package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/api/handler"
	"github.com/aihub-dev/aihub_go_server/internal/api/middleware"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	modelsHandler    *handler.ModelsHandler
	invokeHandler    *handler.InvokeHandler
	usageHandler     *handler.UsageHandler
	promptHandler    *handler.PromptHandler
	fileHandler      *handler.FileHandler
	apiKeyHandler    *handler.APIKeyHandler
	websocketHandler *handler.WebSocketHandler
	apiKeyService    *service.APIKeyService
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	modelsHandler *handler.ModelsHandler,
	invokeHandler *handler.InvokeHandler,
	usageHandler *handler.UsageHandler,
	promptHandler *handler.PromptHandler,
	fileHandler *handler.FileHandler,
	apiKeyHandler *handler.APIKeyHandler,
	websocketHandler *handler.WebSocketHandler,
	apiKeyService *service.APIKeyService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		modelsHandler:    modelsHandler,
		invokeHandler:    invokeHandler,
		usageHandler:     usageHandler,
		promptHandler:    promptHandler,
		fileHandler:      fileHandler,
		apiKeyHandler:    apiKeyHandler,
		websocketHandler: websocketHandler,
		apiKeyService:    apiKeyService,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 模型目录
		api.GET("/models", r.modelsHandler.List)
		api.GET("/models/:model_id", r.modelsHandler.Get)

		// 模型调用：JWT 或 API Key 均可
		invoke := api.Group("/invoke")
		invoke.Use(middleware.AuthOrAPIKey(r.cfg.JWT.Secret, r.apiKeyService))
		{
			invoke.POST("/text", r.invokeHandler.InvokeText)
			invoke.POST("/image", r.invokeHandler.InvokeImage)
			invoke.POST("/video", r.invokeHandler.InvokeVideo)
			invoke.GET("/jobs/:id", r.invokeHandler.JobStatus)
		}

		// 需要登录的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.PUT("/plan", r.userHandler.UpdatePlan)
				user.POST("/credits", r.userHandler.AddCredits)
			}

			usage := authenticated.Group("/usage")
			{
				usage.GET("/summary", r.usageHandler.Summary)
				usage.GET("/records", r.usageHandler.Records)
				usage.GET("/models", r.usageHandler.ModelCounts)
			}

			authenticated.GET("/prompts", r.promptHandler.List)

			files := authenticated.Group("/files")
			{
				files.POST("", r.fileHandler.Upload)
				files.GET("", r.fileHandler.List)
				files.DELETE("/:id", r.fileHandler.Delete)
			}

			apikeys := authenticated.Group("/apikeys")
			{
				apikeys.POST("", r.apiKeyHandler.Create)
				apikeys.GET("", r.apiKeyHandler.List)
				apikeys.DELETE("/:id", r.apiKeyHandler.Revoke)
			}
		}
	}

	return engine
}
