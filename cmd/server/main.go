package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/api"
	"github.com/aihub-dev/aihub_go_server/internal/api/handler"
	"github.com/aihub-dev/aihub_go_server/internal/database"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/cron"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/llm"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/oauth"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/oss"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/pubsub"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/queue"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/ws"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init OSS client: %v", err)
	}
	log.Println("OSS client initialized")

	// 初始化 Queue 和 WebSocket Hub
	videoQueue := queue.NewQueue(rdb, cfg.Queue.VideoQueue)
	wsHub := ws.NewHub()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	modelRepo := repository.NewModelRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	jobRepo := repository.NewJobRepository(db)
	fileRepo := repository.NewFileRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	// 初始化 Service
	providers := llm.NewRegistry(&cfg.Providers)
	entitlementService := service.NewEntitlementService(userRepo, modelRepo, usageRepo, cfg)
	usageService := service.NewUsageService(usageRepo, modelRepo, cfg)
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	modelService := service.NewModelService(modelRepo)
	invokeService := service.NewInvokeService(
		entitlementService, usageService, promptRepo, jobRepo, providers, ossClient, videoQueue)
	promptService := service.NewPromptService(promptRepo)
	fileService := service.NewFileService(fileRepo, ossClient, usageService, cfg)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, oauth.NewStateStore(rdb))
	userHandler := handler.NewUserHandler(userService)
	modelsHandler := handler.NewModelsHandler(modelService)
	invokeHandler := handler.NewInvokeHandler(invokeService)
	usageHandler := handler.NewUsageHandler(usageService)
	promptHandler := handler.NewPromptHandler(promptService)
	fileHandler := handler.NewFileHandler(fileService)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeyService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 过期文件定时清理
	sweeper := cron.NewService(fileService, time.Hour)
	sweeper.Start()
	defer sweeper.Stop()
	log.Println("File expiry sweeper started")

	// 订阅生成进度，转发给在线用户
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		subscriber := pubsub.NewSubscriber(rdb)
		err := subscriber.Subscribe(ctx, func(msg *pubsub.ProgressMessage) {
			if !wsHub.IsOnline(msg.UserID) {
				return
			}
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to forward progress to user %d: %v", msg.UserID, err)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("Progress subscriber stopped: %v", err)
		}
	}()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		modelsHandler,
		invokeHandler,
		usageHandler,
		promptHandler,
		fileHandler,
		apiKeyHandler,
		websocketHandler,
		apiKeyService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
