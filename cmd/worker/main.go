package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/database"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/llm"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/oss"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/pubsub"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/queue"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
	"github.com/aihub-dev/aihub_go_server/internal/service"
	"github.com/aihub-dev/aihub_go_server/internal/worker"
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

	// 初始化 Queue 和 Pub/Sub
	videoQueue := queue.NewQueue(rdb, cfg.Queue.VideoQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository 和 Service
	jobRepo := repository.NewJobRepository(db)
	modelRepo := repository.NewModelRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	usageService := service.NewUsageService(usageRepo, modelRepo, cfg)

	// 创建任务处理器
	processor := worker.NewProcessor(
		jobRepo,
		modelRepo,
		promptRepo,
		usageService,
		llm.NewRegistry(&cfg.Providers),
		ossClient,
		publisher,
	)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	log.Printf("Worker started, max workers: %d", maxWorkers)

	// 启动 worker 循环
	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := videoQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: processing job %d", workerID, msg.JobID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: job %d failed: %v", workerID, msg.JobID, err)
					}
				}
			}
		}(i)
	}

	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
