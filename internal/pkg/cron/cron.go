package cron

import (
	"context"
	"log"
	"time"
)

// FileSweeper 过期文件清理接口，由 service.FileService 实现
type FileSweeper interface {
	CleanupExpired(ctx context.Context) (int, error)
}

type Service struct {
	sweeper       FileSweeper
	sweepInterval time.Duration
	stopChan      chan struct{}
}

func NewService(sweeper FileSweeper, sweepInterval time.Duration) *Service {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Service{
		sweeper:       sweeper,
		sweepInterval: sweepInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runExpirySweep()
	log.Println("Cron service started (file expiry sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runExpirySweep 周期性清理过期文件
func (s *Service) runExpirySweep() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepExpiredFiles()
		}
	}
}

func (s *Service) sweepExpiredFiles() {
	if s.sweeper == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cleaned, err := s.sweeper.CleanupExpired(ctx)
	if err != nil {
		log.Printf("File expiry sweep failed: %v", err)
		return
	}
	if cleaned > 0 {
		log.Printf("File expiry sweep: removed %d expired files", cleaned)
	}
}

// RunNow 立即执行一次清理（用于测试或手动触发）
func (s *Service) RunNow() error {
	if s.sweeper == nil {
		return nil
	}
	_, err := s.sweeper.CleanupExpired(context.Background())
	return err
}
