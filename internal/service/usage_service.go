package service

import (
	"errors"
	"log"
	"time"

	"github.com/aihub-dev/aihub_go_server/config"
	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/model/dto"
	"github.com/aihub-dev/aihub_go_server/internal/repository"
)

var ErrInvalidPeriod = errors.New("invalid summary period")

// 汇总时间窗：自然流逝的时长偏移，不做日历对齐
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

var periodOffsets = map[string]time.Duration{
	PeriodDay:   24 * time.Hour,
	PeriodWeek:  7 * 24 * time.Hour,
	PeriodMonth: 30 * 24 * time.Hour,
}

// UsageService 调用计数、审计追踪与用量汇总
type UsageService struct {
	usageRepo *repository.UsageRepository
	modelRepo *repository.ModelRepository
	cfg       *config.Config
}

func NewUsageService(
	usageRepo *repository.UsageRepository,
	modelRepo *repository.ModelRepository,
	cfg *config.Config,
) *UsageService {
	return &UsageService{
		usageRepo: usageRepo,
		modelRepo: modelRepo,
		cfg:       cfg,
	}
}

// RecordModelUsage 模型调用成功后计一次用量
//
// 只在外部模型调用成功后执行，每次调用记一个单位。存储不可用时
// 错误向上传播，由调用方决定是否吞掉（主响应不应因记账失败而失败）。
func (s *UsageService) RecordModelUsage(userID, modelID int64) (*model.ModelUsage, error) {
	return s.usageRepo.Increment(userID, modelID)
}

// Track 追加一条审计记录
//
// 审计写入永远不允许打断主请求：任何存储错误在这里记日志后吞掉，
// 返回 nil 记录而非错误。
func (s *UsageService) Track(entry *dto.TrackUsageEntry) *model.UsageRecord {
	if entry == nil || entry.UserID == 0 || entry.Service == "" || entry.Operation == "" {
		log.Printf("Track usage skipped: missing required fields")
		return nil
	}

	units := entry.Units
	if units == 0 {
		units = 1
	}

	record := &model.UsageRecord{
		UserID:     entry.UserID,
		APIKeyID:   entry.APIKeyID,
		Service:    entry.Service,
		Operation:  entry.Operation,
		ResourceID: entry.ResourceID,
		Units:      units,
		Cost:       entry.Cost,
		StatusCode: entry.StatusCode,
		Timestamp:  time.Now(),
	}

	if err := s.usageRepo.CreateRecord(record); err != nil {
		log.Printf("Track usage failed for user %d (%s/%s): %v", entry.UserID, entry.Service, entry.Operation, err)
		return nil
	}
	return record
}

// Summarize 汇总用户指定时间窗内的用量
//
// 对窗口内记录做一次纯折叠，输入顺序不影响结果；空记录集返回
// 全零汇总与空的分组，而不是错误。
func (s *UsageService) Summarize(userID int64, period string) (*dto.UsageSummary, error) {
	offset, ok := periodOffsets[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}

	now := time.Now()
	start := now.Add(-offset)

	records, err := s.usageRepo.ListRecordsSince(userID, start)
	if err != nil {
		return nil, err
	}

	summary := &dto.UsageSummary{
		Period:    period,
		StartDate: start,
		EndDate:   now,
		Services:  make(map[string]*dto.ServiceUsage),
	}

	for _, r := range records {
		summary.TotalUnits += r.Units
		summary.TotalCost += r.Cost

		svc, ok := summary.Services[r.Service]
		if !ok {
			svc = &dto.ServiceUsage{Operations: make(map[string]*dto.OperationUsage)}
			summary.Services[r.Service] = svc
		}
		svc.Units += r.Units
		svc.Cost += r.Cost

		op, ok := svc.Operations[r.Operation]
		if !ok {
			op = &dto.OperationUsage{}
			svc.Operations[r.Operation] = op
		}
		op.Units += r.Units
		op.Cost += r.Cost
	}

	return summary, nil
}

// ListRecords 分页查询用户的审计记录
func (s *UsageService) ListRecords(userID int64, page, limit int) ([]model.UsageRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.usageRepo.ListRecordsByUser(userID, page, limit)
}

// ListModelCounts 列出用户各模型的调用计数，附带免费套餐上限
func (s *UsageService) ListModelCounts(userID int64) ([]dto.ModelUsageInfo, error) {
	usages, err := s.usageRepo.ListCountsByUser(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.ModelUsageInfo, 0, len(usages))
	for _, u := range usages {
		info := dto.ModelUsageInfo{
			ModelID: u.ModelID,
			Count:   u.Count,
		}
		if m, err := s.modelRepo.GetByID(u.ModelID); err == nil {
			info.ModelName = m.Name
			info.Tier = m.Tier
			if m.Tier != model.TierFree {
				info.Limit = s.cfg.Entitlement.FreeLimit()
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
