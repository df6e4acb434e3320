package dto

import (
	"time"
)

// TrackUsageEntry 审计记录写入参数
type TrackUsageEntry struct {
	UserID     int64
	APIKeyID   *int64
	Service    string
	Operation  string
	ResourceID *string
	Units      float64 // 0 时取默认值 1
	Cost       float64
	StatusCode *int
}

// OperationUsage 单个操作的用量汇总
type OperationUsage struct {
	Units float64 `json:"units"`
	Cost  float64 `json:"cost"`
}

// ServiceUsage 单个服务的用量汇总及按操作细分
type ServiceUsage struct {
	Units      float64                    `json:"units"`
	Cost       float64                    `json:"cost"`
	Operations map[string]*OperationUsage `json:"operations"`
}

// UsageSummary 指定时间窗内的用量汇总
type UsageSummary struct {
	Period     string                   `json:"period"`
	StartDate  time.Time                `json:"start_date"`
	EndDate    time.Time                `json:"end_date"`
	TotalUnits float64                  `json:"total_units"`
	TotalCost  float64                  `json:"total_cost"`
	Services   map[string]*ServiceUsage `json:"service_usage"`
}

// ModelUsageInfo 单个模型的调用计数
type ModelUsageInfo struct {
	ModelID   int64  `json:"model_id"`
	ModelName string `json:"model_name"`
	Tier      string `json:"tier"`
	Count     int    `json:"count"`
	Limit     int    `json:"limit,omitempty"` // 免费套餐下的上限，0 表示不受限
}
