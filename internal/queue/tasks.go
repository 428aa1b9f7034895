package queue

import (
	"encoding/json"

	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPricingIssueReport 价格数据问题上报任务
	TaskPricingIssueReport = constants.TaskPricingIssueReport
	// TaskCatalogCacheFlush 目录缓存清理任务
	TaskCatalogCacheFlush = constants.TaskCatalogCacheFlush
)

// PricingIssueItem 单条价格数据问题
type PricingIssueItem struct {
	Source string `json:"source"`
	RefID  uint   `json:"ref_id"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// PricingIssueReportPayload 价格数据问题上报载荷
type PricingIssueReportPayload struct {
	Issues []PricingIssueItem `json:"issues"`
}

// CatalogCacheFlushPayload 目录缓存清理载荷
type CatalogCacheFlushPayload struct {
	Reason string `json:"reason"`
}

// NewPricingIssueReportTask 创建价格数据问题上报任务
func NewPricingIssueReportTask(payload PricingIssueReportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPricingIssueReport, body), nil
}

// NewCatalogCacheFlushTask 创建目录缓存清理任务
func NewCatalogCacheFlushTask(payload CatalogCacheFlushPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogCacheFlush, body), nil
}
