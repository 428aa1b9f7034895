package worker

import (
	"context"
	"encoding/json"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPricingIssueReport, c.handlePricingIssueReport)
	mux.HandleFunc(queue.TaskCatalogCacheFlush, c.handleCatalogCacheFlush)
}

func (c *Consumer) handlePricingIssueReport(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_pricing_issue_report_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PricingIssueReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_pricing_issue_report_unmarshal_failed", "error", err)
		// 载荷损坏无法重试成功
		return asynq.SkipRetry
	}
	if len(payload.Issues) == 0 {
		logger.Debugw("worker_pricing_issue_report_skip_empty")
		return nil
	}
	if c.PricingIssueService == nil {
		logger.Warnw("worker_pricing_issue_report_skip_service_nil", "count", len(payload.Issues))
		return nil
	}
	if err := c.PricingIssueService.RecordBatch(ctx, payload.Issues); err != nil {
		logger.Warnw("worker_pricing_issue_report_record_failed", "count", len(payload.Issues), "error", err)
		return err
	}
	logger.Debugw("worker_pricing_issue_report_recorded", "count", len(payload.Issues))
	return nil
}

func (c *Consumer) handleCatalogCacheFlush(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_catalog_cache_flush_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CatalogCacheFlushPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_catalog_cache_flush_unmarshal_failed", "error", err)
		return asynq.SkipRetry
	}
	if c.CatalogService == nil {
		logger.Warnw("worker_catalog_cache_flush_skip_service_nil", "reason", payload.Reason)
		return nil
	}
	removed, err := c.CatalogService.FlushCache(ctx)
	if err != nil {
		logger.Warnw("worker_catalog_cache_flush_failed", "reason", payload.Reason, "error", err)
		return err
	}
	logger.Infow("worker_catalog_cache_flushed", "reason", payload.Reason, "removed", removed)
	return nil
}
