package service

import (
	"context"
	"strings"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
)

const pricingIssueDetailMaxLen = 500

// PricingIssueService 价格数据问题服务
type PricingIssueService struct {
	repo repository.PricingIssueRepository
}

// NewPricingIssueService 创建价格数据问题服务
func NewPricingIssueService(repo repository.PricingIssueRepository) *PricingIssueService {
	return &PricingIssueService{repo: repo}
}

// RecordBatch 持久化一批问题，同批次内重复项合并计数
func (s *PricingIssueService) RecordBatch(ctx context.Context, items []queue.PricingIssueItem) error {
	if len(items) == 0 {
		return nil
	}
	type issueKey struct {
		source string
		refID  uint
		code   string
	}
	now := time.Now()
	merged := make(map[issueKey]*models.PricingIssue, len(items))
	order := make([]issueKey, 0, len(items))
	for _, item := range items {
		source := strings.TrimSpace(item.Source)
		code := strings.TrimSpace(item.Code)
		if source == "" || code == "" {
			continue
		}
		key := issueKey{source: source, refID: item.RefID, code: code}
		if existing, ok := merged[key]; ok {
			existing.Occurrences++
			existing.Detail = truncateDetail(item.Detail)
			continue
		}
		merged[key] = &models.PricingIssue{
			Source:      source,
			RefID:       item.RefID,
			Code:        code,
			Detail:      truncateDetail(item.Detail),
			Occurrences: 1,
			FirstSeenAt: now,
			LastSeenAt:  now,
		}
		order = append(order, key)
	}
	for _, key := range order {
		if err := s.repo.Record(ctx, merged[key]); err != nil {
			return err
		}
	}
	return nil
}

// List 分页查询问题列表
func (s *PricingIssueService) List(ctx context.Context, filter repository.PricingIssueListFilter) ([]models.PricingIssue, int64, error) {
	filter.Source = strings.TrimSpace(filter.Source)
	filter.Code = strings.TrimSpace(filter.Code)
	return s.repo.List(ctx, filter)
}

func truncateDetail(detail string) string {
	runes := []rune(strings.TrimSpace(detail))
	if len(runes) > pricingIssueDetailMaxLen {
		return string(runes[:pricingIssueDetailMaxLen])
	}
	return string(runes)
}
