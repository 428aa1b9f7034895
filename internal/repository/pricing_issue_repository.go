package repository

import (
	"context"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricingIssueRepository 价格数据问题访问接口
type PricingIssueRepository interface {
	Record(ctx context.Context, issue *models.PricingIssue) error
	List(ctx context.Context, filter PricingIssueListFilter) ([]models.PricingIssue, int64, error)
}

// GormPricingIssueRepository GORM 实现
type GormPricingIssueRepository struct {
	db *gorm.DB
}

// NewPricingIssueRepository 创建价格数据问题仓库
func NewPricingIssueRepository(db *gorm.DB) *GormPricingIssueRepository {
	return &GormPricingIssueRepository{db: db}
}

// Record 记录问题：同一 (source, ref_id, code) 只保留一行，重复出现累加次数
func (r *GormPricingIssueRepository) Record(ctx context.Context, issue *models.PricingIssue) error {
	if issue == nil {
		return nil
	}
	now := issue.LastSeenAt
	if now.IsZero() {
		now = time.Now()
	}
	issue.LastSeenAt = now
	if issue.FirstSeenAt.IsZero() {
		issue.FirstSeenAt = now
	}
	if issue.Occurrences <= 0 {
		issue.Occurrences = 1
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source"}, {Name: "ref_id"}, {Name: "code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"occurrences":  gorm.Expr("pricing_issues.occurrences + ?", issue.Occurrences),
			"detail":       issue.Detail,
			"last_seen_at": now,
		}),
	}).Create(issue).Error
}

// List 获取问题列表，最近出现的在前
func (r *GormPricingIssueRepository) List(ctx context.Context, filter PricingIssueListFilter) ([]models.PricingIssue, int64, error) {
	var issues []models.PricingIssue
	query := r.db.WithContext(ctx).Model(&models.PricingIssue{})
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.RefID > 0 {
		query = query.Where("ref_id = ?", filter.RefID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("last_seen_at DESC, id DESC").Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}
