package models

import "time"

// PricingIssue 价格数据质量问题记录（折扣规则异常等）
type PricingIssue struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                      // 主键
	Source      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_pricing_issue_ref" json:"source"` // 来源（product/coupon）
	RefID       uint      `gorm:"not null;uniqueIndex:idx_pricing_issue_ref" json:"ref_id"`                  // 来源记录ID
	Code        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_pricing_issue_ref" json:"code"`   // 问题代码
	Detail      string    `gorm:"type:varchar(500)" json:"detail"`                                           // 问题描述
	Occurrences int       `gorm:"not null;default:1" json:"occurrences"`                                     // 出现次数
	FirstSeenAt time.Time `gorm:"index" json:"first_seen_at"`                                                // 首次发现时间
	LastSeenAt  time.Time `gorm:"index" json:"last_seen_at"`                                                 // 最近发现时间
}

// TableName 指定表名
func (PricingIssue) TableName() string {
	return "pricing_issues"
}
