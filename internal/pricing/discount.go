// Package pricing 实现订单计价：商品折扣、优惠券、运费与合计。
// 所有函数均为纯计算，不访问数据源，相同输入得到相同输出。
package pricing

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Issue 价格数据质量问题，计价时按钳制处理并上报
type Issue struct {
	Source string `json:"source"`
	RefID  uint   `json:"ref_id"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// DiscountRule 商品自身折扣规则：NoDiscount | FixedDiscount | PercentageDiscount
type DiscountRule interface {
	isDiscountRule()
}

// NoDiscount 无折扣
type NoDiscount struct{}

// FixedDiscount 每件立减固定金额
type FixedDiscount struct {
	Amount decimal.Decimal
}

// PercentageDiscount 按百分比折扣（0-100）
type PercentageDiscount struct {
	Percent decimal.Decimal
}

func (NoDiscount) isDiscountRule()         {}
func (FixedDiscount) isDiscountRule()      {}
func (PercentageDiscount) isDiscountRule() {}

// RuleFromProduct 将商品存储的折扣字段解析为折扣规则
// 无可用数值或未知类型时退化为 NoDiscount，并返回对应问题
func RuleFromProduct(p models.Product) (DiscountRule, []Issue) {
	kind := strings.ToLower(strings.TrimSpace(p.DiscountType))
	value := p.DiscountValue.Decimal
	issue := func(code, detail string) []Issue {
		return []Issue{{Source: constants.PricingIssueSourceProduct, RefID: p.ID, Code: code, Detail: detail}}
	}

	switch kind {
	case "", constants.DiscountTypeNone:
		return NoDiscount{}, nil
	case constants.DiscountTypeFixed, constants.DiscountTypePercentage:
	default:
		return NoDiscount{}, issue(constants.PricingIssueDiscountTypeUnknown, fmt.Sprintf("unknown discount type %q", p.DiscountType))
	}

	if value.IsNegative() {
		return NoDiscount{}, issue(constants.PricingIssueDiscountValueNegative, fmt.Sprintf("%s discount value %s is negative", kind, value.String()))
	}
	if value.IsZero() {
		return NoDiscount{}, issue(constants.PricingIssueDiscountValueMissing, fmt.Sprintf("%s discount has no value", kind))
	}

	if kind == constants.DiscountTypeFixed {
		return FixedDiscount{Amount: value}, nil
	}
	if value.GreaterThan(hundred) {
		return PercentageDiscount{Percent: value}, issue(constants.PricingIssuePercentageOutOfRange, fmt.Sprintf("percentage %s exceeds 100", value.String()))
	}
	return PercentageDiscount{Percent: value}, nil
}

// EffectiveUnitPrice 计算商品折后单价，结果钳制在 [0, base]，不做舍入
func EffectiveUnitPrice(base decimal.Decimal, rule DiscountRule) (decimal.Decimal, []Issue) {
	if base.IsNegative() {
		base = decimal.Zero
	}
	var issues []Issue

	switch r := rule.(type) {
	case nil, NoDiscount:
		return base, nil
	case FixedDiscount:
		amount := r.Amount
		if amount.IsNegative() {
			return base, []Issue{{Code: constants.PricingIssueDiscountValueNegative, Detail: "fixed discount is negative"}}
		}
		if amount.GreaterThan(base) {
			issues = append(issues, Issue{
				Code:   constants.PricingIssueFixedExceedsPrice,
				Detail: fmt.Sprintf("fixed discount %s exceeds price %s", amount.String(), base.String()),
			})
		}
		return clampPrice(base.Sub(amount), base), issues
	case PercentageDiscount:
		percent := r.Percent
		if percent.IsNegative() {
			return base, []Issue{{Code: constants.PricingIssueDiscountValueNegative, Detail: "percentage discount is negative"}}
		}
		off := base.Mul(percent).Div(hundred)
		return clampPrice(base.Sub(off), base), nil
	default:
		return base, []Issue{{Code: constants.PricingIssueDiscountTypeUnknown, Detail: fmt.Sprintf("unhandled discount rule %T", rule)}}
	}
}

func clampPrice(value, ceiling decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	if value.GreaterThan(ceiling) {
		return ceiling
	}
	return value
}
