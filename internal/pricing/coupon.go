package pricing

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

// CouponRule 已通过资格校验的优惠券规则：FixedCoupon | PercentageCoupon
type CouponRule interface {
	isCouponRule()
	couponID() uint
}

// FixedCoupon 订单立减
type FixedCoupon struct {
	ID     uint
	Amount decimal.Decimal
}

// PercentageCoupon 订单按比例减免，MaxDiscount 为零表示不封顶
type PercentageCoupon struct {
	ID          uint
	Percent     decimal.Decimal
	MaxDiscount decimal.Decimal
}

func (FixedCoupon) isCouponRule()      {}
func (PercentageCoupon) isCouponRule() {}

func (c FixedCoupon) couponID() uint      { return c.ID }
func (c PercentageCoupon) couponID() uint { return c.ID }

// CouponResult 优惠券计算结果
type CouponResult struct {
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Issues   []Issue
}

// CouponRuleFromModel 将优惠券记录转换为规则，不检查有效期与使用次数
func CouponRuleFromModel(c models.Coupon) (CouponRule, error) {
	switch strings.ToLower(strings.TrimSpace(c.DiscountType)) {
	case constants.CouponTypeFixed:
		return FixedCoupon{ID: c.ID, Amount: c.DiscountValue.Decimal}, nil
	case constants.CouponTypePercentage:
		return PercentageCoupon{ID: c.ID, Percent: c.DiscountValue.Decimal, MaxDiscount: c.MaxDiscount.Decimal}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCouponType, c.DiscountType)
	}
}

// ApplyCoupon 计算优惠券对小计的减免，减免额始终落在 [0, subtotal]
func ApplyCoupon(subtotal decimal.Decimal, rule CouponRule) CouponResult {
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	if rule == nil {
		return CouponResult{Discount: decimal.Zero, Taxable: subtotal}
	}

	var (
		discount decimal.Decimal
		issues   []Issue
	)
	issue := func(code, detail string) {
		issues = append(issues, Issue{Source: constants.PricingIssueSourceCoupon, RefID: rule.couponID(), Code: code, Detail: detail})
	}

	switch r := rule.(type) {
	case FixedCoupon:
		if r.Amount.Sign() <= 0 {
			issue(constants.PricingIssueCouponValueMissing, fmt.Sprintf("fixed coupon value %s is not positive", r.Amount.String()))
			discount = decimal.Zero
		} else {
			discount = decimal.Min(r.Amount, subtotal)
		}
	case PercentageCoupon:
		percent := r.Percent
		if percent.Sign() <= 0 {
			issue(constants.PricingIssueCouponValueMissing, fmt.Sprintf("percentage coupon value %s is not positive", percent.String()))
			percent = decimal.Zero
		}
		if percent.GreaterThan(hundred) {
			issue(constants.PricingIssueCouponPercentageTooBig, fmt.Sprintf("percentage %s exceeds 100", percent.String()))
		}
		discount = subtotal.Mul(percent).Div(hundred)
		if r.MaxDiscount.IsPositive() && discount.GreaterThan(r.MaxDiscount) {
			discount = r.MaxDiscount
		}
	default:
		issue(constants.PricingIssueDiscountTypeUnknown, fmt.Sprintf("unhandled coupon rule %T", rule))
		discount = decimal.Zero
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	return CouponResult{Discount: discount, Taxable: taxable, Issues: issues}
}
