package pricing

import (
	"errors"
	"fmt"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrUnknownCouponType     = errors.New("unknown coupon type")
	ErrInvalidQuantity       = errors.New("line quantity must be >= 1")
)

// Line 待计价的购物车行（商品快照 + 数量）
type Line struct {
	ID              uint
	ProductID       uint
	BasePrice       decimal.Decimal
	Discount        DiscountRule
	QuantityInStock int
	Quantity        int

	// ruleIssues 解析商品折扣字段时发现的问题
	ruleIssues []Issue
}

// NewLine 由商品快照构造计价行
func NewLine(lineID uint, product models.Product, quantity int) Line {
	rule, issues := RuleFromProduct(product)
	return Line{
		ID:              lineID,
		ProductID:       product.ID,
		BasePrice:       product.PriceAmount.Decimal,
		Discount:        rule,
		QuantityInStock: product.QuantityInStock,
		Quantity:        quantity,
		ruleIssues:      issues,
	}
}

// PricedLine 单行计价结果
type PricedLine struct {
	LineID             uint         `json:"line_id"`
	ProductID          uint         `json:"product_id"`
	Quantity           int          `json:"quantity"`
	BasePrice          models.Money `json:"base_price"`
	EffectiveUnitPrice models.Money `json:"effective_unit_price"`
	LineTotal          models.Money `json:"line_total"`
	OutOfStock         bool         `json:"out_of_stock"`
}

// PricedOrder 订单计价明细
// CheckoutBlocked 为 true 时 GrandTotal 仅用于展示，不得用于确认下单
type PricedOrder struct {
	Lines           []PricedLine `json:"lines"`
	Subtotal        models.Money `json:"subtotal"`
	CouponDiscount  models.Money `json:"coupon_discount"`
	TaxableAmount   models.Money `json:"taxable_amount"`
	Shipping        ShippingCost `json:"shipping"`
	ShippingPending bool         `json:"shipping_pending"`
	GrandTotal      models.Money `json:"grand_total"`
	CheckoutBlocked bool         `json:"checkout_blocked"`
	BlockedLineIDs  []uint       `json:"blocked_line_ids"`
	Warnings        []Issue      `json:"warnings,omitempty"`
}

// Calculator 订单计价器，无内部状态，可并发使用
type Calculator struct {
	shipping ShippingPolicy
}

// NewCalculator 创建计价器
func NewCalculator(policy ShippingPolicy) *Calculator {
	return &Calculator{shipping: policy}
}

// PriceOrder 计算订单小计、优惠券减免、运费与合计，并检查库存
func (c *Calculator) PriceOrder(lines []Line, coupon CouponRule, shippingMethod string) (PricedOrder, error) {
	shipping, err := c.shipping.Cost(shippingMethod)
	if err != nil {
		return PricedOrder{}, err
	}

	order := PricedOrder{
		Lines:          make([]PricedLine, 0, len(lines)),
		BlockedLineIDs: []uint{},
	}
	rawSubtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity < 1 {
			return PricedOrder{}, fmt.Errorf("%w: line %d has quantity %d", ErrInvalidQuantity, line.ID, line.Quantity)
		}
		order.Warnings = append(order.Warnings, line.ruleIssues...)

		unit, issues := EffectiveUnitPrice(line.BasePrice, line.Discount)
		for _, issue := range issues {
			issue.Source = constants.PricingIssueSourceProduct
			issue.RefID = line.ProductID
			order.Warnings = append(order.Warnings, issue)
		}

		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		rawSubtotal = rawSubtotal.Add(lineTotal)

		outOfStock := line.QuantityInStock <= 0
		if outOfStock {
			order.CheckoutBlocked = true
			order.BlockedLineIDs = append(order.BlockedLineIDs, line.ID)
		}
		order.Lines = append(order.Lines, PricedLine{
			LineID:             line.ID,
			ProductID:          line.ProductID,
			Quantity:           line.Quantity,
			BasePrice:          models.NewMoneyFromDecimal(line.BasePrice),
			EffectiveUnitPrice: models.NewMoneyFromDecimal(unit),
			LineTotal:          models.NewMoneyFromDecimal(lineTotal),
			OutOfStock:         outOfStock,
		})
	}

	subtotal := rawSubtotal.Round(2)
	applied := ApplyCoupon(subtotal, coupon)
	order.Warnings = append(order.Warnings, applied.Issues...)
	discount := applied.Discount.Round(2)
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	grand := taxable
	if fee, ok := shipping.Amount(); ok {
		grand = grand.Add(fee)
	}
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	order.Subtotal = models.NewMoneyFromDecimal(subtotal)
	order.CouponDiscount = models.NewMoneyFromDecimal(discount)
	order.TaxableAmount = models.NewMoneyFromDecimal(taxable)
	order.Shipping = shipping
	order.ShippingPending = shipping.IsPending()
	order.GrandTotal = models.NewMoneyFromDecimal(grand)
	return order, nil
}
