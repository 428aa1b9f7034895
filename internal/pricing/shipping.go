package pricing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"

	"github.com/shopspring/decimal"
)

// ShippingCost 运费：待议（Pending）或确定金额，两者不可混用
type ShippingCost struct {
	pending bool
	amount  decimal.Decimal
}

// PendingShipping 运费待与买家协商
func PendingShipping() ShippingCost {
	return ShippingCost{pending: true}
}

// FlatShipping 固定运费
func FlatShipping(amount decimal.Decimal) ShippingCost {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return ShippingCost{amount: amount}
}

// IsPending 运费是否待定
func (c ShippingCost) IsPending() bool {
	return c.pending
}

// Amount 返回确定的运费，待定时 ok 为 false
func (c ShippingCost) Amount() (decimal.Decimal, bool) {
	if c.pending {
		return decimal.Zero, false
	}
	return c.amount, true
}

// MarshalJSON 待定时不输出金额
func (c ShippingCost) MarshalJSON() ([]byte, error) {
	if c.pending {
		return json.Marshal(struct {
			Pending bool `json:"pending"`
		}{Pending: true})
	}
	return json.Marshal(struct {
		Pending bool   `json:"pending"`
		Amount  string `json:"amount"`
	}{Amount: c.amount.Round(2).StringFixed(2)})
}

// ShippingPolicy 配送计费策略
type ShippingPolicy struct {
	ExpressFee decimal.Decimal
}

// DefaultShippingPolicy 默认快递费
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{ExpressFee: decimal.RequireFromString(constants.ShippingExpressFeeDefault)}
}

// Cost 按配送方式返回运费
func (p ShippingPolicy) Cost(method string) (ShippingCost, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case constants.ShippingMethodContact:
		return PendingShipping(), nil
	case constants.ShippingMethodExpress:
		return FlatShipping(p.ExpressFee), nil
	default:
		return ShippingCost{}, fmt.Errorf("%w: %q", ErrUnknownShippingMethod, method)
	}
}
