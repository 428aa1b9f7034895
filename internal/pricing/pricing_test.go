package pricing

import (
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func testProduct(id uint, price, discountType, discountValue string, stock int) models.Product {
	return models.Product{
		ID:              id,
		PriceAmount:     models.MustMoney(price),
		DiscountType:    discountType,
		DiscountValue:   models.MustMoney(discountValue),
		QuantityInStock: stock,
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	cases := []struct {
		name   string
		base   string
		rule   DiscountRule
		want   string
		issues int
	}{
		{name: "none", base: "100", rule: NoDiscount{}, want: "100"},
		{name: "nil rule", base: "100", rule: nil, want: "100"},
		{name: "percentage", base: "100", rule: PercentageDiscount{Percent: dec("20")}, want: "80"},
		{name: "percentage keeps precision", base: "9.99", rule: PercentageDiscount{Percent: dec("15")}, want: "8.4915"},
		{name: "percentage over 100 clamps", base: "100", rule: PercentageDiscount{Percent: dec("150")}, want: "0"},
		{name: "fixed", base: "100", rule: FixedDiscount{Amount: dec("30")}, want: "70"},
		{name: "fixed exceeds price clamps", base: "100", rule: FixedDiscount{Amount: dec("130")}, want: "0", issues: 1},
		{name: "negative fixed ignored", base: "100", rule: FixedDiscount{Amount: dec("-5")}, want: "100", issues: 1},
		{name: "negative percentage ignored", base: "100", rule: PercentageDiscount{Percent: dec("-5")}, want: "100", issues: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, issues := EffectiveUnitPrice(dec(tc.base), tc.rule)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
			assert.Len(t, issues, tc.issues)
		})
	}
}

func TestEffectiveUnitPriceNeverExceedsBaseOrGoesNegative(t *testing.T) {
	bases := []string{"0", "0.01", "1", "49.99", "100", "12345.67"}
	rules := []DiscountRule{
		NoDiscount{},
		FixedDiscount{Amount: dec("0.01")},
		FixedDiscount{Amount: dec("50")},
		FixedDiscount{Amount: dec("1000000")},
		PercentageDiscount{Percent: dec("0.5")},
		PercentageDiscount{Percent: dec("99.99")},
		PercentageDiscount{Percent: dec("100")},
		PercentageDiscount{Percent: dec("250")},
	}
	for _, b := range bases {
		for _, rule := range rules {
			base := dec(b)
			got, _ := EffectiveUnitPrice(base, rule)
			assert.False(t, got.IsNegative(), "base %s rule %#v", b, rule)
			assert.True(t, got.LessThanOrEqual(base), "base %s rule %#v", b, rule)

			again, _ := EffectiveUnitPrice(base, rule)
			assert.True(t, got.Equal(again))
		}
	}
}

func TestRuleFromProduct(t *testing.T) {
	rule, issues := RuleFromProduct(testProduct(1, "100", constants.DiscountTypePercentage, "20", 1))
	assert.Equal(t, PercentageDiscount{Percent: dec("20")}.Percent.String(), rule.(PercentageDiscount).Percent.String())
	assert.Empty(t, issues)

	rule, issues = RuleFromProduct(testProduct(2, "100", constants.DiscountTypeFixed, "0", 1))
	assert.IsType(t, NoDiscount{}, rule)
	require.Len(t, issues, 1)
	assert.Equal(t, constants.PricingIssueDiscountValueMissing, issues[0].Code)
	assert.Equal(t, constants.PricingIssueSourceProduct, issues[0].Source)
	assert.Equal(t, uint(2), issues[0].RefID)

	rule, issues = RuleFromProduct(testProduct(3, "100", "bogo", "10", 1))
	assert.IsType(t, NoDiscount{}, rule)
	require.Len(t, issues, 1)
	assert.Equal(t, constants.PricingIssueDiscountTypeUnknown, issues[0].Code)

	rule, issues = RuleFromProduct(testProduct(4, "100", constants.DiscountTypePercentage, "120", 1))
	assert.IsType(t, PercentageDiscount{}, rule)
	require.Len(t, issues, 1)
	assert.Equal(t, constants.PricingIssuePercentageOutOfRange, issues[0].Code)

	rule, issues = RuleFromProduct(testProduct(5, "100", constants.DiscountTypeNone, "40", 1))
	assert.IsType(t, NoDiscount{}, rule)
	assert.Empty(t, issues)
}

func TestApplyCoupon(t *testing.T) {
	cases := []struct {
		name     string
		subtotal string
		rule     CouponRule
		discount string
		taxable  string
	}{
		{name: "no coupon", subtotal: "160", rule: nil, discount: "0", taxable: "160"},
		{name: "fixed larger than subtotal", subtotal: "160", rule: FixedCoupon{Amount: dec("500")}, discount: "160", taxable: "0"},
		{name: "fixed", subtotal: "160", rule: FixedCoupon{Amount: dec("10")}, discount: "10", taxable: "150"},
		{name: "percentage", subtotal: "160", rule: PercentageCoupon{Percent: dec("25")}, discount: "40", taxable: "120"},
		{name: "percentage capped", subtotal: "160", rule: PercentageCoupon{Percent: dec("50"), MaxDiscount: dec("30")}, discount: "30", taxable: "130"},
		{name: "percentage over 100", subtotal: "160", rule: PercentageCoupon{Percent: dec("300")}, discount: "160", taxable: "0"},
		{name: "zero subtotal", subtotal: "0", rule: FixedCoupon{Amount: dec("5")}, discount: "0", taxable: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyCoupon(dec(tc.subtotal), tc.rule)
			assert.True(t, got.Discount.Equal(dec(tc.discount)), "discount %s", got.Discount)
			assert.True(t, got.Taxable.Equal(dec(tc.taxable)), "taxable %s", got.Taxable)
		})
	}
}

func TestApplyCouponTaxableNeverNegative(t *testing.T) {
	subtotals := []string{"0", "0.01", "99.99", "160", "100000"}
	rules := []CouponRule{
		FixedCoupon{Amount: dec("0.01")},
		FixedCoupon{Amount: dec("1e9")},
		FixedCoupon{Amount: dec("-10")},
		PercentageCoupon{Percent: dec("100")},
		PercentageCoupon{Percent: dec("1000")},
		PercentageCoupon{Percent: dec("-20")},
	}
	for _, s := range subtotals {
		for _, rule := range rules {
			got := ApplyCoupon(dec(s), rule)
			assert.False(t, got.Taxable.IsNegative(), "subtotal %s rule %#v", s, rule)
			assert.False(t, got.Discount.IsNegative(), "subtotal %s rule %#v", s, rule)
			assert.True(t, got.Discount.LessThanOrEqual(dec(s)), "subtotal %s rule %#v", s, rule)
		}
	}
}

func TestApplyCouponReportsBrokenValue(t *testing.T) {
	got := ApplyCoupon(dec("100"), FixedCoupon{ID: 9, Amount: decimal.Zero})
	require.Len(t, got.Issues, 1)
	assert.Equal(t, constants.PricingIssueSourceCoupon, got.Issues[0].Source)
	assert.Equal(t, uint(9), got.Issues[0].RefID)
	assert.Equal(t, constants.PricingIssueCouponValueMissing, got.Issues[0].Code)
	assert.True(t, got.Taxable.Equal(dec("100")))
}

func TestCouponRuleFromModel(t *testing.T) {
	rule, err := CouponRuleFromModel(models.Coupon{ID: 3, DiscountType: "Percentage", DiscountValue: models.MustMoney("10"), MaxDiscount: models.MustMoney("5")})
	require.NoError(t, err)
	pc, ok := rule.(PercentageCoupon)
	require.True(t, ok)
	assert.Equal(t, uint(3), pc.ID)
	assert.True(t, pc.MaxDiscount.Equal(dec("5")))

	_, err = CouponRuleFromModel(models.Coupon{DiscountType: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownCouponType)
}

func TestShippingPolicy(t *testing.T) {
	policy := DefaultShippingPolicy()

	contact, err := policy.Cost(constants.ShippingMethodContact)
	require.NoError(t, err)
	assert.True(t, contact.IsPending())
	_, ok := contact.Amount()
	assert.False(t, ok)

	express, err := policy.Cost("EXPRESS")
	require.NoError(t, err)
	amount, ok := express.Amount()
	require.True(t, ok)
	assert.True(t, amount.Equal(dec("200")))

	_, err = policy.Cost("drone")
	assert.ErrorIs(t, err, ErrUnknownShippingMethod)
}

func TestShippingCostJSON(t *testing.T) {
	raw, err := PendingShipping().MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"pending":true}`, string(raw))

	raw, err = FlatShipping(dec("200")).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"pending":false,"amount":"200.00"}`, string(raw))
}

func TestPriceOrderPercentageLineTotal(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	line := NewLine(11, testProduct(1, "100", constants.DiscountTypePercentage, "20", 5), 2)

	order, err := calc.PriceOrder([]Line{line}, nil, constants.ShippingMethodContact)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "80.00", order.Lines[0].EffectiveUnitPrice.String())
	assert.Equal(t, "160.00", order.Lines[0].LineTotal.String())
	assert.Equal(t, "160.00", order.Subtotal.String())
	assert.True(t, order.ShippingPending)
	assert.Equal(t, "160.00", order.GrandTotal.String())
	assert.False(t, order.CheckoutBlocked)
	assert.Empty(t, order.BlockedLineIDs)
}

func TestPriceOrderFixedCouponDoesNotGoNegative(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	line := NewLine(1, testProduct(1, "100", constants.DiscountTypePercentage, "20", 5), 2)

	order, err := calc.PriceOrder([]Line{line}, FixedCoupon{Amount: dec("500")}, constants.ShippingMethodContact)
	require.NoError(t, err)
	assert.Equal(t, "160.00", order.CouponDiscount.String())
	assert.Equal(t, "0.00", order.TaxableAmount.String())
	assert.Equal(t, "0.00", order.GrandTotal.String())
}

func TestPriceOrderExpressOnZeroTaxable(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	line := NewLine(1, testProduct(1, "100", constants.DiscountTypePercentage, "20", 5), 2)

	order, err := calc.PriceOrder([]Line{line}, FixedCoupon{Amount: dec("500")}, constants.ShippingMethodExpress)
	require.NoError(t, err)
	assert.Equal(t, "0.00", order.TaxableAmount.String())
	assert.False(t, order.ShippingPending)
	assert.Equal(t, "200.00", order.GrandTotal.String())
}

func TestPriceOrderStockGuard(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	lines := []Line{
		NewLine(21, testProduct(1, "10", constants.DiscountTypeNone, "0", 3), 1),
		NewLine(22, testProduct(2, "15", constants.DiscountTypeNone, "0", 0), 2),
	}

	order, err := calc.PriceOrder(lines, nil, constants.ShippingMethodExpress)
	require.NoError(t, err)
	assert.True(t, order.CheckoutBlocked)
	assert.Equal(t, []uint{22}, order.BlockedLineIDs)
	assert.True(t, order.Lines[1].OutOfStock)
	assert.Equal(t, "40.00", order.Subtotal.String())
	assert.Equal(t, "240.00", order.GrandTotal.String())
}

func TestPriceOrderRoundsOnlyAtAggregation(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	// 9.99 * 0.85 = 8.4915 per unit; 3 units = 25.4745 -> 25.47
	line := NewLine(1, testProduct(1, "9.99", constants.DiscountTypePercentage, "15", 10), 3)

	order, err := calc.PriceOrder([]Line{line}, nil, constants.ShippingMethodContact)
	require.NoError(t, err)
	assert.Equal(t, "8.49", order.Lines[0].EffectiveUnitPrice.String())
	assert.Equal(t, "25.47", order.Lines[0].LineTotal.String())
	assert.Equal(t, "25.47", order.Subtotal.String())
}

func TestPriceOrderCollectsWarnings(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	lines := []Line{
		NewLine(1, testProduct(7, "50", constants.DiscountTypeFixed, "80", 1), 1),
		NewLine(2, testProduct(8, "50", constants.DiscountTypePercentage, "", 1), 1),
	}

	order, err := calc.PriceOrder(lines, nil, constants.ShippingMethodContact)
	require.NoError(t, err)
	require.Len(t, order.Warnings, 2)
	assert.Equal(t, constants.PricingIssueFixedExceedsPrice, order.Warnings[0].Code)
	assert.Equal(t, uint(7), order.Warnings[0].RefID)
	assert.Equal(t, constants.PricingIssueSourceProduct, order.Warnings[0].Source)
	assert.Equal(t, constants.PricingIssueDiscountValueMissing, order.Warnings[1].Code)
	assert.Equal(t, "50.00", order.Subtotal.String())
}

func TestPriceOrderRejectsBadInput(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	line := NewLine(1, testProduct(1, "10", constants.DiscountTypeNone, "0", 1), 0)

	_, err := calc.PriceOrder([]Line{line}, nil, constants.ShippingMethodExpress)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = calc.PriceOrder(nil, nil, "teleport")
	assert.ErrorIs(t, err, ErrUnknownShippingMethod)
}

func TestPriceOrderDeterministic(t *testing.T) {
	calc := NewCalculator(ShippingPolicy{ExpressFee: dec("12.5")})
	lines := []Line{
		NewLine(1, testProduct(1, "19.99", constants.DiscountTypePercentage, "33", 4), 3),
		NewLine(2, testProduct(2, "5", constants.DiscountTypeFixed, "1.25", 0), 7),
		NewLine(3, testProduct(3, "120", constants.DiscountTypeNone, "0", 9), 1),
	}
	coupon := PercentageCoupon{Percent: dec("12.5"), MaxDiscount: dec("20")}

	first, err := calc.PriceOrder(lines, coupon, constants.ShippingMethodExpress)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := calc.PriceOrder(lines, coupon, constants.ShippingMethodExpress)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPriceOrderEmptyCart(t *testing.T) {
	calc := NewCalculator(DefaultShippingPolicy())
	order, err := calc.PriceOrder(nil, FixedCoupon{Amount: dec("10")}, constants.ShippingMethodContact)
	require.NoError(t, err)
	assert.Equal(t, "0.00", order.Subtotal.String())
	assert.Equal(t, "0.00", order.GrandTotal.String())
	assert.False(t, order.CheckoutBlocked)
}
