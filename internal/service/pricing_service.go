package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/pricing"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/hibiken/asynq"
)

const maxQuoteLines = 100

// IssueReporter 价格数据问题上报通道
type IssueReporter interface {
	EnqueuePricingIssueReport(payload queue.PricingIssueReportPayload, opts ...asynq.Option) error
}

// PriceOptions 计价选项
type PriceOptions struct {
	CouponCode     string
	ShippingMethod string
}

// QuoteLineInput 游客报价行
type QuoteLineInput struct {
	ProductID uint
	Quantity  int
}

// CouponSummary 已应用优惠券摘要
type CouponSummary struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Type string `json:"type"`
}

// PricedCart 计价结果
type PricedCart struct {
	pricing.PricedOrder
	Currency string         `json:"currency"`
	Coupon   *CouponSummary `json:"coupon,omitempty"`
	// Notice 面向用户的提示文案，由接口层填充
	Notice string `json:"notice,omitempty"`
}

// PricingService 订单计价服务
type PricingService struct {
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	cartRepo    repository.CartRepository
	calculator  *pricing.Calculator
	reporter    IssueReporter
	metrics     *metrics.Metrics
	currency    string
	now         func() time.Time
}

// NewPricingService 创建计价服务，reporter 可为 nil
func NewPricingService(
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	cartRepo repository.CartRepository,
	calculator *pricing.Calculator,
	reporter IssueReporter,
	m *metrics.Metrics,
	currency string,
) *PricingService {
	return &PricingService{
		productRepo: productRepo,
		couponRepo:  couponRepo,
		cartRepo:    cartRepo,
		calculator:  calculator,
		reporter:    reporter,
		metrics:     m,
		currency:    currency,
		now:         time.Now,
	}
}

// PriceCart 对用户购物车计价，下架商品从购物车移除后不参与计价，未展示价格的商品不可计价
func (s *PricingService) PriceCart(ctx context.Context, userID uint, opts PriceOptions) (*PricedCart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil || !item.Product.IsActive {
			if err := s.cartRepo.DeleteByUserAndProduct(ctx, userID, item.ProductID); err != nil {
				logger.FromContext(ctx).Warnw("cart_inactive_item_remove_failed",
					"user_id", userID,
					"product_id", item.ProductID,
					"error", err,
				)
			}
			continue
		}
		if !item.Product.IsPriceActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductPriceHidden, item.ProductID)
		}
		lines = append(lines, pricing.NewLine(item.ID, *item.Product, item.Quantity))
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	return s.price(ctx, lines, opts)
}

// Quote 游客报价：按商品ID与数量计价，行号按输入顺序从 1 开始
func (s *PricingService) Quote(ctx context.Context, inputs []QuoteLineInput, opts PriceOptions) (*PricedCart, error) {
	if len(inputs) == 0 || len(inputs) > maxQuoteLines {
		return nil, ErrQuoteLinesInvalid
	}
	ids := make([]uint, 0, len(inputs))
	seen := make(map[uint]struct{}, len(inputs))
	for _, input := range inputs {
		if input.ProductID == 0 || input.Quantity < 1 {
			return nil, ErrQuoteLinesInvalid
		}
		if _, ok := seen[input.ProductID]; !ok {
			seen[input.ProductID] = struct{}{}
			ids = append(ids, input.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := s.productRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	lines := make([]pricing.Line, 0, len(inputs))
	for idx, input := range inputs {
		product, ok := byID[input.ProductID]
		if !ok || !product.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotAvailable, input.ProductID)
		}
		if !product.IsPriceActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductPriceHidden, input.ProductID)
		}
		lines = append(lines, pricing.NewLine(uint(idx+1), product, input.Quantity))
	}
	return s.price(ctx, lines, opts)
}

func (s *PricingService) price(ctx context.Context, lines []pricing.Line, opts PriceOptions) (*PricedCart, error) {
	method := strings.ToLower(strings.TrimSpace(opts.ShippingMethod))

	// 先不带券计算一次，用于门槛校验
	base, err := s.calculator.PriceOrder(lines, nil, method)
	if err != nil {
		return nil, mapCalculatorError(err)
	}

	result := &PricedCart{PricedOrder: base, Currency: s.currency}
	if code := strings.TrimSpace(opts.CouponCode); code != "" {
		coupon, err := s.resolveCoupon(ctx, code, base.Subtotal)
		if err != nil {
			s.metrics.ObservePricedOrder(metrics.OutcomeCouponDenied)
			return nil, err
		}
		rule, err := pricing.CouponRuleFromModel(*coupon)
		if err != nil {
			s.metrics.ObservePricedOrder(metrics.OutcomeCouponDenied)
			return nil, fmt.Errorf("%w: %w", ErrCouponInvalid, err)
		}
		order, err := s.calculator.PriceOrder(lines, rule, method)
		if err != nil {
			return nil, mapCalculatorError(err)
		}
		result.PricedOrder = order
		result.Coupon = &CouponSummary{ID: coupon.ID, Code: coupon.Code, Type: coupon.DiscountType}
	}

	s.reportWarnings(ctx, result.Warnings)
	if result.CheckoutBlocked {
		s.metrics.ObservePricedOrder(metrics.OutcomeBlocked)
	} else {
		s.metrics.ObservePricedOrder(metrics.OutcomeConfirmable)
	}
	return result, nil
}

func mapCalculatorError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrUnknownShippingMethod):
		return fmt.Errorf("%w: %w", ErrShippingMethodInvalid, err)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidCartItem, err)
	default:
		return err
	}
}

func (s *PricingService) resolveCoupon(ctx context.Context, code string, subtotal models.Money) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if err := checkCouponEligible(coupon, subtotal, s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

// checkCouponEligible 校验优惠券启用状态、有效期、使用次数与门槛
func checkCouponEligible(coupon *models.Coupon, subtotal models.Money, now time.Time) error {
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return ErrCouponUsageLimit
	}
	if subtotal.Decimal.LessThan(coupon.MinAmount.Decimal) {
		return ErrCouponMinAmount
	}
	return nil
}

// reportWarnings 记录并异步上报价格数据问题，上报失败不影响计价结果
func (s *PricingService) reportWarnings(ctx context.Context, warnings []pricing.Issue) {
	if len(warnings) == 0 {
		return
	}
	log := logger.FromContext(ctx)
	items := make([]queue.PricingIssueItem, 0, len(warnings))
	for _, w := range warnings {
		log.Warnw("pricing_discount_rule_invalid",
			"source", w.Source,
			"ref_id", w.RefID,
			"code", w.Code,
			"detail", w.Detail,
		)
		s.metrics.ObservePricingWarning(w.Source, w.Code)
		items = append(items, queue.PricingIssueItem{Source: w.Source, RefID: w.RefID, Code: w.Code, Detail: w.Detail})
	}
	if s.reporter == nil {
		return
	}
	if err := s.reporter.EnqueuePricingIssueReport(queue.PricingIssueReportPayload{Issues: items}); err != nil {
		log.Warnw("pricing_issue_enqueue_failed", "count", len(items), "error", err)
	}
}
