package public

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

const checkoutBlockedKey = "error.checkout_blocked"

// QuoteLineRequest 报价行
type QuoteLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// QuoteRequest 游客报价请求
type QuoteRequest struct {
	Items          []QuoteLineRequest `json:"items" binding:"required"`
	CouponCode     string             `json:"coupon_code"`
	ShippingMethod string             `json:"shipping_method" binding:"required"`
}

// Quote 游客报价：不依赖购物车直接计价
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	lines := make([]service.QuoteLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.QuoteLineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err := h.PricingService.Quote(c.Request.Context(), lines, service.PriceOptions{
		CouponCode:     req.CouponCode,
		ShippingMethod: req.ShippingMethod,
	})
	if err != nil {
		respondWithMappedError(c, err, pricingErrorRules, response.CodeInternal, "error.pricing_failed")
		return
	}
	if result.CheckoutBlocked {
		requestLog(c).Infow("pricing_quote_blocked", "blocked_line_ids", result.BlockedLineIDs)
	}
	response.Success(c, withCheckoutNotice(result))
}

// withCheckoutNotice 存在阻断行时附带提示文案
func withCheckoutNotice(result *service.PricedCart) *service.PricedCart {
	if result.CheckoutBlocked {
		result.Notice = handlershared.Message(checkoutBlockedKey)
	}
	return result
}
