package public

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var couponErrorRules = []handlershared.MappedError{
	{Target: service.ErrCouponInvalid, Code: response.CodeBadRequest, Key: "error.coupon_invalid"},
	{Target: service.ErrCouponNotFound, Code: response.CodeBadRequest, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponInactive, Code: response.CodeBadRequest, Key: "error.coupon_inactive"},
	{Target: service.ErrCouponNotStarted, Code: response.CodeBadRequest, Key: "error.coupon_not_started"},
	{Target: service.ErrCouponExpired, Code: response.CodeBadRequest, Key: "error.coupon_expired"},
	{Target: service.ErrCouponUsageLimit, Code: response.CodeBadRequest, Key: "error.coupon_usage_limit"},
	{Target: service.ErrCouponMinAmount, Code: response.CodeBadRequest, Key: "error.coupon_min_amount"},
}

var pricingErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrQuoteLinesInvalid, Code: response.CodeBadRequest, Key: "error.quote_lines_invalid"},
	{Target: service.ErrInvalidCartItem, Code: response.CodeBadRequest, Key: "error.cart_item_invalid"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrProductPriceHidden, Code: response.CodeBadRequest, Key: "error.product_price_unavailable"},
	{Target: service.ErrShippingMethodInvalid, Code: response.CodeBadRequest, Key: "error.shipping_method_invalid"},
}, couponErrorRules...)

var cartErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidCartItem, Code: response.CodeBadRequest, Key: "error.cart_item_invalid"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
}
