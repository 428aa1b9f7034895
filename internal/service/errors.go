package service

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrProductNotAvailable   = errors.New("product not available")
	ErrProductPriceHidden    = errors.New("product price not available")
	ErrInvalidCartItem       = errors.New("invalid cart item")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrQuoteLinesInvalid     = errors.New("quote lines invalid")
	ErrShippingMethodInvalid = errors.New("shipping method invalid")
	ErrCouponInvalid         = errors.New("coupon invalid")
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrCouponInactive        = errors.New("coupon inactive")
	ErrCouponNotStarted      = errors.New("coupon not started")
	ErrCouponExpired         = errors.New("coupon expired")
	ErrCouponUsageLimit      = errors.New("coupon usage limit reached")
	ErrCouponMinAmount       = errors.New("coupon min amount not reached")
	ErrCacheUnavailable      = errors.New("cache unavailable")
)
