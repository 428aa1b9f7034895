package shared

// messages 错误消息键到展示文案的映射
var messages = map[string]string{
	"error.bad_request":                "Invalid request parameters",
	"error.unauthorized":               "Unauthorized",
	"error.forbidden":                  "Permission denied",
	"error.auth_header_missing":        "Authorization header is missing",
	"error.auth_header_invalid":        "Authorization header is malformed",
	"error.token_invalid":              "Token is invalid or expired",
	"error.jwt_secret_missing":         "Token verification is not configured",
	"error.user_id_invalid":            "User id is invalid",
	"error.user_id_type_invalid":       "User id has an unexpected type",
	"error.rate_limited":               "Too many requests, retry later",
	"error.rate_limit_unavailable":     "Rate limiter is unavailable",
	"error.catalog_query_invalid":      "Catalog query parameters are invalid",
	"error.catalog_unavailable":        "Catalog is temporarily unavailable",
	"error.catalog_cache_flush_failed": "Catalog cache flush failed",
	"error.category_fetch_failed":      "Failed to load categories",
	"error.category_not_found":         "Category not found",
	"error.cart_item_invalid":          "Cart item is invalid",
	"error.cart_empty":                 "Cart is empty",
	"error.cart_fetch_failed":          "Failed to load cart",
	"error.cart_update_failed":         "Failed to update cart",
	"error.product_not_available":      "Product is not available",
	"error.product_price_unavailable":  "Product price is not available",
	"error.checkout_blocked":           "Remove unavailable items to continue",
	"error.quote_lines_invalid":        "Quote lines are invalid",
	"error.shipping_method_invalid":    "Shipping method is invalid",
	"error.coupon_invalid":             "Coupon is invalid",
	"error.coupon_not_found":           "Coupon not found",
	"error.coupon_inactive":            "Coupon is inactive",
	"error.coupon_not_started":         "Coupon is not active yet",
	"error.coupon_expired":             "Coupon has expired",
	"error.coupon_usage_limit":         "Coupon usage limit reached",
	"error.coupon_min_amount":          "Order does not reach the coupon minimum",
	"error.pricing_failed":             "Failed to price order",
	"error.pricing_issue_fetch_failed": "Failed to load pricing issues",
}

// Message 返回消息键对应的文案，未登记的键原样返回
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
