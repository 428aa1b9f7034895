package constants

// 商品折扣类型常量
const (
	DiscountTypeNone       = "none"
	DiscountTypeFixed      = "fixed"
	DiscountTypePercentage = "percentage"
)

// 优惠券类型常量
const (
	CouponTypeFixed      = "fixed"
	CouponTypePercentage = "percentage"
)

// 商品展示状态常量
const (
	ProductStatusNormal     = "normal"
	ProductStatusNew        = "new"
	ProductStatusComingSoon = "coming_soon"
	ProductStatusOnSale     = "on_sale"
	ProductStatusBestSeller = "best_seller"
)

// 配送方式常量
const (
	ShippingMethodContact = "contact"
	ShippingMethodExpress = "express"
)

// 目录查询库存筛选常量
const (
	StockFilterAny        = "any"
	StockFilterInStock    = "in_stock"
	StockFilterOutOfStock = "out_of_stock"
)

// 目录查询排序常量
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortPriceLowHigh = "price_low_high"
	SortPriceHighLow = "price_high_low"
)

// 搜索匹配模式常量
const (
	SearchModeContains = "contains"
	SearchModePrefix   = "prefix"
)

// 多语言键
const (
	LocaleEN = "en-US"
	LocaleAR = "ar"
)

// 价格数据质量问题代码
const (
	PricingIssueDiscountValueMissing   = "discount_value_missing"
	PricingIssueDiscountValueNegative  = "discount_value_negative"
	PricingIssuePercentageOutOfRange   = "percentage_out_of_range"
	PricingIssueFixedExceedsPrice      = "fixed_exceeds_price"
	PricingIssueDiscountTypeUnknown    = "discount_type_unknown"
	PricingIssueCouponValueMissing     = "coupon_value_missing"
	PricingIssueCouponPercentageTooBig = "coupon_percentage_out_of_range"
)

// 价格数据质量问题来源
const (
	PricingIssueSourceProduct = "product"
	PricingIssueSourceCoupon  = "coupon"
)

// 异步队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskPricingIssueReport = "pricing:issue_report"
	TaskCatalogCacheFlush  = "catalog:cache_flush"
)

// 目录查询默认值
const (
	CatalogDefaultPageSize = 20
	CatalogMaxPageSize     = 100
	CatalogSuggestLimit    = 8
)

// 配送默认值
const (
	ShippingExpressFeeDefault = "200"
	SiteCurrencyDefault       = "USD"
)

// 购物车限制
const (
	CartMaxQuantity = 999
)
