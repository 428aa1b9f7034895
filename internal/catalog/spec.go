// Package catalog 描述商品目录查询：筛选、排序与分页参数，以及读取数据源的契约。
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

// SearchMode 搜索匹配模式
type SearchMode string

const (
	SearchContains SearchMode = constants.SearchModeContains
	SearchPrefix   SearchMode = constants.SearchModePrefix
)

// StockFilter 库存筛选
type StockFilter string

const (
	StockAny        StockFilter = constants.StockFilterAny
	StockInStock    StockFilter = constants.StockFilterInStock
	StockOutOfStock StockFilter = constants.StockFilterOutOfStock
)

// SortBy 排序方式
type SortBy string

const (
	SortNewest       SortBy = constants.SortNewest
	SortOldest       SortBy = constants.SortOldest
	SortPriceLowHigh SortBy = constants.SortPriceLowHigh
	SortPriceHighLow SortBy = constants.SortPriceHighLow
)

// PriceRange 价格区间（闭区间，任一端可省略）
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Active 是否设置了任一端价格
func (r PriceRange) Active() bool {
	return r.Min != nil || r.Max != nil
}

// QuerySpec 单次请求的目录查询描述
type QuerySpec struct {
	Page       int
	Limit      int
	Search     string
	SearchMode SearchMode
	CategoryID *uint
	PriceRange PriceRange
	Stock      StockFilter
	OnSaleOnly bool
	Brands     []string
	Statuses   []string
	SortBy     SortBy

	// IncludeInactive 仅在调用方具备后台权限时置为 true
	IncludeInactive bool
}

// Page 查询结果：当前页商品与分页前的匹配总数
type Page struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// ProductSource 商品数据源读取契约
type ProductSource interface {
	FindProducts(ctx context.Context, spec QuerySpec) ([]models.Product, int64, error)
}

// Normalize 补齐默认值并整理集合类参数，不做合法性判断
func (s QuerySpec) Normalize() QuerySpec {
	s.Search = strings.TrimSpace(s.Search)
	if s.SearchMode == "" {
		s.SearchMode = SearchContains
	}
	if s.Stock == "" {
		s.Stock = StockAny
	}
	if s.SortBy == "" {
		s.SortBy = SortNewest
	}
	s.Brands = normalizeSet(s.Brands, false)
	s.Statuses = normalizeSet(s.Statuses, true)
	return s
}

// Validate 校验分页与筛选组合
func (s QuerySpec) Validate() error {
	if s.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidQuery)
	}
	if s.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1", ErrInvalidQuery)
	}
	switch s.SearchMode {
	case SearchContains, SearchPrefix:
	default:
		return fmt.Errorf("%w: unknown search mode %q", ErrInvalidQuery, s.SearchMode)
	}
	switch s.Stock {
	case StockAny, StockInStock, StockOutOfStock:
	default:
		return fmt.Errorf("%w: unknown stock filter %q", ErrInvalidQuery, s.Stock)
	}
	switch s.SortBy {
	case SortNewest, SortOldest, SortPriceLowHigh, SortPriceHighLow:
	default:
		return fmt.Errorf("%w: unknown sort %q", ErrInvalidQuery, s.SortBy)
	}
	if s.PriceRange.Min != nil && s.PriceRange.Min.IsNegative() {
		return fmt.Errorf("%w: min price must be >= 0", ErrInvalidQuery)
	}
	if s.PriceRange.Max != nil && s.PriceRange.Max.IsNegative() {
		return fmt.Errorf("%w: max price must be >= 0", ErrInvalidQuery)
	}
	if s.PriceRange.Min != nil && s.PriceRange.Max != nil && s.PriceRange.Min.GreaterThan(*s.PriceRange.Max) {
		return fmt.Errorf("%w: min price %s exceeds max price %s", ErrInvalidQuery, s.PriceRange.Min.String(), s.PriceRange.Max.String())
	}
	for _, status := range s.Statuses {
		if !isKnownStatus(status) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidQuery, status)
		}
	}
	return nil
}

// Offset 分页偏移量
func (s QuerySpec) Offset() int {
	if s.Page < 1 || s.Limit < 1 {
		return 0
	}
	return (s.Page - 1) * s.Limit
}

// TotalPages 按 total 计算总页数
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

const cacheKeyPrefix = "catalog:q:"

// CacheKey 生成规范化的缓存 key，同义查询得到相同 key
// 各字段值经 URL 编码，搜索词中的分隔符不会与其他筛选条件混淆
func (s QuerySpec) CacheKey() string {
	n := s.Normalize()
	v := url.Values{}
	v.Set("p", strconv.Itoa(n.Page))
	v.Set("l", strconv.Itoa(n.Limit))
	v.Set("m", string(n.SearchMode))
	v.Set("s", strings.ToLower(n.Search))
	if n.CategoryID != nil {
		v.Set("c", strconv.FormatUint(uint64(*n.CategoryID), 10))
	}
	if n.PriceRange.Min != nil {
		v.Set("min", n.PriceRange.Min.String())
	}
	if n.PriceRange.Max != nil {
		v.Set("max", n.PriceRange.Max.String())
	}
	v.Set("st", string(n.Stock))
	v.Set("sale", strconv.FormatBool(n.OnSaleOnly))
	v["b"] = n.Brands
	v["ps"] = n.Statuses
	v.Set("o", string(n.SortBy))
	v.Set("all", strconv.FormatBool(n.IncludeInactive))
	return cacheKeyPrefix + v.Encode()
}

func normalizeSet(values []string, lower bool) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if lower {
			trimmed = strings.ToLower(trimmed)
		}
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	sort.Strings(result)
	if len(result) == 0 {
		return nil
	}
	return result
}

func isKnownStatus(status string) bool {
	switch status {
	case constants.ProductStatusNormal,
		constants.ProductStatusNew,
		constants.ProductStatusComingSoon,
		constants.ProductStatusOnSale,
		constants.ProductStatusBestSeller:
		return true
	default:
		return false
	}
}
