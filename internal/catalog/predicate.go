package catalog

import (
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// Matches 判断商品是否满足查询中的全部筛选条件（不含分页）
func (s QuerySpec) Matches(p models.Product) bool {
	if !s.IncludeInactive && !p.IsActive {
		return false
	}
	if s.Search != "" && !s.matchesSearch(p) {
		return false
	}
	if s.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *s.CategoryID) {
		return false
	}
	if !s.IncludeInactive && s.PriceRange.Active() && !p.IsPriceActive {
		return false
	}
	price := p.PriceAmount.Decimal
	if s.PriceRange.Min != nil && price.LessThan(*s.PriceRange.Min) {
		return false
	}
	if s.PriceRange.Max != nil && price.GreaterThan(*s.PriceRange.Max) {
		return false
	}
	switch s.Stock {
	case StockInStock:
		if p.QuantityInStock < 1 {
			return false
		}
	case StockOutOfStock:
		if p.QuantityInStock > 0 {
			return false
		}
	}
	if s.OnSaleOnly && !p.HasDiscountRule() {
		return false
	}
	if len(s.Brands) > 0 && !containsString(s.Brands, p.Brand) {
		return false
	}
	if len(s.Statuses) > 0 && !containsString(s.Statuses, p.Status) {
		return false
	}
	return true
}

func (s QuerySpec) matchesSearch(p models.Product) bool {
	term := strings.ToLower(s.Search)
	fields := []string{p.Slug, p.Brand}
	for _, locale := range []string{constants.LocaleEN, constants.LocaleAR} {
		if v, ok := p.NameJSON[locale].(string); ok {
			fields = append(fields, v)
		}
	}
	for _, field := range fields {
		value := strings.ToLower(field)
		if s.SearchMode == SearchPrefix {
			if strings.HasPrefix(value, term) {
				return true
			}
			continue
		}
		if strings.Contains(value, term) {
			return true
		}
	}
	return false
}

// Less 按排序方式比较两个商品，排序键相同时 id 小者在前
func (s QuerySpec) Less(a, b models.Product) bool {
	if s.hidesPrice() && (!a.IsPriceActive || !b.IsPriceActive) {
		if a.IsPriceActive != b.IsPriceActive {
			return a.IsPriceActive
		}
		return a.ID < b.ID
	}
	switch s.SortBy {
	case SortOldest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortPriceLowHigh:
		if cmp := a.PriceAmount.Decimal.Cmp(b.PriceAmount.Decimal); cmp != 0 {
			return cmp < 0
		}
	case SortPriceHighLow:
		if cmp := a.PriceAmount.Decimal.Cmp(b.PriceAmount.Decimal); cmp != 0 {
			return cmp > 0
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

// hidesPrice 前台按价格排序时不得依据未展示的价格
func (s QuerySpec) hidesPrice() bool {
	if s.IncludeInactive {
		return false
	}
	return s.SortBy == SortPriceLowHigh || s.SortBy == SortPriceHighLow
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
