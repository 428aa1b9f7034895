package shared

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/storefront-next/internal/catalog"
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ParseCatalogQuery 将查询串解析为目录查询条件，格式错误返回 catalog.ErrInvalidQuery
func ParseCatalogQuery(c *gin.Context, defaultPageSize int) (catalog.QuerySpec, error) {
	spec := catalog.QuerySpec{
		Search:     c.Query("search"),
		SearchMode: catalog.SearchMode(strings.ToLower(strings.TrimSpace(c.Query("search_mode")))),
		Stock:      catalog.StockFilter(strings.ToLower(strings.TrimSpace(c.Query("stock")))),
		SortBy:     catalog.SortBy(strings.ToLower(strings.TrimSpace(c.Query("sort")))),
		Brands:     splitListParam(c.QueryArray("brand")),
		Statuses:   splitListParam(c.QueryArray("status")),
	}

	var err error
	if spec.Page, err = intParam(c, "page", 1); err != nil {
		return catalog.QuerySpec{}, err
	}
	if spec.Limit, err = intParam(c, "page_size", defaultPageSize); err != nil {
		return catalog.QuerySpec{}, err
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, parseErr := strconv.ParseUint(raw, 10, 64)
		if parseErr != nil || id == 0 {
			return catalog.QuerySpec{}, fmt.Errorf("%w: category_id %q", catalog.ErrInvalidQuery, raw)
		}
		categoryID := uint(id)
		spec.CategoryID = &categoryID
	}
	if spec.PriceRange.Min, err = decimalParam(c, "min_price"); err != nil {
		return catalog.QuerySpec{}, err
	}
	if spec.PriceRange.Max, err = decimalParam(c, "max_price"); err != nil {
		return catalog.QuerySpec{}, err
	}
	if raw := strings.TrimSpace(c.Query("on_sale")); raw != "" {
		onSale, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return catalog.QuerySpec{}, fmt.Errorf("%w: on_sale %q", catalog.ErrInvalidQuery, raw)
		}
		spec.OnSaleOnly = onSale
	}
	return spec, nil
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", catalog.ErrInvalidQuery, name, raw)
	}
	return value, nil
}

func decimalParam(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", catalog.ErrInvalidQuery, name, raw)
	}
	return &value, nil
}

// splitListParam 支持 brand=a&brand=b 与 brand=a,b 两种写法
func splitListParam(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}

// CatalogErrorRules 目录查询错误映射
var CatalogErrorRules = []MappedError{
	{Target: catalog.ErrInvalidQuery, Code: response.CodeBadRequest, Key: "error.catalog_query_invalid"},
	{Target: catalog.ErrDataSourceUnavailable, Code: response.CodeServiceUnavailable, Key: "error.catalog_unavailable"},
}
