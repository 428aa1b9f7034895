package shared

import "github.com/storefront-next/internal/constants"

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constants.CatalogDefaultPageSize
	}
	if pageSize > constants.CatalogMaxPageSize {
		pageSize = constants.CatalogMaxPageSize
	}
	return page, pageSize
}
