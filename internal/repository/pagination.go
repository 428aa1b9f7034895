package repository

import (
	"math"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，非法页码按第一页处理，偏移溢出时截断到最大值
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	return query.Limit(pageSize).Offset(paginationOffset(page, pageSize))
}

func paginationOffset(page, pageSize int) int {
	if page < 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
