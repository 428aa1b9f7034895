package catalog

import "errors"

var (
	// ErrInvalidQuery 分页或筛选参数非法，未触达数据源
	ErrInvalidQuery = errors.New("invalid catalog query")
	// ErrDataSourceUnavailable 数据源读取失败或超时
	ErrDataSourceUnavailable = errors.New("catalog data source unavailable")
)
