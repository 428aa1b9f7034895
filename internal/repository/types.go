package repository

// PricingIssueListFilter 查询价格数据问题列表的过滤条件
type PricingIssueListFilter struct {
	Page     int
	PageSize int
	Source   string
	Code     string
	RefID    uint
}
