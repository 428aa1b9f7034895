package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storefront-next/internal/catalog"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	FindProducts(ctx context.Context, spec catalog.QuerySpec) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindProducts 按查询描述返回当前页商品与匹配总数
// 计数与取数在同一只读事务内完成，保证两者基于同一快照
func (r *GormProductRepository) FindProducts(ctx context.Context, spec catalog.QuerySpec) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := applyCatalogFilters(tx.Model(&models.Product{}).Preload("Category"), spec)
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		if total == 0 || int64(spec.Offset()) >= total {
			products = []models.Product{}
			return nil
		}
		query = applyPagination(query, spec.Page, spec.Limit)
		return query.Order(catalogOrderClause(spec)).Find(&products).Error
	}, snapshotTxOptions(r.db)...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// snapshotTxOptions postgres 使用可重复读只读事务；sqlite 事务本身即串行
func snapshotTxOptions(db *gorm.DB) []*sql.TxOptions {
	if isPostgresDialect(dbDialectName(db)) {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
	}
	return nil
}

func applyCatalogFilters(query *gorm.DB, spec catalog.QuerySpec) *gorm.DB {
	if !spec.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if spec.Search != "" {
		like := likePattern(spec.Search, spec.SearchMode == catalog.SearchPrefix)
		condition, argCount := buildLocalizedLikeCondition(query, []string{"slug", "brand"}, []string{"name_json"})
		query = query.Where("("+condition+")", repeatLikeArgs(like, argCount)...)
	}
	if spec.CategoryID != nil {
		query = query.Where("category_id = ?", *spec.CategoryID)
	}
	if !spec.IncludeInactive && spec.PriceRange.Active() {
		query = query.Where("is_price_active = ?", true)
	}
	if spec.PriceRange.Min != nil {
		query = query.Where("price_amount >= ?", *spec.PriceRange.Min)
	}
	if spec.PriceRange.Max != nil {
		query = query.Where("price_amount <= ?", *spec.PriceRange.Max)
	}
	switch spec.Stock {
	case catalog.StockInStock:
		query = query.Where("quantity_in_stock >= ?", 1)
	case catalog.StockOutOfStock:
		query = query.Where("quantity_in_stock <= ?", 0)
	}
	if spec.OnSaleOnly {
		query = query.Where("LOWER(TRIM(discount_type)) IN ?", []string{constants.DiscountTypeFixed, constants.DiscountTypePercentage})
	}
	if len(spec.Brands) > 0 {
		query = query.Where("brand IN ?", spec.Brands)
	}
	if len(spec.Statuses) > 0 {
		query = query.Where("status IN ?", spec.Statuses)
	}
	return query
}

// catalogOrderClause 排序键相同时按 id 升序，保证分页稳定
// 前台按价格排序时，未展示价格的商品排在末尾且只按 id 排列
func catalogOrderClause(spec catalog.QuerySpec) string {
	switch spec.SortBy {
	case catalog.SortOldest:
		return "created_at ASC, id ASC"
	case catalog.SortPriceLowHigh:
		if spec.IncludeInactive {
			return "price_amount ASC, id ASC"
		}
		return "is_price_active DESC, CASE WHEN is_price_active THEN price_amount END ASC, id ASC"
	case catalog.SortPriceHighLow:
		if spec.IncludeInactive {
			return "price_amount DESC, id ASC"
		}
		return "is_price_active DESC, CASE WHEN is_price_active THEN price_amount END DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}
