package repository

import (
	"context"
	"errors"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) error
	DeleteByUserAndProduct(ctx context.Context, userID, productID uint) error
	ClearByUser(ctx context.Context, userID uint) error
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// ListByUser 获取用户购物车项，按加入顺序排列
func (r *GormCartRepository) ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert 添加或更新购物车项（数量覆盖）
func (r *GormCartRepository) Upsert(ctx context.Context, item *models.CartItem) error {
	if item == nil {
		return nil
	}
	db := r.db.WithContext(ctx)
	var existing models.CartItem
	err := db.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(item).Error
	}
	if err != nil {
		return err
	}
	if err := db.Model(&existing).Update("quantity", item.Quantity).Error; err != nil {
		return err
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	return nil
}

// DeleteByUserAndProduct 删除购物车项
// 硬删除，避免软删除记录占用 (user_id, product_id) 唯一索引
func (r *GormCartRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uint) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{}).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
