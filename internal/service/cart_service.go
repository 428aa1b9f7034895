package service

import (
	"context"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/pricing"
	"github.com/storefront-next/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应），商品未展示价格时价格字段为空
type CartItemDetail struct {
	ID            uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     *models.Money   `json:"unit_price,omitempty"`
	OriginalPrice *models.Money   `json:"original_price,omitempty"`
	PriceHidden   bool            `json:"price_hidden"`
	OutOfStock    bool            `json:"out_of_stock"`
	Product       *models.Product `json:"product"`
}

// UpsertCartItemInput 购物车更新输入
type UpsertCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListByUser 获取用户购物车，下架商品会被顺带清理
func (s *CartService) ListByUser(ctx context.Context, userID uint) ([]CartItemDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidCartItem
	}
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || !product.IsActive {
			if err := s.cartRepo.DeleteByUserAndProduct(ctx, userID, item.ProductID); err != nil {
				logger.FromContext(ctx).Warnw("cart_inactive_item_remove_failed",
					"user_id", userID,
					"product_id", item.ProductID,
					"error", err,
				)
			}
			continue
		}

		details = append(details, newCartItemDetail(item, *product))
	}
	return details, nil
}

func newCartItemDetail(item models.CartItem, product models.Product) CartItemDetail {
	detail := CartItemDetail{
		ID:         item.ID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		OutOfStock: product.QuantityInStock <= 0,
	}
	if !product.IsPriceActive {
		product.PriceAmount = models.Money{}
		product.DiscountType = constants.DiscountTypeNone
		product.DiscountValue = models.Money{}
		detail.PriceHidden = true
		detail.Product = &product
		return detail
	}

	rule, _ := pricing.RuleFromProduct(product)
	unit, _ := pricing.EffectiveUnitPrice(product.PriceAmount.Decimal, rule)
	unitPrice := models.NewMoneyFromDecimal(unit)
	original := product.PriceAmount
	detail.UnitPrice = &unitPrice
	detail.OriginalPrice = &original
	detail.Product = &product
	return detail
}

// UpsertItem 添加或更新购物车项，数量为覆盖写入
func (s *CartService) UpsertItem(ctx context.Context, input UpsertCartItemInput) error {
	if input.UserID == 0 || input.ProductID == 0 || input.Quantity <= 0 || input.Quantity > constants.CartMaxQuantity {
		return ErrInvalidCartItem
	}
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotAvailable
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.cartRepo.Upsert(ctx, item)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartItem
	}
	return s.cartRepo.DeleteByUserAndProduct(ctx, userID, productID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidCartItem
	}
	return s.cartRepo.ClearByUser(ctx, userID)
}
