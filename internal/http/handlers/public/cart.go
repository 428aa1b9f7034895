package public

import (
	"strconv"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// PriceRequest 计价请求
type PriceRequest struct {
	CouponCode     string `json:"coupon_code"`
	ShippingMethod string `json:"shipping_method" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.ListByUser(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, gin.H{"items": items})
}

// UpsertCartItem 添加/更新购物车项，数量小于等于 0 视为删除
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	ctx := c.Request.Context()
	if req.Quantity <= 0 {
		if err := h.CartService.RemoveItem(ctx, uid, req.ProductID); err != nil {
			respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
			return
		}
		response.Success(c, gin.H{"updated": true})
		return
	}
	if err := h.CartService.UpsertItem(ctx, service.UpsertCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}
	if err := h.CartService.RemoveItem(c.Request.Context(), uid, uint(productID)); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(c.Request.Context(), uid); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// PriceCart 购物车计价
func (h *Handler) PriceCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.PricingService.PriceCart(c.Request.Context(), uid, service.PriceOptions{
		CouponCode:     req.CouponCode,
		ShippingMethod: req.ShippingMethod,
	})
	if err != nil {
		respondWithMappedError(c, err, pricingErrorRules, response.CodeInternal, "error.pricing_failed")
		return
	}
	response.Success(c, withCheckoutNotice(result))
}
