package models

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                                      // 主键
	CategoryID      *uint          `gorm:"index" json:"category_id"`                                                  // 分类ID（可为空）
	SKU             string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`                          // 库存编码
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                                          // 唯一标识
	NameJSON        JSON           `gorm:"type:json;not null" json:"name"`                                            // 多语言名称
	Brand           string         `gorm:"type:varchar(120);index" json:"brand"`                                      // 品牌
	PriceAmount     Money          `gorm:"type:decimal(20,2);not null;default:0;index" json:"price_amount"`           // 价格金额
	IsPriceActive   bool           `gorm:"not null;default:true" json:"is_price_active"`                              // 价格是否对外展示
	DiscountType    string         `gorm:"type:varchar(20);not null;default:'none';index" json:"discount_type"`       // 折扣类型（none/fixed/percentage）
	DiscountValue   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`               // 折扣数值
	QuantityInStock int            `gorm:"not null;default:0;index" json:"quantity_in_stock"`                         // 库存数量
	Status          string         `gorm:"type:varchar(20);not null;default:'normal';index" json:"status"`            // 展示状态
	Images          StringArray    `gorm:"type:json" json:"images"`                                                   // 图片数组
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`                                       // 是否上架
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                                // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                            // 软删除时间

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// LocalizedName 按语言取名称，缺失时回退英文
func (p Product) LocalizedName(locale string) string {
	if p.NameJSON == nil {
		return ""
	}
	if v, ok := p.NameJSON[strings.TrimSpace(locale)].(string); ok && v != "" {
		return v
	}
	if v, ok := p.NameJSON[constants.LocaleEN].(string); ok {
		return v
	}
	return ""
}

// HasDiscountRule 是否配置了折扣规则（不校验数值）
func (p Product) HasDiscountRule() bool {
	switch strings.ToLower(strings.TrimSpace(p.DiscountType)) {
	case constants.DiscountTypeFixed, constants.DiscountTypePercentage:
		return true
	default:
		return false
	}
}
