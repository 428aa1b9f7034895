package main

import (
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

type productSeed struct {
	sku           string
	slug          string
	category      string
	name          models.JSON
	brand         string
	price         string
	priceActive   bool
	discountType  string
	discountValue string
	stock         int
	status        string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		log.Fatalw("seed_database_connect_failed", "error", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(models.DB); err != nil {
		log.Fatalw("seed_database_migrate_failed", "error", err)
	}

	categoryIDs := seedCategories(models.DB)
	seedProducts(models.DB, categoryIDs)
	seedCoupons(models.DB)
	log.Infow("seed_completed")
}

func seedCategories(db *gorm.DB) map[string]uint {
	log := logger.S()
	categories := []models.Category{
		{Slug: "lighting", NameJSON: models.JSON{"zh-CN": "灯具", "en-US": "Lighting"}},
		{Slug: "furniture", NameJSON: models.JSON{"zh-CN": "家具", "en-US": "Furniture"}},
		{Slug: "kitchen", NameJSON: models.JSON{"zh-CN": "厨房用品", "en-US": "Kitchen"}},
	}

	ids := make(map[string]uint, len(categories))
	for _, cat := range categories {
		var existing models.Category
		if err := db.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			ids[cat.Slug] = existing.ID
			log.Infow("seed_category_exists", "slug", cat.Slug)
			continue
		}
		if err := db.Create(&cat).Error; err != nil {
			log.Warnw("seed_category_create_failed", "slug", cat.Slug, "error", err)
			continue
		}
		ids[cat.Slug] = cat.ID
		log.Infow("seed_category_created", "slug", cat.Slug)
	}
	return ids
}

func seedProducts(db *gorm.DB, categoryIDs map[string]uint) {
	log := logger.S()
	seeds := []productSeed{
		{"LGT-001", "desk-lamp", "lighting", models.JSON{"zh-CN": "台灯", "en-US": "Desk Lamp"}, "Lumina", "49.90", true, constants.DiscountTypePercentage, "10", 25, constants.ProductStatusBestSeller},
		{"LGT-002", "floor-lamp", "lighting", models.JSON{"zh-CN": "落地灯", "en-US": "Floor Lamp"}, "Lumina", "129.00", true, constants.DiscountTypeNone, "0", 0, constants.ProductStatusNormal},
		{"FUR-001", "oak-desk", "furniture", models.JSON{"zh-CN": "橡木书桌", "en-US": "Oak Desk"}, "Northwood", "499.00", true, constants.DiscountTypeFixed, "50", 4, constants.ProductStatusOnSale},
		{"FUR-002", "desk-chair", "furniture", models.JSON{"zh-CN": "办公椅", "en-US": "Desk Chair"}, "Northwood", "189.00", true, constants.DiscountTypeNone, "0", 12, constants.ProductStatusNew},
		{"FUR-003", "modular-sofa", "furniture", models.JSON{"zh-CN": "模块沙发", "en-US": "Modular Sofa"}, "Northwood", "1899.00", false, constants.DiscountTypeNone, "0", 2, constants.ProductStatusComingSoon},
		{"KIT-001", "kettle", "kitchen", models.JSON{"zh-CN": "电水壶", "en-US": "Electric Kettle"}, "Brewline", "39.00", true, constants.DiscountTypeNone, "0", 40, constants.ProductStatusNormal},
		{"KIT-002", "pour-over-set", "kitchen", models.JSON{"zh-CN": "手冲套装", "en-US": "Pour Over Set"}, "Brewline", "59.00", true, constants.DiscountTypePercentage, "25", 8, constants.ProductStatusOnSale},
	}

	for _, seed := range seeds {
		var existing models.Product
		if err := db.Where("sku = ?", seed.sku).First(&existing).Error; err == nil {
			log.Infow("seed_product_exists", "sku", seed.sku)
			continue
		}
		product := models.Product{
			SKU:             seed.sku,
			Slug:            seed.slug,
			NameJSON:        seed.name,
			Brand:           seed.brand,
			PriceAmount:     models.MustMoney(seed.price),
			IsPriceActive:   true,
			DiscountType:    seed.discountType,
			DiscountValue:   models.MustMoney(seed.discountValue),
			QuantityInStock: seed.stock,
			Status:          seed.status,
			Images:          models.StringArray{"/uploads/" + seed.slug + ".jpg"},
			IsActive:        true,
		}
		if id, ok := categoryIDs[seed.category]; ok {
			product.CategoryID = &id
		}
		if err := db.Create(&product).Error; err != nil {
			log.Warnw("seed_product_create_failed", "sku", seed.sku, "error", err)
			continue
		}
		if !seed.priceActive {
			if err := db.Model(&product).Update("is_price_active", false).Error; err != nil {
				log.Warnw("seed_product_hide_price_failed", "sku", seed.sku, "error", err)
			}
		}
		log.Infow("seed_product_created", "sku", seed.sku)
	}
}

func seedCoupons(db *gorm.DB) {
	log := logger.S()
	now := time.Now()
	expires := now.AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:          "WELCOME10",
			DiscountType:  constants.CouponTypePercentage,
			DiscountValue: models.MustMoney("10"),
			MaxDiscount:   models.MustMoney("30"),
			StartsAt:      &now,
			EndsAt:        &expires,
			IsActive:      true,
		},
		{
			Code:          "SAVE50",
			DiscountType:  constants.CouponTypeFixed,
			DiscountValue: models.MustMoney("50"),
			MinAmount:     models.MustMoney("300"),
			UsageLimit:    100,
			IsActive:      true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := db.Where("code = ?", coupon.Code).First(&existing).Error; err == nil {
			log.Infow("seed_coupon_exists", "code", coupon.Code)
			continue
		}
		if err := db.Create(&coupon).Error; err != nil {
			log.Warnw("seed_coupon_create_failed", "code", coupon.Code, "error", err)
			continue
		}
		log.Infow("seed_coupon_created", "code", coupon.Code)
	}
}
