package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	adminhandlers "github.com/storefront-next/internal/http/handlers/admin"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	quoteRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:quote", redisPrefix),
		WindowSeconds: cfg.RateLimit.QuoteWindowSeconds,
		MaxRequests:   cfg.RateLimit.QuoteMaxRequests,
		BlockSeconds:  cfg.RateLimit.QuoteBlockSeconds,
		MessageKey:    "error.rate_limited",
	}
	quoteLimiter := RateLimitMiddleware(cache.Client(), quoteRule, KeyByUserOrIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/suggest", publicHandler.SuggestProducts)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/categories/:id", publicHandler.GetCategory)
			public.POST("/quote", quoteLimiter, publicHandler.Quote)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT))
		{
			user.GET("/cart", publicHandler.GetCart)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/items", publicHandler.UpsertCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.DeleteCartItem)
			user.POST("/cart/price", quoteLimiter, publicHandler.PriceCart)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.JWT))
		{
			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.POST("/catalog/cache/flush", adminHandler.FlushCatalogCache)
			admin.GET("/pricing-issues", adminHandler.GetPricingIssues)
		}
	}

	r.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
		defer cancel()
		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK
		if err := models.PingDB(checkCtx, models.DB); err != nil {
			status["status"], status["database"] = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
		if cache.Enabled() {
			status["redis"] = "ok"
			if err := cache.Ping(checkCtx); err != nil {
				status["status"], status["redis"] = "degraded", err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		ctx.JSON(code, status)
	})

	return r
}
