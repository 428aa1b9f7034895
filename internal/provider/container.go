package provider

import (
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/pricing"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics

	// Repositories
	ProductRepo      repository.ProductRepository
	CategoryRepo     repository.CategoryRepository
	CouponRepo       repository.CouponRepository
	CartRepo         repository.CartRepository
	PricingIssueRepo repository.PricingIssueRepository

	// Services
	CatalogService      *service.CatalogService
	CategoryService     *service.CategoryService
	CartService         *service.CartService
	PricingService      *service.PricingService
	PricingIssueService *service.PricingIssueService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Metrics:     metrics.New(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.PricingIssueRepo = repository.NewPricingIssueRepository(db)
}

func (c *Container) initServices() {
	var pageCache service.PageCache
	if cache.Enabled() {
		pageCache = cache.JSONStore{}
	}
	c.CatalogService = service.NewCatalogService(c.ProductRepo, pageCache, c.Metrics, service.CatalogOptions{
		MaxPageSize:  c.Config.Catalog.MaxPageSize,
		SuggestLimit: c.Config.Catalog.SuggestLimit,
		CacheTTL:     c.Config.Catalog.CacheTTL(),
		QueryTimeout: c.Config.Catalog.QueryTimeout(),
	})
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)

	calculator := pricing.NewCalculator(pricing.ShippingPolicy{ExpressFee: c.Config.Pricing.ExpressFeeDecimal()})
	var reporter service.IssueReporter
	if c.QueueClient != nil {
		reporter = c.QueueClient
	}
	c.PricingService = service.NewPricingService(c.ProductRepo, c.CouponRepo, c.CartRepo, calculator, reporter, c.Metrics, c.Config.Pricing.Currency)
	c.PricingIssueService = service.NewPricingIssueService(c.PricingIssueRepo)
}

// Close 释放队列与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
