package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront-next/internal/catalog"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"

	"golang.org/x/sync/singleflight"
)

const catalogCachePrefix = "catalog:"

// PageCache 目录结果缓存
type PageCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DelByPrefix(ctx context.Context, prefix string) (int64, error)
}

// CatalogOptions 目录查询参数
type CatalogOptions struct {
	MaxPageSize  int
	SuggestLimit int
	CacheTTL     time.Duration
	QueryTimeout time.Duration
}

// CatalogService 商品目录查询服务
type CatalogService struct {
	source  catalog.ProductSource
	cache   PageCache
	metrics *metrics.Metrics
	opts    CatalogOptions
	group   singleflight.Group
}

// NewCatalogService 创建目录查询服务，cache 为 nil 时不缓存
func NewCatalogService(source catalog.ProductSource, cache PageCache, m *metrics.Metrics, opts CatalogOptions) *CatalogService {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	return &CatalogService{
		source:  source,
		cache:   cache,
		metrics: m,
		opts:    opts,
	}
}

// Query 按查询条件返回一页商品与匹配总数
// 参数非法时返回 catalog.ErrInvalidQuery 且不访问数据源；
// 读取失败时返回 catalog.ErrDataSourceUnavailable，不会退化为空结果
func (s *CatalogService) Query(ctx context.Context, spec catalog.QuerySpec) (catalog.Page, error) {
	started := time.Now()
	spec = spec.Normalize()
	mode := string(spec.SearchMode)

	if err := s.validate(spec); err != nil {
		s.metrics.ObserveCatalogQuery(mode, metrics.OutcomeInvalid, time.Since(started))
		return catalog.Page{}, err
	}

	key := spec.CacheKey()
	if page, ok := s.readCache(ctx, key); ok {
		s.metrics.ObserveCatalogQuery(mode, metrics.OutcomeCacheHit, time.Since(started))
		return page, nil
	}

	// 相同查询合并为一次读取；调用方取消只影响自身等待
	ch := s.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.QueryTimeout)
		defer cancel()
		return s.load(loadCtx, spec, key)
	})

	select {
	case <-ctx.Done():
		s.metrics.ObserveCatalogQuery(mode, metrics.OutcomeUnavailable, time.Since(started))
		return catalog.Page{}, fmt.Errorf("%w: %w", catalog.ErrDataSourceUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			s.metrics.ObserveCatalogQuery(mode, metrics.OutcomeUnavailable, time.Since(started))
			return catalog.Page{}, res.Err
		}
		s.metrics.ObserveCatalogQuery(mode, metrics.OutcomeOK, time.Since(started))
		return res.Val.(catalog.Page), nil
	}
}

func (s *CatalogService) validate(spec catalog.QuerySpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if s.opts.MaxPageSize > 0 && spec.Limit > s.opts.MaxPageSize {
		return fmt.Errorf("%w: limit %d exceeds %d", catalog.ErrInvalidQuery, spec.Limit, s.opts.MaxPageSize)
	}
	return nil
}

func (s *CatalogService) load(ctx context.Context, spec catalog.QuerySpec, key string) (catalog.Page, error) {
	items, total, err := s.source.FindProducts(ctx, spec)
	if err != nil {
		logger.FromContext(ctx).Errorw("catalog_query_failed",
			"cache_key", key,
			"error", err,
		)
		return catalog.Page{}, fmt.Errorf("%w: %w", catalog.ErrDataSourceUnavailable, err)
	}
	if items == nil {
		items = []models.Product{}
	}
	page := catalog.Page{Items: items, Total: total}
	s.writeCache(ctx, key, page)
	return page, nil
}

func (s *CatalogService) readCache(ctx context.Context, key string) (catalog.Page, bool) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return catalog.Page{}, false
	}
	var page catalog.Page
	hit, err := s.cache.GetJSON(ctx, key, &page)
	if err != nil {
		s.metrics.ObserveCatalogCache(metrics.OutcomeCacheError)
		logger.FromContext(ctx).Warnw("catalog_cache_read_failed", "cache_key", key, "error", err)
		return catalog.Page{}, false
	}
	if !hit {
		s.metrics.ObserveCatalogCache(metrics.OutcomeCacheMiss)
		return catalog.Page{}, false
	}
	s.metrics.ObserveCatalogCache(metrics.OutcomeCacheHit)
	if page.Items == nil {
		page.Items = []models.Product{}
	}
	return page, true
}

func (s *CatalogService) writeCache(ctx context.Context, key string, page catalog.Page) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, page, s.opts.CacheTTL); err != nil {
		s.metrics.ObserveCatalogCache(metrics.OutcomeCacheError)
		logger.FromContext(ctx).Warnw("catalog_cache_write_failed", "cache_key", key, "error", err)
	}
}

// Suggest 前缀匹配的搜索建议，空关键词直接返回空列表
func (s *CatalogService) Suggest(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Product{}, nil
	}
	limit := s.opts.SuggestLimit
	if limit <= 0 {
		limit = 8
	}
	page, err := s.Query(ctx, catalog.QuerySpec{
		Page:       1,
		Limit:      limit,
		Search:     term,
		SearchMode: catalog.SearchPrefix,
		SortBy:     catalog.SortNewest,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// FlushCache 清理全部目录缓存
func (s *CatalogService) FlushCache(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	removed, err := s.cache.DelByPrefix(ctx, catalogCachePrefix)
	if err != nil {
		return 0, errors.Join(ErrCacheUnavailable, err)
	}
	return removed, nil
}
