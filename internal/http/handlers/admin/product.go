package admin

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/queue"

	"github.com/gin-gonic/gin"
)

// GetAdminProducts 获取商品列表 (Admin)，包含已下架商品与完整价格字段
func (h *Handler) GetAdminProducts(c *gin.Context) {
	spec, err := handlershared.ParseCatalogQuery(c, h.Config.Catalog.DefaultPageSize)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.catalog_query_invalid", nil)
		return
	}
	spec.IncludeInactive = true

	page, err := h.CatalogService.Query(c.Request.Context(), spec)
	if err != nil {
		handlershared.RespondMappedError(c, err, handlershared.CatalogErrorRules, response.CodeInternal, "error.catalog_unavailable")
		return
	}
	normalized := spec.Normalize()
	response.SuccessWithPage(c, page.Items, response.NewPagination(normalized.Page, normalized.Limit, page.Total))
}

// FlushCatalogCache 清理目录缓存：队列可用时异步执行，否则同步清理
func (h *Handler) FlushCatalogCache(c *gin.Context) {
	if h.QueueClient != nil && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueCatalogCacheFlush(queue.CatalogCacheFlushPayload{Reason: "admin"}); err != nil {
			respondError(c, response.CodeInternal, "error.catalog_cache_flush_failed", err)
			return
		}
		response.Success(c, gin.H{"queued": true})
		return
	}
	removed, err := h.CatalogService.FlushCache(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.catalog_cache_flush_failed", err)
		return
	}
	requestLog(c).Infow("admin_catalog_cache_flushed", "removed", removed)
	response.Success(c, gin.H{"queued": false, "removed": removed})
}
