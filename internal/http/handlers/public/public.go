package public

import (
	"strconv"
	"time"

	"github.com/storefront-next/internal/constants"
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/pricing"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView 公共商品响应结构，价格未开放时不返回任何价格字段
type PublicProductView struct {
	ID             uint               `json:"id"`
	CategoryID     *uint              `json:"category_id"`
	Slug           string             `json:"slug"`
	Name           models.JSON        `json:"name"`
	Brand          string             `json:"brand"`
	PriceAmount    *models.Money      `json:"price_amount,omitempty"`
	EffectivePrice *models.Money      `json:"effective_price,omitempty"`
	OnSale         bool               `json:"on_sale"`
	InStock        bool               `json:"in_stock"`
	Status         string             `json:"status"`
	Images         models.StringArray `json:"images"`
	CreatedAt      time.Time          `json:"created_at"`
	Category       *models.Category   `json:"category,omitempty"`
}

func toPublicProductView(p models.Product) PublicProductView {
	view := PublicProductView{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Slug:       p.Slug,
		Name:       p.NameJSON,
		Brand:      p.Brand,
		InStock:    p.QuantityInStock > 0,
		Status:     p.Status,
		Images:     p.Images,
		CreatedAt:  p.CreatedAt,
		Category:   p.Category,
	}
	if !p.IsPriceActive {
		return view
	}
	price := p.PriceAmount
	rule, _ := pricing.RuleFromProduct(p)
	unit, _ := pricing.EffectiveUnitPrice(price.Decimal, rule)
	effective := models.NewMoneyFromDecimal(unit)
	view.PriceAmount = &price
	view.EffectivePrice = &effective
	view.OnSale = effective.Decimal.LessThan(price.Decimal)
	return view
}

func toPublicProductViews(products []models.Product) []PublicProductView {
	views := make([]PublicProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toPublicProductView(p))
	}
	return views
}

// GetProducts 商品目录查询（包含匹配）
func (h *Handler) GetProducts(c *gin.Context) {
	spec, err := handlershared.ParseCatalogQuery(c, h.Config.Catalog.DefaultPageSize)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.catalog_query_invalid", nil)
		return
	}

	page, err := h.CatalogService.Query(c.Request.Context(), spec)
	if err != nil {
		respondWithMappedError(c, err, handlershared.CatalogErrorRules, response.CodeInternal, "error.catalog_unavailable")
		return
	}
	normalized := spec.Normalize()
	response.SuccessWithPage(c, toPublicProductViews(page.Items), response.NewPagination(normalized.Page, normalized.Limit, page.Total))
}

// SuggestProducts 搜索建议（前缀匹配）
func (h *Handler) SuggestProducts(c *gin.Context) {
	items, err := h.CatalogService.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithMappedError(c, err, handlershared.CatalogErrorRules, response.CodeInternal, "error.catalog_unavailable")
		return
	}
	type suggestion struct {
		ID   uint   `json:"id"`
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	locale := c.DefaultQuery("locale", constants.LocaleEN)
	result := make([]suggestion, 0, len(items))
	for _, item := range items {
		result = append(result, suggestion{ID: item.ID, Slug: item.Slug, Name: item.LocalizedName(locale)})
	}
	response.Success(c, result)
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// GetCategory 获取分类详情及上架商品数
func (h *Handler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	ctx := c.Request.Context()
	category, err := h.CategoryService.GetByID(ctx, uint(id))
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "error.category_fetch_failed")
		return
	}
	count, err := h.CategoryService.CountActiveProducts(ctx, category.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"category": category, "product_count": count})
}

var categoryErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
}
