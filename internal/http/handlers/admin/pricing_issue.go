package admin

import (
	"strconv"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetPricingIssues 价格数据问题列表
func (h *Handler) GetPricingIssues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	refID, _ := strconv.ParseUint(c.Query("ref_id"), 10, 64)

	issues, total, err := h.PricingIssueService.List(c.Request.Context(), repository.PricingIssueListFilter{
		Page:     page,
		PageSize: pageSize,
		Source:   c.Query("source"),
		Code:     c.Query("code"),
		RefID:    uint(refID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.pricing_issue_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, issues, response.NewPagination(page, pageSize, total))
}
