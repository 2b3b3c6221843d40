package admin

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:         r.Name,
		Code:         r.Code,
		Description:  r.Description,
		DisplayOrder: r.DisplayOrder,
	}
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类；编码变化时后台改写 SKU
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CategoryService.Update(id, req.toInput())
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	if result.SKURewrite != "" {
		requestLog(c).Infow("admin_category_sku_rewrite_dispatched",
			"category_id", id,
			"code", result.Category.Code,
			"mode", result.SKURewrite,
		)
	}
	response.Success(c, result)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondCategoryError(c, err)
		return
	}
	response.Success(c, nil)
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, response.CodeBadRequest, "error.category_exists", nil)
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, response.CodeBadRequest, "error.category_in_use", nil)
	case errors.Is(err, service.ErrSKURewriteEnqueueFail):
		respondError(c, response.CodeInternal, "error.sku_rewrite_enqueue_fail", err)
	default:
		respondError(c, response.CodeInternal, "error.category_save_failed", err)
	}
}
