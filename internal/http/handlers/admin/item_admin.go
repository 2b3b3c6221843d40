package admin

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ItemRequest 创建/更新商品请求
type ItemRequest struct {
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	CostPrice       models.Money     `json:"cost_price"`
	RetailPrice     models.Money     `json:"retail_price"`
	ReorderPoint    *int             `json:"reorder_point"`
	PackageWeightOz *decimal.Decimal `json:"package_weight_oz"`
	PackageLengthIn *decimal.Decimal `json:"package_length_in"`
	PackageWidthIn  *decimal.Decimal `json:"package_width_in"`
	PackageHeightIn *decimal.Decimal `json:"package_height_in"`
	ImagePath       string           `json:"image_path"`
	IsActive        *bool            `json:"is_active"`
}

func (r ItemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		SKU:             r.SKU,
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		CostPrice:       r.CostPrice,
		RetailPrice:     r.RetailPrice,
		ReorderPoint:    r.ReorderPoint,
		PackageWeightOz: r.PackageWeightOz,
		PackageLengthIn: r.PackageLengthIn,
		PackageWidthIn:  r.PackageWidthIn,
		PackageHeightIn: r.PackageHeightIn,
		ImagePath:       r.ImagePath,
		IsActive:        r.IsActive,
	}
}

// ListItems 商品列表
func (h *Handler) ListItems(c *gin.Context) {
	page, pageSize := parsePage(c)
	items, total, err := h.ItemService.List(repository.ItemListFilter{
		Page:       page,
		PageSize:   pageSize,
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: parseQueryBool(c, "only_active"),
		LowStock:   parseQueryBool(c, "low_stock"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.item_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, pagination(page, pageSize, total))
}

// GetItem 商品详情
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.ItemService.Get(c.Param("sku"))
	if err != nil {
		respondItemError(c, err, "error.item_fetch_failed")
		return
	}
	response.Success(c, item)
}

// CreateItem 创建商品，未传 SKU 时按分类编码生成
func (h *Handler) CreateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.ItemService.Create(req.toInput())
	if err != nil {
		respondItemError(c, err, "error.item_save_failed")
		return
	}
	response.Success(c, item)
}

// UpdateItem 更新商品
func (h *Handler) UpdateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.ItemService.Update(c.Param("sku"), req.toInput())
	if err != nil {
		respondItemError(c, err, "error.item_save_failed")
		return
	}
	response.Success(c, item)
}

// DeleteItem 删除商品
func (h *Handler) DeleteItem(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if err := h.ItemService.Delete(sku); err != nil {
		respondItemError(c, err, "error.item_delete_failed")
		return
	}
	response.Success(c, gin.H{"sku": sku})
}

func respondItemError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrItemNotFound):
		respondError(c, response.CodeNotFound, "error.item_not_found", nil)
	case errors.Is(err, service.ErrItemExists):
		respondError(c, response.CodeBadRequest, "error.item_exists", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrColorNotFound):
		respondError(c, response.CodeNotFound, "error.color_not_found", nil)
	case errors.Is(err, service.ErrSizeNotFound):
		respondError(c, response.CodeNotFound, "error.size_not_found", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
