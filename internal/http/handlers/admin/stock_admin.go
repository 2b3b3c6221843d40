package admin

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// ColorRequest 颜色请求
type ColorRequest struct {
	ColorName    string `json:"color_name"`
	ColorCode    string `json:"color_code"`
	ImagePath    string `json:"image_path"`
	StockLevel   *int   `json:"stock_level"`
	DisplayOrder *int   `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (r ColorRequest) toInput() service.ColorInput {
	return service.ColorInput{
		ColorName:    r.ColorName,
		ColorCode:    r.ColorCode,
		ImagePath:    r.ImagePath,
		StockLevel:   r.StockLevel,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}
}

// SizeRequest 尺码请求
// color_id 传 null 表示解绑颜色，不传表示保持不变
type SizeRequest struct {
	ColorID         json.RawMessage `json:"color_id"`
	SizeName        string          `json:"size_name"`
	SizeCode        string          `json:"size_code"`
	StockLevel      *int            `json:"stock_level"`
	PriceAdjustment *models.Money   `json:"price_adjustment"`
	DisplayOrder    *int            `json:"display_order"`
	IsActive        *bool           `json:"is_active"`
}

func (r SizeRequest) toInput() (service.SizeInput, error) {
	input := service.SizeInput{
		SizeName:        r.SizeName,
		SizeCode:        r.SizeCode,
		StockLevel:      r.StockLevel,
		PriceAdjustment: r.PriceAdjustment,
		DisplayOrder:    r.DisplayOrder,
		IsActive:        r.IsActive,
	}
	if len(r.ColorID) == 0 {
		return input, nil
	}
	input.ColorSet = true
	if string(r.ColorID) == "null" {
		return input, nil
	}
	var id uint
	if err := json.Unmarshal(r.ColorID, &id); err != nil {
		return input, err
	}
	input.ColorID = &id
	return input, nil
}

// ListItemColors 颜色列表
func (h *Handler) ListItemColors(c *gin.Context) {
	colors, err := h.ItemStockService.ListColors(c.Param("sku"), parseQueryBool(c, "only_active"))
	if err != nil {
		respondItemError(c, err, "error.item_fetch_failed")
		return
	}
	response.Success(c, colors)
}

// CreateItemColor 新增颜色并同步总库存
func (h *Handler) CreateItemColor(c *gin.Context) {
	var req ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ItemStockService.CreateColor(c.Param("sku"), req.toInput())
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, result)
}

// UpdateItemColor 更新颜色并同步总库存
func (h *Handler) UpdateItemColor(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ItemStockService.UpdateColor(c.Param("sku"), id, req.toInput())
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, result)
}

// DeleteItemColor 删除颜色并同步总库存
func (h *Handler) DeleteItemColor(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.ItemStockService.DeleteColor(c.Param("sku"), id)
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, result)
}

// ListItemSizes 尺码列表，可按 color_id 过滤
func (h *Handler) ListItemSizes(c *gin.Context) {
	var colorID *uint
	if raw := strings.TrimSpace(c.Query("color_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		id := uint(parsed)
		colorID = &id
	}
	sizes, err := h.ItemStockService.ListSizes(c.Param("sku"), colorID, parseQueryBool(c, "only_active"))
	if err != nil {
		respondItemError(c, err, "error.item_fetch_failed")
		return
	}
	response.Success(c, sizes)
}

// CreateItemSize 新增尺码并同步库存
func (h *Handler) CreateItemSize(c *gin.Context) {
	var req SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ItemStockService.CreateSize(c.Param("sku"), input)
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, result)
}

// UpdateItemSize 更新尺码并同步库存
func (h *Handler) UpdateItemSize(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ItemStockService.UpdateSize(c.Param("sku"), id, input)
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, result)
}

// DeleteItemSize 删除尺码并同步库存
func (h *Handler) DeleteItemSize(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	result, err := h.ItemStockService.DeleteSize(c.Param("sku"), id)
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, result)
}

// SyncItemStock 手动触发总库存重算
func (h *Handler) SyncItemStock(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	total, err := h.ItemStockService.SyncStock(sku)
	if err != nil {
		respondItemError(c, err, "error.stock_sync_failed")
		return
	}
	response.Success(c, gin.H{
		"sku":             sku,
		"new_total_stock": total,
	})
}
