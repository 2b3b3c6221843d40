package admin

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// AutoCropRequest 自动裁剪请求
type AutoCropRequest struct {
	SourcePath  string   `json:"source_path"`
	SKU         string   `json:"sku"`
	Formats     []string `json:"formats"`
	UseAI       bool     `json:"use_ai"`
	TrimPercent *float64 `json:"trim_percent"`
}

// DualFormatRequest 背景图双格式请求
type DualFormatRequest struct {
	SourcePath string `json:"source_path" binding:"required"`
	MaxWidth   int    `json:"max_width"`
	MaxHeight  int    `json:"max_height"`
	Name       string `json:"name"`
}

// AutoCropImage 自动裁剪；处理失败也按成功响应返回，结果中 success=false
func (h *Handler) AutoCropImage(c *gin.Context) {
	var req AutoCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result := h.ImageProcessorService.AutoCrop(c.Request.Context(), service.AutoCropInput{
		SourcePath:  req.SourcePath,
		SKU:         req.SKU,
		Formats:     req.Formats,
		UseAI:       req.UseAI,
		TrimPercent: req.TrimPercent,
	})
	if !result.Success {
		requestLog(c).Warnw("admin_image_auto_crop_failed",
			"source_path", req.SourcePath,
			"steps", result.ProcessingSteps,
		)
	}
	response.Success(c, result)
}

// GenerateBackground 生成 WebP + PNG 背景图
func (h *Handler) GenerateBackground(c *gin.Context) {
	var req DualFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.ImageProcessorService.GenerateDualFormat(service.DualFormatInput{
		SourcePath: req.SourcePath,
		MaxWidth:   req.MaxWidth,
		MaxHeight:  req.MaxHeight,
		Name:       req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondValidation(c, err)
		case errors.Is(err, service.ErrImagePathInvalid):
			respondError(c, response.CodeBadRequest, "error.image_path_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.image_process_failed", err)
		}
		return
	}
	response.Success(c, result)
}

// ListItemImages 商品图片记录
func (h *Handler) ListItemImages(c *gin.Context) {
	images, err := h.ImageProcessorService.ListItemImages(c.Param("sku"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondValidation(c, err)
			return
		}
		respondError(c, response.CodeInternal, "error.item_fetch_failed", err)
		return
	}
	response.Success(c, images)
}
