package admin

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// CascadeRequest 级联设置写入请求
type CascadeRequest struct {
	EnabledDimensions []string               `json:"enabled_dimensions"`
	CascadeOrder      []string               `json:"cascade_order"`
	GroupingRules     map[string]interface{} `json:"grouping_rules"`
}

// GetEffectiveCascade 解析商品生效的级联设置（SKU → 分类 → 默认）
func (h *Handler) GetEffectiveCascade(c *gin.Context) {
	effective, err := h.CascadeService.Effective(c.Query("item_sku"))
	if err != nil {
		respondCascadeError(c, err)
		return
	}
	response.Success(c, effective)
}

// GetCascadeSetting 获取作用域覆盖
func (h *Handler) GetCascadeSetting(c *gin.Context) {
	row, err := h.CascadeService.Get(c.Param("scope_type"), c.Param("scope_key"))
	if err != nil {
		respondCascadeError(c, err)
		return
	}
	response.Success(c, row)
}

// UpsertCascadeSetting 写入作用域覆盖
func (h *Handler) UpsertCascadeSetting(c *gin.Context) {
	var req CascadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	row, err := h.CascadeService.Upsert(service.CascadeInput{
		ScopeType:         c.Param("scope_type"),
		ScopeKey:          c.Param("scope_key"),
		EnabledDimensions: req.EnabledDimensions,
		CascadeOrder:      req.CascadeOrder,
		GroupingRules:     req.GroupingRules,
	})
	if err != nil {
		respondCascadeError(c, err)
		return
	}
	response.Success(c, row)
}

// DeleteCascadeSetting 删除作用域覆盖
func (h *Handler) DeleteCascadeSetting(c *gin.Context) {
	if err := h.CascadeService.Delete(c.Param("scope_type"), c.Param("scope_key")); err != nil {
		respondCascadeError(c, err)
		return
	}
	response.Success(c, nil)
}

func respondCascadeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrCascadeNotFound):
		respondError(c, response.CodeNotFound, "error.cascade_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.cascade_fetch_failed", err)
	}
}
