package admin

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// BusinessSettingRequest 业务设置写入请求
type BusinessSettingRequest struct {
	Category     string `json:"category" binding:"required"`
	SettingKey   string `json:"setting_key" binding:"required"`
	SettingValue string `json:"setting_value"`
	SettingType  string `json:"setting_type"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
}

// ListBusinessSettings 按分类列出业务设置
func (h *Handler) ListBusinessSettings(c *gin.Context) {
	settings, err := h.BusinessSettingService.List(c.Request.Context(), strings.TrimSpace(c.Query("category")))
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	response.Success(c, settings)
}

// UpsertBusinessSetting 写入单个业务设置
func (h *Handler) UpsertBusinessSetting(c *gin.Context) {
	var req BusinessSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	setting, err := h.BusinessSettingService.Upsert(c.Request.Context(), service.UpsertBusinessSettingInput{
		Category:    req.Category,
		Key:         req.SettingKey,
		Value:       req.SettingValue,
		Type:        req.SettingType,
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondValidation(c, err)
			return
		}
		respondError(c, response.CodeInternal, "error.setting_save_failed", err)
		return
	}
	requestLog(c).Infow("admin_business_setting_saved",
		"category", setting.Category,
		"setting_key", setting.SettingKey,
		"admin", adminSubject(c),
	)
	response.Success(c, setting)
}
