package admin

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// CostEstimateRequest AI 费用估算请求
type CostEstimateRequest struct {
	ActionKey  string              `json:"action_key"`
	Operations []string            `json:"operations"`
	Context    CostEstimateContext `json:"context"`
}

// CostEstimateContext 估算上下文
type CostEstimateContext struct {
	ItemCount  *int   `json:"item_count"`
	ImageCount *int   `json:"image_count"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Refine     bool   `json:"refine"`
}

// EstimateAICost 估算 AI 操作费用
func (h *Handler) EstimateAICost(c *gin.Context) {
	var req CostEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	estimate, err := h.AICostService.Estimate(c.Request.Context(), service.CostEstimateInput{
		ActionKey:  req.ActionKey,
		Operations: req.Operations,
		ItemCount:  req.Context.ItemCount,
		ImageCount: req.Context.ImageCount,
		Provider:   req.Context.Provider,
		Model:      req.Context.Model,
		Refine:     req.Context.Refine,
	})
	if err != nil {
		respondAIError(c, err, "error.estimate_failed")
		return
	}
	response.Success(c, estimate)
}

func respondAIError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondValidation(c, err)
	case errors.Is(err, service.ErrAIProviderUnknown):
		respondError(c, response.CodeBadRequest, "error.ai_provider_unknown", nil)
	case errors.Is(err, service.ErrAIOperationUnknown):
		respondError(c, response.CodeBadRequest, "error.ai_operation_unknown", nil)
	case errors.Is(err, service.ErrAIActionUnknown):
		respondError(c, response.CodeBadRequest, "error.ai_action_unknown", nil)
	case errors.Is(err, service.ErrItemNotFound):
		respondError(c, response.CodeNotFound, "error.item_not_found", nil)
	case errors.Is(err, service.ErrMarketingNotFound):
		respondError(c, response.CodeNotFound, "error.marketing_not_found", nil)
	case errors.Is(err, service.ErrPricingKindInvalid):
		respondError(c, response.CodeBadRequest, "error.pricing_kind_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
