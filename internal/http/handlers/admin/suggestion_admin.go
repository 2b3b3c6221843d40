package admin

import (
	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// SuggestionRequest AI 建议生成请求
type SuggestionRequest struct {
	UseAI    *bool  `json:"use_ai"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// useAI 未显式关闭时默认尝试 AI
func (r SuggestionRequest) useAI() bool {
	return r.UseAI == nil || *r.UseAI
}

// GetMarketingSuggestion 获取已保存的营销建议
func (h *Handler) GetMarketingSuggestion(c *gin.Context) {
	suggestion, err := h.MarketingService.Get(c.Param("sku"))
	if err != nil {
		respondAIError(c, err, "error.ai_generation_failed")
		return
	}
	response.Success(c, suggestion)
}

// GenerateMarketingSuggestion 生成并覆盖营销建议
func (h *Handler) GenerateMarketingSuggestion(c *gin.Context) {
	var req SuggestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	suggestion, err := h.MarketingService.Generate(c.Request.Context(), c.Param("sku"), service.MarketingOptions{
		UseAI:    req.useAI(),
		Provider: req.Provider,
		Model:    req.Model,
	})
	if err != nil {
		respondAIError(c, err, "error.ai_generation_failed")
		return
	}
	response.Success(c, suggestion)
}

// ListPricingSuggestions 获取 SKU 的成本/售价建议
func (h *Handler) ListPricingSuggestions(c *gin.Context) {
	suggestions, err := h.PricingService.List(c.Param("sku"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.ai_generation_failed", err)
		return
	}
	response.Success(c, suggestions)
}

// GeneratePricingSuggestion 生成 cost 或 price 建议
func (h *Handler) GeneratePricingSuggestion(c *gin.Context) {
	var req SuggestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	suggestion, err := h.PricingService.Suggest(c.Request.Context(), c.Param("sku"), c.Param("kind"), service.PricingOptions{
		UseAI:    req.useAI(),
		Provider: req.Provider,
		Model:    req.Model,
	})
	if err != nil {
		respondAIError(c, err, "error.ai_generation_failed")
		return
	}
	response.Success(c, suggestion)
}
