package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/ai"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"

	"github.com/shopspring/decimal"
)

// 费用区间系数
var (
	costMinFactor = decimal.NewFromFloat(0.7)
	costMaxFactor = decimal.NewFromFloat(1.3)
	thousand      = decimal.NewFromInt(1000)
)

const (
	costCurrency    = "USD"
	costScale       = 4
	refineMaxTokens = 600
)

// 操作的计量方式
const (
	scalePerItem  = "item"
	scalePerImage = "image"
	scaleOnce     = "once"
)

// AIOperation 单项 AI 操作的基线用量
type AIOperation struct {
	Key              string
	Label            string
	Scale            string
	InputTokens      int
	OutputTokens     int
	ImageAnalyses    int
	ImageGenerations int
}

// AIRate 服务商/模型费率（美元）
type AIRate struct {
	InputPer1K      decimal.Decimal
	OutputPer1K     decimal.Decimal
	ImageAnalysis   decimal.Decimal
	ImageGeneration decimal.Decimal
}

var aiOperations = map[string]AIOperation{
	"marketing_copy":        {Key: "marketing_copy", Label: "Marketing copy", Scale: scalePerItem, InputTokens: 900, OutputTokens: 700},
	"cost_suggestion":       {Key: "cost_suggestion", Label: "Cost suggestion", Scale: scalePerItem, InputTokens: 500, OutputTokens: 300},
	"price_suggestion":      {Key: "price_suggestion", Label: "Price suggestion", Scale: scalePerItem, InputTokens: 600, OutputTokens: 350},
	"image_analysis":        {Key: "image_analysis", Label: "Image analysis", Scale: scalePerImage, InputTokens: 300, OutputTokens: 250, ImageAnalyses: 1},
	"image_crop":            {Key: "image_crop", Label: "Image auto-crop", Scale: scalePerImage, InputTokens: 200, OutputTokens: 80, ImageAnalyses: 1},
	"alt_text":              {Key: "alt_text", Label: "Image alt text", Scale: scalePerImage, InputTokens: 150, OutputTokens: 60, ImageAnalyses: 1},
	"background_generation": {Key: "background_generation", Label: "Background generation", Scale: scaleOnce, InputTokens: 120, ImageGenerations: 1},
}

var aiActions = map[string][]string{
	"generate_marketing":  {"marketing_copy"},
	"generate_all":        {"marketing_copy", "cost_suggestion", "price_suggestion", "image_analysis"},
	"suggest_cost":        {"cost_suggestion"},
	"suggest_price":       {"price_suggestion"},
	"process_images":      {"image_crop"},
	"generate_background": {"background_generation"},
}

func rate(in, out, analysis, generation string) AIRate {
	return AIRate{
		InputPer1K:      decimal.RequireFromString(in),
		OutputPer1K:     decimal.RequireFromString(out),
		ImageAnalysis:   decimal.RequireFromString(analysis),
		ImageGeneration: decimal.RequireFromString(generation),
	}
}

var aiRates = map[string]map[string]AIRate{
	constants.AIProviderOpenAI: {
		"gpt-4o":      rate("0.0025", "0.01", "0.00765", "0.04"),
		"gpt-4o-mini": rate("0.00015", "0.0006", "0.00255", "0.04"),
		"gpt-4-turbo": rate("0.01", "0.03", "0.01", "0.04"),
	},
	constants.AIProviderAnthropic: {
		"claude-3-5-sonnet": rate("0.003", "0.015", "0.0048", "0.04"),
		"claude-3-haiku":    rate("0.00025", "0.00125", "0.0004", "0.04"),
		"claude-3-opus":     rate("0.015", "0.075", "0.024", "0.04"),
	},
	constants.AIProviderGoogle: {
		"gemini-1.5-pro":   rate("0.00125", "0.005", "0.0013", "0.04"),
		"gemini-1.5-flash": rate("0.000075", "0.0003", "0.0001", "0.04"),
	},
	constants.AIProviderMeta: {
		"llama-3.1-70b": rate("0.00088", "0.00088", "0.001", "0.04"),
		"llama-3.1-8b":  rate("0.00018", "0.00018", "0.0005", "0.04"),
	},
	constants.AIProviderJonsAI: {
		"jons-ai": rate("0", "0", "0", "0"),
	},
}

// CostEstimateInput 费用估算输入
type CostEstimateInput struct {
	ActionKey  string
	Operations []string
	ItemCount  *int
	ImageCount *int
	Provider   string
	Model      string
	Refine     bool
}

// CostLineItem 单项费用明细
type CostLineItem struct {
	Operation        string          `json:"operation"`
	Label            string          `json:"label"`
	Quantity         int             `json:"quantity"`
	InputTokens      int             `json:"input_tokens"`
	OutputTokens     int             `json:"output_tokens"`
	ImageAnalyses    int             `json:"image_analyses"`
	ImageGenerations int             `json:"image_generations"`
	Cost             decimal.Decimal `json:"cost"`
}

// CostEstimate 费用估算结果
type CostEstimate struct {
	ExpectedCost decimal.Decimal `json:"expected_cost"`
	MinCost      decimal.Decimal `json:"min_cost"`
	MaxCost      decimal.Decimal `json:"max_cost"`
	Currency     string          `json:"currency"`
	Provider     string          `json:"provider"`
	Model        string          `json:"model"`
	Source       string          `json:"source"`
	LineItems    []CostLineItem  `json:"line_items"`
}

// AICostService AI 费用估算服务
type AICostService struct {
	providers *AIProviderService
}

// NewAICostService 创建费用估算服务
func NewAICostService(providers *AIProviderService) *AICostService {
	return &AICostService{providers: providers}
}

// Estimate 估算一批 AI 操作的费用；AI 细化失败时静默回退到启发式结果
func (s *AICostService) Estimate(ctx context.Context, input CostEstimateInput) (*CostEstimate, error) {
	ops, err := resolveOperations(input.ActionKey, input.Operations)
	if err != nil {
		return nil, err
	}
	itemCount, imageCount, err := resolveCounts(input.ItemCount, input.ImageCount)
	if err != nil {
		return nil, err
	}
	client, err := s.providers.Client(ctx, input.Provider, input.Model)
	if err != nil {
		return nil, err
	}
	provider := client.Provider()
	model, rates := lookupRate(provider, client.Model())

	source := constants.ContentSourceHeuristic
	if input.Refine && client.Live() {
		if refined, ok := s.refine(ctx, client, ops, itemCount, imageCount); ok {
			ops = refined
			source = constants.ContentSourceRefined
		}
	}

	estimate := buildEstimate(ops, itemCount, imageCount, rates)
	estimate.Provider = provider
	estimate.Model = model
	estimate.Source = source
	return estimate, nil
}

// EstimateWithRates 按费率表直接计算（不调用 AI）
func EstimateWithRates(provider, model string, ops []AIOperation, itemCount, imageCount int) (*CostEstimate, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if _, ok := aiRates[provider]; !ok {
		return nil, ErrAIProviderUnknown
	}
	resolvedModel, rates := lookupRate(provider, model)
	estimate := buildEstimate(ops, itemCount, imageCount, rates)
	estimate.Provider = provider
	estimate.Model = resolvedModel
	estimate.Source = constants.ContentSourceHeuristic
	return estimate, nil
}

func buildEstimate(ops []AIOperation, itemCount, imageCount int, rates AIRate) *CostEstimate {
	total := decimal.Zero
	lines := make([]CostLineItem, 0, len(ops))
	for _, op := range ops {
		quantity := 1
		switch op.Scale {
		case scalePerItem:
			quantity = itemCount
		case scalePerImage:
			quantity = imageCount
		}
		line := CostLineItem{
			Operation:        op.Key,
			Label:            op.Label,
			Quantity:         quantity,
			InputTokens:      op.InputTokens * quantity,
			OutputTokens:     op.OutputTokens * quantity,
			ImageAnalyses:    op.ImageAnalyses * quantity,
			ImageGenerations: op.ImageGenerations * quantity,
		}
		cost := rates.InputPer1K.Mul(decimal.NewFromInt(int64(line.InputTokens))).Div(thousand).
			Add(rates.OutputPer1K.Mul(decimal.NewFromInt(int64(line.OutputTokens))).Div(thousand)).
			Add(rates.ImageAnalysis.Mul(decimal.NewFromInt(int64(line.ImageAnalyses)))).
			Add(rates.ImageGeneration.Mul(decimal.NewFromInt(int64(line.ImageGenerations))))
		line.Cost = cost.Round(costScale)
		total = total.Add(cost)
		lines = append(lines, line)
	}
	return &CostEstimate{
		ExpectedCost: total.Round(costScale),
		MinCost:      total.Mul(costMinFactor).Round(costScale),
		MaxCost:      total.Mul(costMaxFactor).Round(costScale),
		Currency:     costCurrency,
		LineItems:    lines,
	}
}

// lookupRate 未知模型回退到服务商默认模型
func lookupRate(provider, model string) (string, AIRate) {
	table := aiRates[provider]
	if r, ok := table[model]; ok {
		return model, r
	}
	fallback := ai.DefaultModel(provider)
	return fallback, table[fallback]
}

func resolveOperations(actionKey string, keys []string) ([]AIOperation, error) {
	if len(keys) == 0 {
		action := strings.ToLower(strings.TrimSpace(actionKey))
		if action == "" {
			return nil, newValidationError("action_key", "action_key or operations required")
		}
		mapped, ok := aiActions[action]
		if !ok {
			return nil, ErrAIActionUnknown
		}
		keys = mapped
	}
	ops := make([]AIOperation, 0, len(keys))
	for _, key := range keys {
		op, ok := aiOperations[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, ErrAIOperationUnknown
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func resolveCounts(itemCount, imageCount *int) (int, int, error) {
	items := 1
	if itemCount != nil {
		if *itemCount < 1 {
			return 0, 0, newValidationError("context.item_count", "must be >= 1")
		}
		items = *itemCount
	}
	images := items
	if imageCount != nil {
		if *imageCount < 0 {
			return 0, 0, newValidationError("context.image_count", "must be >= 0")
		}
		images = *imageCount
	}
	return items, images, nil
}

type refinedOperation struct {
	Key          string `json:"key"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

type refinedEstimate struct {
	Operations []refinedOperation `json:"operations"`
}

// refine 请求 AI 校正每项操作的 token 基线，只接受合理范围内的值
func (s *AICostService) refine(ctx context.Context, client *ai.Client, ops []AIOperation, itemCount, imageCount int) ([]AIOperation, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate per-unit token usage for these operations (items=%d, images=%d).\n", itemCount, imageCount)
	for _, op := range ops {
		fmt.Fprintf(&b, "- %s: baseline input=%d output=%d\n", op.Key, op.InputTokens, op.OutputTokens)
	}
	b.WriteString(`Reply with JSON only: {"operations":[{"key":"...","input_tokens":0,"output_tokens":0}]}`)

	var out refinedEstimate
	err := client.CompleteJSON(ctx, "You estimate LLM token usage for e-commerce admin tasks.", b.String(), refineMaxTokens, &out)
	if err != nil {
		s.providers.Record(client.Provider(), "cost_refine", metrics.OutcomeFallback)
		logger.Warnw("ai_cost_refine_failed", "provider", client.Provider(), "error", err)
		return nil, false
	}
	s.providers.Record(client.Provider(), "cost_refine", metrics.OutcomeSuccess)

	byKey := make(map[string]refinedOperation, len(out.Operations))
	for _, op := range out.Operations {
		byKey[op.Key] = op
	}
	refined := make([]AIOperation, len(ops))
	changed := false
	for i, op := range ops {
		refined[i] = op
		r, ok := byKey[op.Key]
		if !ok {
			continue
		}
		if plausibleTokens(r.InputTokens, op.InputTokens) {
			refined[i].InputTokens = r.InputTokens
			changed = true
		}
		if plausibleTokens(r.OutputTokens, op.OutputTokens) {
			refined[i].OutputTokens = r.OutputTokens
			changed = true
		}
	}
	return refined, changed
}

func plausibleTokens(value, baseline int) bool {
	if value <= 0 {
		return false
	}
	if baseline <= 0 {
		return value <= 10000
	}
	return value <= baseline*10
}
