package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/ai"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	pricingMaxTokens      = 500
	heuristicPricingScore = 0.6
	defaultPricingAIScore = 0.75
)

// 无成本表时按零售价反推成本的除数
var retailCostDivisor = decimal.RequireFromString("2.5")

// 分类成本构成（美元）
var categoryCostTable = map[string]map[string]string{
	"t-shirts":     {"materials": "4.50", "labor": "3.00", "energy": "0.40", "packaging": "0.75"},
	"tumblers":     {"materials": "6.25", "labor": "2.50", "energy": "0.60", "packaging": "1.10"},
	"artwork":      {"materials": "3.00", "labor": "5.00", "energy": "0.25", "packaging": "1.50"},
	"sublimation":  {"materials": "3.75", "labor": "2.75", "energy": "0.50", "packaging": "0.80"},
	"window wraps": {"materials": "12.00", "labor": "8.00", "energy": "0.75", "packaging": "2.00"},
}

var defaultCostTable = map[string]string{"materials": "5.00", "labor": "4.00", "energy": "0.50", "packaging": "1.00"}

// 分类加价倍率
var categoryMarkup = map[string]string{
	"t-shirts":     "2.5",
	"tumblers":     "2.2",
	"artwork":      "3.0",
	"sublimation":  "2.4",
	"window wraps": "2.0",
}

const defaultMarkup = "2.2"

// PricingOptions 定价建议选项
type PricingOptions struct {
	UseAI    bool
	Provider string
	Model    string
}

type pricingDraft struct {
	Amount     float64            `json:"amount"`
	Components map[string]float64 `json:"components"`
	Reasoning  string             `json:"reasoning"`
	Confidence float64            `json:"confidence"`
}

// PricingService 成本/售价建议服务
type PricingService struct {
	itemRepo       repository.ItemRepository
	suggestionRepo repository.SuggestionRepository
	providers      *AIProviderService
}

// NewPricingService 创建定价建议服务
func NewPricingService(itemRepo repository.ItemRepository, suggestionRepo repository.SuggestionRepository, providers *AIProviderService) *PricingService {
	return &PricingService{
		itemRepo:       itemRepo,
		suggestionRepo: suggestionRepo,
		providers:      providers,
	}
}

// List 获取 SKU 的定价建议
func (s *PricingService) List(sku string) ([]models.PricingSuggestion, error) {
	return s.suggestionRepo.ListPricing(strings.TrimSpace(sku))
}

// Suggest 生成 cost 或 price 建议并按 (sku, kind) 覆盖保存
func (s *PricingService) Suggest(ctx context.Context, sku, kind string, opts PricingOptions) (*models.PricingSuggestion, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != constants.PricingKindCost && kind != constants.PricingKindPrice {
		return nil, ErrPricingKindInvalid
	}
	item, err := s.itemRepo.GetBySKU(strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	var suggestion *models.PricingSuggestion
	if opts.UseAI {
		client, err := s.providers.Client(ctx, opts.Provider, opts.Model)
		if err != nil {
			return nil, err
		}
		if client.Live() {
			suggestion = s.suggestWithAI(ctx, client, item, kind)
		}
	}
	if suggestion == nil {
		if kind == constants.PricingKindCost {
			suggestion = heuristicCost(item)
		} else {
			suggestion = heuristicPrice(item)
		}
	}
	suggestion.SKU = item.SKU
	suggestion.Kind = kind

	if err := s.suggestionRepo.UpsertPricing(suggestion); err != nil {
		return nil, err
	}
	saved, err := s.suggestionRepo.GetPricing(item.SKU, kind)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PricingService) suggestWithAI(ctx context.Context, client *ai.Client, item *models.Item, kind string) *models.PricingSuggestion {
	operation := "cost_suggestion"
	question := "Estimate the unit production cost (materials, labor, energy, packaging)."
	if kind == constants.PricingKindPrice {
		operation = "price_suggestion"
		question = fmt.Sprintf("Suggest a retail price. Known unit cost: %s.", item.CostPrice.String())
	}
	prompt := fmt.Sprintf(`Product: %s
Category: %s
Description: %s
%s
Reply with JSON only: {"amount":0.0,"components":{},"reasoning":"","confidence":0.0}`,
		item.Name, item.Category, item.Description, question)

	var draft pricingDraft
	err := client.CompleteJSON(ctx, "You are a pricing analyst for a handmade goods shop. Amounts are USD.", prompt, pricingMaxTokens, &draft)
	if err != nil || draft.Amount <= 0 {
		s.providers.Record(client.Provider(), operation, metrics.OutcomeFallback)
		logger.Warnw("pricing_ai_fallback", "sku", item.SKU, "kind", kind, "provider", client.Provider(), "error", err)
		return nil
	}
	s.providers.Record(client.Provider(), operation, metrics.OutcomeSuccess)

	amount := decimal.NewFromFloat(draft.Amount)
	if kind == constants.PricingKindPrice {
		amount = charmPrice(amount)
	}
	components := make(models.JSON, len(draft.Components))
	for name, value := range draft.Components {
		components[name] = decimal.NewFromFloat(value).Round(2).String()
	}
	confidence := draft.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = defaultPricingAIScore
	}
	return &models.PricingSuggestion{
		SuggestedAmount: models.NewMoneyFromDecimal(amount),
		Components:      components,
		Reasoning:       strings.TrimSpace(draft.Reasoning),
		Confidence:      confidence,
		Source:          constants.ContentSourceAI,
	}
}

// heuristicCost 分类成本构成求和
func heuristicCost(item *models.Item) *models.PricingSuggestion {
	category := strings.ToLower(strings.TrimSpace(item.Category))
	table, ok := categoryCostTable[category]
	reasoning := fmt.Sprintf("Standard cost breakdown for %s.", item.Category)
	if !ok {
		table = defaultCostTable
		reasoning = "Generic handmade cost breakdown."
	}
	total := decimal.Zero
	components := make(models.JSON, len(table))
	for name, raw := range table {
		value := decimal.RequireFromString(raw)
		components[name] = value.StringFixed(2)
		total = total.Add(value)
	}
	if !ok && item.RetailPrice.IsPositive() {
		total = item.RetailPrice.Div(retailCostDivisor)
		components = models.JSON{"retail_share": total.StringFixed(2)}
		reasoning = fmt.Sprintf("Retail price %s divided by %s.", item.RetailPrice.String(), retailCostDivisor.String())
	}
	return &models.PricingSuggestion{
		SuggestedAmount: models.NewMoneyFromDecimal(total),
		Components:      components,
		Reasoning:       reasoning,
		Confidence:      heuristicPricingScore,
		Source:          constants.ContentSourceHeuristic,
	}
}

// heuristicPrice 成本 × 分类加价倍率，按 .99 取整
func heuristicPrice(item *models.Item) *models.PricingSuggestion {
	cost := item.CostPrice.Decimal
	costSource := "item cost"
	if !cost.IsPositive() {
		cost = heuristicCost(item).SuggestedAmount.Decimal
		costSource = "estimated cost"
	}
	markupRaw, ok := categoryMarkup[strings.ToLower(strings.TrimSpace(item.Category))]
	if !ok {
		markupRaw = defaultMarkup
	}
	markup := decimal.RequireFromString(markupRaw)
	raw := cost.Mul(markup)
	price := charmPrice(raw)
	return &models.PricingSuggestion{
		SuggestedAmount: models.NewMoneyFromDecimal(price),
		Components: models.JSON{
			"cost":      cost.StringFixed(2),
			"markup":    markup.String(),
			"raw_price": raw.StringFixed(2),
		},
		Reasoning:  fmt.Sprintf("%s %s × %s markup, rounded to .99.", costSource, cost.StringFixed(2), markup.String()),
		Confidence: heuristicPricingScore,
		Source:     constants.ContentSourceHeuristic,
	}
}

// charmPrice 向上取整到 x.99
func charmPrice(amount decimal.Decimal) decimal.Decimal {
	ceil := amount.Ceil()
	if ceil.LessThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.RequireFromString("0.99")
	}
	return ceil.Sub(decimal.RequireFromString("0.01"))
}
