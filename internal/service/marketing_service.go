package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/whimsicalfrog/wf-admin/internal/ai"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

const (
	marketingMaxTokens        = 900
	heuristicMarketingScore   = 0.55
	marketingKeywordLimit     = 8
	marketingSellingPointsMax = 5
)

var marketingStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "our": {}, "your": {}, "from": {}, "this": {}, "that": {},
}

// 分类文案模板
type categoryCopy struct {
	audience      string
	sellingPoints []string
}

var marketingCategoryCopy = map[string]categoryCopy{
	"t-shirts": {
		audience:      "Casual shoppers who like playful, one-of-a-kind apparel",
		sellingPoints: []string{"Soft, breathable cotton blend", "Vibrant print that survives the wash", "Unisex fit in a full size range"},
	},
	"tumblers": {
		audience:      "Commuters and gift buyers who want a personal touch",
		sellingPoints: []string{"Double-wall insulation keeps drinks hot or cold", "Spill-resistant lid", "Dishwasher-safe sublimated finish"},
	},
	"artwork": {
		audience:      "Home decorators looking for whimsical statement pieces",
		sellingPoints: []string{"Original design printed on archival stock", "Ready to frame", "Colors that stay bright for years"},
	},
	"sublimation": {
		audience:      "Gift shoppers who want custom keepsakes",
		sellingPoints: []string{"Permanent full-color sublimation", "Personalization available", "Made to order in our studio"},
	},
	"window wraps": {
		audience:      "Small businesses that want eye-catching storefronts",
		sellingPoints: []string{"Weather-resistant vinyl", "Custom sized to your window", "Bubble-free installation"},
	},
}

var defaultCategoryCopy = categoryCopy{
	audience:      "Shoppers who love handmade, whimsical goods",
	sellingPoints: []string{"Handmade in small batches", "Quality materials", "Designed to make you smile"},
}

// MarketingOptions 生成选项
type MarketingOptions struct {
	UseAI    bool
	Provider string
	Model    string
}

type marketingDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Keywords       []string `json:"keywords"`
	SellingPoints  []string `json:"selling_points"`
	TargetAudience string   `json:"target_audience"`
	CallToAction   string   `json:"call_to_action"`
	SEOKeywords    []string `json:"seo_keywords"`
	Confidence     float64  `json:"confidence"`
}

// MarketingService 营销文案生成服务
type MarketingService struct {
	itemRepo       repository.ItemRepository
	suggestionRepo repository.SuggestionRepository
	providers      *AIProviderService
}

// NewMarketingService 创建营销文案服务
func NewMarketingService(itemRepo repository.ItemRepository, suggestionRepo repository.SuggestionRepository, providers *AIProviderService) *MarketingService {
	return &MarketingService{
		itemRepo:       itemRepo,
		suggestionRepo: suggestionRepo,
		providers:      providers,
	}
}

// Get 获取已保存的营销建议
func (s *MarketingService) Get(sku string) (*models.MarketingSuggestion, error) {
	suggestion, err := s.suggestionRepo.GetMarketing(strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, ErrMarketingNotFound
	}
	return suggestion, nil
}

// Generate 生成营销文案并整体覆盖保存；AI 不可用或失败时使用启发式文案
func (s *MarketingService) Generate(ctx context.Context, sku string, opts MarketingOptions) (*models.MarketingSuggestion, error) {
	item, err := s.itemRepo.GetBySKU(strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	var suggestion *models.MarketingSuggestion
	if opts.UseAI {
		client, err := s.providers.Client(ctx, opts.Provider, opts.Model)
		if err != nil {
			return nil, err
		}
		if client.Live() {
			suggestion = s.generateWithAI(ctx, client, item)
		}
	}
	if suggestion == nil {
		suggestion = heuristicMarketing(item)
	}
	suggestion.SKU = item.SKU

	if err := s.suggestionRepo.UpsertMarketing(suggestion); err != nil {
		return nil, err
	}
	return s.Get(item.SKU)
}

func (s *MarketingService) generateWithAI(ctx context.Context, client *ai.Client, item *models.Item) *models.MarketingSuggestion {
	system := fmt.Sprintf("You write product marketing copy for WhimsicalFrog. Brand voice: %s. Tone: %s.",
		orDefault(s.providers.BrandVoice(ctx), "playful and warm"), s.providers.ContentTone(ctx))
	prompt := fmt.Sprintf(`Product: %s
Category: %s
Description: %s
Price: %s
Reply with JSON only: {"title":"","description":"","keywords":[],"selling_points":[],"target_audience":"","call_to_action":"","seo_keywords":[],"confidence":0.0}`,
		item.Name, item.Category, item.Description, item.RetailPrice.String())

	var draft marketingDraft
	if err := client.CompleteJSON(ctx, system, prompt, marketingMaxTokens, &draft); err != nil || strings.TrimSpace(draft.Title) == "" {
		s.providers.Record(client.Provider(), "marketing_copy", metrics.OutcomeFallback)
		logger.Warnw("marketing_ai_fallback", "sku", item.SKU, "provider", client.Provider(), "error", err)
		return nil
	}
	s.providers.Record(client.Provider(), "marketing_copy", metrics.OutcomeSuccess)

	confidence := draft.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.8
	}
	return &models.MarketingSuggestion{
		SuggestedTitle:       strings.TrimSpace(draft.Title),
		SuggestedDescription: strings.TrimSpace(draft.Description),
		Keywords:             cleanList(draft.Keywords, marketingKeywordLimit),
		SellingPoints:        cleanList(draft.SellingPoints, marketingSellingPointsMax),
		SEOKeywords:          cleanList(draft.SEOKeywords, marketingKeywordLimit),
		TargetAudience:       strings.TrimSpace(draft.TargetAudience),
		CallToAction:         strings.TrimSpace(draft.CallToAction),
		Confidence:           confidence,
		Source:               constants.ContentSourceAI,
		Provider:             client.Provider(),
		Model:                client.Model(),
	}
}

func heuristicMarketing(item *models.Item) *models.MarketingSuggestion {
	copyFor, ok := marketingCategoryCopy[strings.ToLower(strings.TrimSpace(item.Category))]
	if !ok {
		copyFor = defaultCategoryCopy
	}
	name := strings.TrimSpace(item.Name)
	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = fmt.Sprintf("Meet the %s, a WhimsicalFrog original. %s.", name, copyFor.sellingPoints[0])
	}
	keywords := extractKeywords(name+" "+item.Category, marketingKeywordLimit)
	seo := cleanList(append(append([]string{}, keywords...), strings.ToLower(item.Category), "whimsicalfrog"), marketingKeywordLimit)

	title := name
	if item.Category != "" {
		title = fmt.Sprintf("%s | Handmade %s", name, item.Category)
	}
	return &models.MarketingSuggestion{
		SuggestedTitle:       title,
		SuggestedDescription: description,
		Keywords:             keywords,
		SellingPoints:        append([]string{}, copyFor.sellingPoints...),
		SEOKeywords:          seo,
		TargetAudience:       copyFor.audience,
		CallToAction:         fmt.Sprintf("Bring home the %s today!", name),
		Confidence:           heuristicMarketingScore,
		Source:               constants.ContentSourceHeuristic,
	}
}

// extractKeywords 按出现顺序取去重后的小写词，过滤停用词和短词
func extractKeywords(text string, limit int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		if len(word) < 3 {
			continue
		}
		if _, stop := marketingStopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
		if len(out) == limit {
			break
		}
	}
	return out
}

func cleanList(values []string, limit int) models.StringArray {
	out := make(models.StringArray, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		key := strings.ToLower(value)
		if value == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
