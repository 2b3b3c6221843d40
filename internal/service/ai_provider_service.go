package service

import (
	"context"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/ai"
	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
)

// AIProviderService 解析当前 AI 服务商并创建客户端
// 业务设置（ai 分类）优先于配置文件
type AIProviderService struct {
	settings *BusinessSettingService
	cfg      config.AIConfig
	metrics  *metrics.Collector
}

// NewAIProviderService 创建 AI 服务商解析服务
func NewAIProviderService(settings *BusinessSettingService, cfg config.AIConfig, collector *metrics.Collector) *AIProviderService {
	return &AIProviderService{
		settings: settings,
		cfg:      cfg,
		metrics:  collector,
	}
}

// KnownProvider 是否为支持的服务商
func KnownProvider(provider string) bool {
	return ai.DefaultModel(provider) != ""
}

// Client 创建客户端；providerOverride/modelOverride 为空时使用设置
func (s *AIProviderService) Client(ctx context.Context, providerOverride, modelOverride string) (*ai.Client, error) {
	provider := strings.ToLower(strings.TrimSpace(providerOverride))
	settingProvider := strings.ToLower(strings.TrimSpace(
		s.settings.GetString(ctx, constants.SettingCategoryAI, constants.SettingKeyAIProvider, ""),
	))
	if provider == "" {
		provider = settingProvider
	}
	if provider == "" {
		provider = strings.ToLower(strings.TrimSpace(s.cfg.Provider))
	}
	if provider == "" {
		provider = constants.AIProviderJonsAI
	}
	if !KnownProvider(provider) {
		return nil, ErrAIProviderUnknown
	}

	model := strings.TrimSpace(modelOverride)
	if model == "" && provider == settingProvider {
		model = strings.TrimSpace(s.settings.GetString(ctx, constants.SettingCategoryAI, constants.SettingKeyAIModel, ""))
	}
	if model == "" && provider == strings.ToLower(strings.TrimSpace(s.cfg.Provider)) {
		model = strings.TrimSpace(s.cfg.Model)
	}

	apiKey := strings.TrimSpace(s.settings.GetString(ctx, constants.SettingCategoryAI, constants.SettingKeyAIAPIKey, ""))
	if apiKey == "" {
		apiKey = strings.TrimSpace(s.cfg.APIKey)
	}

	return ai.NewClient(ai.Config{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
		BaseURL:  s.cfg.BaseURLs[provider],
		Timeout:  time.Duration(s.cfg.TimeoutSeconds) * time.Second,
	}), nil
}

// BrandVoice 品牌语气设置
func (s *AIProviderService) BrandVoice(ctx context.Context) string {
	return s.settings.GetString(ctx, constants.SettingCategoryAI, constants.SettingKeyAIBrandVoice, "")
}

// ContentTone 文案基调设置
func (s *AIProviderService) ContentTone(ctx context.Context) string {
	return s.settings.GetString(ctx, constants.SettingCategoryAI, constants.SettingKeyAIContentTone, "friendly")
}

// Record 记录一次 AI 调用结果
func (s *AIProviderService) Record(provider, operation, outcome string) {
	s.metrics.IncAIRequest(provider, operation, outcome)
}
