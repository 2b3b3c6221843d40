package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

func setupSuggestionDB(t *testing.T, aiCfg config.AIConfig) (*gorm.DB, *AIProviderService) {
	t.Helper()
	db := openServiceTestDB(t)
	item := &models.Item{
		SKU:         "WF-TS-001",
		Name:        "Lily Pad Tee",
		Category:    "T-Shirts",
		RetailPrice: mustMoney(t, "24.99"),
		IsActive:    true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item failed: %v", err)
	}
	return db, NewAIProviderService(newTestSettingService(db), aiCfg, metrics.NewCollector(nil))
}

func fakeChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":` + content + `}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func liveAIConfig(url string) config.AIConfig {
	return config.AIConfig{
		Provider: constants.AIProviderOpenAI,
		APIKey:   "k",
		BaseURLs: map[string]string{constants.AIProviderOpenAI: url},
	}
}

func TestMarketingHeuristic(t *testing.T) {
	db, providers := setupSuggestionDB(t, config.AIConfig{})
	svc := NewMarketingService(repository.NewItemRepository(db), repository.NewSuggestionRepository(db), providers)

	if _, err := svc.Get("WF-TS-001"); !errors.Is(err, ErrMarketingNotFound) {
		t.Fatalf("expected ErrMarketingNotFound, got %v", err)
	}

	got, err := svc.Generate(context.Background(), "WF-TS-001", MarketingOptions{UseAI: true})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Source != constants.ContentSourceHeuristic || got.SuggestedTitle != "Lily Pad Tee | Handmade T-Shirts" {
		t.Fatalf("unexpected suggestion: %+v", got)
	}
	if want := []string{"lily", "pad", "tee", "shirts"}; !reflect.DeepEqual([]string(got.Keywords), want) {
		t.Fatalf("unexpected keywords: %v", got.Keywords)
	}
	if len(got.SellingPoints) != 3 || got.TargetAudience == "" {
		t.Fatalf("category copy missing: %+v", got)
	}

	if _, err := svc.Generate(context.Background(), "WF-XX-404", MarketingOptions{}); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMarketingAIUpsertsWholesale(t *testing.T) {
	srv := fakeChatServer(t, `"{\"title\":\"Hop Into Spring\",\"description\":\"A tee for pond lovers.\",\"keywords\":[\"frog\",\"frog\",\" tee \"],\"selling_points\":[\"Soft\"],\"call_to_action\":\"Hop to it\",\"confidence\":0.9}"`)
	db, providers := setupSuggestionDB(t, liveAIConfig(srv.URL))
	svc := NewMarketingService(repository.NewItemRepository(db), repository.NewSuggestionRepository(db), providers)

	if _, err := svc.Generate(context.Background(), "WF-TS-001", MarketingOptions{}); err != nil {
		t.Fatalf("heuristic generate failed: %v", err)
	}
	got, err := svc.Generate(context.Background(), "WF-TS-001", MarketingOptions{UseAI: true})
	if err != nil {
		t.Fatalf("ai generate failed: %v", err)
	}
	if got.Source != constants.ContentSourceAI || got.Provider != constants.AIProviderOpenAI || got.Model != "gpt-4o" {
		t.Fatalf("unexpected ai suggestion: %+v", got)
	}
	if got.SuggestedTitle != "Hop Into Spring" || got.TargetAudience != "" || got.Confidence != 0.9 {
		t.Fatalf("suggestion should be replaced wholesale: %+v", got)
	}
	if want := []string{"frog", "tee"}; !reflect.DeepEqual([]string(got.Keywords), want) {
		t.Fatalf("keywords should be cleaned: %v", got.Keywords)
	}

	var count int64
	db.Model(&models.MarketingSuggestion{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one suggestion row, got %d", count)
	}
}

func TestMarketingAIFallsBackOnEmptyTitle(t *testing.T) {
	srv := fakeChatServer(t, `"{\"title\":\"\"}"`)
	db, providers := setupSuggestionDB(t, liveAIConfig(srv.URL))
	svc := NewMarketingService(repository.NewItemRepository(db), repository.NewSuggestionRepository(db), providers)

	got, err := svc.Generate(context.Background(), "WF-TS-001", MarketingOptions{UseAI: true})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Source != constants.ContentSourceHeuristic {
		t.Fatalf("expected heuristic fallback, got %s", got.Source)
	}
}
