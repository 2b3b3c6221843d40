package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func newTestCostService(t *testing.T, cfg config.AIConfig) (*AICostService, *prometheus.Registry) {
	t.Helper()
	db := openServiceTestDB(t)
	reg := prometheus.NewRegistry()
	providers := NewAIProviderService(newTestSettingService(db), cfg, metrics.NewCollector(reg))
	return NewAICostService(providers), reg
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: want %s, got %s", name, want, got.String())
	}
}

func TestEstimateWithRatesJonsAIIsFree(t *testing.T) {
	ops, err := resolveOperations("generate_all", nil)
	if err != nil {
		t.Fatalf("resolve operations failed: %v", err)
	}
	estimate, err := EstimateWithRates(constants.AIProviderJonsAI, "", ops, 3, 3)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if !estimate.ExpectedCost.IsZero() || !estimate.MaxCost.IsZero() {
		t.Fatalf("jons_ai should be free: %+v", estimate)
	}
	if estimate.Model != "jons-ai" || len(estimate.LineItems) != 4 {
		t.Fatalf("unexpected estimate: %+v", estimate)
	}
}

func TestEstimateWithRatesFromTable(t *testing.T) {
	ops, _ := resolveOperations("generate_marketing", nil)
	estimate, err := EstimateWithRates("OpenAI", "gpt-4o", ops, 2, 0)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	// 2 × (900 × 0.0025 + 700 × 0.01) / 1000
	assertDecimal(t, "expected", estimate.ExpectedCost, "0.0185")
	assertDecimal(t, "min", estimate.MinCost, "0.013")
	assertDecimal(t, "max", estimate.MaxCost, "0.0241")
	if estimate.Currency != "USD" || estimate.Source != constants.ContentSourceHeuristic {
		t.Fatalf("unexpected estimate meta: %+v", estimate)
	}
	line := estimate.LineItems[0]
	if line.Quantity != 2 || line.InputTokens != 1800 || line.OutputTokens != 1400 {
		t.Fatalf("unexpected line item: %+v", line)
	}
}

func TestEstimateWithRatesScalesImagesAndOnce(t *testing.T) {
	ops, _ := resolveOperations("", []string{"image_crop", "background_generation"})
	estimate, err := EstimateWithRates(constants.AIProviderOpenAI, "gpt-4o", ops, 1, 4)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	crop, background := estimate.LineItems[0], estimate.LineItems[1]
	if crop.Quantity != 4 || crop.ImageAnalyses != 4 {
		t.Fatalf("image operation should scale by image count: %+v", crop)
	}
	if background.Quantity != 1 || background.ImageGenerations != 1 {
		t.Fatalf("background should run once: %+v", background)
	}
}

func TestEstimateUnknownModelFallsBack(t *testing.T) {
	svc, _ := newTestCostService(t, config.AIConfig{})
	estimate, err := svc.Estimate(context.Background(), CostEstimateInput{
		ActionKey: "suggest_price",
		Provider:  constants.AIProviderOpenAI,
		Model:     "gpt-9-ultra",
	})
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if estimate.Model != "gpt-4o" {
		t.Fatalf("unknown model should fall back to gpt-4o, got %s", estimate.Model)
	}
	// 600 × 0.0025 / 1000 + 350 × 0.01 / 1000
	assertDecimal(t, "expected", estimate.ExpectedCost, "0.005")
}

func TestEstimateDefaultsToJonsAI(t *testing.T) {
	svc, _ := newTestCostService(t, config.AIConfig{})
	estimate, err := svc.Estimate(context.Background(), CostEstimateInput{ActionKey: "generate_all", Refine: true})
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if estimate.Provider != constants.AIProviderJonsAI || !estimate.ExpectedCost.IsZero() {
		t.Fatalf("unexpected estimate: %+v", estimate)
	}
	if estimate.Source != constants.ContentSourceHeuristic {
		t.Fatalf("jons_ai must not refine, got source %s", estimate.Source)
	}
}

func TestEstimateErrors(t *testing.T) {
	svc, _ := newTestCostService(t, config.AIConfig{})
	zero := 0
	cases := []struct {
		name  string
		input CostEstimateInput
		want  error
	}{
		{"unknown provider", CostEstimateInput{ActionKey: "suggest_cost", Provider: "skynet"}, ErrAIProviderUnknown},
		{"unknown operation", CostEstimateInput{Operations: []string{"mind_reading"}}, ErrAIOperationUnknown},
		{"unknown action", CostEstimateInput{ActionKey: "do_everything"}, ErrAIActionUnknown},
		{"missing action", CostEstimateInput{}, ErrValidation},
		{"zero items", CostEstimateInput{ActionKey: "suggest_cost", ItemCount: &zero}, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Estimate(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEstimateRefineOverridesTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"operations\":[{\"key\":\"marketing_copy\",\"input_tokens\":1000,\"output_tokens\":500}]}"}}]}`))
	}))
	defer srv.Close()

	svc, _ := newTestCostService(t, config.AIConfig{
		Provider: constants.AIProviderOpenAI,
		APIKey:   "k-1",
		BaseURLs: map[string]string{constants.AIProviderOpenAI: srv.URL},
	})
	estimate, err := svc.Estimate(context.Background(), CostEstimateInput{ActionKey: "generate_marketing", Refine: true})
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	if estimate.Source != constants.ContentSourceRefined {
		t.Fatalf("expected refined source, got %s", estimate.Source)
	}
	// 1000 × 0.0025 / 1000 + 500 × 0.01 / 1000
	assertDecimal(t, "expected", estimate.ExpectedCost, "0.0075")
}

func TestEstimateRefineFailureIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc, reg := newTestCostService(t, config.AIConfig{
		Provider: constants.AIProviderOpenAI,
		APIKey:   "k-1",
		BaseURLs: map[string]string{constants.AIProviderOpenAI: srv.URL},
	})
	two := 2
	estimate, err := svc.Estimate(context.Background(), CostEstimateInput{ActionKey: "generate_marketing", ItemCount: &two, Refine: true})
	if err != nil {
		t.Fatalf("refine failure must not surface: %v", err)
	}
	if estimate.Source != constants.ContentSourceHeuristic {
		t.Fatalf("expected heuristic source, got %s", estimate.Source)
	}
	assertDecimal(t, "expected", estimate.ExpectedCost, "0.0185")
	if got := aiRequestCount(t, reg, metrics.OutcomeFallback); got != 1 {
		t.Fatalf("expected one fallback metric, got %v", got)
	}
}

func TestPlausibleTokens(t *testing.T) {
	if plausibleTokens(0, 100) || plausibleTokens(-1, 100) {
		t.Fatalf("non-positive tokens must be rejected")
	}
	if !plausibleTokens(1000, 100) || plausibleTokens(1001, 100) {
		t.Fatalf("tokens are capped at ten times the baseline")
	}
	if !plausibleTokens(500, 0) {
		t.Fatalf("zero baseline accepts small values")
	}
}

func aiRequestCount(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics failed: %v", err)
	}
	total := 0.0
	for _, mf := range mfs {
		if mf.GetName() != "wf_ai_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabel(metric.GetLabel(), "outcome", outcome) {
				total += metric.GetCounter().GetValue()
			}
		}
	}
	return total
}
