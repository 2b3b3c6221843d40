package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorExportsAIAndJobMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.IncAIRequest("openai", "marketing", OutcomeSuccess)
	c.IncAIRequest("openai", "marketing", OutcomeSuccess)
	c.IncAIRequest("", "cost", OutcomeFallback)
	c.ObserveJob("sku_rewrite", 150*time.Millisecond, nil)
	c.ObserveJob("sku_rewrite", time.Millisecond, errors.New("boom"))
	c.AddJobRecords("sku_rewrite", "rewritten", 3)
	c.AddJobRecords("sku_rewrite", "conflict", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := counterValue(t, mfs, "wf_ai_requests_total", map[string]string{"provider": "openai", "outcome": OutcomeSuccess}); got != 2 {
		t.Fatalf("ai success want 2 got %f", got)
	}
	if got := counterValue(t, mfs, "wf_ai_requests_total", map[string]string{"provider": "unknown", "outcome": OutcomeFallback}); got != 1 {
		t.Fatalf("ai fallback want 1 got %f", got)
	}
	if got := counterValue(t, mfs, "wf_job_success_total", map[string]string{"job": "sku_rewrite"}); got != 1 {
		t.Fatalf("job success want 1 got %f", got)
	}
	if got := counterValue(t, mfs, "wf_job_failure_total", map[string]string{"job": "sku_rewrite"}); got != 1 {
		t.Fatalf("job failure want 1 got %f", got)
	}
	if got := counterValue(t, mfs, "wf_job_records_total", map[string]string{"result": "rewritten"}); got != 3 {
		t.Fatalf("job records want 3 got %f", got)
	}
	if mf := findMetricFamily(mfs, "wf_job_records_total"); mf != nil && len(mf.GetMetric()) != 1 {
		t.Fatalf("zero adds should not create series, got %d", len(mf.GetMetric()))
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.IncAIRequest("openai", "marketing", OutcomeFailure)
	c.ObserveJob("job", time.Second, nil)
	c.AddJobRecords("job", "ok", 1)

	empty := NewCollector(nil)
	empty.IncAIRequest("openai", "marketing", OutcomeFailure)
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		t.Fatalf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q missing labels %v", name, labels)
	return 0
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
