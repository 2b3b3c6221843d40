package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AI 调用结果标签
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
)

// Collector 汇总 AI 调用与后台任务指标
type Collector struct {
	aiRequests  *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobSuccess  *prometheus.CounterVec
	jobFailure  *prometheus.CounterVec
	jobRecords  *prometheus.CounterVec
}

// NewCollector 在给定 registerer 上注册指标；reg 为空时返回空采集器
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		return &Collector{}
	}
	c := &Collector{
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wf",
			Name:      "ai_requests_total",
			Help:      "AI provider calls by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wf",
			Name:      "job_duration_seconds",
			Help:      "Duration of background jobs in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		jobSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wf",
			Name:      "job_success_total",
			Help:      "Successful background job runs.",
		}, []string{"job"}),
		jobFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wf",
			Name:      "job_failure_total",
			Help:      "Failed background job runs.",
		}, []string{"job"}),
		jobRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wf",
			Name:      "job_records_total",
			Help:      "Records handled by background jobs, by result.",
		}, []string{"job", "result"}),
	}
	reg.MustRegister(c.aiRequests, c.jobDuration, c.jobSuccess, c.jobFailure, c.jobRecords)
	return c
}

// IncAIRequest 记录一次 AI 调用
func (c *Collector) IncAIRequest(provider, operation, outcome string) {
	if c == nil || c.aiRequests == nil {
		return
	}
	c.aiRequests.WithLabelValues(normalizeLabel(provider), normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// ObserveJob 记录任务耗时与成败
func (c *Collector) ObserveJob(job string, duration time.Duration, err error) {
	if c == nil || c.jobDuration == nil {
		return
	}
	job = normalizeLabel(job)
	c.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
	if err != nil {
		c.jobFailure.WithLabelValues(job).Inc()
		return
	}
	c.jobSuccess.WithLabelValues(job).Inc()
}

// AddJobRecords 累加任务处理的记录数
func (c *Collector) AddJobRecords(job, result string, n int) {
	if c == nil || c.jobRecords == nil || n <= 0 {
		return
	}
	c.jobRecords.WithLabelValues(normalizeLabel(job), normalizeLabel(result)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
