package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financeflow_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "financeflow_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 业务指标
var (
	// SOPGenerationsTotal SOP 生成总数，status: success / unavailable / malformed
	SOPGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financeflow_sop_generations_total",
			Help: "SOP 生成总数",
		},
		[]string{"status"},
	)

	// SOPGenerationDuration SOP 生成耗时（秒），含重试
	SOPGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "financeflow_sop_generation_duration_seconds",
			Help:    "SOP 生成耗时分布",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// SuggestionsComputedTotal 建议计算次数
	SuggestionsComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "financeflow_suggestions_computed_total",
			Help: "自动化建议计算次数",
		},
	)

	// AutomationsCreatedTotal 自动化创建总数，按提供商区分
	AutomationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "financeflow_automations_created_total",
			Help: "已确认的自动化创建总数",
		},
		[]string{"provider"},
	)

	// UserRegistrationsTotal 用户注册总数
	UserRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "financeflow_user_registrations_total",
			Help: "用户注册总数",
		},
	)
)
