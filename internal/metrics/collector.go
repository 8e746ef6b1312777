// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 路由指标
	routingTotal    *prometheus.CounterVec
	routingDuration *prometheus.HistogramVec
	rerouteHops     prometheus.Histogram

	// Agent 指标
	agentInvocationsTotal   *prometheus.CounterVec
	agentInvocationDuration *prometheus.HistogramVec
	agentConfidence         *prometheus.HistogramVec

	// 会话存储指标
	sessionHits   *prometheus.CounterVec
	sessionMisses *prometheus.CounterVec

	// WebSocket 指标
	wsConnections prometheus.Gauge
	wsRooms       prometheus.Gauge
	wsEventsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// HTTP 指标
	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// 路由指标
	c.routingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_total",
			Help:      "Total number of routed messages",
		},
		[]string{"path", "outcome"}, // path: mention, relevance; outcome: agent, multiple, system, error
	)

	c.routingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "routing_duration_seconds",
			Help:      "End-to-end message routing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	c.rerouteHops = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reroute_hops",
			Help:      "Number of reroute hops taken per dispatch",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 8},
		},
	)

	// Agent 指标
	c.agentInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_invocations_total",
			Help:      "Total number of agent invocations",
		},
		[]string{"agent", "status"}, // status: ok, reroute, error
	)

	c.agentInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_invocation_duration_seconds",
			Help:      "Agent invocation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"agent"},
	)

	c.agentConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_confidence",
			Help:      "Confidence reported by agent invocations",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"agent"},
	)

	// 会话存储指标
	c.sessionHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_hits_total",
			Help:      "Total number of session store hits",
		},
		[]string{"store"},
	)

	c.sessionMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_misses_total",
			Help:      "Total number of session store misses",
		},
		[]string{"store"},
	)

	// WebSocket 指标
	c.wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Number of open WebSocket connections",
		},
	)

	c.wsRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_rooms",
			Help:      "Number of rooms with at least one member",
		},
	)

	c.wsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_events_total",
			Help:      "Total number of WebSocket events processed",
		},
		[]string{"type"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 HTTP 指标记录
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// =============================================================================
// 🚦 路由指标记录
// =============================================================================

// RecordRouting 记录一次消息路由
func (c *Collector) RecordRouting(path, outcome string, duration time.Duration) {
	c.routingTotal.WithLabelValues(path, outcome).Inc()
	c.routingDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordRerouteHops 记录一次调度经历的转派跳数
func (c *Collector) RecordRerouteHops(hops int) {
	c.rerouteHops.Observe(float64(hops))
}

// =============================================================================
// 🎭 Agent 指标记录
// =============================================================================

// RecordAgentInvocation 记录 Agent 调用
func (c *Collector) RecordAgentInvocation(agent, status string, duration time.Duration, confidence float64) {
	c.agentInvocationsTotal.WithLabelValues(agent, status).Inc()
	c.agentInvocationDuration.WithLabelValues(agent).Observe(duration.Seconds())
	c.agentConfidence.WithLabelValues(agent).Observe(confidence)
}

// =============================================================================
// 💾 会话存储指标记录
// =============================================================================

// RecordSessionHit 记录会话命中
func (c *Collector) RecordSessionHit(store string) {
	c.sessionHits.WithLabelValues(store).Inc()
}

// RecordSessionMiss 记录会话未命中
func (c *Collector) RecordSessionMiss(store string) {
	c.sessionMisses.WithLabelValues(store).Inc()
}

// =============================================================================
// 🔌 WebSocket 指标记录
// =============================================================================

// SetWSConnections 设置当前连接数
func (c *Collector) SetWSConnections(n int) {
	c.wsConnections.Set(float64(n))
}

// SetWSRooms 设置当前房间数
func (c *Collector) SetWSRooms(n int) {
	c.wsRooms.Set(float64(n))
}

// RecordWSEvent 记录 WebSocket 事件
func (c *Collector) RecordWSEvent(eventType string) {
	c.wsEventsTotal.WithLabelValues(eventType).Inc()
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusCode 将 HTTP 状态码转换为字符串
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
