// Package metrics 定义目录查询与订单计价的 Prometheus 指标。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// 目录查询结果标签
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeUnavailable  = "unavailable"
	OutcomeCacheHit     = "cache_hit"
	OutcomeCacheMiss    = "cache_miss"
	OutcomeCacheError   = "cache_error"
	OutcomeBlocked      = "blocked"
	OutcomeConfirmable  = "confirmable"
	OutcomeCouponDenied = "coupon_denied"
)

// Metrics 业务指标集合
type Metrics struct {
	registry        *prometheus.Registry
	catalogQueries  *prometheus.CounterVec
	catalogLatency  *prometheus.HistogramVec
	catalogCache    *prometheus.CounterVec
	pricedOrders    *prometheus.CounterVec
	pricingWarnings *prometheus.CounterVec
}

// New 在独立 registry 上注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		catalogQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog queries by search mode and outcome.",
		}, []string{"mode", "outcome"}),
		catalogLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "query_duration_seconds",
			Help:      "Catalog data source read latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		catalogCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "cache_lookups_total",
			Help:      "Catalog page cache lookups by result.",
		}, []string{"result"}),
		pricedOrders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "orders_total",
			Help:      "Priced orders by checkout state.",
		}, []string{"outcome"}),
		pricingWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "warnings_total",
			Help:      "Discount rule data-quality warnings by source and code.",
		}, []string{"source", "code"}),
	}
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCatalogQuery 记录目录查询结果与耗时
func (m *Metrics) ObserveCatalogQuery(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.catalogQueries.WithLabelValues(mode, outcome).Inc()
	if elapsed > 0 {
		m.catalogLatency.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// ObserveCatalogCache 记录缓存命中情况
func (m *Metrics) ObserveCatalogCache(result string) {
	if m == nil {
		return
	}
	m.catalogCache.WithLabelValues(result).Inc()
}

// ObservePricedOrder 记录计价结果是否可结算
func (m *Metrics) ObservePricedOrder(outcome string) {
	if m == nil {
		return
	}
	m.pricedOrders.WithLabelValues(outcome).Inc()
}

// ObservePricingWarning 记录价格数据问题
func (m *Metrics) ObservePricingWarning(source, code string) {
	if m == nil {
		return
	}
	m.pricingWarnings.WithLabelValues(source, code).Inc()
}
