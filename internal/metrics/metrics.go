package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}

var (
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_analyses_total",
		Help: "Total number of completed image analyses",
	})
	AnalysisDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "patrio_analysis_duration_ms",
		Help:    "End-to-end analysis duration in milliseconds",
		Buckets: durationBuckets,
	})
	ClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patrio_classifications_total",
		Help: "Classification results by building category",
	}, []string{"category"})
	OfflineFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patrio_offline_fallback_total",
		Help: "Analyses served by the offline simulation, by reason",
	}, []string{"reason"})
	VisionRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_vision_requests_total",
		Help: "Total remote vision annotate requests",
	})
	VisionFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_vision_fail_total",
		Help: "Total remote vision annotate failures",
	})
	VisionDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "patrio_vision_duration_ms",
		Help:    "Remote vision call duration in milliseconds",
		Buckets: durationBuckets,
	})
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patrio_geocode_requests_total",
		Help: "Reverse geocode attempts by geocoder and outcome",
	}, []string{"geocoder", "status"})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_redis_misses_total",
		Help: "Total redis cache misses",
	})
	HistoryAppendFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_history_append_fail_total",
		Help: "Total analysis history append failures",
	})
	CasaroesOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patrio_casaroes_ops_total",
		Help: "CRUD operations on casaroes by op and status",
	}, []string{"op", "status"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrio_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisDurationMs)
	prometheus.MustRegister(ClassificationsTotal)
	prometheus.MustRegister(OfflineFallbackTotal)
	prometheus.MustRegister(VisionRequestsTotal)
	prometheus.MustRegister(VisionFailTotal)
	prometheus.MustRegister(VisionDurationMs)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(HistoryAppendFailTotal)
	prometheus.MustRegister(CasaroesOpsTotal)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标处理器
// 背景：统一暴露注册指标，供 Prometheus 抓取；由 API 路由挂载到 {base}/metrics。
func Handler() http.Handler { return promhttp.Handler() }
