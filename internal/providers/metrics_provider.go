package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
	"ytwatch/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncPollOutcome(outcome string)
	IncResolve(strategy string)
	IncUpstreamRetries(op string)
	IncNotificationsSent()
	ObservePollDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	pollOutcomes        *prometheus.CounterVec
	resolveTotal        *prometheus.CounterVec
	upstreamRetries     *prometheus.CounterVec
	notificationsSent   prometheus.Counter
	pollDuration        prometheus.Histogram
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncPollOutcome(outcome string) {
	m.pollOutcomes.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncResolve(strategy string) {
	m.resolveTotal.WithLabelValues(strategy).Inc()
}

func (m *MetricsProvider) IncUpstreamRetries(op string) {
	m.upstreamRetries.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) IncNotificationsSent() {
	m.notificationsSent.Inc()
}

func (m *MetricsProvider) ObservePollDuration(duration time.Duration) {
	m.pollDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ytwatch_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ytwatch_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ytwatch_cache_hits_total",
			Help: "Total number of resolver cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ytwatch_cache_misses_total",
			Help: "Total number of resolver cache misses",
		}),

		pollOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ytwatch_poll_outcomes_total",
			Help: "Per-channel poll outcomes",
		}, []string{"outcome"}),

		resolveTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ytwatch_resolve_total",
			Help: "Channel references resolved, by winning strategy",
		}, []string{"strategy"}),

		upstreamRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ytwatch_upstream_retries_total",
			Help: "Retried upstream calls",
		}, []string{"op"}),

		notificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ytwatch_notifications_sent_total",
			Help: "New video notifications sent",
		}),

		pollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytwatch_poll_duration_seconds",
			Help:    "Duration of a full poll run in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytwatch_persistence_duration_seconds",
			Help:    "Duration of store snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	channels := len(conf.Poll.Channels)
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ytwatch_channels_configured",
		Help: "Number of channel references in the poll list",
	}, func() float64 {
		return float64(channels)
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncPollOutcome(_ string)                          {}
func (n *noopMetrics) IncResolve(_ string)                              {}
func (n *noopMetrics) IncUpstreamRetries(_ string)                      {}
func (n *noopMetrics) IncNotificationsSent()                            {}
func (n *noopMetrics) ObservePollDuration(_ time.Duration)              {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
