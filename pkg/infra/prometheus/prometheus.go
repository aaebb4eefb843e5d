package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. The upstream usually answers within
	// a few hundred ms; the tail covers the outbound timeout.
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	GatewayRequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmcgate_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"route", "method", "status"},
	)

	GatewayRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cmcgate_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	GatewayUpstreamLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cmcgate_upstream_latency_ms",
			Help:    "Upstream call latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"endpoint"},
	)

	GatewayUpstreamResponses = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmcgate_upstream_responses_total",
			Help: "Upstream responses by HTTP status; status is 0 when no response arrived",
		},
		[]string{"endpoint", "status"},
	)

	GatewayErrors = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cmcgate_errors_total",
			Help: "Error responses written, by error kind and code",
		},
		[]string{"kind", "code"},
	)
)

type MetricsConfig struct {
	Enabled               bool // Master switch; nothing is recorded when false
	EnableLatency         bool // Request latency histogram
	EnableUpstreamLatency bool // Upstream latency and status metrics
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:               true,
		EnableLatency:         true,
		EnableUpstreamLatency: true,
	}
}

var (
	configMu     sync.RWMutex
	config       = DefaultMetricsConfig()
	registerOnce sync.Once
)

// Initialize applies cfg and registers the process collector. It is safe to
// call more than once; only the config is replaced on later calls.
func Initialize(cfg MetricsConfig) {
	configMu.Lock()
	config = cfg
	configMu.Unlock()

	registerOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	})
}

func currentConfig() MetricsConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// Handler exposes the gateway registry in the text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func Gatherer() prometheus.Gatherer {
	return registry
}

func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	cfg := currentConfig()
	if !cfg.Enabled {
		return
	}
	GatewayRequestTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	if cfg.EnableLatency {
		GatewayRequestLatency.WithLabelValues(route).Observe(toMillis(elapsed))
	}
}

func ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	cfg := currentConfig()
	if !cfg.Enabled || !cfg.EnableUpstreamLatency {
		return
	}
	GatewayUpstreamResponses.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	GatewayUpstreamLatency.WithLabelValues(endpoint).Observe(toMillis(elapsed))
}

func ObserveError(kind string, code int) {
	if !currentConfig().Enabled {
		return
	}
	GatewayErrors.WithLabelValues(kind, strconv.Itoa(code)).Inc()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
