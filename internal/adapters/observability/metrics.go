package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travel", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ModelRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "model_requests_total", Help: "Model backend round trips."},
		[]string{"outcome"}, // outcome: ok|rate_limited|error
	)
	ModelLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "travel", Name: "model_request_duration_seconds",
			Help:    "Model backend round-trip duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	ToolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "tool_invocations_total", Help: "Agent tool calls."},
		[]string{"tool", "outcome"}, // outcome: ok|degraded|error
	)
	DBReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "travel", Name: "db_reconnects_total", Help: "Store connection replacements."},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ModelRequests, ModelLatency, ToolInvocations, DBReconnects, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveModel(outcome string, dur time.Duration) {
	ModelRequests.WithLabelValues(outcome).Inc()
	ModelLatency.Observe(dur.Seconds())
}

func ObserveTool(tool, outcome string) {
	ToolInvocations.WithLabelValues(tool, outcome).Inc()
}

func ObserveReconnect() { DBReconnects.Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
