// Package metrics provides the centralized Prometheus registry for the backtest engine.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "cache_hits_total",
		Help:      "Total number of feed cache hits",
	}, []string{"source"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "cache_misses_total",
		Help:      "Total number of feed cache misses",
	}, []string{"source"})
	StreamMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "stream_messages_total",
		Help:      "Total number of score stream messages by type",
	}, []string{"type"})
	StreamReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hoopcast",
		Name:      "stream_reconnects_total",
		Help:      "Total number of score stream reconnect attempts",
	})
)

// Histogram metrics
var (
	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hoopcast",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of feed fetch operations in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source", "operation"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register feed metrics
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(StreamMessagesTotal)
		registry.MustRegister(StreamReconnectsTotal)
		registry.MustRegister(FetchDuration)

		// Register run metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(MatchupResultsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestAccuracy)
		registry.MustRegister(LastRunGameDays)
		registry.MustRegister(StatWeightValue)
		registry.MustRegister(WeightRefinementsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordCacheHit records a feed cache hit.
func RecordCacheHit(source string) {
	CacheHitsTotal.WithLabelValues(source).Inc()
}

// RecordCacheMiss records a feed cache miss.
func RecordCacheMiss(source string) {
	CacheMissesTotal.WithLabelValues(source).Inc()
}

// ObserveFetchDuration records the duration of a feed fetch operation.
func ObserveFetchDuration(source, operation string, duration time.Duration) {
	FetchDuration.WithLabelValues(source, operation).Observe(duration.Seconds())
}

// RecordStreamMessage records a score stream message by type.
func RecordStreamMessage(messageType string) {
	StreamMessagesTotal.WithLabelValues(messageType).Inc()
}

// RecordStreamReconnect records a score stream reconnect attempt.
func RecordStreamReconnect() {
	StreamReconnectsTotal.Inc()
}
