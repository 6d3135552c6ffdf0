package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chathub Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chathub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chathub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Turn counters
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chathub",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total chat turns by outcome",
		},
		[]string{"outcome"},
	)

	// Turn duration histogram
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chathub",
			Subsystem: "chat",
			Name:      "turn_duration_seconds",
			Help:      "Full turn duration from send to idle in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	// Streamed chunk counter
	StreamChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chathub",
			Subsystem: "chat",
			Name:      "stream_chunks_total",
			Help:      "Total streamed chunks by type",
		},
		[]string{"type"},
	)

	// Enrichment counter
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chathub",
			Subsystem: "enrichment",
			Name:      "calls_total",
			Help:      "Total enrichment calls by kind and status",
		},
		[]string{"kind", "status"},
	)

	// DB query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chathub",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"query_type"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordTurn records a completed chat turn
func RecordTurn(outcome string, durationSec float64) {
	TurnsTotal.WithLabelValues(outcome).Inc()
	TurnDuration.WithLabelValues(outcome).Observe(durationSec)
}

// RecordStreamChunk records one streamed chunk
func RecordStreamChunk(chunkType string) {
	StreamChunksTotal.WithLabelValues(chunkType).Inc()
}

// RecordEnrichment records an enrichment call
func RecordEnrichment(kind, status string) {
	EnrichmentTotal.WithLabelValues(kind, status).Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(queryType string, durationSec float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(durationSec)
}
