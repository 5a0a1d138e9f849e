package metrics

import "github.com/prometheus/client_golang/prometheus"

// Generative-model Prometheus metrics.
var (
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compostmatch",
			Name:      "model_requests_total",
			Help:      "Total number of generative-model requests",
		},
		[]string{"model", "operation", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "compostmatch",
			Name:      "model_request_duration_seconds",
			Help:      "Generative-model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model", "operation"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compostmatch",
			Name:      "model_tokens_total",
			Help:      "Total model tokens consumed",
		},
		[]string{"model", "type"},
	)

	ModelErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compostmatch",
			Name:      "model_errors_total",
			Help:      "Total generative-model errors",
		},
		[]string{"model", "error_type"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compostmatch",
			Name:      "search_fallback_total",
			Help:      "Searches answered by the deterministic fallback scorer",
		},
		[]string{"reason"}, // "no_model" / "model_error" / "parse_error"
	)
)

var modelMetricsRegistered bool

// RegisterModelMetrics registers Prometheus model metrics. Must be called once from main.
func RegisterModelMetrics() {
	if modelMetricsRegistered {
		return
	}
	prometheus.MustRegister(ModelRequestsTotal)
	prometheus.MustRegister(ModelRequestDuration)
	prometheus.MustRegister(ModelTokensTotal)
	prometheus.MustRegister(ModelErrorsTotal)
	prometheus.MustRegister(SearchFallbackTotal)
	modelMetricsRegistered = true
}
