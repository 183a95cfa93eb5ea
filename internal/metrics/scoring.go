package metrics

import "github.com/prometheus/client_golang/prometheus"

// Extraction and scoring Prometheus metrics.
var (
	ExtractionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "extraction_duration_seconds",
			Help:      "Document extraction duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "scoring_duration_seconds",
			Help:      "Similarity scoring duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	ScoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "scores_total",
			Help:      "Completed scoring calls by assessment",
		},
		[]string{"assessment"},
	)

	SemanticFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "semantic_fallback_total",
			Help:      "Semantic providers skipped in favour of the next one",
		},
		[]string{"provider"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "analyses_total",
			Help:      "Analysis requests by status",
		},
		[]string{"status"}, // "ok" / "error"
	)
)

var scoringMetricsRegistered bool

// RegisterScoringMetrics registers extraction and scoring metrics. Must be called once from main.
func RegisterScoringMetrics() {
	if scoringMetricsRegistered {
		return
	}
	prometheus.MustRegister(ExtractionDuration)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(ScoresTotal)
	prometheus.MustRegister(SemanticFallbackTotal)
	prometheus.MustRegister(AnalysesTotal)
	scoringMetricsRegistered = true
}
