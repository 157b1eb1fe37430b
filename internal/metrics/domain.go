package metrics

import "github.com/prometheus/client_golang/prometheus"

// Domain Prometheus metrics.
var (
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastebud",
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by outcome",
		},
		[]string{"outcome"}, // "success" / "invalid_credentials" / "error"
	)

	AuthDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tastebud",
			Name:      "auth_duration_seconds",
			Help:      "Credential verification duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastebud",
			Name:      "match_requests_total",
			Help:      "Total number of catalog match evaluations",
		},
		[]string{"kind"}, // "search" / "recommend"
	)

	MatchResultSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tastebud",
			Name:      "match_result_size",
			Help:      "Number of listings returned by a match evaluation",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)

	CatalogListings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tastebud",
			Name:      "catalog_listings",
			Help:      "Number of listings in the catalog after the last seed",
		},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers auth, match and catalog metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(AuthAttemptsTotal)
	prometheus.MustRegister(AuthDuration)
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchResultSize)
	prometheus.MustRegister(CatalogListings)
	domainMetricsRegistered = true
}

// ObserveMatch records one match evaluation and its result size.
func ObserveMatch(kind string, results int) {
	MatchRequestsTotal.WithLabelValues(kind).Inc()
	MatchResultSize.WithLabelValues(kind).Observe(float64(results))
}
