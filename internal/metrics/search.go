package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeQuotaDenied = "quota_denied"
	OutcomeError       = "error"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuemusic",
			Name:      "search_requests_total",
			Help:      "Total number of sound searches",
		},
		[]string{"outcome"},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cuemusic",
			Name:      "search_candidates",
			Help:      "Number of sounds considered per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cuemusic",
			Name:      "search_results",
			Help:      "Number of sounds returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	QuotaDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cuemusic",
			Name:      "quota_decisions_total",
			Help:      "Quota gate decisions",
		},
		[]string{"decision"}, // "allowed" / "denied" / "warned" / "premium"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(QuotaDecisionsTotal)
	searchMetricsRegistered = true
}
