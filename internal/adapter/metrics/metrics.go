package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckerMetrics holds all Prometheus metrics for the checker service.
type CheckerMetrics struct {
	ChecksTotal       *prometheus.CounterVec
	LookupsTotal      *prometheus.CounterVec
	QuotaRejections   *prometheus.CounterVec
	APIKeyCacheHits   prometheus.Counter
	APIKeyCacheMisses prometheus.Counter
}

// NewCheckerMetrics initializes and registers the Prometheus metrics.
func NewCheckerMetrics() *CheckerMetrics {
	return &CheckerMetrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomelo_checker",
			Subsystem: "check",
			Name:      "usernames_total",
			Help:      "Total number of checked usernames by outcome label.",
		}, []string{"label"}), // label: available, taken, rate_limited, token_invalid, error
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomelo_checker",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Total number of user lookups by outcome.",
		}, []string{"outcome"}), // outcome: ok, not_found, upstream_error, error
		QuotaRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomelo_checker",
			Subsystem: "quota",
			Name:      "rejections_total",
			Help:      "Total number of gated requests rejected by quota controls.",
		}, []string{"reason"}), // reason: interval, daily_limit
		APIKeyCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pomelo_checker",
			Subsystem: "auth",
			Name:      "api_key_cache_hits_total",
			Help:      "Total number of API key cache hits.",
		}),
		APIKeyCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pomelo_checker",
			Subsystem: "auth",
			Name:      "api_key_cache_misses_total",
			Help:      "Total number of API key cache misses.",
		}),
	}
}
