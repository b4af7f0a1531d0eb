package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every spec-hub collector; the HTTP server exposes it on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// CacheHitsTotal counts spec cache lookups that were served from a fresh entry.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spechub_cache_hits_total",
			Help: "Total number of spec cache lookups served from a fresh entry.",
		},
	)

	// CacheMissesTotal counts spec cache lookups that fell through to the remote store.
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spechub_cache_misses_total",
			Help: "Total number of spec cache lookups that missed (absent or expired).",
		},
	)

	// RemoteCallsTotal counts calls against the remote spec store.
	// op: list/fetch/commit/ratelimit, outcome: ok/error.
	RemoteCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spechub_remote_calls_total",
			Help: "Total number of remote spec store calls.",
		},
		[]string{"op", "outcome"},
	)

	// DeploysTotal counts deploy operations by final classification.
	DeploysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spechub_deploys_total",
			Help: "Total number of deploy operations by result kind.",
		},
		[]string{"kind"},
	)

	// RateLimitRemaining tracks the remote store's reported API quota.
	RateLimitRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "spechub_remote_rate_limit_remaining",
			Help: "Remaining API quota last reported by the remote spec store.",
		},
	)
)

func init() {
	Registry.MustRegister(CacheHitsTotal)
	Registry.MustRegister(CacheMissesTotal)
	Registry.MustRegister(RemoteCallsTotal)
	Registry.MustRegister(DeploysTotal)
	Registry.MustRegister(RateLimitRemaining)
}
