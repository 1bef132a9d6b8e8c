// Package metrics holds the prometheus collectors exported on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Auth metrics
	PasscodesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedash_passcodes_issued_total",
		Help: "The total number of one time passcodes issued",
	})
	PasscodeRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedash_passcode_rejections_total",
		Help: "The total number of passcode verifications that failed",
	})
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedash_sessions_created_total",
		Help: "The total number of sessions created",
	})
	ExpiredRowsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamedash_expired_rows_purged_total",
		Help: "The total number of expired passcodes and sessions removed by the cleanup job",
	})

	// Analytics metrics
	PlayerCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedash_player_cache_hits_total",
		Help: "Analytics requests answered from stored player data",
	}, []string{"game"})
	PlayerCacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedash_player_cache_misses_total",
		Help: "Analytics requests that had to call the upstream game API",
	}, []string{"game"})
	UpstreamFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedash_upstream_fetch_errors_total",
		Help: "Upstream game API calls that failed or found no player",
	}, []string{"game"})
	UpstreamFetchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamedash_upstream_fetch_latency_seconds",
		Help:    "Latency of upstream game API fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"game"})
	PlayerRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedash_player_refreshes_total",
		Help: "The total number of successful player refreshes",
	}, []string{"game"})
)
