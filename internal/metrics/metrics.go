package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpgradeRequestsTotal counts CreateRequest calls by outcome.
	UpgradeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "upgrades",
		Name:      "requests_total",
		Help:      "Upgrade requests by outcome.",
	}, []string{"outcome"})

	// UpgradeDecisionsTotal counts approve/reject calls by outcome.
	UpgradeDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "upgrades",
		Name:      "decisions_total",
		Help:      "Upgrade decisions by decision and outcome.",
	}, []string{"decision", "outcome"})

	AccountLockContentionTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "upgrades",
		Name:      "account_lock_contention_total",
		Help:      "Per-account lock acquisitions that timed out.",
	})

	// TxDuration tracks how long each upgrade transaction takes, lock wait included.
	TxDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "entitlements",
		Subsystem: "upgrades",
		Name:      "tx_duration_seconds",
		Help:      "Upgrade transaction duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "notify",
		Name:      "deliveries_total",
		Help:      "Notification deliveries by event and result.",
	}, []string{"event", "result"})
)
