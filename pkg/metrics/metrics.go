package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// XPGrants records experience point grants by reason.
	XPGrants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edusprout_xp_grants_total",
			Help: "Total number of XP grants",
		},
		[]string{"reason"},
	)

	// BadgeUnlocks counts badge unlock events by badge id.
	BadgeUnlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edusprout_badge_unlocks_total",
			Help: "Total number of badge unlocks",
		},
		[]string{"badge"},
	)

	// NotificationsCreated counts persisted notifications by type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edusprout_notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// ApplicationsSubmitted counts recorded job applications.
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edusprout_applications_submitted_total",
			Help: "Total number of job applications recorded",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edusprout_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
