package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests tracks HTTP calls made to registrar backends
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regctl_provider_requests_total",
		Help: "Total number of HTTP requests to registrar APIs",
	}, []string{"registrar", "outcome"})

	// ProviderRequestDuration tracks registrar round-trip time
	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "regctl_provider_request_duration_seconds",
		Help:    "Histogram of registrar API request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"registrar"})

	// SyncInserted counts domains inserted by sync passes
	SyncInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regctl_sync_domains_inserted_total",
		Help: "Total number of domains inserted by provider sync",
	}, []string{"registrar"})

	// DualWriteRollbacks counts compensating deletes fired on create failures
	DualWriteRollbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "regctl_dualwrite_rollbacks_total",
		Help: "Total number of compensating local deletes after a failed remote call",
	})

	// DualWriteOrphans counts rollbacks that themselves failed, leaving
	// a local row with no remote counterpart
	DualWriteOrphans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "regctl_dualwrite_orphans_total",
		Help: "Total number of failed rollbacks leaving orphaned local state",
	})

	// WebhookEnqueueFailures counts events that could not be enqueued
	WebhookEnqueueFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "regctl_webhook_enqueue_failures_total",
		Help: "Total number of webhook events that failed to enqueue",
	})

	// DBConnectionsActive tracks open database connections
	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "regctl_db_connections_active",
		Help: "Number of active database connections",
	})
)
