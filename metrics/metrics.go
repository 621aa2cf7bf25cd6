package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dairy_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency by method and route
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dairy_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LedgerDeltas counts dues mutations by ledger entry kind
	LedgerDeltas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dairy_ledger_deltas_total",
		Help: "Dues mutations applied, by ledger entry kind",
	}, []string{"kind"})

	// OrdersSkipped counts saved orders dropped because the customer was unknown
	OrdersSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dairy_orders_skipped_total",
		Help: "Orders skipped during bulk save because the customer does not exist",
	})
)
