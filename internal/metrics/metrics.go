package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrus_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitrus_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoanQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrus_loan_quotes_total",
			Help: "Total number of EMI quotes by outcome",
		},
		[]string{"outcome"},
	)

	CatalogCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrus_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)

	ContactsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitrus_contacts_received_total",
			Help: "Total number of contact form submissions",
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitrus_notifications_total",
			Help: "Contact notifications by delivery result",
		},
		[]string{"result"},
	)

	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sitrus_notification_queue_depth",
			Help: "Contact submissions waiting for notification",
		},
	)
)
