// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaintdesk_http_requests_total",
		Help: "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "complaintdesk_http_request_duration_seconds",
		Help:    "The HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ComplaintsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "complaintdesk_complaints_submitted_total",
		Help: "The total number of complaints submitted",
	})

	ComplaintStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaintdesk_complaint_status_changes_total",
		Help: "The total number of complaint status changes by new status",
	}, []string{"status"})

	ComplaintResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaintdesk_complaint_responses_total",
		Help: "The total number of complaint responses by responder role",
	}, []string{"role"})

	// StatsFetchTotal counts statistics API calls by endpoint and result (ok, error).
	StatsFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaintdesk_stats_fetch_total",
		Help: "The total number of statistics API fetches",
	}, []string{"endpoint", "result"})

	StatsCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaintdesk_stats_cache_hits_total",
		Help: "The total number of statistics served from cache",
	}, []string{"endpoint"})

	FeedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "complaintdesk_feed_clients",
		Help: "The number of connected live feed clients",
	})
)
