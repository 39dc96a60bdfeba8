// Package metrics exposes the Prometheus collectors used by the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campaign_naming"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query latency by operation and table.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "table"})

	integrationCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "integration_calls_total",
		Help:      "Outbound integration calls by integration and outcome.",
	}, []string{"integration", "outcome"})

	campaignsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_created_total",
		Help:      "Campaign creation attempts by final status.",
	}, []string{"status"})

	namePreviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "name_previews_total",
		Help:      "Name previews served by transport.",
	}, []string{"transport"})

	staleCampaigns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_campaigns_failed_total",
		Help:      "Pending campaigns marked failed by the sweeper.",
	})
)

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery observes the latency of a single SQL statement.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// RecordIntegration counts an outbound call; err decides the outcome label.
func RecordIntegration(integration string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	integrationCalls.WithLabelValues(integration, outcome).Inc()
}

// RecordCampaignCreated counts a finished create workflow.
func RecordCampaignCreated(status string) {
	campaignsCreated.WithLabelValues(status).Inc()
}

// RecordPreview counts a generated name preview.
func RecordPreview(transport string) {
	namePreviews.WithLabelValues(transport).Inc()
}

// RecordStaleCampaigns adds n swept campaigns.
func RecordStaleCampaigns(n int64) {
	if n > 0 {
		staleCampaigns.Add(float64(n))
	}
}
