// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_swipes_total",
			Help: "Judgments recorded, by outcome and whether the row was new",
		},
		[]string{"outcome", "created"},
	)

	ChannelsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_channels_created_total",
			Help: "Match channels opened on a like",
		},
	)

	ChannelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_channel_failures_total",
			Help: "Likes that did not produce a channel",
		},
		[]string{"reason"}, // "no_owner", "store"
	)

	FeedEmpty = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_feed_empty_total",
			Help: "Next-card requests with no eligible candidate left",
		},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petmatch_recommendation_duration_seconds",
			Help:    "Time to rank the eligible pool",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"regime"}, // "hybrid", "explicit", "implicit", "fallback"
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petmatch_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordSwipe counts one judgment write
func RecordSwipe(outcome string, created bool) {
	SwipesTotal.WithLabelValues(outcome, strconv.FormatBool(created)).Inc()
}

// RecordHTTPRequest records one finished request
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
