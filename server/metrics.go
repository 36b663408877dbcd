package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialfeed_http_request_duration_seconds",
		Help:    "Latency of HTTP requests by method, route and status",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // Start at 0.5ms, double each bucket, 12 buckets
	}, []string{"method", "route", "status"})

	interactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_interactions_total",
		Help: "The total number of applied likes, unlikes, comments and shares",
	}, []string{"kind"})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "socialfeed_sse_clients",
		Help: "The current number of clients subscribed to the interaction stream",
	})
)
