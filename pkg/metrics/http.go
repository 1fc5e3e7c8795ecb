package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the API handlers, by route
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fatigue_http_request_duration_seconds",
		Help:    "Latency of fatigue API handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Total number of API requests served
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fatigue_http_requests_total",
		Help: "Total number of fatigue API requests",
	}, []string{"method", "route", "status"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
