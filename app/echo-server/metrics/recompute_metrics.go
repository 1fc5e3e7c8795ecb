package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fatigue_recompute_duration_seconds",
		Help:    "Duration of the scheduled fatigue recompute job",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	RecomputeAdsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fatigue_recompute_ads_total",
		Help: "Total ads rescored by the recompute job",
	})

	RecomputeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fatigue_recompute_failures_total",
		Help: "How many recompute runs ended with an error",
	})
)

func Init() {
	prometheus.MustRegister(RecomputeDuration, RecomputeAdsTotal, RecomputeFailures)
}
