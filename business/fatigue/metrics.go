package fatigue

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FatigueReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fatigue_reports_total",
			Help: "Count of computed fatigue reports by status and creative format.",
		},
		[]string{"status", "format"},
	)

	FatigueFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fatigue_fallbacks_total",
			Help: "Count of scoring fallbacks taken for lack of data, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(FatigueReportsTotal, FatigueFallbacksTotal)
}
